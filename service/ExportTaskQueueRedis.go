// Copyright 2024-2025 NetCracker Technology Corporation
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/view"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const (
	redisQueueKey      = "delay_export:queue"
	redisTaskKeyPrefix = "delay_export:task:"
	redisTaskTtl       = time.Hour * 24 * 7
)

type redisExportTask struct {
	TaskId       string              `json:"taskId"`
	UserId       int64               `json:"userId"`
	Params       view.ExportParams   `json:"params"`
	Status       view.TaskStatusEnum `json:"status"`
	Details      string              `json:"details,omitempty"`
	WorkerId     string              `json:"workerId,omitempty"`
	RestartCount int                 `json:"restartCount"`
	CreatedAt    time.Time           `json:"createdAt"`
	LastActive   time.Time           `json:"lastActive"`
}

// NewRedisClient connects to redis and checks the connection.
func NewRedisClient(creds *view.RedisCreds) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     creds.Addr,
		Password: creds.Password,
		DB:       creds.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cannot connect to Redis at %s: %w", creds.Addr, err)
	}
	return rdb, nil
}

// NewExportTaskQueueRedis keeps pending task ids in a list and each task as a JSON value with a TTL.
// Tasks taken by a worker that dies are not re-delivered.
func NewExportTaskQueueRedis(client *redis.Client) ExportTaskQueue {
	return &exportTaskQueueRedisImpl{client: client}
}

type exportTaskQueueRedisImpl struct {
	client *redis.Client
}

func (e exportTaskQueueRedisImpl) Submit(ctx context.Context, userId int64, params view.ExportParams) (*view.TaskHandle, error) {
	now := time.Now()
	task := &redisExportTask{
		TaskId:     uuid.New().String(),
		UserId:     userId,
		Params:     params,
		Status:     view.TaskStatusNotStarted,
		CreatedAt:  now,
		LastActive: now,
	}
	if err := e.saveTask(ctx, task); err != nil {
		return nil, err
	}
	if err := e.client.LPush(ctx, redisQueueKey, task.TaskId).Err(); err != nil {
		return nil, fmt.Errorf("failed to push export task %s: %w", task.TaskId, err)
	}
	log.Debugf("Export task %s of model %s submitted by user %d", task.TaskId, params.Model, userId)
	return &view.TaskHandle{TaskId: task.TaskId}, nil
}

func (e exportTaskQueueRedisImpl) Take(ctx context.Context, workerId string) (*view.ExportTask, error) {
	for {
		taskId, err := e.client.RPop(ctx, redisQueueKey).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to pop export task: %w", err)
		}
		task, err := e.loadTask(ctx, taskId)
		if err != nil {
			return nil, err
		}
		if task == nil {
			log.Warnf("Export task %s expired before it was taken", taskId)
			continue
		}
		task.Status = view.TaskStatusRunning
		task.WorkerId = workerId
		task.LastActive = time.Now()
		if err = e.saveTask(ctx, task); err != nil {
			return nil, err
		}
		return &view.ExportTask{
			TaskId:       task.TaskId,
			UserId:       task.UserId,
			Params:       task.Params,
			Status:       task.Status,
			RestartCount: task.RestartCount,
			CreatedAt:    task.CreatedAt,
		}, nil
	}
}

func (e exportTaskQueueRedisImpl) Complete(ctx context.Context, taskId string) error {
	return e.updateTask(ctx, taskId, func(task *redisExportTask) {
		task.Status = view.TaskStatusComplete
		task.Details = ""
	})
}

func (e exportTaskQueueRedisImpl) Keepalive(ctx context.Context, taskId string, workerId string) error {
	var taskErr error
	err := e.updateTask(ctx, taskId, func(task *redisExportTask) {
		if task.Status != view.TaskStatusRunning || task.WorkerId != workerId {
			taskErr = fmt.Errorf("export task %s is not running on worker %s", taskId, workerId)
		}
	})
	if err != nil {
		return err
	}
	return taskErr
}

func (e exportTaskQueueRedisImpl) Fail(ctx context.Context, taskId string, details string) error {
	requeue := false
	err := e.updateTask(ctx, taskId, func(task *redisExportTask) {
		task.Details = details
		if task.RestartCount < repository.MaxTaskRestarts {
			task.RestartCount += 1
			task.Status = view.TaskStatusNotStarted
			task.WorkerId = ""
			requeue = true
		} else {
			task.Status = view.TaskStatusError
		}
	})
	if err != nil {
		return err
	}
	if requeue {
		return e.client.LPush(ctx, redisQueueKey, taskId).Err()
	}
	return nil
}

func (e exportTaskQueueRedisImpl) GetTask(ctx context.Context, taskId string) (*view.ExportTaskStatus, error) {
	task, err := e.loadTask(ctx, taskId)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, exportTaskNotFoundError(taskId)
	}
	return &view.ExportTaskStatus{
		TaskId:       task.TaskId,
		UserId:       task.UserId,
		Status:       task.Status,
		Details:      task.Details,
		RestartCount: task.RestartCount,
		CreatedAt:    task.CreatedAt,
		LastActive:   task.LastActive,
	}, nil
}

// CountByStatus only tracks pending tasks, the other statuses are not indexed.
func (e exportTaskQueueRedisImpl) CountByStatus(ctx context.Context, status view.TaskStatusEnum) (int, error) {
	if status != view.TaskStatusNotStarted {
		return 0, nil
	}
	size, err := e.client.LLen(ctx, redisQueueKey).Result()
	return int(size), err
}

func (e exportTaskQueueRedisImpl) updateTask(ctx context.Context, taskId string, update func(task *redisExportTask)) error {
	task, err := e.loadTask(ctx, taskId)
	if err != nil {
		return err
	}
	if task == nil {
		return fmt.Errorf("export task %s not found", taskId)
	}
	update(task)
	task.LastActive = time.Now()
	return e.saveTask(ctx, task)
}

func (e exportTaskQueueRedisImpl) loadTask(ctx context.Context, taskId string) (*redisExportTask, error) {
	data, err := e.client.Get(ctx, redisTaskKey(taskId)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get export task %s: %w", taskId, err)
	}
	task := new(redisExportTask)
	if err = json.Unmarshal(data, task); err != nil {
		return nil, fmt.Errorf("failed to decode export task %s: %w", taskId, err)
	}
	return task, nil
}

func (e exportTaskQueueRedisImpl) saveTask(ctx context.Context, task *redisExportTask) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	if err = e.client.Set(ctx, redisTaskKey(task.TaskId), data, redisTaskTtl).Err(); err != nil {
		return fmt.Errorf("failed to save export task %s: %w", task.TaskId, err)
	}
	return nil
}

func redisTaskKey(taskId string) string {
	return redisTaskKeyPrefix + taskId
}
