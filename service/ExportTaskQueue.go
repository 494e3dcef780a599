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
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
)

// ExportTaskQueue delivers each submitted export to a worker at least once.
type ExportTaskQueue interface {
	Submit(ctx context.Context, userId int64, params view.ExportParams) (*view.TaskHandle, error)
	// Take returns the next task for the worker, or nil when there is nothing to do.
	Take(ctx context.Context, workerId string) (*view.ExportTask, error)
	Complete(ctx context.Context, taskId string) error
	// Keepalive is called periodically while the worker runs the task.
	Keepalive(ctx context.Context, taskId string, workerId string) error
	// Fail puts the task back to the queue while restarts remain, otherwise marks it as failed.
	Fail(ctx context.Context, taskId string, details string) error
	GetTask(ctx context.Context, taskId string) (*view.ExportTaskStatus, error)
	CountByStatus(ctx context.Context, status view.TaskStatusEnum) (int, error)
}

func NewExportTaskQueuePG(repo repository.ExportTaskRepository) ExportTaskQueue {
	return &exportTaskQueuePGImpl{repo: repo}
}

type exportTaskQueuePGImpl struct {
	repo repository.ExportTaskRepository
}

func (e exportTaskQueuePGImpl) Submit(ctx context.Context, userId int64, params view.ExportParams) (*view.TaskHandle, error) {
	now := time.Now()
	ent := &entity.ExportTaskEntity{
		TaskId:     uuid.New().String(),
		UserId:     userId,
		Payload:    params,
		Status:     string(view.TaskStatusNotStarted),
		CreatedAt:  now,
		LastActive: now,
	}
	if err := e.repo.StoreTask(ctx, ent); err != nil {
		return nil, fmt.Errorf("failed to store export task: %w", err)
	}
	log.Debugf("Export task %s of model %s submitted by user %d", ent.TaskId, params.Model, userId)
	return &view.TaskHandle{TaskId: ent.TaskId}, nil
}

func (e exportTaskQueuePGImpl) Take(ctx context.Context, workerId string) (*view.ExportTask, error) {
	ent, err := e.repo.FindAndTakeFreeTask(ctx, workerId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, nil
	}
	return entity.MakeExportTaskView(ent), nil
}

func (e exportTaskQueuePGImpl) Complete(ctx context.Context, taskId string) error {
	return e.repo.UpdateTaskStatus(taskId, view.TaskStatusComplete, "")
}

func (e exportTaskQueuePGImpl) Keepalive(ctx context.Context, taskId string, workerId string) error {
	return e.repo.KeepaliveTask(ctx, taskId, workerId)
}

func (e exportTaskQueuePGImpl) Fail(ctx context.Context, taskId string, details string) error {
	ent, err := e.repo.GetTask(taskId)
	if err != nil {
		return err
	}
	if ent == nil {
		return fmt.Errorf("export task %s not found", taskId)
	}
	if ent.RestartCount < repository.MaxTaskRestarts {
		return e.repo.RequeueTask(taskId, details)
	}
	return e.repo.UpdateTaskStatus(taskId, view.TaskStatusError, details)
}

func (e exportTaskQueuePGImpl) GetTask(ctx context.Context, taskId string) (*view.ExportTaskStatus, error) {
	ent, err := e.repo.GetTask(taskId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, exportTaskNotFoundError(taskId)
	}
	return entity.MakeExportTaskStatusView(ent), nil
}

func (e exportTaskQueuePGImpl) CountByStatus(ctx context.Context, status view.TaskStatusEnum) (int, error) {
	return e.repo.CountTasksByStatus(status)
}

func exportTaskNotFoundError(taskId string) error {
	return &exception.CustomError{
		Status:  http.StatusNotFound,
		Code:    exception.ExportTaskNotFound,
		Message: exception.ExportTaskNotFoundMsg,
		Params:  map[string]interface{}{"taskId": taskId},
	}
}
