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

package repository

import (
	"context"
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/qubership-export/delay-export-service/db"
	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/view"
)

const MaxTaskRestarts = 2

const taskKeepaliveTimeoutSec = 600

var queryTaskToTake = fmt.Sprintf("select * from export_task t where "+
	"t.status='%s' or (t.status='%s' and t.last_active < (now() - interval '%d seconds')) "+
	"order by t.created_at ASC limit 1 for no key update skip locked",
	view.TaskStatusNotStarted, view.TaskStatusRunning, taskKeepaliveTimeoutSec)

type ExportTaskRepository interface {
	StoreTask(ctx context.Context, ent *entity.ExportTaskEntity) error
	FindAndTakeFreeTask(ctx context.Context, workerId string) (*entity.ExportTaskEntity, error)
	UpdateTaskStatus(taskId string, status view.TaskStatusEnum, details string) error
	RequeueTask(taskId string, details string) error
	KeepaliveTask(ctx context.Context, taskId string, workerId string) error
	GetTask(taskId string) (*entity.ExportTaskEntity, error)
	CountTasksByStatus(status view.TaskStatusEnum) (int, error)
}

func NewExportTaskRepository(cp db.ConnectionProvider) ExportTaskRepository {
	return &exportTaskRepositoryImpl{cp: cp}
}

type exportTaskRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (e exportTaskRepositoryImpl) StoreTask(ctx context.Context, ent *entity.ExportTaskEntity) error {
	_, err := e.cp.GetConnection().WithContext(ctx).Model(ent).Insert()
	return err
}

// FindAndTakeFreeTask locks the oldest pending task, or a running one whose worker stopped
// reporting, and assigns it to the worker. Tasks restarted too many times are marked as failed
// and skipped. Returns nil when the queue is empty.
func (e exportTaskRepositoryImpl) FindAndTakeFreeTask(ctx context.Context, workerId string) (*entity.ExportTaskEntity, error) {
	var result *entity.ExportTaskEntity
	var err error
	for {
		taskFailed := false
		result = nil
		err = e.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
			var ents []entity.ExportTaskEntity
			_, err := tx.Query(&ents, queryTaskToTake)
			if err != nil {
				if err == pg.ErrNoRows {
					return nil
				}
				return fmt.Errorf("failed to find free export task: %w", err)
			}
			if len(ents) == 0 {
				return nil
			}
			candidate := &ents[0]
			if candidate.RestartCount >= MaxTaskRestarts && candidate.Status == string(view.TaskStatusRunning) {
				_, err := tx.Model(candidate).
					Where("task_id = ?", candidate.TaskId).
					Set("status = ?", view.TaskStatusError).
					Set("details = ?", fmt.Sprintf("Restart count exceeded limit. Details: %v", candidate.Details)).
					Set("last_active = now()").
					Update()
				if err != nil {
					return err
				}
				taskFailed = true
				return nil
			}
			if candidate.Status != string(view.TaskStatusNotStarted) {
				candidate.RestartCount += 1
			}
			candidate.Status = string(view.TaskStatusRunning)
			candidate.WorkerId = workerId
			_, err = tx.Model(candidate).
				Set("status = ?status").
				Set("worker_id = ?worker_id").
				Set("restart_count = ?restart_count").
				Set("last_active = now()").
				Where("task_id = ?", candidate.TaskId).
				Update()
			if err != nil {
				return fmt.Errorf("unable to update export task status during take: %w", err)
			}
			result = candidate
			return nil
		})
		if taskFailed {
			continue
		}
		break
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e exportTaskRepositoryImpl) UpdateTaskStatus(taskId string, status view.TaskStatusEnum, details string) error {
	var ent entity.ExportTaskEntity
	res, err := e.cp.GetConnection().Model(&ent).
		Where("task_id = ?", taskId).
		Set("status = ?", status).
		Set("details = ?", details).
		Set("last_active = now()").
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("export task %s not found", taskId)
	}
	return nil
}

// RequeueTask puts a failed task back to the queue and counts the restart.
func (e exportTaskRepositoryImpl) RequeueTask(taskId string, details string) error {
	var ent entity.ExportTaskEntity
	res, err := e.cp.GetConnection().Model(&ent).
		Where("task_id = ?", taskId).
		Set("status = ?", view.TaskStatusNotStarted).
		Set("details = ?", details).
		Set("worker_id = ''").
		Set("restart_count = restart_count + 1").
		Set("last_active = now()").
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("export task %s not found", taskId)
	}
	return nil
}

// KeepaliveTask prolongs the lease of a running task so that other workers do not re-take it.
func (e exportTaskRepositoryImpl) KeepaliveTask(ctx context.Context, taskId string, workerId string) error {
	var ent entity.ExportTaskEntity
	res, err := e.cp.GetConnection().WithContext(ctx).Model(&ent).
		Where("task_id = ?", taskId).
		Where("worker_id = ?", workerId).
		Where("status = ?", view.TaskStatusRunning).
		Set("last_active = now()").
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return fmt.Errorf("export task %s is not running on worker %s", taskId, workerId)
	}
	return nil
}

func (e exportTaskRepositoryImpl) GetTask(taskId string) (*entity.ExportTaskEntity, error) {
	result := new(entity.ExportTaskEntity)
	err := e.cp.GetConnection().Model(result).
		Where("task_id = ?", taskId).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (e exportTaskRepositoryImpl) CountTasksByStatus(status view.TaskStatusEnum) (int, error) {
	return e.cp.GetConnection().Model((*entity.ExportTaskEntity)(nil)).
		Where("status = ?", status).
		Count()
}
