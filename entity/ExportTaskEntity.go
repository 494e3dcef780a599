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

package entity

import (
	"time"

	"github.com/qubership-export/delay-export-service/view"
)

type ExportTaskEntity struct {
	tableName struct{} `pg:"export_task"`

	TaskId       string            `pg:"task_id, pk, type:varchar"`
	UserId       int64             `pg:"user_id, type:bigint"`
	Payload      view.ExportParams `pg:"payload, type:json"`
	Status       string            `pg:"status, type:varchar"`
	Details      string            `pg:"details, type:varchar"`
	WorkerId     string            `pg:"worker_id, type:varchar"`
	RestartCount int               `pg:"restart_count, use_zero, type:integer"`
	CreatedAt    time.Time         `pg:"created_at, type:timestamp without time zone"`
	LastActive   time.Time         `pg:"last_active, type:timestamp without time zone"`
}

func MakeExportTaskView(ent *ExportTaskEntity) *view.ExportTask {
	return &view.ExportTask{
		TaskId:       ent.TaskId,
		UserId:       ent.UserId,
		Params:       ent.Payload,
		Status:       view.TaskStatusEnum(ent.Status),
		RestartCount: ent.RestartCount,
		CreatedAt:    ent.CreatedAt,
	}
}

func MakeExportTaskStatusView(ent *ExportTaskEntity) *view.ExportTaskStatus {
	return &view.ExportTaskStatus{
		TaskId:       ent.TaskId,
		UserId:       ent.UserId,
		Status:       view.TaskStatusEnum(ent.Status),
		Details:      ent.Details,
		RestartCount: ent.RestartCount,
		CreatedAt:    ent.CreatedAt,
		LastActive:   ent.LastActive,
	}
}
