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

package view

import "time"

type TaskStatusEnum string

const (
	TaskStatusNotStarted TaskStatusEnum = "none"
	TaskStatusRunning    TaskStatusEnum = "running"
	TaskStatusComplete   TaskStatusEnum = "complete"
	TaskStatusError      TaskStatusEnum = "error"
)

const (
	QueueBackendPostgres = "postgres"
	QueueBackendRedis    = "redis"
)

type TaskHandle struct {
	TaskId string `json:"taskId"`
}

type ExportTask struct {
	TaskId       string
	UserId       int64
	Params       ExportParams
	Status       TaskStatusEnum
	RestartCount int
	CreatedAt    time.Time
}

type ExportTaskStatus struct {
	TaskId       string         `json:"taskId"`
	UserId       int64          `json:"userId"`
	Status       TaskStatusEnum `json:"status"`
	Details      string         `json:"details,omitempty"`
	RestartCount int            `json:"restartCount"`
	CreatedAt    time.Time      `json:"createdAt"`
	LastActive   time.Time      `json:"lastActive"`
}
