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

package context

import "context"

type contextKey string

const securityKey contextKey = "security"
const exportTaskKey contextKey = "exportTask"

func CreateContextWithSecurity(ctx context.Context, secCtx SecurityContext) context.Context {
	return context.WithValue(ctx, securityKey, secCtx)
}

func GetSecurityContext(ctx context.Context) SecurityContext {
	secCtx, ok := ctx.Value(securityKey).(SecurityContext)
	if !ok {
		return nil
	}
	return secCtx
}

// CreateContextWithExportTask marks ctx as running on behalf of the given export task.
func CreateContextWithExportTask(ctx context.Context, taskId string) context.Context {
	return context.WithValue(ctx, exportTaskKey, taskId)
}

func GetExportTaskId(ctx context.Context) string {
	taskId, _ := ctx.Value(exportTaskKey).(string)
	return taskId
}
