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

package controller

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/service"
	"github.com/qubership-export/delay-export-service/view"
)

type DelayExportController interface {
	DelayExport(w http.ResponseWriter, r *http.Request)
	GetExportTask(w http.ResponseWriter, r *http.Request)
	ListExports(w http.ResponseWriter, r *http.Request)
}

func NewDelayExportController(delayExportService service.DelayExportService) DelayExportController {
	return &delayExportControllerImpl{delayExportService: delayExportService}
}

type delayExportControllerImpl struct {
	delayExportService service.DelayExportService
}

// DelayExport accepts either {"data": "<serialized params>"} as sent by the web client or the params object itself.
func (d delayExportControllerImpl) DelayExport(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	rawParams := string(body)
	var req view.DelayExportReq
	if err = json.Unmarshal(body, &req); err == nil && req.Data != "" {
		rawParams = req.Data
	}
	handle, err := d.delayExportService.DelayExport(context.Create(r), rawParams)
	if err != nil {
		RespondWithError(w, "Failed to queue export", err)
		return
	}
	RespondWithJson(w, http.StatusAccepted, handle)
}

func (d delayExportControllerImpl) GetExportTask(w http.ResponseWriter, r *http.Request) {
	taskId := getStringParam(r, "taskId")
	task, err := d.delayExportService.GetTask(context.Create(r), taskId)
	if err != nil {
		RespondWithError(w, "Failed to get export task", err)
		return
	}
	RespondWithJson(w, http.StatusOK, task)
}

func (d delayExportControllerImpl) ListExports(w http.ResponseWriter, r *http.Request) {
	exports, err := d.delayExportService.ListUserExports(context.Create(r))
	if err != nil {
		RespondWithError(w, "Failed to list exports", err)
		return
	}
	RespondWithJson(w, http.StatusOK, exports)
}
