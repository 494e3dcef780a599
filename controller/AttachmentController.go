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
	"fmt"
	"net/http"
	"strconv"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/service"
)

type AttachmentController interface {
	DownloadAttachment(w http.ResponseWriter, r *http.Request)
}

func NewAttachmentController(delayExportService service.DelayExportService) AttachmentController {
	return &attachmentControllerImpl{delayExportService: delayExportService}
}

type attachmentControllerImpl struct {
	delayExportService service.DelayExportService
}

func (a attachmentControllerImpl) DownloadAttachment(w http.ResponseWriter, r *http.Request) {
	attachmentId, customErr := getInt64Param(r, "attachmentId")
	if customErr != nil {
		RespondWithCustomError(w, customErr)
		return
	}
	name := getStringParam(r, "name")
	content, err := a.delayExportService.DownloadAttachment(context.Create(r), attachmentId, name)
	if err != nil {
		RespondWithError(w, "Failed to download attachment", err)
		return
	}
	contentType := content.Mimetype
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if download, _ := strconv.ParseBool(r.URL.Query().Get("download")); download {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%v"`, content.Name))
	} else {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%v"`, content.Name))
	}
	w.Header().Set("Content-Length", strconv.Itoa(len(content.Data)))
	w.Header().Set("Expires", "0")
	w.WriteHeader(http.StatusOK)
	w.Write(content.Data)
}
