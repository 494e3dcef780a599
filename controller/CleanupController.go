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
	"net/http"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/service"
	"github.com/qubership-export/delay-export-service/view"
)

type CleanupController interface {
	CleanupExpiredExports(w http.ResponseWriter, r *http.Request)
}

func NewCleanupController(cleanupService service.DelayExportCleanupService) CleanupController {
	return &cleanupControllerImpl{
		cleanupService: cleanupService,
	}
}

type cleanupControllerImpl struct {
	cleanupService service.DelayExportCleanupService
}

func (c cleanupControllerImpl) CleanupExpiredExports(w http.ResponseWriter, r *http.Request) {
	if !context.Create(r).IsSystemAdmin() {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
		})
		return
	}
	deleted, err := c.cleanupService.CleanupExpired(r.Context())
	if err != nil {
		RespondWithError(w, "Failed to clean up expired exports", err)
		return
	}
	RespondWithJson(w, http.StatusOK, view.DelayExportCleanupResult{DeletedExports: deleted})
}
