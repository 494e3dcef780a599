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
	"errors"
	"io"
	"net/http"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/service"
	"github.com/qubership-export/delay-export-service/utils"
	"github.com/qubership-export/delay-export-service/view"
)

type PersonalAccessTokenController interface {
	CreatePAT(w http.ResponseWriter, r *http.Request)
	ListPATs(w http.ResponseWriter, r *http.Request)
	DeletePAT(w http.ResponseWriter, r *http.Request)
}

func NewPersonalAccessTokenController(svc service.PersonalAccessTokenService) PersonalAccessTokenController {
	return &personalAccessTokenControllerImpl{
		svc: svc,
	}
}

type personalAccessTokenControllerImpl struct {
	svc service.PersonalAccessTokenService
}

func (u personalAccessTokenControllerImpl) CreatePAT(w http.ResponseWriter, r *http.Request) {
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
	var req view.PersonalAccessTokenCreateRequest
	err = json.Unmarshal(body, &req)
	if err != nil {
		RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.BadRequestBody,
			Message: exception.BadRequestBodyMsg,
			Debug:   err.Error(),
		})
		return
	}
	validationErr := utils.ValidateObject(req)
	if validationErr != nil {
		var customError *exception.CustomError
		if errors.As(validationErr, &customError) {
			RespondWithCustomError(w, customError)
			return
		}
	}

	resp, err := u.svc.CreatePAT(context.Create(r), req)
	if err != nil {
		RespondWithError(w, "Failed to create personal access token", err)
		return
	}
	RespondWithJson(w, http.StatusCreated, resp)
}

func (u personalAccessTokenControllerImpl) ListPATs(w http.ResponseWriter, r *http.Request) {
	result, err := u.svc.ListPATs(context.Create(r).GetUserId())
	if err != nil {
		RespondWithError(w, "Failed to list personal access tokens", err)
		return
	}
	RespondWithJson(w, http.StatusOK, result)
}

func (u personalAccessTokenControllerImpl) DeletePAT(w http.ResponseWriter, r *http.Request) {
	id := getStringParam(r, "id")
	err := u.svc.DeletePAT(context.Create(r), id)
	if err != nil {
		RespondWithError(w, "Failed to delete personal access token", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
