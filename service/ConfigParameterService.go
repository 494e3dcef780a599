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
	"net/http"
	"strconv"
	"strings"

	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
)

type ConfigParameterService interface {
	GetParam(key string) (string, bool, error)
	SetParam(key string, value string) error
	GetWebBaseUrl() (string, error)
	GetAttachmentTtlDays() (int, error)
}

func NewConfigParameterService(repo repository.ConfigParameterRepository) ConfigParameterService {
	return &configParameterServiceImpl{repo: repo}
}

type configParameterServiceImpl struct {
	repo repository.ConfigParameterRepository
}

func (c configParameterServiceImpl) GetParam(key string) (string, bool, error) {
	ent, err := c.repo.GetParam(key)
	if err != nil {
		return "", false, err
	}
	if ent == nil {
		return "", false, nil
	}
	return ent.Value, true, nil
}

func (c configParameterServiceImpl) SetParam(key string, value string) error {
	log.Debugf("Setting system parameter %s to '%s'", key, value)
	return c.repo.SetParam(key, value)
}

func (c configParameterServiceImpl) GetWebBaseUrl() (string, error) {
	value, exists, err := c.GetParam(view.WebBaseUrlParam)
	if err != nil {
		return "", err
	}
	if !exists || value == "" {
		return "", &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.ConfigParameterMissing,
			Message: exception.ConfigParameterMissingMsg,
			Params:  map[string]interface{}{"key": view.WebBaseUrlParam},
		}
	}
	return value, nil
}

// GetAttachmentTtlDays returns attachment.ttl, or the default when it is not set.
func (c configParameterServiceImpl) GetAttachmentTtlDays() (int, error) {
	value, exists, err := c.GetParam(view.AttachmentTtlParam)
	if err != nil {
		return 0, err
	}
	if !exists || strings.TrimSpace(value) == "" {
		return view.DefaultAttachmentTtlDays, nil
	}
	ttl, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.IncorrectParamType,
			Message: exception.IncorrectParamTypeMsg,
			Params:  map[string]interface{}{"param": view.AttachmentTtlParam, "type": "int"},
			Debug:   err.Error(),
		}
	}
	return ttl, nil
}
