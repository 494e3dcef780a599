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

	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/view"
)

type UserService interface {
	GetUserFromDB(userId int64) (*view.User, error)
	GetUserByRef(ref string) (*view.User, error)
}

func NewUserService(repo repository.UserRepository) UserService {
	return &usersServiceImpl{repo: repo}
}

type usersServiceImpl struct {
	repo repository.UserRepository
}

func (u usersServiceImpl) GetUserFromDB(userId int64) (*view.User, error) {
	ent, err := u.repo.GetUserById(userId)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, nil
	}
	return entity.MakeUserView(ent), nil
}

func (u usersServiceImpl) GetUserByRef(ref string) (*view.User, error) {
	ent, err := u.repo.GetUserByRef(ref)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.UserNotFound,
			Message: exception.UserNotFoundMsg,
			Params:  map[string]interface{}{"userId": ref},
		}
	}
	return entity.MakeUserView(ent), nil
}
