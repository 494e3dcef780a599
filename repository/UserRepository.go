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
	"github.com/go-pg/pg/v10"
	"github.com/qubership-export/delay-export-service/db"
	"github.com/qubership-export/delay-export-service/entity"
)

type UserRepository interface {
	GetUserById(userId int64) (*entity.UserEntity, error)
	GetUserByRef(ref string) (*entity.UserEntity, error)
	GetUserByEmail(email string) (*entity.UserEntity, error)
	CreateUser(ent *entity.UserEntity) error
}

func NewUserRepository(cp db.ConnectionProvider) UserRepository {
	return &userRepositoryImpl{cp: cp}
}

type userRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (u userRepositoryImpl) GetUserById(userId int64) (*entity.UserEntity, error) {
	result := new(entity.UserEntity)
	err := u.cp.GetConnection().Model(result).
		Where("id = ?", userId).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (u userRepositoryImpl) GetUserByRef(ref string) (*entity.UserEntity, error) {
	result := new(entity.UserEntity)
	err := u.cp.GetConnection().Model(result).
		Where("ref = ?", ref).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (u userRepositoryImpl) GetUserByEmail(email string) (*entity.UserEntity, error) {
	result := new(entity.UserEntity)
	err := u.cp.GetConnection().Model(result).
		Where("lower(email) = lower(?)", email).
		Order("id ASC").
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (u userRepositoryImpl) CreateUser(ent *entity.UserEntity) error {
	_, err := u.cp.GetConnection().Model(ent).Returning("id").Insert()
	return err
}
