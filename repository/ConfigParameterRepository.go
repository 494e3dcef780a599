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

type ConfigParameterRepository interface {
	GetParam(key string) (*entity.ConfigParameterEntity, error)
	SetParam(key string, value string) error
}

func NewConfigParameterRepository(cp db.ConnectionProvider) ConfigParameterRepository {
	return &configParameterRepositoryImpl{cp: cp}
}

type configParameterRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (c configParameterRepositoryImpl) GetParam(key string) (*entity.ConfigParameterEntity, error) {
	result := new(entity.ConfigParameterEntity)
	err := c.cp.GetConnection().Model(result).
		Where("key = ?", key).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (c configParameterRepositoryImpl) SetParam(key string, value string) error {
	ent := &entity.ConfigParameterEntity{Key: key, Value: value}
	_, err := c.cp.GetConnection().Model(ent).
		OnConflict("(key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Insert()
	return err
}
