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
	"errors"

	"github.com/go-pg/pg/v10"
	"github.com/qubership-export/delay-export-service/db"
	"github.com/qubership-export/delay-export-service/entity"
)

type PersonalAccessTokenRepository interface {
	CreatePAT(ent entity.PersonalAccessTokenEntity) error
	DeletePAT(id string, userId int64) error
	GetPAT(id string, userId int64) (*entity.PersonalAccessTokenEntity, error)
	GetPATByHash(tokenHash string) (*entity.PersonalAccessTokenEntity, error)
	ListPATs(userId int64) ([]entity.PersonalAccessTokenEntity, error)
	CountActiveTokens(userId int64) (int, error)
	CheckNameIsFree(userId int64, name string) (bool, error)
}

func NewPersonalAccessTokenRepository(cp db.ConnectionProvider) PersonalAccessTokenRepository {
	return personalAccessTokenRepositoryImpl{cp: cp}
}

type personalAccessTokenRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (p personalAccessTokenRepositoryImpl) CreatePAT(ent entity.PersonalAccessTokenEntity) error {
	_, err := p.cp.GetConnection().Model(&ent).Insert()
	return err
}

// DeletePAT revokes the token. The row is kept.
func (p personalAccessTokenRepositoryImpl) DeletePAT(id string, userId int64) error {
	_, err := p.cp.GetConnection().Model(new(entity.PersonalAccessTokenEntity)).
		Set("deleted_at = now()").
		Where("id = ?", id).
		Where("user_id = ?", userId).
		Update()
	return err
}

func (p personalAccessTokenRepositoryImpl) GetPAT(id string, userId int64) (*entity.PersonalAccessTokenEntity, error) {
	result := new(entity.PersonalAccessTokenEntity)
	err := p.cp.GetConnection().Model(result).
		Where("id = ?", id).
		Where("user_id = ?", userId).
		First()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (p personalAccessTokenRepositoryImpl) GetPATByHash(tokenHash string) (*entity.PersonalAccessTokenEntity, error) {
	result := new(entity.PersonalAccessTokenEntity)
	err := p.cp.GetConnection().Model(result).
		Where("token_hash = ?", tokenHash).
		Where("deleted_at is null").
		First()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}

func (p personalAccessTokenRepositoryImpl) ListPATs(userId int64) ([]entity.PersonalAccessTokenEntity, error) {
	var pats []entity.PersonalAccessTokenEntity
	err := p.cp.GetConnection().Model(&pats).
		Where("user_id = ?", userId).
		Where("deleted_at is null").
		Order("created_at ASC").
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return []entity.PersonalAccessTokenEntity{}, nil
		}
		return nil, err
	}
	return pats, nil
}

func (p personalAccessTokenRepositoryImpl) CountActiveTokens(userId int64) (int, error) {
	return p.cp.GetConnection().Model(&entity.PersonalAccessTokenEntity{}).
		Where("user_id = ?", userId).
		Where("deleted_at is null").
		Where("expires_at is null or expires_at > now()").
		Count()
}

func (p personalAccessTokenRepositoryImpl) CheckNameIsFree(userId int64, name string) (bool, error) {
	res, err := p.cp.GetConnection().Model(&entity.PersonalAccessTokenEntity{}).
		Where("user_id = ?", userId).
		Where("deleted_at is null").
		Where("name = ?", name).
		Count()
	if err != nil {
		return false, err
	}
	return res == 0, nil
}
