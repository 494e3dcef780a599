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
	"context"

	"github.com/go-pg/pg/v10"
	"github.com/qubership-export/delay-export-service/db"
	"github.com/qubership-export/delay-export-service/entity"
)

type AttachmentRepository interface {
	CreateAttachment(ctx context.Context, ent *entity.AttachmentEntity) error
	GetAttachment(id int64) (*entity.AttachmentEntity, error)
}

func NewAttachmentRepository(cp db.ConnectionProvider) AttachmentRepository {
	return &attachmentRepositoryImpl{cp: cp}
}

type attachmentRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (a attachmentRepositoryImpl) CreateAttachment(ctx context.Context, ent *entity.AttachmentEntity) error {
	_, err := a.cp.GetConnection().WithContext(ctx).Model(ent).
		Returning("id").
		Insert()
	return err
}

func (a attachmentRepositoryImpl) GetAttachment(id int64) (*entity.AttachmentEntity, error) {
	result := new(entity.AttachmentEntity)
	err := a.cp.GetConnection().Model(result).
		Where("id = ?", id).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return result, nil
}
