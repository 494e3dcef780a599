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
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/repository"
	log "github.com/sirupsen/logrus"
)

// AttachmentFile is the content to store as an attachment of a record.
type AttachmentFile struct {
	Name     string
	ResModel string
	ResId    int64
	Mimetype string
	Content  []byte
}

type AttachmentService interface {
	CreateAttachment(ctx context.Context, file AttachmentFile) (*entity.AttachmentEntity, error)
	GetAttachment(id int64) (*entity.AttachmentEntity, error)
	GetAttachmentContent(ctx context.Context, ent *entity.AttachmentEntity) ([]byte, error)
	RemoveAttachmentFiles(ctx context.Context, ents []entity.AttachmentEntity) error
}

// NewAttachmentService stores the content base64 encoded in the attachment row, or in the object
// storage when minioStorageService is set.
func NewAttachmentService(repo repository.AttachmentRepository, minioStorageService MinioStorageService) AttachmentService {
	return &attachmentServiceImpl{repo: repo, minioStorageService: minioStorageService}
}

type attachmentServiceImpl struct {
	repo                repository.AttachmentRepository
	minioStorageService MinioStorageService
}

func (a attachmentServiceImpl) CreateAttachment(ctx context.Context, file AttachmentFile) (*entity.AttachmentEntity, error) {
	ent := &entity.AttachmentEntity{
		Name:      file.Name,
		Type:      entity.AttachmentTypeBinary,
		ResModel:  file.ResModel,
		ResId:     file.ResId,
		FileSize:  len(file.Content),
		Mimetype:  file.Mimetype,
		CreatedAt: time.Now(),
	}
	if a.minioStorageService != nil {
		ent.StoreFname = buildAttachmentFileKey(uuid.New().String())
		if err := a.minioStorageService.UploadFile(ctx, ent.StoreFname, file.Content, file.Mimetype); err != nil {
			return nil, fmt.Errorf("failed to upload attachment %s: %w", file.Name, err)
		}
	} else {
		ent.Datas = base64.StdEncoding.EncodeToString(file.Content)
	}
	if err := a.repo.CreateAttachment(ctx, ent); err != nil {
		if ent.StoreFname != "" {
			if removeErr := a.minioStorageService.RemoveFile(ctx, ent.StoreFname); removeErr != nil {
				log.Errorf("Failed to remove orphaned attachment file %s: %s", ent.StoreFname, removeErr.Error())
			}
		}
		return nil, fmt.Errorf("failed to store attachment %s: %w", file.Name, err)
	}
	return ent, nil
}

func (a attachmentServiceImpl) GetAttachment(id int64) (*entity.AttachmentEntity, error) {
	ent, err := a.repo.GetAttachment(id)
	if err != nil {
		return nil, err
	}
	if ent == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.AttachmentNotFound,
			Message: exception.AttachmentNotFoundMsg,
			Params:  map[string]interface{}{"attachmentId": id},
		}
	}
	return ent, nil
}

func (a attachmentServiceImpl) GetAttachmentContent(ctx context.Context, ent *entity.AttachmentEntity) ([]byte, error) {
	if ent.StoreFname != "" {
		if a.minioStorageService == nil {
			return nil, fmt.Errorf("attachment %d is kept in object storage, but the storage is not active", ent.Id)
		}
		return a.minioStorageService.GetFile(ctx, ent.StoreFname)
	}
	content, err := base64.StdEncoding.DecodeString(ent.Datas)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment %d: %w", ent.Id, err)
	}
	return content, nil
}

// RemoveAttachmentFiles removes object storage files of already deleted attachment rows.
func (a attachmentServiceImpl) RemoveAttachmentFiles(ctx context.Context, ents []entity.AttachmentEntity) error {
	keys := make([]string, 0)
	for _, ent := range ents {
		if ent.StoreFname != "" {
			keys = append(keys, ent.StoreFname)
		}
	}
	if len(keys) == 0 {
		return nil
	}
	if a.minioStorageService == nil {
		return fmt.Errorf("%d attachment files are kept in object storage, but the storage is not active", len(keys))
	}
	return a.minioStorageService.RemoveFiles(ctx, keys)
}
