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
	goctx "context"
	"errors"
	"testing"
	"time"

	"github.com/qubership-export/delay-export-service/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryDelayExports keeps exports with their attachments and deletes them like the database does.
type memoryDelayExports struct {
	exports     map[int64]entity.DelayExportEntity
	attachments map[int64][]entity.AttachmentEntity
}

func (m *memoryDelayExports) repository() *mockDelayExportRepository {
	return &mockDelayExportRepository{
		DeleteExpiredDelayExportsFunc: func(ctx goctx.Context, date time.Time) ([]entity.DelayExportEntity, []entity.AttachmentEntity, error) {
			var exports []entity.DelayExportEntity
			var attachments []entity.AttachmentEntity
			for id, ent := range m.exports {
				if ent.ExpirationDate != nil && !ent.ExpirationDate.After(date) {
					exports = append(exports, ent)
					attachments = append(attachments, m.attachments[id]...)
					delete(m.exports, id)
					delete(m.attachments, id)
				}
			}
			return exports, attachments, nil
		},
	}
}

func dayPtr(t time.Time) *time.Time {
	return &t
}

func TestCleanupExpired(t *testing.T) {
	today := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	store := &memoryDelayExports{
		exports: map[int64]entity.DelayExportEntity{
			1: {Id: 1, ExpirationDate: dayPtr(today.AddDate(0, 0, -1))},
			2: {Id: 2, ExpirationDate: dayPtr(today)},
			3: {Id: 3, ExpirationDate: dayPtr(today.AddDate(0, 0, 1))},
			4: {Id: 4},
		},
		attachments: map[int64][]entity.AttachmentEntity{
			1: {{Id: 10, ResId: 1}},
			2: {{Id: 20, ResId: 2}},
			3: {{Id: 30, ResId: 3}},
		},
	}
	var removed []int64
	attachments := &mockAttachmentService{
		RemoveAttachmentFilesFunc: func(ctx goctx.Context, ents []entity.AttachmentEntity) error {
			for _, ent := range ents {
				removed = append(removed, ent.Id)
			}
			return nil
		},
	}
	svc := NewDelayExportCleanupService(store.repository(), attachments).(*delayExportCleanupServiceImpl)
	svc.now = func() time.Time { return today }

	deleted, err := svc.CleanupExpired(goctx.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	assert.ElementsMatch(t, []int64{10, 20}, removed)
	assert.Contains(t, store.exports, int64(3))
	assert.Contains(t, store.exports, int64(4), "exports without expiration date are kept")

	deleted, err = svc.CleanupExpired(goctx.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, deleted, "second run has nothing to delete")
	assert.Len(t, store.exports, 2)
}

func TestCleanupExpired_FileRemovalFailureIsIgnored(t *testing.T) {
	today := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	store := &memoryDelayExports{
		exports:     map[int64]entity.DelayExportEntity{1: {Id: 1, ExpirationDate: dayPtr(today)}},
		attachments: map[int64][]entity.AttachmentEntity{1: {{Id: 10, ResId: 1}}},
	}
	attachments := &mockAttachmentService{
		RemoveAttachmentFilesFunc: func(ctx goctx.Context, ents []entity.AttachmentEntity) error {
			return errors.New("storage is not available")
		},
	}
	svc := NewDelayExportCleanupService(store.repository(), attachments).(*delayExportCleanupServiceImpl)
	svc.now = func() time.Time { return today }

	deleted, err := svc.CleanupExpired(goctx.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
}

func TestCleanupExpired_RepositoryError(t *testing.T) {
	repo := &mockDelayExportRepository{
		DeleteExpiredDelayExportsFunc: func(ctx goctx.Context, date time.Time) ([]entity.DelayExportEntity, []entity.AttachmentEntity, error) {
			return nil, nil, errors.New("connection refused")
		},
	}
	svc := NewDelayExportCleanupService(repo, &mockAttachmentService{})

	deleted, err := svc.CleanupExpired(goctx.Background())
	assert.Equal(t, 0, deleted)
	assert.ErrorContains(t, err, "connection refused")
}

func TestCreateCleanupJob_InvalidSchedule(t *testing.T) {
	svc := NewDelayExportCleanupService(&mockDelayExportRepository{}, &mockAttachmentService{})
	defer svc.Stop()
	assert.Error(t, svc.CreateCleanupJob("not a schedule"))
	assert.NoError(t, svc.CreateCleanupJob("0 3 * * *"))
}
