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
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	"github.com/qubership-export/delay-export-service/db"
	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/view"
)

const dateLayout = "2006-01-02"

type DelayExportRepository interface {
	CreateDelayExport(ctx context.Context, ent *entity.DelayExportEntity) error
	CompleteDelayExport(ctx context.Context, id int64, url string, expirationDate time.Time, modelDescription string) error
	GetDelayExport(id int64) (*entity.DelayExportEntity, error)
	GetUserDelayExports(userId int64) ([]entity.DelayExportEntity, error)
	// DeleteExpiredDelayExports removes exports expiring on or before the date together with
	// the attachments they own, and returns the removed exports and attachments.
	DeleteExpiredDelayExports(ctx context.Context, date time.Time) ([]entity.DelayExportEntity, []entity.AttachmentEntity, error)
}

func NewDelayExportRepository(cp db.ConnectionProvider) DelayExportRepository {
	return &delayExportRepositoryImpl{cp: cp}
}

type delayExportRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (d delayExportRepositoryImpl) CreateDelayExport(ctx context.Context, ent *entity.DelayExportEntity) error {
	// zero url, description and expiration date are stored as NULL
	_, err := d.cp.GetConnection().WithContext(ctx).Model(ent).
		Returning("id").
		Insert()
	return err
}

// CompleteDelayExport sets url, expiration date and description in a single update, so url and
// expiration date never become visible separately.
func (d delayExportRepositoryImpl) CompleteDelayExport(ctx context.Context, id int64, url string, expirationDate time.Time, modelDescription string) error {
	var ent entity.DelayExportEntity
	res, err := d.cp.GetConnection().WithContext(ctx).Model(&ent).
		Where("id = ?", id).
		Set("url = ?", url).
		Set("expiration_date = ?::date", expirationDate.Format(dateLayout)).
		Set("model_description = ?", modelDescription).
		Update()
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return errors.Errorf("delay export %d not found", id)
	}
	return nil
}

func (d delayExportRepositoryImpl) GetDelayExport(id int64) (*entity.DelayExportEntity, error) {
	result := new(entity.DelayExportEntity)
	err := d.cp.GetConnection().Model(result).
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

func (d delayExportRepositoryImpl) GetUserDelayExports(userId int64) ([]entity.DelayExportEntity, error) {
	var result []entity.DelayExportEntity
	err := d.cp.GetConnection().Model(&result).
		Where("user_id = ?", userId).
		Order("id DESC").
		Select()
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (d delayExportRepositoryImpl) DeleteExpiredDelayExports(ctx context.Context, date time.Time) ([]entity.DelayExportEntity, []entity.AttachmentEntity, error) {
	var exports []entity.DelayExportEntity
	var attachments []entity.AttachmentEntity
	err := d.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		err := tx.Model(&exports).
			Where("expiration_date <= ?::date", date.Format(dateLayout)).
			For("UPDATE").
			Select()
		if err != nil {
			return errors.Wrap(err, "failed to select expired delay exports")
		}
		if len(exports) == 0 {
			return nil
		}
		ids := make([]int64, 0, len(exports))
		for _, e := range exports {
			ids = append(ids, e.Id)
		}
		err = tx.Model(&attachments).
			Column("id", "name", "store_fname").
			Where("res_model = ?", view.DelayExportModelName).
			Where("res_id in (?)", pg.In(ids)).
			Select()
		if err != nil {
			return errors.Wrap(err, "failed to select attachments of expired delay exports")
		}
		_, err = tx.Model((*entity.AttachmentEntity)(nil)).
			Where("res_model = ?", view.DelayExportModelName).
			Where("res_id in (?)", pg.In(ids)).
			Delete()
		if err != nil {
			return errors.Wrap(err, "failed to delete attachments of expired delay exports")
		}
		_, err = tx.Model((*entity.DelayExportEntity)(nil)).
			Where("id in (?)", pg.In(ids)).
			Delete()
		if err != nil {
			return errors.Wrap(err, "failed to delete expired delay exports")
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return exports, attachments, nil
}
