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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-pg/pg/v10"
	"github.com/pkg/errors"
	"github.com/qubership-export/delay-export-service/db"
	"github.com/qubership-export/delay-export-service/entity"
)

// Record is one exported row keyed by field name.
type Record map[string]interface{}

type RecordColumn struct {
	FieldName  string
	ColumnName string
}

type RecordRepository interface {
	GetExportModel(model string) (*entity.ExportModelEntity, []entity.ExportModelFieldEntity, error)
	BrowseRecords(ctx context.Context, tableName string, columns []RecordColumn, ids []int64) ([]Record, error)
	SearchRecords(ctx context.Context, tableName string, columns []RecordColumn, condition *DomainCondition) ([]Record, error)
}

func NewRecordRepository(cp db.ConnectionProvider) RecordRepository {
	return &recordRepositoryImpl{cp: cp}
}

type recordRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r recordRepositoryImpl) GetExportModel(model string) (*entity.ExportModelEntity, []entity.ExportModelFieldEntity, error) {
	modelEnt := new(entity.ExportModelEntity)
	err := r.cp.GetConnection().Model(modelEnt).
		Where("model = ?", model).
		First()
	if err != nil {
		if err == pg.ErrNoRows {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	var fields []entity.ExportModelFieldEntity
	err = r.cp.GetConnection().Model(&fields).
		Where("model = ?", model).
		Select()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to get fields of model %s", model)
	}
	return modelEnt, fields, nil
}

// BrowseRecords returns the rows with the given ids in the order of ids.
func (r recordRepositoryImpl) BrowseRecords(ctx context.Context, tableName string, columns []RecordColumn, ids []int64) ([]Record, error) {
	projection, params := buildProjection(columns)
	query := fmt.Sprintf(`select row_to_json(t)::text from (select %s from ? where id in (?) order by array_position(?::bigint[], id)) t`, projection)
	params = append(params, pg.Ident(tableName), pg.In(ids), pg.Array(ids))
	return r.queryRecords(ctx, query, params)
}

// SearchRecords returns every row matching the condition, without offset, limit or explicit ordering.
func (r recordRepositoryImpl) SearchRecords(ctx context.Context, tableName string, columns []RecordColumn, condition *DomainCondition) ([]Record, error) {
	if condition == nil {
		condition = &matchAll
	}
	projection, params := buildProjection(columns)
	query := fmt.Sprintf(`select row_to_json(t)::text from (select %s from ? where %s) t`, projection, condition.Query)
	params = append(params, pg.Ident(tableName))
	params = append(params, condition.Params...)
	return r.queryRecords(ctx, query, params)
}

func (r recordRepositoryImpl) queryRecords(ctx context.Context, query string, params []interface{}) ([]Record, error) {
	var rows pg.Strings
	_, err := r.cp.GetConnection().WithContext(ctx).Query(&rows, query, params...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query records")
	}
	result := make([]Record, 0, len(rows))
	for _, row := range rows {
		record, err := decodeRecord(row)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	return result, nil
}

func buildProjection(columns []RecordColumn) (string, []interface{}) {
	if len(columns) == 0 {
		return "1 as _empty", nil
	}
	parts := make([]string, 0, len(columns))
	params := make([]interface{}, 0, len(columns)*2)
	for _, c := range columns {
		parts = append(parts, "? as ?")
		params = append(params, pg.Ident(c.ColumnName), pg.Ident(c.FieldName))
	}
	return strings.Join(parts, ", "), params
}

func decodeRecord(row string) (Record, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(row)))
	decoder.UseNumber()
	var record Record
	if err := decoder.Decode(&record); err != nil {
		return nil, fmt.Errorf("failed to decode record %s: %w", row, err)
	}
	delete(record, "_empty")
	return record, nil
}
