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
	"net/http"
	"strings"
	"time"

	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/utils"
	"github.com/qubership-export/delay-export-service/view"
)

// ExportFile is a rendered export ready to be stored as an attachment.
type ExportFile struct {
	Content          []byte
	Mimetype         string
	ModelDescription string
}

type ExporterService interface {
	GetExportModel(model string) (*view.ExportModel, error)
	GetFileContent(ctx context.Context, params view.ExportParams) (*ExportFile, error)
}

func NewExporterService(recordRepo repository.RecordRepository) ExporterService {
	return &exporterServiceImpl{recordRepo: recordRepo}
}

type exporterServiceImpl struct {
	recordRepo repository.RecordRepository
}

func (e exporterServiceImpl) GetExportModel(model string) (*view.ExportModel, error) {
	modelEnt, fieldEnts, err := e.recordRepo.GetExportModel(model)
	if err != nil {
		return nil, err
	}
	if modelEnt == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.ExportModelNotFound,
			Message: exception.ExportModelNotFoundMsg,
			Params:  map[string]interface{}{"model": model},
		}
	}
	return entity.MakeExportModelView(modelEnt, fieldEnts), nil
}

// GetFileContent selects the records described by params and renders them in the requested format.
// Explicit ids take precedence over the domain filter.
func (e exporterServiceImpl) GetFileContent(ctx context.Context, params view.ExportParams) (*ExportFile, error) {
	start := time.Now()
	exportModel, err := e.GetExportModel(params.Model)
	if err != nil {
		return nil, err
	}
	fields := params.Fields
	if !exportModel.Ordinary {
		fields = withoutIdField(fields)
	}
	columns := make([]repository.RecordColumn, 0, len(fields))
	for _, f := range fields {
		column, exists := exportModel.ColumnName(f.Name)
		if !exists {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.ExportFieldNotFound,
				Message: exception.ExportFieldNotFoundMsg,
				Params:  map[string]interface{}{"field": f.Name, "model": params.Model},
			}
		}
		columns = append(columns, repository.RecordColumn{FieldName: f.Name, ColumnName: column})
	}

	var records []repository.Record
	if len(params.Ids) > 0 {
		records, err = e.recordRepo.BrowseRecords(ctx, exportModel.TableName, columns, params.Ids)
	} else {
		var condition *repository.DomainCondition
		condition, err = repository.BuildDomainCondition(params.Domain, exportModel.ResolveColumn)
		if err != nil {
			return nil, err
		}
		records, err = e.recordRepo.SearchRecords(ctx, exportModel.TableName, columns, condition)
	}
	if err != nil {
		return nil, err
	}

	headers := makeExportHeaders(fields, params.ImportCompat)
	rows := make([][]interface{}, 0, len(records))
	for _, record := range records {
		row := make([]interface{}, 0, len(fields))
		for _, f := range fields {
			row = append(row, record[f.Name])
		}
		rows = append(rows, row)
	}

	renderer := NewExportRenderer(view.ParseExportFormat(params.Format))
	content, err := renderer.Render(headers, rows)
	if err != nil {
		return nil, err
	}
	utils.PerfLog("GetFileContent: export of "+params.Model, start, 5*time.Second)
	return &ExportFile{
		Content:          content,
		Mimetype:         renderer.Mimetype(),
		ModelDescription: exportModel.Description,
	}, nil
}

func withoutIdField(fields []view.ExportField) []view.ExportField {
	result := make([]view.ExportField, 0, len(fields))
	for _, f := range fields {
		if f.Name != view.IdFieldName {
			result = append(result, f)
		}
	}
	return result
}

// makeExportHeaders uses the raw field names for re-importable exports and the trimmed labels otherwise.
func makeExportHeaders(fields []view.ExportField, importCompat bool) []string {
	headers := make([]string, 0, len(fields))
	for _, f := range fields {
		if importCompat {
			headers = append(headers, f.Name)
		} else {
			headers = append(headers, strings.TrimSpace(f.Label))
		}
	}
	return headers
}
