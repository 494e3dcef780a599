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

package entity

import "github.com/qubership-export/delay-export-service/view"

type ExportModelEntity struct {
	tableName struct{} `pg:"export_model"`

	Model       string `pg:"model, pk, type:varchar"`
	Description string `pg:"description, type:varchar"`
	TableName   string `pg:"table_name, type:varchar"`
	Ordinary    bool   `pg:"ordinary, use_zero, type:boolean"`
}

type ExportModelFieldEntity struct {
	tableName struct{} `pg:"export_model_field"`

	Model      string `pg:"model, pk, type:varchar"`
	Name       string `pg:"name, pk, type:varchar"`
	Label      string `pg:"label, type:varchar"`
	ColumnName string `pg:"column_name, type:varchar"`
	FieldType  string `pg:"field_type, type:varchar"`
}

type ConfigParameterEntity struct {
	tableName struct{} `pg:"config_parameter"`

	Key   string `pg:"key, pk, type:varchar"`
	Value string `pg:"value, type:varchar"`
}

func MakeExportModelView(ent *ExportModelEntity, fields []ExportModelFieldEntity) *view.ExportModel {
	result := &view.ExportModel{
		Model:       ent.Model,
		Description: ent.Description,
		TableName:   ent.TableName,
		Ordinary:    ent.Ordinary,
		Fields:      make(map[string]view.ExportModelField, len(fields)),
	}
	for _, f := range fields {
		result.Fields[f.Name] = view.ExportModelField{
			Name:       f.Name,
			Label:      f.Label,
			ColumnName: f.ColumnName,
			Type:       f.FieldType,
		}
	}
	return result
}
