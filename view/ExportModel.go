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

package view

const IdFieldName = "id"

const (
	FieldTypeChar     = "char"
	FieldTypeInteger  = "integer"
	FieldTypeBoolean  = "boolean"
	FieldTypeDatetime = "datetime"
)

// ExportModel describes a model registered for export. Ordinary models are backed by a real table
// with an id column, the others (views, computed models) are not.
type ExportModel struct {
	Model       string
	Description string
	TableName   string
	Ordinary    bool
	Fields      map[string]ExportModelField
}

type ExportModelField struct {
	Name       string
	Label      string
	ColumnName string
	Type       string
}

// ColumnName resolves a field name to the underlying column. The id field is implicit.
func (m ExportModel) ColumnName(fieldName string) (string, bool) {
	if fieldName == IdFieldName {
		return IdFieldName, true
	}
	f, exists := m.Fields[fieldName]
	if !exists {
		return "", false
	}
	if f.ColumnName == "" {
		return f.Name, true
	}
	return f.ColumnName, true
}

// ResolveColumn is ColumnName plus the field type, used by domain translation.
func (m ExportModel) ResolveColumn(fieldName string) (string, string, bool) {
	column, exists := m.ColumnName(fieldName)
	if !exists {
		return "", "", false
	}
	if fieldName == IdFieldName {
		return column, FieldTypeInteger, true
	}
	fieldType := m.Fields[fieldName].Type
	if fieldType == "" {
		fieldType = FieldTypeChar
	}
	return column, fieldType, true
}
