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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/qubership-export/delay-export-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNewExportRenderer(t *testing.T) {
	assert.Equal(t, csvMimetype, NewExportRenderer(view.ParseExportFormat("csv")).Mimetype())
	assert.Equal(t, xlsxMimetype, NewExportRenderer(view.ParseExportFormat("xlsx")).Mimetype())
	assert.Equal(t, xlsxMimetype, NewExportRenderer(view.ParseExportFormat("CSV")).Mimetype())
	assert.Equal(t, xlsxMimetype, NewExportRenderer(view.ParseExportFormat("")).Mimetype())
}

func TestCsvRenderer_Render(t *testing.T) {
	renderer := NewExportRenderer(view.ExportFormatCsv)
	content, err := renderer.Render(
		[]string{"Name", "Email"},
		[][]interface{}{
			{"Acme", "info@acme.com"},
			{"Globex, Inc", nil},
		})
	require.NoError(t, err)
	assert.Equal(t, "Name,Email\nAcme,info@acme.com\n\"Globex, Inc\",\n", string(content))
}

func TestCsvRenderer_ShortRowsArePadded(t *testing.T) {
	content, err := csvRenderer{}.Render([]string{"a", "b", "c"}, [][]interface{}{{"1"}})
	require.NoError(t, err)
	assert.Equal(t, "a,b,c\n1,,\n", string(content))
}

func TestCsvCellValue(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{"nil", nil, ""},
		{"false", false, ""},
		{"true", true, "True"},
		{"plain string", "acme", "acme"},
		{"formula", "=SUM(A1:A2)", "'=SUM(A1:A2)"},
		{"plus", "+1", "'+1"},
		{"minus", "-1", "'-1"},
		{"number", json.Number("12.50"), "12.50"},
		{"int", int64(42), "42"},
		{"map", map[string]interface{}{"a": "b"}, `{"a":"b"}`},
		{"list", []interface{}{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, csvCellValue(tt.value))
		})
	}
}

func TestXlsxRenderer_Render(t *testing.T) {
	renderer := NewExportRenderer(view.ExportFormatXlsx)
	content, err := renderer.Render(
		[]string{"Name", "Amount", "Active"},
		[][]interface{}{
			{"Acme", json.Number("15"), true},
			{"Globex", json.Number("2.5"), false},
		})
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	assert.Equal(t, []string{ExportSheetName}, file.GetSheetList())
	rows, err := file.GetRows(ExportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Amount", "Active"}, rows[0])
	assert.Equal(t, []string{"Acme", "15"}, rows[1][:2])
	assert.Equal(t, []string{"Globex", "2.5"}, rows[2][:2])

	amountType, err := file.GetCellType(ExportSheetName, "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, amountType)
}

func TestXlsxRenderer_NoRows(t *testing.T) {
	content, err := xlsxRenderer{}.Render([]string{"Name"}, nil)
	require.NoError(t, err)

	file, err := excelize.OpenReader(bytes.NewReader(content))
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows(ExportSheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Name"}}, rows)
}
