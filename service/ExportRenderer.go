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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/qubership-export/delay-export-service/view"
	"github.com/xuri/excelize/v2"
)

const ExportSheetName = "Sheet 1"

const (
	csvMimetype  = "text/csv;charset=utf8"
	xlsxMimetype = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ExportRenderer interface {
	Render(headers []string, rows [][]interface{}) ([]byte, error)
	Mimetype() string
}

func NewExportRenderer(format view.ExportFormat) ExportRenderer {
	if format == view.ExportFormatCsv {
		return &csvRenderer{}
	}
	return &xlsxRenderer{}
}

type csvRenderer struct{}

func (c csvRenderer) Mimetype() string {
	return csvMimetype
}

func (c csvRenderer) Render(headers []string, rows [][]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	line := make([]string, len(headers))
	for _, row := range rows {
		for i := range line {
			line[i] = ""
			if i < len(row) {
				line[i] = csvCellValue(row[i])
			}
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// csvCellValue renders a record value. Strings that a spreadsheet would evaluate as a formula get a quote prefix.
func csvCellValue(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case bool:
		if v {
			return "True"
		}
		return ""
	case string:
		if strings.HasPrefix(v, "=") || strings.HasPrefix(v, "+") || strings.HasPrefix(v, "-") {
			return "'" + v
		}
		return v
	case json.Number:
		return v.String()
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return fmt.Sprint(v)
	}
}

type xlsxRenderer struct{}

func (x xlsxRenderer) Mimetype() string {
	return xlsxMimetype
}

func (x xlsxRenderer) Render(headers []string, rows [][]interface{}) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()
	if err := file.SetSheetName(file.GetSheetName(0), ExportSheetName); err != nil {
		return nil, err
	}
	headerRow := make([]interface{}, 0, len(headers))
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	if err := file.SetSheetRow(ExportSheetName, "A1", &headerRow); err != nil {
		return nil, err
	}
	if len(headers) > 0 {
		lastHeaderCell, err := excelize.CoordinatesToCellName(len(headers), 1)
		if err != nil {
			return nil, err
		}
		if err = file.SetCellStyle(ExportSheetName, "A1", lastHeaderCell, getHeaderStyle(file)); err != nil {
			return nil, err
		}
		lastColumn, err := excelize.ColumnNumberToName(len(headers))
		if err != nil {
			return nil, err
		}
		if err = file.SetColWidth(ExportSheetName, "A", lastColumn, 20); err != nil {
			return nil, err
		}
		err = file.SetPanes(ExportSheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
		if err != nil {
			return nil, err
		}
	}
	for rowIndex, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			return nil, err
		}
		values := make([]interface{}, 0, len(row))
		for _, v := range row {
			values = append(values, xlsxCellValue(v))
		}
		if err = file.SetSheetRow(ExportSheetName, cell, &values); err != nil {
			return nil, err
		}
	}
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func xlsxCellValue(value interface{}) interface{} {
	switch v := value.(type) {
	case nil:
		return nil
	case bool:
		if v {
			return true
		}
		return nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]interface{}, []interface{}:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(data)
	default:
		return v
	}
}

func getHeaderStyle(file *excelize.File) (style int) {
	headerStyle, _ := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Family: "Arial",
			Size:   10,
			Color:  "FFFFFF",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "E2E5E8", Style: 1},
			{Type: "right", Color: "E2E5E8", Style: 1},
			{Type: "top", Color: "E2E5E8", Style: 1},
			{Type: "bottom", Color: "E2E5E8", Style: 1},
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"4E79A0"},
			Pattern: 1,
		},
	})
	return headerStyle
}
