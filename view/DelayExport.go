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

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const DelayExportModelName = "delay.export"
const DelayExportMailTemplate = "base_export_async.delay_export_mail_template"
const SystemPartnerRef = "base.partner_root"

const WebBaseUrlParam = "web.base.url"
const AttachmentTtlParam = "attachment.ttl"
const DefaultAttachmentTtlDays = 7

// AttachmentUrlTemplate is the stable download path of an attachment: base url, attachment id, attachment name.
const AttachmentUrlTemplate = "%s/web/content/ir.attachment/%d/datas/%s?download=true"

type ExportFormat string

const (
	ExportFormatCsv  ExportFormat = "csv"
	ExportFormatXlsx ExportFormat = "xlsx"
)

// ParseExportFormat maps the requested format onto a renderer. Only an exact "csv" selects CSV,
// every other value falls back to the spreadsheet renderer.
func ParseExportFormat(format string) ExportFormat {
	if format == string(ExportFormatCsv) {
		return ExportFormatCsv
	}
	return ExportFormatXlsx
}

type ExportField struct {
	Name  string `json:"name" validate:"required"`
	Label string `json:"label"`
}

type ExportParams struct {
	Model        string                 `json:"model" validate:"required"`
	Fields       []ExportField          `json:"fields" validate:"required,dive"`
	Ids          []int64                `json:"ids"`
	Domain       json.RawMessage        `json:"domain,omitempty"`
	ImportCompat bool                   `json:"import_compat"`
	Context      map[string]interface{} `json:"context"`
	Format       string                 `json:"format"`
}

// GetUid returns context.uid, the user the export runs for.
func (p ExportParams) GetUid() (int64, error) {
	raw, exists := p.Context["uid"]
	if !exists || raw == nil {
		return 0, fmt.Errorf("context uid is missing")
	}
	switch v := raw.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("context uid has unsupported type %T", raw)
	}
}

func (p ExportParams) FieldNames() []string {
	names := make([]string, 0, len(p.Fields))
	for _, f := range p.Fields {
		names = append(names, f.Name)
	}
	return names
}

// AttachmentName is <model>.<format> built from the raw requested format.
func (p ExportParams) AttachmentName() string {
	return fmt.Sprintf("%s.%s", p.Model, p.Format)
}

// DelayExportReq is the shape posted by the web client: the export params serialized into "data".
type DelayExportReq struct {
	Data string `json:"data"`
}

type DelayExport struct {
	Id               int64      `json:"id"`
	UserId           int64      `json:"userId"`
	ModelDescription string     `json:"modelDescription,omitempty"`
	Url              string     `json:"url,omitempty"`
	ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

type DelayExports struct {
	Exports []DelayExport `json:"exports"`
}

type DelayExportCleanupResult struct {
	DeletedExports int `json:"deletedExports"`
}
