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
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/view"
)

const delayExportMailSubject = `Export {{.Values.ModelDescription}} is ready`

const delayExportMailBody = `<div style="margin: 0px; padding: 0px;">
<p>Hello {{.Recipient.Name}},</p>
<p>Your export of {{.Values.ModelDescription}} is available.</p>
<p><a href="{{.Values.Url}}">Download the file</a></p>
{{if .Values.ExpirationDate}}<p>The file will be available until {{.Values.ExpirationDate}}.</p>{{end}}
</div>`

// NewDelayExportMailTemplate builds the notification sent to the owner of a delay.export record.
func NewDelayExportMailTemplate(delayExportRepo repository.DelayExportRepository, userRepo repository.UserRepository) MailTemplate {
	return MailTemplate{
		Name:    view.DelayExportMailTemplate,
		Subject: texttemplate.Must(texttemplate.New("subject").Parse(delayExportMailSubject)),
		Body:    htmltemplate.Must(htmltemplate.New("body").Parse(delayExportMailBody)),
		Load: func(ctx context.Context, recordId int64) (*MailTemplateData, error) {
			exportEnt, err := delayExportRepo.GetDelayExport(recordId)
			if err != nil {
				return nil, err
			}
			if exportEnt == nil {
				return nil, fmt.Errorf("delay export %d not found", recordId)
			}
			userEnt, err := userRepo.GetUserById(exportEnt.UserId)
			if err != nil {
				return nil, err
			}
			if userEnt == nil {
				return nil, fmt.Errorf("user %d of delay export %d not found", exportEnt.UserId, recordId)
			}
			expirationDate := ""
			if exportEnt.ExpirationDate != nil {
				expirationDate = exportEnt.ExpirationDate.Format("2006-01-02")
			}
			return &MailTemplateData{
				Recipient: *entity.MakeUserView(userEnt),
				Values: map[string]interface{}{
					"ModelDescription": exportEnt.ModelDescription,
					"Url":              exportEnt.Url,
					"ExpirationDate":   expirationDate,
				},
			}, nil
		},
	}
}
