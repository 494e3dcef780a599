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
	"context"
	htmltemplate "html/template"
	"net/http"
	"sync"
	texttemplate "text/template"

	"github.com/qubership-export/delay-export-service/client"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
)

// MailTemplateData is what a template is rendered with: the recipient and template specific values.
type MailTemplateData struct {
	Recipient view.User
	Values    map[string]interface{}
}

type MailTemplateLoader func(ctx context.Context, recordId int64) (*MailTemplateData, error)

type MailTemplate struct {
	Name    string
	Subject *texttemplate.Template
	Body    *htmltemplate.Template
	Load    MailTemplateLoader
}

type MailService interface {
	RegisterTemplate(tmpl MailTemplate)
	SendMail(ctx context.Context, templateName string, recordId int64, values view.MailValues) error
}

func NewMailService(mailClient client.MailClient) MailService {
	return &mailServiceImpl{
		mailClient: mailClient,
		templates:  make(map[string]MailTemplate),
	}
}

type mailServiceImpl struct {
	mailClient client.MailClient
	templates  map[string]MailTemplate
	mutex      sync.RWMutex
}

func (m *mailServiceImpl) RegisterTemplate(tmpl MailTemplate) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.templates[tmpl.Name] = tmpl
}

func (m *mailServiceImpl) SendMail(ctx context.Context, templateName string, recordId int64, values view.MailValues) error {
	m.mutex.RLock()
	tmpl, exists := m.templates[templateName]
	m.mutex.RUnlock()
	if !exists {
		return &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.MailTemplateNotFound,
			Message: exception.MailTemplateNotFoundMsg,
			Params:  map[string]interface{}{"template": templateName},
		}
	}
	msg, err := renderMailTemplate(ctx, tmpl, recordId, values)
	if err != nil {
		return err
	}
	log.Debugf("Sending mail %s for record %d to %v", templateName, recordId, msg.EmailTo)
	return m.mailClient.Send(ctx, *msg)
}

func renderMailTemplate(ctx context.Context, tmpl MailTemplate, recordId int64, values view.MailValues) (*view.MailMessage, error) {
	data, err := tmpl.Load(ctx, recordId)
	if err != nil {
		return nil, err
	}
	var subject bytes.Buffer
	if err = tmpl.Subject.Execute(&subject, data); err != nil {
		return nil, err
	}
	var body bytes.Buffer
	if err = tmpl.Body.Execute(&body, data); err != nil {
		return nil, err
	}
	msg := &view.MailMessage{
		EmailFrom: values.EmailFrom,
		ReplyTo:   values.ReplyTo,
		Subject:   subject.String(),
		BodyHtml:  body.String(),
	}
	if data.Recipient.HasEmail() {
		msg.EmailTo = []string{data.Recipient.Email}
	}
	return msg, nil
}
