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
	goctx "context"
	"errors"
	"testing"
	"time"

	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailService_SendDelayExportMail(t *testing.T) {
	expirationDate := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	delayExportRepo := &mockDelayExportRepository{
		GetDelayExportFunc: func(id int64) (*entity.DelayExportEntity, error) {
			return &entity.DelayExportEntity{
				Id:               id,
				UserId:           5,
				ModelDescription: "Contact",
				Url:              "https://erp.example.com/web/content/ir.attachment/42/datas/res.partner.csv?download=true",
				ExpirationDate:   &expirationDate,
			}, nil
		},
	}
	userRepo := &mockUserRepository{
		GetUserByIdFunc: func(userId int64) (*entity.UserEntity, error) {
			return &entity.UserEntity{Id: userId, Name: "Demo <User>", Email: "demo@example.com"}, nil
		},
	}
	var sent []view.MailMessage
	mailClient := &mockMailClient{SendFunc: func(ctx goctx.Context, msg view.MailMessage) error {
		sent = append(sent, msg)
		return nil
	}}

	mailService := NewMailService(mailClient)
	mailService.RegisterTemplate(NewDelayExportMailTemplate(delayExportRepo, userRepo))

	err := mailService.SendMail(goctx.Background(), view.DelayExportMailTemplate, 11, view.MailValues{
		EmailFrom: "noreply@example.com",
		ReplyTo:   "noreply@example.com",
	})
	require.NoError(t, err)
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Equal(t, []string{"demo@example.com"}, msg.EmailTo)
	assert.Equal(t, "noreply@example.com", msg.EmailFrom)
	assert.Equal(t, "noreply@example.com", msg.ReplyTo)
	assert.Equal(t, "Export Contact is ready", msg.Subject)
	assert.Contains(t, msg.BodyHtml, "Hello Demo &lt;User&gt;,")
	assert.Contains(t, msg.BodyHtml, `href="https://erp.example.com/web/content/ir.attachment/42/datas/res.partner.csv?download=true"`)
	assert.Contains(t, msg.BodyHtml, "until 2024-01-09")
}

func TestMailService_UnknownTemplate(t *testing.T) {
	mailService := NewMailService(&mockMailClient{SendFunc: func(ctx goctx.Context, msg view.MailMessage) error {
		t.Fatal("nothing should be sent")
		return nil
	}})
	err := mailService.SendMail(goctx.Background(), "missing", 1, view.MailValues{})
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, exception.MailTemplateNotFound, customErr.Code)
}

func TestMailService_RecordNotFound(t *testing.T) {
	delayExportRepo := &mockDelayExportRepository{
		GetDelayExportFunc: func(id int64) (*entity.DelayExportEntity, error) {
			return nil, nil
		},
	}
	mailService := NewMailService(&mockMailClient{SendFunc: func(ctx goctx.Context, msg view.MailMessage) error {
		t.Fatal("nothing should be sent")
		return nil
	}})
	mailService.RegisterTemplate(NewDelayExportMailTemplate(delayExportRepo, &mockUserRepository{}))

	err := mailService.SendMail(goctx.Background(), view.DelayExportMailTemplate, 11, view.MailValues{})
	assert.ErrorContains(t, err, "delay export 11 not found")
}

type mockMailClient struct {
	SendFunc func(ctx goctx.Context, msg view.MailMessage) error
}

func (m mockMailClient) Send(ctx goctx.Context, msg view.MailMessage) error {
	return m.SendFunc(ctx, msg)
}

type mockUserRepository struct {
	GetUserByIdFunc    func(userId int64) (*entity.UserEntity, error)
	GetUserByRefFunc   func(ref string) (*entity.UserEntity, error)
	GetUserByEmailFunc func(email string) (*entity.UserEntity, error)
	CreateUserFunc     func(ent *entity.UserEntity) error
}

func (m mockUserRepository) GetUserById(userId int64) (*entity.UserEntity, error) {
	return m.GetUserByIdFunc(userId)
}

func (m mockUserRepository) GetUserByRef(ref string) (*entity.UserEntity, error) {
	return m.GetUserByRefFunc(ref)
}

func (m mockUserRepository) GetUserByEmail(email string) (*entity.UserEntity, error) {
	return m.GetUserByEmailFunc(email)
}

func (m mockUserRepository) CreateUser(ent *entity.UserEntity) error {
	return m.CreateUserFunc(ent)
}
