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
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testParams = `{"model": "res.partner", "fields": [{"name": "name", "label": "Name"}, {"name": "email", "label": "Email"}],
"ids": [], "domain": [], "import_compat": false, "context": {"lang": "en_US", "uid": 99}, "format": "csv"}`

func TestDelayExport_UserWithoutEmail(t *testing.T) {
	tests := []struct {
		name string
		user *view.User
	}{
		{"user not found", nil},
		{"empty email", &view.User{Id: 5, Name: "Demo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			queue := &mockExportTaskQueue{
				SubmitFunc: func(ctx goctx.Context, userId int64, params view.ExportParams) (*view.TaskHandle, error) {
					t.Fatal("nothing should be queued for a user without email")
					return nil, nil
				},
			}
			users := &mockUserService{
				GetUserFromDBFunc: func(userId int64) (*view.User, error) {
					assert.Equal(t, int64(5), userId)
					return tt.user, nil
				},
			}
			svc := NewDelayExportService(nil, users, nil, nil, nil, nil, queue)

			handle, err := svc.DelayExport(context.CreateFromId(5), testParams)
			assert.Nil(t, handle)
			require.Error(t, err)
			assert.True(t, exception.IsValidationError(err))

			var customErr *exception.CustomError
			require.True(t, errors.As(err, &customErr))
			assert.Equal(t, exception.UserEmailMissing, customErr.Code)
			assert.Equal(t, http.StatusBadRequest, customErr.Status)
		})
	}
}

func TestDelayExport_Submit(t *testing.T) {
	var submitted view.ExportParams
	queue := &mockExportTaskQueue{
		SubmitFunc: func(ctx goctx.Context, userId int64, params view.ExportParams) (*view.TaskHandle, error) {
			assert.Equal(t, int64(5), userId)
			submitted = params
			return &view.TaskHandle{TaskId: "task-1"}, nil
		},
	}
	users := &mockUserService{
		GetUserFromDBFunc: func(userId int64) (*view.User, error) {
			return &view.User{Id: userId, Name: "Demo", Email: "demo@example.com"}, nil
		},
	}
	svc := NewDelayExportService(nil, users, nil, nil, nil, nil, queue)

	handle, err := svc.DelayExport(context.CreateFromId(5), testParams)
	require.NoError(t, err)
	assert.Equal(t, "task-1", handle.TaskId)
	assert.Equal(t, "res.partner", submitted.Model)
	assert.Equal(t, []string{"name", "email"}, submitted.FieldNames())
	assert.Equal(t, "en_US", submitted.Context["lang"])
	uid, err := submitted.GetUid()
	require.NoError(t, err)
	assert.Equal(t, int64(5), uid, "uid is the requesting user")
}

func TestDelayExport_InvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params string
	}{
		{"not json", "model=res.partner"},
		{"missing model", `{"fields": [{"name": "name"}]}`},
		{"missing fields", `{"model": "res.partner"}`},
	}
	users := &mockUserService{
		GetUserFromDBFunc: func(userId int64) (*view.User, error) {
			return &view.User{Id: userId, Email: "demo@example.com"}, nil
		},
	}
	queue := &mockExportTaskQueue{
		SubmitFunc: func(ctx goctx.Context, userId int64, params view.ExportParams) (*view.TaskHandle, error) {
			t.Fatal("invalid params should not be queued")
			return nil, nil
		},
	}
	svc := NewDelayExportService(nil, users, nil, nil, nil, nil, queue)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.DelayExport(context.CreateFromId(1), tt.params)
			var customErr *exception.CustomError
			require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
			assert.Equal(t, http.StatusBadRequest, customErr.Status)
		})
	}
}

func TestMakeExpirationDate(t *testing.T) {
	today := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		ttl      int
		expected string
	}{
		{0, "2024-01-02"},
		{1, "2024-01-03"},
		{7, "2024-01-09"},
		{30, "2024-02-01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, MakeExpirationDate(today, tt.ttl).Format("2006-01-02"), "ttl %d", tt.ttl)
	}
}

func TestMakeAttachmentUrl(t *testing.T) {
	assert.Equal(t, "https://erp.example.com/web/content/ir.attachment/42/datas/res.partner.xlsx?download=true",
		MakeAttachmentUrl("https://erp.example.com", 42, "res.partner.xlsx"))
}

func TestExport(t *testing.T) {
	now := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	var calls []string
	var completed struct {
		id          int64
		url         string
		expiration  time.Time
		description string
	}
	var stored AttachmentFile

	delayExportRepo := &mockDelayExportRepository{
		CreateDelayExportFunc: func(ctx goctx.Context, ent *entity.DelayExportEntity) error {
			calls = append(calls, "create")
			assert.Equal(t, int64(5), ent.UserId)
			assert.Equal(t, now, ent.CreatedAt)
			ent.Id = 11
			return nil
		},
		CompleteDelayExportFunc: func(ctx goctx.Context, id int64, url string, expirationDate time.Time, modelDescription string) error {
			calls = append(calls, "complete")
			completed.id, completed.url, completed.expiration, completed.description = id, url, expirationDate, modelDescription
			return nil
		},
	}
	users := &mockUserService{
		GetUserFromDBFunc: func(userId int64) (*view.User, error) {
			return &view.User{Id: userId, Name: "Demo", Email: "demo@example.com"}, nil
		},
		GetUserByRefFunc: func(ref string) (*view.User, error) {
			assert.Equal(t, view.SystemPartnerRef, ref)
			return &view.User{Id: 1, Email: "noreply@example.com"}, nil
		},
	}
	exporter := &mockExporterService{
		GetFileContentFunc: func(ctx goctx.Context, params view.ExportParams) (*ExportFile, error) {
			calls = append(calls, "render")
			return &ExportFile{Content: []byte("Name\nAcme\n"), Mimetype: csvMimetype, ModelDescription: "Contact"}, nil
		},
	}
	attachments := &mockAttachmentService{
		CreateAttachmentFunc: func(ctx goctx.Context, file AttachmentFile) (*entity.AttachmentEntity, error) {
			calls = append(calls, "attach")
			stored = file
			return &entity.AttachmentEntity{Id: 42, Name: file.Name, ResModel: file.ResModel, ResId: file.ResId}, nil
		},
	}
	config := &mockConfigParameterService{
		GetWebBaseUrlFunc:        func() (string, error) { return "https://erp.example.com", nil },
		GetAttachmentTtlDaysFunc: func() (int, error) { return 7, nil },
	}
	mail := &mockMailService{
		SendMailFunc: func(ctx goctx.Context, templateName string, recordId int64, values view.MailValues) error {
			calls = append(calls, "mail")
			assert.Equal(t, view.DelayExportMailTemplate, templateName)
			assert.Equal(t, int64(11), recordId)
			assert.Equal(t, "noreply@example.com", values.EmailFrom)
			assert.Equal(t, "noreply@example.com", values.ReplyTo)
			return nil
		},
	}
	svc := &delayExportServiceImpl{
		delayExportRepo:        delayExportRepo,
		userService:            users,
		exporterService:        exporter,
		attachmentService:      attachments,
		configParameterService: config,
		mailService:            mail,
		now:                    func() time.Time { return now },
	}

	params, err := ParseExportParams(`{"model": "res.partner", "fields": [{"name": "name", "label": "Name"}], "context": {"uid": 5}, "format": "csv"}`)
	require.NoError(t, err)
	require.NoError(t, svc.Export(goctx.Background(), *params))

	assert.Equal(t, []string{"render", "create", "attach", "complete", "mail"}, calls)
	assert.Equal(t, "res.partner.csv", stored.Name)
	assert.Equal(t, view.DelayExportModelName, stored.ResModel)
	assert.Equal(t, int64(11), stored.ResId)
	assert.Equal(t, []byte("Name\nAcme\n"), stored.Content)
	assert.Equal(t, int64(11), completed.id)
	assert.Equal(t, "https://erp.example.com/web/content/ir.attachment/42/datas/res.partner.csv?download=true", completed.url)
	assert.Equal(t, "2024-01-09", completed.expiration.Format("2006-01-02"))
	assert.Equal(t, "Contact", completed.description)
}

func TestExport_UserWithoutEmail(t *testing.T) {
	tests := []struct {
		name         string
		context      map[string]interface{}
		expectedUser interface{}
	}{
		{name: "user without email", context: map[string]interface{}{"uid": json.Number("5")}, expectedUser: "Demo"},
		{name: "unknown user", context: map[string]interface{}{"uid": json.Number("404")}, expectedUser: int64(404)},
		{name: "missing uid", context: map[string]interface{}{}, expectedUser: ""},
		{name: "unparseable uid", context: map[string]interface{}{"uid": "admin"}, expectedUser: ""},
	}

	users := &mockUserService{
		GetUserFromDBFunc: func(userId int64) (*view.User, error) {
			if userId == 404 {
				return nil, nil
			}
			return &view.User{Id: userId, Name: "Demo"}, nil
		},
	}
	exporter := &mockExporterService{
		GetFileContentFunc: func(ctx goctx.Context, params view.ExportParams) (*ExportFile, error) {
			t.Fatal("nothing should be rendered without a user email")
			return nil, nil
		},
	}
	svc := NewDelayExportService(nil, users, exporter, nil, nil, nil, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Export(goctx.Background(), view.ExportParams{Model: "res.partner", Context: tt.context})
			var customErr *exception.CustomError
			require.True(t, errors.As(err, &customErr), "expected CustomError, got %v", err)
			assert.Equal(t, http.StatusBadRequest, customErr.Status)
			assert.Equal(t, exception.ExportUserEmailMissing, customErr.Code)
			assert.Equal(t, tt.expectedUser, customErr.Params["user"])
		})
	}
}

func TestGetTask_Ownership(t *testing.T) {
	queue := &mockExportTaskQueue{
		GetTaskFunc: func(ctx goctx.Context, taskId string) (*view.ExportTaskStatus, error) {
			return &view.ExportTaskStatus{TaskId: taskId, UserId: 5, Status: view.TaskStatusRunning}, nil
		},
	}
	svc := NewDelayExportService(nil, nil, nil, nil, nil, nil, queue)

	task, err := svc.GetTask(context.CreateFromId(5), "task-1")
	require.NoError(t, err)
	assert.Equal(t, view.TaskStatusRunning, task.Status)

	_, err = svc.GetTask(context.CreateFromId(6), "task-1")
	var customErr *exception.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, http.StatusNotFound, customErr.Status)

	_, err = svc.GetTask(context.CreateSystemContext(), "task-1")
	assert.NoError(t, err)
}

func TestDownloadAttachment(t *testing.T) {
	attachment := &entity.AttachmentEntity{Id: 42, Name: "res.partner.csv", ResModel: view.DelayExportModelName, ResId: 11, Mimetype: csvMimetype}
	delayExportRepo := &mockDelayExportRepository{
		GetDelayExportFunc: func(id int64) (*entity.DelayExportEntity, error) {
			assert.Equal(t, int64(11), id)
			return &entity.DelayExportEntity{Id: id, UserId: 5}, nil
		},
	}
	attachments := &mockAttachmentService{
		GetAttachmentFunc: func(id int64) (*entity.AttachmentEntity, error) {
			return attachment, nil
		},
		GetAttachmentContentFunc: func(ctx goctx.Context, ent *entity.AttachmentEntity) ([]byte, error) {
			return []byte("Name\nAcme\n"), nil
		},
	}
	svc := NewDelayExportService(delayExportRepo, nil, nil, attachments, nil, nil, nil)

	tests := []struct {
		name           string
		ctx            context.SecurityContext
		fileName       string
		expectedStatus int
	}{
		{"owner", context.CreateFromId(5), "res.partner.csv", http.StatusOK},
		{"admin", context.CreateSystemContext(), "res.partner.csv", http.StatusOK},
		{"other user", context.CreateFromId(6), "res.partner.csv", http.StatusForbidden},
		{"wrong name", context.CreateFromId(5), "other.csv", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, err := svc.DownloadAttachment(tt.ctx, 42, tt.fileName)
			if tt.expectedStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, "res.partner.csv", content.Name)
				assert.Equal(t, csvMimetype, content.Mimetype)
				assert.Equal(t, []byte("Name\nAcme\n"), content.Data)
				return
			}
			assert.Nil(t, content)
			var customErr *exception.CustomError
			require.True(t, errors.As(err, &customErr))
			assert.Equal(t, tt.expectedStatus, customErr.Status)
		})
	}
}

type mockUserService struct {
	GetUserFromDBFunc func(userId int64) (*view.User, error)
	GetUserByRefFunc  func(ref string) (*view.User, error)
}

func (m mockUserService) GetUserFromDB(userId int64) (*view.User, error) {
	return m.GetUserFromDBFunc(userId)
}

func (m mockUserService) GetUserByRef(ref string) (*view.User, error) {
	return m.GetUserByRefFunc(ref)
}

type mockExportTaskQueue struct {
	SubmitFunc        func(ctx goctx.Context, userId int64, params view.ExportParams) (*view.TaskHandle, error)
	TakeFunc          func(ctx goctx.Context, workerId string) (*view.ExportTask, error)
	CompleteFunc      func(ctx goctx.Context, taskId string) error
	KeepaliveFunc     func(ctx goctx.Context, taskId string, workerId string) error
	FailFunc          func(ctx goctx.Context, taskId string, details string) error
	GetTaskFunc       func(ctx goctx.Context, taskId string) (*view.ExportTaskStatus, error)
	CountByStatusFunc func(ctx goctx.Context, status view.TaskStatusEnum) (int, error)
}

func (m mockExportTaskQueue) Submit(ctx goctx.Context, userId int64, params view.ExportParams) (*view.TaskHandle, error) {
	return m.SubmitFunc(ctx, userId, params)
}

func (m mockExportTaskQueue) Take(ctx goctx.Context, workerId string) (*view.ExportTask, error) {
	return m.TakeFunc(ctx, workerId)
}

func (m mockExportTaskQueue) Complete(ctx goctx.Context, taskId string) error {
	return m.CompleteFunc(ctx, taskId)
}

func (m mockExportTaskQueue) Keepalive(ctx goctx.Context, taskId string, workerId string) error {
	return m.KeepaliveFunc(ctx, taskId, workerId)
}

func (m mockExportTaskQueue) Fail(ctx goctx.Context, taskId string, details string) error {
	return m.FailFunc(ctx, taskId, details)
}

func (m mockExportTaskQueue) GetTask(ctx goctx.Context, taskId string) (*view.ExportTaskStatus, error) {
	return m.GetTaskFunc(ctx, taskId)
}

func (m mockExportTaskQueue) CountByStatus(ctx goctx.Context, status view.TaskStatusEnum) (int, error) {
	return m.CountByStatusFunc(ctx, status)
}

type mockDelayExportRepository struct {
	CreateDelayExportFunc         func(ctx goctx.Context, ent *entity.DelayExportEntity) error
	CompleteDelayExportFunc       func(ctx goctx.Context, id int64, url string, expirationDate time.Time, modelDescription string) error
	GetDelayExportFunc            func(id int64) (*entity.DelayExportEntity, error)
	GetUserDelayExportsFunc       func(userId int64) ([]entity.DelayExportEntity, error)
	DeleteExpiredDelayExportsFunc func(ctx goctx.Context, date time.Time) ([]entity.DelayExportEntity, []entity.AttachmentEntity, error)
}

func (m mockDelayExportRepository) CreateDelayExport(ctx goctx.Context, ent *entity.DelayExportEntity) error {
	return m.CreateDelayExportFunc(ctx, ent)
}

func (m mockDelayExportRepository) CompleteDelayExport(ctx goctx.Context, id int64, url string, expirationDate time.Time, modelDescription string) error {
	return m.CompleteDelayExportFunc(ctx, id, url, expirationDate, modelDescription)
}

func (m mockDelayExportRepository) GetDelayExport(id int64) (*entity.DelayExportEntity, error) {
	return m.GetDelayExportFunc(id)
}

func (m mockDelayExportRepository) GetUserDelayExports(userId int64) ([]entity.DelayExportEntity, error) {
	return m.GetUserDelayExportsFunc(userId)
}

func (m mockDelayExportRepository) DeleteExpiredDelayExports(ctx goctx.Context, date time.Time) ([]entity.DelayExportEntity, []entity.AttachmentEntity, error) {
	return m.DeleteExpiredDelayExportsFunc(ctx, date)
}

type mockExporterService struct {
	GetExportModelFunc func(model string) (*view.ExportModel, error)
	GetFileContentFunc func(ctx goctx.Context, params view.ExportParams) (*ExportFile, error)
}

func (m mockExporterService) GetExportModel(model string) (*view.ExportModel, error) {
	return m.GetExportModelFunc(model)
}

func (m mockExporterService) GetFileContent(ctx goctx.Context, params view.ExportParams) (*ExportFile, error) {
	return m.GetFileContentFunc(ctx, params)
}

type mockAttachmentService struct {
	CreateAttachmentFunc      func(ctx goctx.Context, file AttachmentFile) (*entity.AttachmentEntity, error)
	GetAttachmentFunc         func(id int64) (*entity.AttachmentEntity, error)
	GetAttachmentContentFunc  func(ctx goctx.Context, ent *entity.AttachmentEntity) ([]byte, error)
	RemoveAttachmentFilesFunc func(ctx goctx.Context, ents []entity.AttachmentEntity) error
}

func (m mockAttachmentService) CreateAttachment(ctx goctx.Context, file AttachmentFile) (*entity.AttachmentEntity, error) {
	return m.CreateAttachmentFunc(ctx, file)
}

func (m mockAttachmentService) GetAttachment(id int64) (*entity.AttachmentEntity, error) {
	return m.GetAttachmentFunc(id)
}

func (m mockAttachmentService) GetAttachmentContent(ctx goctx.Context, ent *entity.AttachmentEntity) ([]byte, error) {
	return m.GetAttachmentContentFunc(ctx, ent)
}

func (m mockAttachmentService) RemoveAttachmentFiles(ctx goctx.Context, ents []entity.AttachmentEntity) error {
	return m.RemoveAttachmentFilesFunc(ctx, ents)
}

type mockConfigParameterService struct {
	GetWebBaseUrlFunc        func() (string, error)
	GetAttachmentTtlDaysFunc func() (int, error)
}

func (m mockConfigParameterService) GetParam(key string) (string, bool, error) {
	return "", false, nil
}

func (m mockConfigParameterService) SetParam(key string, value string) error {
	return nil
}

func (m mockConfigParameterService) GetWebBaseUrl() (string, error) {
	return m.GetWebBaseUrlFunc()
}

func (m mockConfigParameterService) GetAttachmentTtlDays() (int, error) {
	return m.GetAttachmentTtlDaysFunc()
}

type mockMailService struct {
	SendMailFunc func(ctx goctx.Context, templateName string, recordId int64, values view.MailValues) error
}

func (m mockMailService) RegisterTemplate(tmpl MailTemplate) {}

func (m mockMailService) SendMail(ctx goctx.Context, templateName string, recordId int64, values view.MailValues) error {
	return m.SendMailFunc(ctx, templateName, recordId, values)
}
