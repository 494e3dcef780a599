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
	goctx "context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/metrics"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/utils"
	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
)

type DelayExportService interface {
	// DelayExport checks that the requester can be notified and queues the export. Returns the queued task.
	DelayExport(ctx context.SecurityContext, rawParams string) (*view.TaskHandle, error)
	// Export renders the file, stores it as an attachment of a new delay.export record and mails the link.
	Export(ctx goctx.Context, params view.ExportParams) error
	GetTask(ctx context.SecurityContext, taskId string) (*view.ExportTaskStatus, error)
	ListUserExports(ctx context.SecurityContext) (*view.DelayExports, error)
	// DownloadAttachment returns the exported file. Only the owner of the export can get it.
	DownloadAttachment(ctx context.SecurityContext, attachmentId int64, name string) (*view.AttachmentContent, error)
}

func NewDelayExportService(
	delayExportRepo repository.DelayExportRepository,
	userService UserService,
	exporterService ExporterService,
	attachmentService AttachmentService,
	configParameterService ConfigParameterService,
	mailService MailService,
	taskQueue ExportTaskQueue) DelayExportService {
	return &delayExportServiceImpl{
		delayExportRepo:        delayExportRepo,
		userService:            userService,
		exporterService:        exporterService,
		attachmentService:      attachmentService,
		configParameterService: configParameterService,
		mailService:            mailService,
		taskQueue:              taskQueue,
		now:                    time.Now,
	}
}

type delayExportServiceImpl struct {
	delayExportRepo        repository.DelayExportRepository
	userService            UserService
	exporterService        ExporterService
	attachmentService      AttachmentService
	configParameterService ConfigParameterService
	mailService            MailService
	taskQueue              ExportTaskQueue
	now                    func() time.Time
}

func (d delayExportServiceImpl) DelayExport(ctx context.SecurityContext, rawParams string) (*view.TaskHandle, error) {
	user, err := d.userService.GetUserFromDB(ctx.GetUserId())
	if err != nil {
		return nil, err
	}
	if user == nil || !user.HasEmail() {
		return nil, exception.NewValidationError(exception.UserEmailMissing, exception.UserEmailMissingMsg, nil)
	}
	params, err := ParseExportParams(rawParams)
	if err != nil {
		return nil, err
	}
	if err = utils.ValidateObject(params); err != nil {
		return nil, err
	}
	// the worker runs outside of the request, it acts as the user who requested the export
	exportContext := make(map[string]interface{}, len(params.Context)+1)
	for k, v := range params.Context {
		exportContext[k] = v
	}
	exportContext["uid"] = user.Id
	params.Context = exportContext

	handle, err := d.taskQueue.Submit(goctx.Background(), user.Id, *params)
	if err != nil {
		return nil, err
	}
	log.Infof("Export of %s by user %d is queued as task %s", params.Model, user.Id, handle.TaskId)
	return handle, nil
}

// ParseExportParams decodes the export parameters serialized by the client.
func ParseExportParams(rawParams string) (*view.ExportParams, error) {
	decoder := json.NewDecoder(bytes.NewReader([]byte(rawParams)))
	decoder.UseNumber()
	var params view.ExportParams
	if err := decoder.Decode(&params); err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.InvalidExportParams,
			Message: exception.InvalidExportParamsMsg,
			Debug:   err.Error(),
		}
	}
	return &params, nil
}

func (d delayExportServiceImpl) Export(ctx goctx.Context, params view.ExportParams) error {
	user, err := d.getExportUser(params)
	if err != nil {
		return err
	}

	renderStart := time.Now()
	file, err := d.exporterService.GetFileContent(ctx, params)
	if err != nil {
		return err
	}
	metrics.ExportRenderDuration.WithLabelValues(string(view.ParseExportFormat(params.Format))).Observe(time.Since(renderStart).Seconds())

	exportEnt := &entity.DelayExportEntity{
		UserId:    user.Id,
		CreatedAt: d.now(),
	}
	if err = d.delayExportRepo.CreateDelayExport(ctx, exportEnt); err != nil {
		return fmt.Errorf("failed to create delay export record: %w", err)
	}

	attachment, err := d.attachmentService.CreateAttachment(ctx, AttachmentFile{
		Name:     params.AttachmentName(),
		ResModel: view.DelayExportModelName,
		ResId:    exportEnt.Id,
		Mimetype: file.Mimetype,
		Content:  file.Content,
	})
	if err != nil {
		return err
	}

	baseUrl, err := d.configParameterService.GetWebBaseUrl()
	if err != nil {
		return err
	}
	url := MakeAttachmentUrl(baseUrl, attachment.Id, attachment.Name)

	ttl, err := d.configParameterService.GetAttachmentTtlDays()
	if err != nil {
		return err
	}
	expirationDate := MakeExpirationDate(d.now(), ttl)

	systemPartner, err := d.userService.GetUserByRef(view.SystemPartnerRef)
	if err != nil {
		return err
	}

	err = d.delayExportRepo.CompleteDelayExport(ctx, exportEnt.Id, url, expirationDate, file.ModelDescription)
	if err != nil {
		return fmt.Errorf("failed to update delay export record %d: %w", exportEnt.Id, err)
	}

	err = d.mailService.SendMail(ctx, view.DelayExportMailTemplate, exportEnt.Id, view.MailValues{
		EmailFrom: systemPartner.Email,
		ReplyTo:   systemPartner.Email,
	})
	if err != nil {
		return fmt.Errorf("failed to send export notification for delay export %d: %w", exportEnt.Id, err)
	}
	log.Infof("Export of %s for user %d is available at %s until %s", params.Model, user.Id, url, expirationDate.Format("2006-01-02"))
	return nil
}

func (d delayExportServiceImpl) getExportUser(params view.ExportParams) (*view.User, error) {
	uid, err := params.GetUid()
	if err != nil {
		// without a user there is no address to notify
		validationErr := exception.NewValidationError(exception.ExportUserEmailMissing, exception.ExportUserEmailMissingMsg,
			map[string]interface{}{"user": ""})
		validationErr.Debug = err.Error()
		return nil, validationErr
	}
	user, err := d.userService.GetUserFromDB(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, exception.NewValidationError(exception.ExportUserEmailMissing, exception.ExportUserEmailMissingMsg,
			map[string]interface{}{"user": uid})
	}
	if !user.HasEmail() {
		return nil, exception.NewValidationError(exception.ExportUserEmailMissing, exception.ExportUserEmailMissingMsg,
			map[string]interface{}{"user": user.Name})
	}
	return user, nil
}

func (d delayExportServiceImpl) GetTask(ctx context.SecurityContext, taskId string) (*view.ExportTaskStatus, error) {
	task, err := d.taskQueue.GetTask(goctx.Background(), taskId)
	if err != nil {
		return nil, err
	}
	if task.UserId != ctx.GetUserId() && !ctx.IsSystemAdmin() {
		return nil, exportTaskNotFoundError(taskId)
	}
	return task, nil
}

func (d delayExportServiceImpl) ListUserExports(ctx context.SecurityContext) (*view.DelayExports, error) {
	ents, err := d.delayExportRepo.GetUserDelayExports(ctx.GetUserId())
	if err != nil {
		return nil, err
	}
	result := make([]view.DelayExport, 0, len(ents))
	for i := range ents {
		result = append(result, *entity.MakeDelayExportView(&ents[i]))
	}
	return &view.DelayExports{Exports: result}, nil
}

func (d delayExportServiceImpl) DownloadAttachment(ctx context.SecurityContext, attachmentId int64, name string) (*view.AttachmentContent, error) {
	attachment, err := d.attachmentService.GetAttachment(attachmentId)
	if err != nil {
		return nil, err
	}
	if attachment.Name != name {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.AttachmentNameMismatch,
			Message: exception.AttachmentNameMismatchMsg,
			Params:  map[string]interface{}{"attachmentId": attachmentId, "name": name},
		}
	}
	if !ctx.IsSystemAdmin() {
		if attachment.ResModel != view.DelayExportModelName {
			return nil, insufficientPrivilegesError()
		}
		exportEnt, err := d.delayExportRepo.GetDelayExport(attachment.ResId)
		if err != nil {
			return nil, err
		}
		if exportEnt == nil || exportEnt.UserId != ctx.GetUserId() {
			return nil, insufficientPrivilegesError()
		}
	}
	content, err := d.attachmentService.GetAttachmentContent(goctx.Background(), attachment)
	if err != nil {
		return nil, err
	}
	return &view.AttachmentContent{
		Name:     attachment.Name,
		Mimetype: attachment.Mimetype,
		Data:     content,
	}, nil
}

func insufficientPrivilegesError() error {
	return &exception.CustomError{
		Status:  http.StatusForbidden,
		Code:    exception.InsufficientPrivileges,
		Message: exception.InsufficientPrivilegesMsg,
	}
}

// MakeAttachmentUrl builds the download link of an attachment.
func MakeAttachmentUrl(baseUrl string, attachmentId int64, attachmentName string) string {
	return fmt.Sprintf(view.AttachmentUrlTemplate, baseUrl, attachmentId, attachmentName)
}

// MakeExpirationDate returns the calendar date ttlDays+1 days after today. The extra day keeps the
// file available for at least ttlDays full days.
func MakeExpirationDate(today time.Time, ttlDays int) time.Time {
	y, m, d := today.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, ttlDays+1)
}
