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
	"time"

	"github.com/qubership-export/delay-export-service/metrics"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

type DelayExportCleanupService interface {
	// CleanupExpired deletes the delay.export records that expire today or earlier, with their attachments.
	CleanupExpired(ctx context.Context) (int, error)
	CreateCleanupJob(schedule string) error
	Stop()
}

func NewDelayExportCleanupService(delayExportRepo repository.DelayExportRepository, attachmentService AttachmentService) DelayExportCleanupService {
	return &delayExportCleanupServiceImpl{
		delayExportRepo:   delayExportRepo,
		attachmentService: attachmentService,
		cron:              cron.New(),
		now:               time.Now,
	}
}

type delayExportCleanupServiceImpl struct {
	delayExportRepo   repository.DelayExportRepository
	attachmentService AttachmentService
	cron              *cron.Cron
	now               func() time.Time
}

func (c *delayExportCleanupServiceImpl) CleanupExpired(ctx context.Context) (int, error) {
	today := c.now()
	exports, attachments, err := c.delayExportRepo.DeleteExpiredDelayExports(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired delay exports: %w", err)
	}
	if err = c.attachmentService.RemoveAttachmentFiles(ctx, attachments); err != nil {
		// rows are already gone, the files are left in the storage
		log.Errorf("Failed to remove files of %d expired attachments: %s", len(attachments), err.Error())
	}
	metrics.ExpiredExportsDeleted.WithLabelValues().Add(float64(len(exports)))
	log.Infof("%d expired delay exports and %d attachments were deleted", len(exports), len(attachments))
	return len(exports), nil
}

func (c *delayExportCleanupServiceImpl) CreateCleanupJob(schedule string) error {
	job := DelayExportCleanupJob{cleanupService: c}

	if len(c.cron.Entries()) == 0 {
		location, err := time.LoadLocation("")
		if err != nil {
			return err
		}
		c.cron = cron.New(cron.WithLocation(location))
		c.cron.Start()
	}

	_, err := c.cron.AddJob(schedule, &job)
	if err != nil {
		log.Warnf("[DelayExportCleanupService] Job wasn't added for schedule - %s. With error - %s", schedule, err)
		return err
	}
	log.Infof("[DelayExportCleanupService] Job was created with schedule - %s", schedule)
	return nil
}

func (c *delayExportCleanupServiceImpl) Stop() {
	<-c.cron.Stop().Done()
}

type DelayExportCleanupJob struct {
	cleanupService DelayExportCleanupService
}

func (j DelayExportCleanupJob) Run() {
	scheduledAt := time.Now().Round(time.Second)
	log.Infof("Delay export cleanup job has started at %s", scheduledAt)
	deleted, err := j.cleanupService.CleanupExpired(context.Background())
	if err != nil {
		log.Errorf("Delay export cleanup job failed: %v", err)
		return
	}
	log.Infof("Delay export cleanup job started at %s deleted %d records", scheduledAt, deleted)
}
