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
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/metrics"
	"github.com/qubership-export/delay-export-service/utils"
	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
)

const DefaultExportWorkers = 4

const workerPollInterval = time.Second * 2

const taskKeepaliveInterval = time.Second * 30

type ExportWorkerPool interface {
	// Start launches the workers. They stop when ctx is cancelled.
	Start(ctx goctx.Context)
	Wait()
}

// NewExportWorkerPool limits the number of workers to twice the number of CPUs.
func NewExportWorkerPool(taskQueue ExportTaskQueue, delayExportService DelayExportService, workers int, instanceId string) ExportWorkerPool {
	if workers <= 0 {
		workers = DefaultExportWorkers
	}
	maxWorkers := runtime.NumCPU() * 2
	if workers > maxWorkers {
		workers = maxWorkers
	}
	return &exportWorkerPoolImpl{
		taskQueue:          taskQueue,
		delayExportService: delayExportService,
		workers:            workers,
		instanceId:         instanceId,
		pollInterval:       workerPollInterval,
		keepaliveInterval:  taskKeepaliveInterval,
	}
}

type exportWorkerPoolImpl struct {
	taskQueue          ExportTaskQueue
	delayExportService DelayExportService
	workers            int
	instanceId         string
	pollInterval       time.Duration
	keepaliveInterval  time.Duration
	wg                 sync.WaitGroup
}

func (p *exportWorkerPoolImpl) Start(ctx goctx.Context) {
	log.Infof("Starting %d export workers", p.workers)
	for i := 0; i < p.workers; i++ {
		workerId := fmt.Sprintf("%s-%d", p.instanceId, i+1)
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.runWorker(ctx, workerId)
		}()
	}
}

func (p *exportWorkerPoolImpl) Wait() {
	p.wg.Wait()
}

func (p *exportWorkerPoolImpl) runWorker(ctx goctx.Context, workerId string) {
	for {
		select {
		case <-ctx.Done():
			log.Debugf("Export worker %s stopped", workerId)
			return
		default:
		}
		task, err := p.taskQueue.Take(ctx, workerId)
		if err != nil {
			log.Errorf("Export worker %s failed to take a task: %s", workerId, err.Error())
		}
		if task == nil {
			p.updateQueueMetrics(ctx)
			select {
			case <-ctx.Done():
				log.Debugf("Export worker %s stopped", workerId)
				return
			case <-time.After(p.pollInterval):
			}
			continue
		}
		p.processTask(ctx, workerId, task)
	}
}

func (p *exportWorkerPoolImpl) processTask(ctx goctx.Context, workerId string, task *view.ExportTask) {
	log.Infof("Export worker %s started task %s (model %s, restart %d)", workerId, task.TaskId, task.Params.Model, task.RestartCount)
	start := time.Now()
	taskCtx := context.CreateContextWithExportTask(ctx, task.TaskId)
	taskCtx = context.CreateContextWithSecurity(taskCtx, context.CreateFromId(task.UserId))
	keepaliveCtx, stopKeepalive := goctx.WithCancel(ctx)
	keepaliveDone := make(chan struct{})
	utils.SafeAsync(func() {
		defer close(keepaliveDone)
		p.runTaskKeepalive(keepaliveCtx, workerId, task.TaskId)
	})
	err := utils.SafeSync(func() error {
		return p.delayExportService.Export(taskCtx, task.Params)
	})
	stopKeepalive()
	<-keepaliveDone
	if err != nil {
		log.Errorf("Export task %s failed after %d ms: %s", task.TaskId, time.Since(start).Milliseconds(), err.Error())
		metrics.ExportTasksTotal.WithLabelValues(string(view.TaskStatusError)).Inc()
		if failErr := p.taskQueue.Fail(ctx, task.TaskId, err.Error()); failErr != nil {
			log.Errorf("Failed to mark export task %s as failed: %s", task.TaskId, failErr.Error())
		}
		return
	}
	metrics.ExportTasksTotal.WithLabelValues(string(view.TaskStatusComplete)).Inc()
	if err = p.taskQueue.Complete(ctx, task.TaskId); err != nil {
		log.Errorf("Failed to mark export task %s as complete: %s", task.TaskId, err.Error())
		return
	}
	log.Infof("Export task %s completed in %d ms", task.TaskId, time.Since(start).Milliseconds())
}

func (p *exportWorkerPoolImpl) runTaskKeepalive(ctx goctx.Context, workerId string, taskId string) {
	ticker := time.NewTicker(p.keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.taskQueue.Keepalive(ctx, taskId, workerId); err != nil {
				log.Warnf("Unable to make keepalive for export task %s: %s", taskId, err.Error())
			}
		}
	}
}

func (p *exportWorkerPoolImpl) updateQueueMetrics(ctx goctx.Context) {
	for _, status := range []view.TaskStatusEnum{view.TaskStatusNotStarted, view.TaskStatusRunning} {
		count, err := p.taskQueue.CountByStatus(ctx, status)
		if err != nil {
			log.Debugf("Failed to count export tasks with status %s: %s", status, err.Error())
			continue
		}
		metrics.ExportQueueSize.WithLabelValues(string(status)).Set(float64(count))
	}
}
