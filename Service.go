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

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qubership-export/delay-export-service/client"
	"github.com/qubership-export/delay-export-service/controller"
	"github.com/qubership-export/delay-export-service/db"
	"github.com/qubership-export/delay-export-service/metrics"
	"github.com/qubership-export/delay-export-service/middleware"
	mService "github.com/qubership-export/delay-export-service/migration/service"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/security"
	"github.com/qubership-export/delay-export-service/service"
	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

func init() {
	log.SetFormatter(&prefixed.TextFormatter{
		DisableColors:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	log.SetOutput(os.Stderr)
}

func main() {
	systemInfoService, err := service.NewSystemInfoService()
	if err != nil {
		panic(err)
	}
	setupLogging(systemInfoService)

	cp := db.NewConnectionProvider(systemInfoService.GetCredsFromEnv())
	defer cp.Close()

	dbMigrationService, err := mService.NewDBMigrationService(cp)
	if err != nil {
		log.Error("Failed create dbMigrationService: " + err.Error())
		panic("Failed create dbMigrationService: " + err.Error())
	}
	currentVersion, newVersion, err := dbMigrationService.Migrate()
	if err != nil {
		log.Error("Failed perform DB migration: " + err.Error())
		time.Sleep(time.Second * 10) // Give a chance to read the unrecoverable error
		panic("Failed perform DB migration: " + err.Error())
	}
	log.Infof("DB schema version: %d -> %d", currentVersion, newVersion)

	recordRepository := repository.NewRecordRepository(cp)
	delayExportRepository := repository.NewDelayExportRepository(cp)
	attachmentRepository := repository.NewAttachmentRepository(cp)
	userRepository := repository.NewUserRepository(cp)
	configParameterRepository := repository.NewConfigParameterRepository(cp)
	exportTaskRepository := repository.NewExportTaskRepository(cp)
	personalAccessTokenRepository := repository.NewPersonalAccessTokenRepository(cp)

	zeroDayAdminService := service.NewZeroDayAdminService(userRepository, personalAccessTokenRepository, systemInfoService)
	if err := zeroDayAdminService.CreateZeroDayAdmin(); err != nil {
		log.Errorf("Failed to create zero day admin user: %s", err)
	}

	configParameterService := service.NewConfigParameterService(configParameterRepository)
	if webBaseUrl := systemInfoService.GetWebBaseUrl(); webBaseUrl != "" {
		if err = configParameterService.SetParam(view.WebBaseUrlParam, webBaseUrl); err != nil {
			panic(fmt.Sprintf("failed to store %s: %v", view.WebBaseUrlParam, err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var minioStorageService service.MinioStorageService
	if systemInfoService.IsMinioStorageActive() {
		minioStorageService = service.NewMinioStorageService(systemInfoService.GetMinioStorageCreds())
		if err = minioStorageService.CreateBucketIfNotExists(ctx); err != nil {
			panic(fmt.Sprintf("failed to prepare minio bucket: %v", err))
		}
		log.Info("MINIO storage is active")
	} else {
		log.Info("MINIO storage is inactive, attachments are stored in the database")
	}

	taskQueue, err := makeExportTaskQueue(systemInfoService, exportTaskRepository)
	if err != nil {
		panic(fmt.Sprintf("failed to create export task queue: %v", err))
	}

	userService := service.NewUserService(userRepository)
	exporterService := service.NewExporterService(recordRepository)
	attachmentService := service.NewAttachmentService(attachmentRepository, minioStorageService)
	mailClient, err := client.NewMailClient(systemInfoService.GetSmtpCreds())
	if err != nil {
		panic(fmt.Sprintf("failed to create mail client: %v", err))
	}
	mailService := service.NewMailService(mailClient)
	mailService.RegisterTemplate(service.NewDelayExportMailTemplate(delayExportRepository, userRepository))
	delayExportService := service.NewDelayExportService(delayExportRepository, userService, exporterService,
		attachmentService, configParameterService, mailService, taskQueue)
	cleanupService := service.NewDelayExportCleanupService(delayExportRepository, attachmentService)
	if err = cleanupService.CreateCleanupJob(systemInfoService.GetCleanupSchedule()); err != nil {
		panic(fmt.Sprintf("failed to schedule expired exports cleanup: %v", err))
	}
	defer cleanupService.Stop()

	hostname, _ := os.Hostname()
	workerPool := service.NewExportWorkerPool(taskQueue, delayExportService, systemInfoService.GetExportWorkers(),
		fmt.Sprintf("%s-%s", hostname, uuid.NewString()))

	personalAccessTokenService := service.NewPersonalAccessTokenService(personalAccessTokenRepository, userService)
	security.SetupGoGuardian(personalAccessTokenService)
	metrics.RegisterAllPrometheusApplicationMetrics()

	readyChan := make(chan bool, 1)
	healthController := controller.NewHealthController(readyChan)
	delayExportController := controller.NewDelayExportController(delayExportService)
	attachmentController := controller.NewAttachmentController(delayExportService)
	cleanupController := controller.NewCleanupController(cleanupService)
	systemInfoController := controller.NewSystemInfoController(systemInfoService)
	personalAccessTokenController := controller.NewPersonalAccessTokenController(personalAccessTokenService)

	r := mux.NewRouter().SkipClean(true).UseEncodedPath()
	r.HandleFunc("/api/v1/delay-export", security.Secure(delayExportController.DelayExport)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/delay-export", security.Secure(delayExportController.ListExports)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/delay-export/tasks/{taskId}", security.Secure(delayExportController.GetExportTask)).Methods(http.MethodGet)
	r.HandleFunc("/web/content/ir.attachment/{attachmentId}/datas/{name}", security.Secure(attachmentController.DownloadAttachment)).Methods(http.MethodGet)
	r.HandleFunc("/api/internal/delay-export/cleanup", security.Secure(cleanupController.CleanupExpiredExports)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/personal-access-tokens", security.Secure(personalAccessTokenController.CreatePAT)).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/personal-access-tokens", security.Secure(personalAccessTokenController.ListPATs)).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/personal-access-tokens/{id}", security.Secure(personalAccessTokenController.DeletePAT)).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/system/info", security.Secure(systemInfoController.GetSystemInfo)).Methods(http.MethodGet)

	r.HandleFunc("/live", security.NoSecure(healthController.HandleLiveRequest)).Methods(http.MethodGet)
	r.HandleFunc("/ready", security.NoSecure(healthController.HandleReadyRequest)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.Use(middleware.PrometheusMiddleware)

	var corsOptions []handlers.CORSOption
	if origin := systemInfoService.GetOriginAllowed(); origin != "" {
		corsOptions = append(corsOptions, handlers.AllowedOrigins([]string{origin}))
	}
	corsOptions = append(corsOptions,
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", security.PATHeader}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}))

	srv := &http.Server{
		Handler:      handlers.CompressHandler(handlers.CORS(corsOptions...)(handlers.RecoveryHandler()(r))),
		Addr:         systemInfoService.GetListenAddress(),
		WriteTimeout: 300 * time.Second,
		ReadTimeout:  30 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	workerPool.Start(gCtx)
	g.Go(func() error {
		log.Infof("Delay export service is listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	readyChan <- true

	if err = g.Wait(); err != nil {
		log.Errorf("Delay export service stopped with error: %v", err)
	}
	workerPool.Wait()
	log.Info("Delay export service stopped")
}

func setupLogging(systemInfoService service.SystemInfoService) {
	level, err := log.ParseLevel(systemInfoService.GetLogLevel())
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if logFile := systemInfoService.GetLogFile(); logFile != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 5,
		}))
	}
}

func makeExportTaskQueue(systemInfoService service.SystemInfoService, exportTaskRepository repository.ExportTaskRepository) (service.ExportTaskQueue, error) {
	if systemInfoService.GetQueueBackend() == view.QueueBackendRedis {
		redisClient, err := service.NewRedisClient(systemInfoService.GetRedisCreds())
		if err != nil {
			return nil, err
		}
		log.Info("Export tasks are queued in redis")
		return service.NewExportTaskQueueRedis(redisClient), nil
	}
	log.Info("Export tasks are queued in postgres")
	return service.NewExportTaskQueuePG(exportTaskRepository), nil
}
