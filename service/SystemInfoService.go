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
	"fmt"
	"os"
	"strconv"

	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
)

const (
	ARTIFACT_DESCRIPTOR_VERSION   = "ARTIFACT_DESCRIPTOR_VERSION"
	PRODUCTION_MODE               = "PRODUCTION_MODE"
	LOG_LEVEL                     = "LOG_LEVEL"
	LOG_FILE                      = "LOG_FILE"
	LISTEN_ADDRESS                = "LISTEN_ADDRESS"
	ORIGIN_ALLOWED                = "ORIGIN_ALLOWED"
	WEB_BASE_URL                  = "WEB_BASE_URL"
	DELAY_EXPORT_POSTGRESQL_HOST  = "DELAY_EXPORT_POSTGRESQL_HOST"
	DELAY_EXPORT_POSTGRESQL_PORT  = "DELAY_EXPORT_POSTGRESQL_PORT"
	DELAY_EXPORT_POSTGRESQL_DB    = "DELAY_EXPORT_POSTGRESQL_DB_NAME"
	DELAY_EXPORT_POSTGRESQL_USER  = "DELAY_EXPORT_POSTGRESQL_USERNAME"
	DELAY_EXPORT_POSTGRESQL_PASS  = "DELAY_EXPORT_POSTGRESQL_PASSWORD"
	PG_SSL_MODE                   = "PG_SSL_MODE"
	STORAGE_SERVER_USERNAME       = "STORAGE_SERVER_USERNAME"
	STORAGE_SERVER_PASSWORD       = "STORAGE_SERVER_PASSWORD"
	STORAGE_SERVER_CRT            = "STORAGE_SERVER_CRT"
	STORAGE_SERVER_URL            = "STORAGE_SERVER_URL"
	STORAGE_SERVER_BUCKET_NAME    = "STORAGE_SERVER_BUCKET_NAME"
	STORAGE_SERVER_ACTIVE         = "STORAGE_SERVER_ACTIVE"
	SMTP_HOST                     = "SMTP_HOST"
	SMTP_PORT                     = "SMTP_PORT"
	SMTP_USERNAME                 = "SMTP_USERNAME"
	SMTP_PASSWORD                 = "SMTP_PASSWORD"
	SMTP_RATE_PER_SECOND          = "SMTP_RATE_PER_SECOND"
	EXPORT_WORKERS                = "EXPORT_WORKERS"
	EXPORT_QUEUE_BACKEND          = "EXPORT_QUEUE_BACKEND"
	REDIS_ADDR                    = "REDIS_ADDR"
	REDIS_PASSWORD                = "REDIS_PASSWORD"
	REDIS_DB                      = "REDIS_DB"
	DELAY_EXPORT_CLEANUP_SCHEDULE = "DELAY_EXPORT_CLEANUP_SCHEDULE"
	ZERO_DAY_ADMIN_EMAIL          = "ZERO_DAY_ADMIN_EMAIL"
	ZERO_DAY_ADMIN_TOKEN          = "ZERO_DAY_ADMIN_TOKEN"
)

type SystemInfoService interface {
	GetSystemInfo() *view.SystemInfo
	Init() error
	IsProductionMode() bool
	GetBackendVersion() string
	GetLogLevel() string
	GetLogFile() string
	GetListenAddress() string
	GetOriginAllowed() string
	GetWebBaseUrl() string
	GetCredsFromEnv() *view.DbCredentials
	IsMinioStorageActive() bool
	GetMinioStorageCreds() *view.MinioStorageCreds
	GetSmtpCreds() *view.SmtpCreds
	GetExportWorkers() int
	GetQueueBackend() string
	GetRedisCreds() *view.RedisCreds
	GetCleanupSchedule() string
	GetZeroDayAdminCreds() (string, string, error)
}

func NewSystemInfoService() (SystemInfoService, error) {
	s := &systemInfoServiceImpl{
		systemInfoMap: make(map[string]interface{})}
	if err := s.Init(); err != nil {
		log.Error("Failed to read system info: " + err.Error())
		return nil, err
	}
	return s, nil
}

type systemInfoServiceImpl struct {
	systemInfoMap map[string]interface{}
}

func (g systemInfoServiceImpl) GetSystemInfo() *view.SystemInfo {
	return &view.SystemInfo{
		BackendVersion: g.GetBackendVersion(),
		ProductionMode: g.IsProductionMode(),
		QueueBackend:   g.GetQueueBackend(),
		StorageActive:  g.IsMinioStorageActive(),
	}
}

func (g systemInfoServiceImpl) Init() error {
	var err error
	if err = g.setBool(PRODUCTION_MODE, false); err != nil {
		return err
	}
	g.setString(ARTIFACT_DESCRIPTOR_VERSION, "unknown")
	g.setString(LOG_LEVEL, "")
	g.setString(LOG_FILE, "")
	g.setString(LISTEN_ADDRESS, ":8080")
	g.setString(ORIGIN_ALLOWED, "")
	g.setString(WEB_BASE_URL, "")

	g.setString(DELAY_EXPORT_POSTGRESQL_HOST, "localhost")
	if err = g.setInt(DELAY_EXPORT_POSTGRESQL_PORT, 5432); err != nil {
		return err
	}
	g.setString(DELAY_EXPORT_POSTGRESQL_DB, "delay_export")
	g.setString(DELAY_EXPORT_POSTGRESQL_USER, "delay_export")
	g.setString(DELAY_EXPORT_POSTGRESQL_PASS, "")
	g.setString(PG_SSL_MODE, "disable")

	g.setString(STORAGE_SERVER_USERNAME, "")
	g.setString(STORAGE_SERVER_PASSWORD, "")
	g.setString(STORAGE_SERVER_CRT, "")
	g.setString(STORAGE_SERVER_URL, "")
	g.setString(STORAGE_SERVER_BUCKET_NAME, "delay-export")
	if err = g.setBool(STORAGE_SERVER_ACTIVE, false); err != nil {
		return err
	}

	g.setString(SMTP_HOST, "")
	if err = g.setInt(SMTP_PORT, 25); err != nil {
		return err
	}
	g.setString(SMTP_USERNAME, "")
	g.setString(SMTP_PASSWORD, "")
	if err = g.setFloat(SMTP_RATE_PER_SECOND, 5); err != nil {
		return err
	}

	if err = g.setInt(EXPORT_WORKERS, 4); err != nil {
		return err
	}
	g.setString(EXPORT_QUEUE_BACKEND, view.QueueBackendPostgres)
	switch g.GetQueueBackend() {
	case view.QueueBackendPostgres, view.QueueBackendRedis:
	default:
		return fmt.Errorf("unsupported %v env value: %v", EXPORT_QUEUE_BACKEND, g.GetQueueBackend())
	}
	g.setString(REDIS_ADDR, "localhost:6379")
	g.setString(REDIS_PASSWORD, "")
	if err = g.setInt(REDIS_DB, 0); err != nil {
		return err
	}
	g.setString(DELAY_EXPORT_CLEANUP_SCHEDULE, "0 3 * * *")
	g.setString(ZERO_DAY_ADMIN_EMAIL, "")
	g.setString(ZERO_DAY_ADMIN_TOKEN, "")
	return nil
}

func (g systemInfoServiceImpl) setString(key string, defaultValue string) {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}
	g.systemInfoMap[key] = value
}

func (g systemInfoServiceImpl) setInt(key string, defaultValue int) error {
	envVal := os.Getenv(key)
	if envVal == "" {
		g.systemInfoMap[key] = defaultValue
		return nil
	}
	value, err := strconv.Atoi(envVal)
	if err != nil {
		return fmt.Errorf("failed to parse %v env value: %v", key, err.Error())
	}
	g.systemInfoMap[key] = value
	return nil
}

func (g systemInfoServiceImpl) setFloat(key string, defaultValue float64) error {
	envVal := os.Getenv(key)
	if envVal == "" {
		g.systemInfoMap[key] = defaultValue
		return nil
	}
	value, err := strconv.ParseFloat(envVal, 64)
	if err != nil {
		return fmt.Errorf("failed to parse %v env value: %v", key, err.Error())
	}
	g.systemInfoMap[key] = value
	return nil
}

func (g systemInfoServiceImpl) setBool(key string, defaultValue bool) error {
	envVal := os.Getenv(key)
	if envVal == "" {
		g.systemInfoMap[key] = defaultValue
		return nil
	}
	value, err := strconv.ParseBool(envVal)
	if err != nil {
		return fmt.Errorf("failed to parse %v env value: %v", key, err.Error())
	}
	g.systemInfoMap[key] = value
	return nil
}

func (g systemInfoServiceImpl) IsProductionMode() bool {
	return g.systemInfoMap[PRODUCTION_MODE].(bool)
}

func (g systemInfoServiceImpl) GetBackendVersion() string {
	return g.systemInfoMap[ARTIFACT_DESCRIPTOR_VERSION].(string)
}

func (g systemInfoServiceImpl) GetLogLevel() string {
	return g.systemInfoMap[LOG_LEVEL].(string)
}

func (g systemInfoServiceImpl) GetLogFile() string {
	return g.systemInfoMap[LOG_FILE].(string)
}

func (g systemInfoServiceImpl) GetListenAddress() string {
	return g.systemInfoMap[LISTEN_ADDRESS].(string)
}

func (g systemInfoServiceImpl) GetOriginAllowed() string {
	return g.systemInfoMap[ORIGIN_ALLOWED].(string)
}

// GetWebBaseUrl returns the base url to seed web.base.url with, empty if not configured.
func (g systemInfoServiceImpl) GetWebBaseUrl() string {
	return g.systemInfoMap[WEB_BASE_URL].(string)
}

func (g systemInfoServiceImpl) GetCredsFromEnv() *view.DbCredentials {
	return &view.DbCredentials{
		Host:     g.systemInfoMap[DELAY_EXPORT_POSTGRESQL_HOST].(string),
		Port:     g.systemInfoMap[DELAY_EXPORT_POSTGRESQL_PORT].(int),
		Database: g.systemInfoMap[DELAY_EXPORT_POSTGRESQL_DB].(string),
		Username: g.systemInfoMap[DELAY_EXPORT_POSTGRESQL_USER].(string),
		Password: g.systemInfoMap[DELAY_EXPORT_POSTGRESQL_PASS].(string),
		SSLMode:  g.systemInfoMap[PG_SSL_MODE].(string),
	}
}

func (g systemInfoServiceImpl) IsMinioStorageActive() bool {
	return g.systemInfoMap[STORAGE_SERVER_ACTIVE].(bool)
}

func (g systemInfoServiceImpl) GetMinioStorageCreds() *view.MinioStorageCreds {
	return &view.MinioStorageCreds{
		BucketName:      g.systemInfoMap[STORAGE_SERVER_BUCKET_NAME].(string),
		IsActive:        g.IsMinioStorageActive(),
		Endpoint:        g.systemInfoMap[STORAGE_SERVER_URL].(string),
		Crt:             g.systemInfoMap[STORAGE_SERVER_CRT].(string),
		AccessKeyId:     g.systemInfoMap[STORAGE_SERVER_USERNAME].(string),
		SecretAccessKey: g.systemInfoMap[STORAGE_SERVER_PASSWORD].(string),
	}
}

func (g systemInfoServiceImpl) GetSmtpCreds() *view.SmtpCreds {
	return &view.SmtpCreds{
		Host:          g.systemInfoMap[SMTP_HOST].(string),
		Port:          g.systemInfoMap[SMTP_PORT].(int),
		Username:      g.systemInfoMap[SMTP_USERNAME].(string),
		Password:      g.systemInfoMap[SMTP_PASSWORD].(string),
		RatePerSecond: g.systemInfoMap[SMTP_RATE_PER_SECOND].(float64),
	}
}

func (g systemInfoServiceImpl) GetExportWorkers() int {
	return g.systemInfoMap[EXPORT_WORKERS].(int)
}

func (g systemInfoServiceImpl) GetQueueBackend() string {
	return g.systemInfoMap[EXPORT_QUEUE_BACKEND].(string)
}

func (g systemInfoServiceImpl) GetRedisCreds() *view.RedisCreds {
	return &view.RedisCreds{
		Addr:     g.systemInfoMap[REDIS_ADDR].(string),
		Password: g.systemInfoMap[REDIS_PASSWORD].(string),
		DB:       g.systemInfoMap[REDIS_DB].(int),
	}
}

func (g systemInfoServiceImpl) GetCleanupSchedule() string {
	return g.systemInfoMap[DELAY_EXPORT_CLEANUP_SCHEDULE].(string)
}

func (g systemInfoServiceImpl) GetZeroDayAdminCreds() (string, string, error) {
	email := g.systemInfoMap[ZERO_DAY_ADMIN_EMAIL].(string)
	token := g.systemInfoMap[ZERO_DAY_ADMIN_TOKEN].(string)
	if email == "" || token == "" {
		return "", "", fmt.Errorf("%v or %v env is empty", ZERO_DAY_ADMIN_EMAIL, ZERO_DAY_ADMIN_TOKEN)
	}
	return email, token, nil
}
