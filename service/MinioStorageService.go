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
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/qubership-export/delay-export-service/utils"
	"github.com/qubership-export/delay-export-service/view"
	log "github.com/sirupsen/logrus"
)

const attachmentFolder = "attachment"

type MinioStorageService interface {
	CreateBucketIfNotExists(ctx context.Context) error
	GetFile(ctx context.Context, fileKey string) ([]byte, error)
	UploadFile(ctx context.Context, fileKey string, content []byte, contentType string) error
	RemoveFile(ctx context.Context, fileKey string) error
	RemoveFiles(ctx context.Context, fileKeys []string) error
}

func NewMinioStorageService(creds *view.MinioStorageCreds) MinioStorageService {
	return &minioStorageServiceImpl{
		minioClient: createMinioClient(creds),
		creds:       creds,
	}
}

type minioStorageServiceImpl struct {
	minioClient *minioClient
	creds       *view.MinioStorageCreds
}

type minioClient struct {
	client *minio.Client
	error  error
}

func (m minioStorageServiceImpl) CreateBucketIfNotExists(ctx context.Context) error {
	if m.minioClient.error != nil {
		return m.minioClient.error
	}
	exists, err := m.minioClient.client.BucketExists(ctx, m.creds.BucketName)
	if err != nil {
		return err
	}
	if exists {
		log.Infof("Minio bucket - %s exists", m.creds.BucketName)
		return nil
	}
	err = m.minioClient.client.MakeBucket(ctx, m.creds.BucketName, minio.MakeBucketOptions{})
	if err != nil {
		return err
	}
	log.Infof("Minio bucket - %s was created", m.creds.BucketName)
	return nil
}

func createMinioClient(creds *view.MinioStorageCreds) *minioClient {
	client := new(minioClient)
	tr, err := minio.DefaultTransport(true)
	if err != nil {
		log.Warnf("error creating the minio connection: error creating the default transport layer: %v", err)
		client.error = err
		return client
	}
	if creds.Crt != "" {
		decodedCrt, err := base64.StdEncoding.DecodeString(creds.Crt)
		if err != nil {
			log.Warn(err.Error())
			client.error = err
			return client
		}
		rootCAs := mustGetSystemCertPool()
		rootCAs.AppendCertsFromPEM(decodedCrt)
		tr.TLSClientConfig.RootCAs = rootCAs
	}

	minioClient, err := minio.New(creds.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(creds.AccessKeyId, creds.SecretAccessKey, ""),
		Secure:    true,
		Transport: tr,
	})
	if err != nil {
		if strings.Contains(err.Error(), "endpoint") {
			err = errors.New("invalid storage URL")
		}
		log.Warn(err.Error())
		client.error = err
		return client
	}
	log.Infof("MINIO instance initialized")
	client.client = minioClient
	return client
}

func (m minioStorageServiceImpl) UploadFile(ctx context.Context, fileKey string, content []byte, contentType string) error {
	if m.minioClient.error != nil {
		return m.minioClient.error
	}
	start := time.Now()
	_, err := m.minioClient.client.PutObject(ctx, m.creds.BucketName, fileKey, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	utils.PerfLog("UploadFile: upload file to Minio", start, 500*time.Millisecond)
	return err
}

func (m minioStorageServiceImpl) GetFile(ctx context.Context, fileKey string) ([]byte, error) {
	if m.minioClient.error != nil {
		return nil, m.minioClient.error
	}
	minioObject, err := m.minioClient.client.GetObject(ctx, m.creds.BucketName, fileKey, minio.GetObjectOptions{})
	if err != nil {
		log.Warn(err)
		return nil, err
	}
	defer minioObject.Close()
	return io.ReadAll(minioObject)
}

func (m minioStorageServiceImpl) RemoveFile(ctx context.Context, fileKey string) error {
	if m.minioClient.error != nil {
		return m.minioClient.error
	}
	return m.minioClient.client.RemoveObject(ctx, m.creds.BucketName, fileKey, minio.RemoveObjectOptions{})
}

func (m minioStorageServiceImpl) RemoveFiles(ctx context.Context, fileKeys []string) error {
	if len(fileKeys) == 0 {
		return nil
	}
	if m.minioClient.error != nil {
		return m.minioClient.error
	}
	minioObjectsChan := make(chan minio.ObjectInfo, len(fileKeys))
	utils.SafeAsync(func() {
		defer close(minioObjectsChan)
		for _, key := range fileKeys {
			minioObjectsChan <- minio.ObjectInfo{Key: key}
		}
	})
	errMsg := make([]string, 0)
	errChan := m.minioClient.client.RemoveObjects(ctx, m.creds.BucketName, minioObjectsChan, minio.RemoveObjectsOptions{})
	for removeError := range errChan {
		errMsg = append(errMsg, removeError.Err.Error())
	}
	if len(errMsg) > 0 {
		return errors.New(strings.Join(errMsg, ". "))
	}
	return nil
}

func mustGetSystemCertPool() *x509.CertPool {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return x509.NewCertPool()
	}
	return pool
}

func buildAttachmentFileKey(fileId string) string {
	return fmt.Sprintf("%s/%s", attachmentFolder, fileId)
}
