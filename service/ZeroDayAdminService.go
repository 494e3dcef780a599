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
	"time"

	"github.com/google/uuid"
	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/utils"
	log "github.com/sirupsen/logrus"
)

const zeroDayAdminTokenName = "zero-day-admin"

type ZeroDayAdminService interface {
	CreateZeroDayAdmin() error
}

func NewZeroDayAdminService(userRepo repository.UserRepository, patRepo repository.PersonalAccessTokenRepository, systemInfoService SystemInfoService) ZeroDayAdminService {
	return &zeroDayAdminServiceImpl{
		userRepo:          userRepo,
		patRepo:           patRepo,
		systemInfoService: systemInfoService,
	}
}

type zeroDayAdminServiceImpl struct {
	userRepo          repository.UserRepository
	patRepo           repository.PersonalAccessTokenRepository
	systemInfoService SystemInfoService
}

// CreateZeroDayAdmin makes sure the configured admin user exists and owns a
// non-expiring system admin token equal to ZERO_DAY_ADMIN_TOKEN.
func (a zeroDayAdminServiceImpl) CreateZeroDayAdmin() error {
	email, token, err := a.systemInfoService.GetZeroDayAdminCreds()
	if err != nil {
		return fmt.Errorf("CreateZeroDayAdmin: credentials error: %w, admin will not be created", err)
	}

	user, err := a.userRepo.GetUserByEmail(email)
	if err != nil {
		return err
	}
	if user == nil {
		user = &entity.UserEntity{
			Ref:       email,
			Name:      email,
			Email:     email,
			CreatedAt: time.Now(),
		}
		if err = a.userRepo.CreateUser(user); err != nil {
			return err
		}
		log.Infof("CreateZeroDayAdmin: system admin user '%s' has been created", email)
	} else {
		log.Infof("CreateZeroDayAdmin: system admin user is already present")
	}

	tokenHash := utils.CreateSHA256Hash([]byte(token))
	existing, err := a.patRepo.GetPATByHash(tokenHash)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.UserId != user.Id || !existing.SystemAdm {
			return fmt.Errorf("CreateZeroDayAdmin: configured token is already issued to another principal")
		}
		return nil
	}
	err = a.patRepo.CreatePAT(entity.PersonalAccessTokenEntity{
		Id:        uuid.New().String(),
		UserId:    user.Id,
		TokenHash: tokenHash,
		Name:      zeroDayAdminTokenName,
		SystemAdm: true,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	log.Infof("CreateZeroDayAdmin: system admin token has been issued for '%s'", email)
	return nil
}
