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
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/entity"
	"github.com/qubership-export/delay-export-service/exception"
	"github.com/qubership-export/delay-export-service/repository"
	"github.com/qubership-export/delay-export-service/utils"
	"github.com/qubership-export/delay-export-service/view"
)

type PersonalAccessTokenService interface {
	CreatePAT(ctx context.SecurityContext, req view.PersonalAccessTokenCreateRequest) (*view.PersonalAccessTokenCreateResponse, error)
	DeletePAT(ctx context.SecurityContext, id string) error
	// GetPATByToken returns nil token for unknown or revoked tokens.
	GetPATByToken(pat string) (*view.PersonalAccessTokenItem, *view.User, error)
	ListPATs(userId int64) (*view.PersonalAccessTokens, error)
}

func NewPersonalAccessTokenService(repo repository.PersonalAccessTokenRepository, userService UserService) PersonalAccessTokenService {
	return personalAccessTokenServiceImpl{repo: repo, userService: userService, now: time.Now}
}

type personalAccessTokenServiceImpl struct {
	repo        repository.PersonalAccessTokenRepository
	userService UserService
	now         func() time.Time
}

const ActivePatPerUserLimit = 100

func (p personalAccessTokenServiceImpl) CreatePAT(ctx context.SecurityContext, req view.PersonalAccessTokenCreateRequest) (*view.PersonalAccessTokenCreateResponse, error) {
	count, err := p.repo.CountActiveTokens(ctx.GetUserId())
	if err != nil {
		return nil, fmt.Errorf("failed to check token limit: %w", err)
	}
	if count >= ActivePatPerUserLimit {
		return nil, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.PersonalAccessTokenLimitExceeded,
			Message: exception.PersonalAccessTokenLimitExceededMsg,
			Params:  map[string]interface{}{"limit": ActivePatPerUserLimit},
		}
	}

	free, err := p.repo.CheckNameIsFree(ctx.GetUserId(), req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check token name availability: %w", err)
	}
	if !free {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.PersonalAccessTokenNameIsUsed,
			Message: exception.PersonalAccessTokenNameIsUsedMsg,
			Params:  map[string]interface{}{"name": req.Name},
		}
	}

	now := p.now()
	expiresAt, err := calculateExpiresAt(now, req.DaysUntilExpiry)
	if err != nil {
		return nil, err
	}

	pat := utils.CreateRandomHash()
	ent := entity.PersonalAccessTokenEntity{
		Id:        uuid.New().String(),
		UserId:    ctx.GetUserId(),
		TokenHash: utils.CreateSHA256Hash([]byte(pat)),
		Name:      req.Name,
		SystemAdm: ctx.IsSystemAdmin(),
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err = p.repo.CreatePAT(ent); err != nil {
		return nil, err
	}

	return &view.PersonalAccessTokenCreateResponse{
		PersonalAccessTokenItem: entity.MakePersonalAccessTokenView(ent, now),
		Token:                   pat,
	}, nil
}

// calculateExpiresAt returns zero time for a token that never expires (-1 days).
func calculateExpiresAt(now time.Time, daysUntilExpiry int) (time.Time, error) {
	if daysUntilExpiry == -1 {
		return time.Time{}, nil
	}

	if daysUntilExpiry < -1 || daysUntilExpiry == 0 {
		return time.Time{}, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.PersonalAccessTokenIncorrectExpiry,
			Message: exception.PersonalAccessTokenIncorrectExpiryMsg,
			Params:  map[string]interface{}{"param": "daysUntilExpiry"},
		}
	}

	return now.Add(time.Duration(daysUntilExpiry) * 24 * time.Hour), nil
}

func (p personalAccessTokenServiceImpl) DeletePAT(ctx context.SecurityContext, id string) error {
	pat, err := p.repo.GetPAT(id, ctx.GetUserId())
	if err != nil {
		return fmt.Errorf("failed to get personal access token: %w", err)
	}
	if pat == nil || !pat.DeletedAt.IsZero() {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.PersonalAccessTokenNotFound,
			Message: exception.PersonalAccessTokenNotFoundMsg,
			Params:  map[string]interface{}{"id": id},
		}
	}
	return p.repo.DeletePAT(pat.Id, ctx.GetUserId())
}

func (p personalAccessTokenServiceImpl) GetPATByToken(pat string) (*view.PersonalAccessTokenItem, *view.User, error) {
	ent, err := p.repo.GetPATByHash(utils.CreateSHA256Hash([]byte(pat)))
	if err != nil {
		return nil, nil, err
	}
	if ent == nil {
		return nil, nil, nil
	}
	result := entity.MakePersonalAccessTokenView(*ent, p.now())

	user, err := p.userService.GetUserFromDB(ent.UserId)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user for personal access token: %w", err)
	}
	return &result, user, nil
}

func (p personalAccessTokenServiceImpl) ListPATs(userId int64) (*view.PersonalAccessTokens, error) {
	pats, err := p.repo.ListPATs(userId)
	if err != nil {
		return nil, err
	}
	now := p.now()
	result := make([]view.PersonalAccessTokenItem, 0, len(pats))
	for _, pat := range pats {
		result = append(result, entity.MakePersonalAccessTokenView(pat, now))
	}
	return &view.PersonalAccessTokens{Tokens: result}, nil
}
