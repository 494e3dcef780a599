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

package view

import (
	"time"
)

// PersonalAccessTokenCreateRequest creates a token that never expires when DaysUntilExpiry is -1.
type PersonalAccessTokenCreateRequest struct {
	Name            string `json:"name" validate:"required"`
	DaysUntilExpiry int    `json:"daysUntilExpiry" validate:"required"`
}

type PersonalAccessTokenCreateResponse struct {
	PersonalAccessTokenItem
	Token string `json:"token"`
}

type PersonalAccessTokenStatus string

const PersonalAccessTokenActive PersonalAccessTokenStatus = "active"
const PersonalAccessTokenExpired PersonalAccessTokenStatus = "expired"

type PersonalAccessTokenItem struct {
	Id          string                    `json:"id"`
	Name        string                    `json:"name"`
	SystemAdmin bool                      `json:"systemAdmin"`
	ExpiresAt   *time.Time                `json:"expiresAt"`
	CreatedAt   time.Time                 `json:"createdAt"`
	Status      PersonalAccessTokenStatus `json:"status"`
}

type PersonalAccessTokens struct {
	Tokens []PersonalAccessTokenItem `json:"tokens"`
}
