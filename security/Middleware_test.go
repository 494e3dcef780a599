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

package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/view"
	"github.com/stretchr/testify/assert"
)

type stubPATService struct {
	tokens map[string]view.PersonalAccessTokenItem
	users  map[string]view.User
}

func (s stubPATService) CreatePAT(ctx context.SecurityContext, req view.PersonalAccessTokenCreateRequest) (*view.PersonalAccessTokenCreateResponse, error) {
	panic("not expected")
}

func (s stubPATService) DeletePAT(ctx context.SecurityContext, id string) error {
	panic("not expected")
}

func (s stubPATService) GetPATByToken(pat string) (*view.PersonalAccessTokenItem, *view.User, error) {
	item, ok := s.tokens[pat]
	if !ok {
		return nil, nil, nil
	}
	user := s.users[pat]
	return &item, &user, nil
}

func (s stubPATService) ListPATs(userId int64) (*view.PersonalAccessTokens, error) {
	panic("not expected")
}

func TestSecure(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	SetupGoGuardian(stubPATService{
		tokens: map[string]view.PersonalAccessTokenItem{
			"user-token":    {Id: "1", Status: view.PersonalAccessTokenActive},
			"admin-token":   {Id: "2", Status: view.PersonalAccessTokenActive, SystemAdmin: true},
			"expired-token": {Id: "3", Status: view.PersonalAccessTokenExpired, ExpiresAt: &past},
		},
		users: map[string]view.User{
			"user-token":    {Id: 10, Name: "user", Email: "user@example.com"},
			"admin-token":   {Id: 20, Name: "admin"},
			"expired-token": {Id: 30, Name: "expired"},
		},
	})

	tests := []struct {
		name        string
		header      string
		value       string
		wantStatus  int
		wantUserId  int64
		wantIsAdmin bool
	}{
		{name: "no token", wantStatus: http.StatusUnauthorized},
		{name: "unknown token", header: "Authorization", value: "Bearer nope", wantStatus: http.StatusUnauthorized},
		{name: "bearer token", header: "Authorization", value: "Bearer user-token", wantStatus: http.StatusOK, wantUserId: 10},
		{name: "token header", header: PATHeader, value: "admin-token", wantStatus: http.StatusOK, wantUserId: 20, wantIsAdmin: true},
		{name: "expired token", header: PATHeader, value: "expired-token", wantStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got context.SecurityContext
			handler := Secure(func(w http.ResponseWriter, r *http.Request) {
				got = context.Create(r)
				w.WriteHeader(http.StatusOK)
			})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/delay-export", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantUserId, got.GetUserId())
				assert.Equal(t, tt.wantIsAdmin, got.IsSystemAdmin())
			}
		})
	}
}

func TestSecureRecoversPanic(t *testing.T) {
	handler := NoSecure(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/live", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
