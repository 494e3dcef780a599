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
	goctx "context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/qubership-export/delay-export-service/context"
	"github.com/qubership-export/delay-export-service/service"
	"github.com/qubership-export/delay-export-service/view"
	"github.com/shaj13/go-guardian/v2/auth"
	"github.com/shaj13/go-guardian/v2/auth/strategies/token"
)

const PATHeader = "X-Personal-Access-Token"

const tokenCacheTtl = time.Minute * 5

// newPATAuthenticateFunc resolves a personal access token to the owner. Resolved tokens are kept
// in the strategy cache for tokenCacheTtl.
func newPATAuthenticateFunc(patService service.PersonalAccessTokenService) token.AuthenticateFunc {
	return func(ctx goctx.Context, r *http.Request, tkn string) (auth.Info, time.Time, error) {
		if tkn == "" {
			return nil, time.Time{}, fmt.Errorf("authentication failed: token is empty")
		}
		pat, user, err := patService.GetPATByToken(tkn)
		if err != nil {
			return nil, time.Time{}, err
		}
		if pat == nil {
			return nil, time.Time{}, fmt.Errorf("authentication failed: personal access token not found")
		}
		if pat.Status != view.PersonalAccessTokenActive {
			return nil, time.Time{}, fmt.Errorf("authentication failed: inactive personal access token")
		}
		if user == nil {
			return nil, time.Time{}, fmt.Errorf("authentication failed: unable to retrieve user for personal access token")
		}
		userExtensions := auth.Extensions{}
		userExtensions.Set(context.SystemAdminExt, strconv.FormatBool(pat.SystemAdmin))
		if user.Email != "" {
			userExtensions.Set(context.UserEmailExt, user.Email)
		}
		expiresAt := time.Now().Add(tokenCacheTtl)
		if pat.ExpiresAt != nil && pat.ExpiresAt.Before(expiresAt) {
			expiresAt = *pat.ExpiresAt
		}
		return auth.NewDefaultUser(user.Name, strconv.FormatInt(user.Id, 10), []string{}, userExtensions), expiresAt, nil
	}
}
