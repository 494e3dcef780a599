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
	"github.com/qubership-export/delay-export-service/service"
	"github.com/shaj13/go-guardian/v2/auth/strategies/token"
	"github.com/shaj13/go-guardian/v2/auth/strategies/union"
	"github.com/shaj13/libcache"
	_ "github.com/shaj13/libcache/lru"
)

var strategy union.Union

// SetupGoGuardian accepts a personal access token either as a bearer token or in the PATHeader header.
func SetupGoGuardian(patService service.PersonalAccessTokenService) {
	cache := libcache.LRU.New(1000)
	cache.SetTTL(tokenCacheTtl)
	cache.RegisterOnExpired(func(key, _ interface{}) {
		cache.Delete(key)
	})
	authenticate := newPATAuthenticateFunc(patService)
	bearerStrategy := token.New(authenticate, cache)
	patHeaderStrategy := token.New(authenticate, cache, token.SetParser(token.XHeaderParser(PATHeader)))
	strategy = union.New(bearerStrategy, patHeaderStrategy)
}
