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

package context

import (
	"net/http"
	"strconv"

	"github.com/shaj13/go-guardian/v2/auth"
)

const SystemAdminExt = "systemAdmin"
const UserEmailExt = "email"

type SecurityContext interface {
	GetUserId() int64
	IsSystemAdmin() bool
}

func Create(r *http.Request) SecurityContext {
	user := auth.User(r)
	if user == nil {
		return &securityContextImpl{}
	}
	userId, _ := strconv.ParseInt(user.GetID(), 10, 64)
	return &securityContextImpl{
		userId:      userId,
		systemAdmin: user.GetExtensions().Get(SystemAdminExt) == "true",
	}
}

// CreateSystemContext is used by background jobs that act on behalf of the service itself.
func CreateSystemContext() SecurityContext {
	return &securityContextImpl{systemAdmin: true}
}

func CreateFromId(userId int64) SecurityContext {
	return &securityContextImpl{
		userId: userId,
	}
}

type securityContextImpl struct {
	userId      int64
	systemAdmin bool
}

func (ctx securityContextImpl) GetUserId() int64 {
	return ctx.userId
}

func (ctx securityContextImpl) IsSystemAdmin() bool {
	return ctx.systemAdmin
}
