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

package entity

import (
	"time"

	"github.com/qubership-export/delay-export-service/view"
)

type UserEntity struct {
	tableName struct{} `pg:"user_data, alias:user_data"`

	Id        int64     `pg:"id, pk"`
	Ref       string    `pg:"ref, type:varchar"`
	Name      string    `pg:"name, type:varchar"`
	Email     string    `pg:"email, type:varchar"`
	CreatedAt time.Time `pg:"created_at, type:timestamp without time zone"`
}

func MakeUserView(userEntity *UserEntity) *view.User {
	return &view.User{
		Id:    userEntity.Id,
		Ref:   userEntity.Ref,
		Name:  userEntity.Name,
		Email: userEntity.Email,
	}
}
