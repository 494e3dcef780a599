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

type DelayExportEntity struct {
	tableName struct{} `pg:"delay_export"`

	Id               int64      `pg:"id, pk"`
	UserId           int64      `pg:"user_id, type:bigint"`
	ModelDescription string     `pg:"model_description, type:varchar"`
	Url              string     `pg:"url, type:varchar"`
	ExpirationDate   *time.Time `pg:"expiration_date, type:date"`
	CreatedAt        time.Time  `pg:"created_at, type:timestamp without time zone"`
}

func MakeDelayExportView(ent *DelayExportEntity) *view.DelayExport {
	return &view.DelayExport{
		Id:               ent.Id,
		UserId:           ent.UserId,
		ModelDescription: ent.ModelDescription,
		Url:              ent.Url,
		ExpirationDate:   ent.ExpirationDate,
		CreatedAt:        ent.CreatedAt,
	}
}
