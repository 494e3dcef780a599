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

import "time"

const AttachmentTypeBinary = "binary"

type AttachmentEntity struct {
	tableName struct{} `pg:"attachment"`

	Id         int64     `pg:"id, pk"`
	Name       string    `pg:"name, type:varchar"`
	Type       string    `pg:"type, type:varchar"`
	ResModel   string    `pg:"res_model, type:varchar"`
	ResId      int64     `pg:"res_id, type:bigint"`
	Datas      string    `pg:"datas, type:text"`
	StoreFname string    `pg:"store_fname, type:varchar"`
	FileSize   int       `pg:"file_size, type:integer"`
	Mimetype   string    `pg:"mimetype, type:varchar"`
	CreatedAt  time.Time `pg:"created_at, type:timestamp without time zone"`
}
