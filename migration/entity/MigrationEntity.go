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

// AppliedMigrationEntity is a migration recorded as applied. SqlDown is kept so that a
// schema written by a newer release can be rolled back by an older one.
type AppliedMigrationEntity struct {
	tableName struct{} `pg:"schema_migration, alias:schema_migration"`

	Num       int       `pg:"num, pk, type:integer"`
	Name      string    `pg:"name, type:varchar"`
	Hash      string    `pg:"hash, type:varchar"`
	SqlDown   string    `pg:"sql_down, use_zero, type:varchar"`
	AppliedAt time.Time `pg:"applied_at, type:timestamp without time zone"`
}
