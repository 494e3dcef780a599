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
	"testing"
	"testing/fstest"

	mEntity "github.com/qubership-export/delay-export-service/migration/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	service, err := newDBMigrationService(nil, migrationFiles)
	require.NoError(t, err)
	require.Len(t, service.migrations, 4)

	first := service.migrations[0]
	assert.Equal(t, 1, first.num)
	assert.Equal(t, "init", first.name)
	assert.Contains(t, first.up, "delay_export")
	assert.Contains(t, first.down, "drop table")
	assert.Equal(t, calculateMigrationHash(1, []byte(first.up)), first.hash)
	assert.Equal(t, "res_partner", service.migrations[2].name)
	assert.Equal(t, "field_type", service.migrations[3].name)
	assert.Contains(t, service.migrations[3].up, "'boolean'")
}

func TestLoadMigrations(t *testing.T) {
	tests := []struct {
		name          string
		files         fstest.MapFS
		expectedErr   string
		expectedNames []string
	}{
		{
			name: "valid",
			files: fstest.MapFS{
				"migrations/2_data.up.sql":   {Data: []byte("insert into a values();")},
				"migrations/1_init.up.sql":   {Data: []byte("create table a();")},
				"migrations/1_init.down.sql": {Data: []byte("drop table a;")},
				"migrations/readme.md":       {Data: []byte("ignored")},
			},
			expectedNames: []string{"init", "data"},
		},
		{
			name: "gap in numbers",
			files: fstest.MapFS{
				"migrations/1_init.up.sql": {Data: []byte("")},
				"migrations/3_data.up.sql": {Data: []byte("")},
			},
			expectedErr: "without gaps, got 3 at position 2",
		},
		{
			name: "duplicate number",
			files: fstest.MapFS{
				"migrations/1_init.up.sql":  {Data: []byte("")},
				"migrations/1_other.up.sql": {Data: []byte("")},
			},
			expectedErr: "duplicate migration number 1",
		},
		{
			name: "orphaned down migration",
			files: fstest.MapFS{
				"migrations/1_init.up.sql":   {Data: []byte("")},
				"migrations/2_data.down.sql": {Data: []byte("")},
			},
			expectedErr: "down migration 2 has no up migration",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			migrations, err := loadMigrations(tt.files)
			if tt.expectedErr != "" {
				assert.ErrorContains(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			names := make([]string, 0, len(migrations))
			for _, m := range migrations {
				names = append(names, m.name)
			}
			assert.Equal(t, tt.expectedNames, names)
			assert.Equal(t, "drop table a;", migrations[0].down)
			assert.Empty(t, migrations[1].down)
		})
	}
}

func TestPlanMigrations(t *testing.T) {
	local := []migration{
		{num: 1, name: "init", hash: "h1"},
		{num: 2, name: "data", hash: "h2"},
		{num: 3, name: "more", hash: "h3"},
	}
	applied := func(hashes ...string) []mEntity.AppliedMigrationEntity {
		result := make([]mEntity.AppliedMigrationEntity, 0, len(hashes))
		for i, h := range hashes {
			result = append(result, mEntity.AppliedMigrationEntity{Num: i + 1, Hash: h, SqlDown: "down"})
		}
		return result
	}

	tests := []struct {
		name            string
		local           []migration
		applied         []mEntity.AppliedMigrationEntity
		expectedPending []int
		expectedRolled  []int
		expectedErr     string
	}{
		{name: "fresh database", local: local, applied: applied(), expectedPending: []int{1, 2, 3}},
		{name: "partially applied", local: local, applied: applied("h1"), expectedPending: []int{2, 3}},
		{name: "up to date", local: local, applied: applied("h1", "h2", "h3")},
		{name: "newer schema", local: local[:1], applied: applied("h1", "h2", "h3"), expectedRolled: []int{3, 2}},
		{name: "modified migration", local: local, applied: applied("h1", "changed"), expectedErr: "migration 2_data was modified"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending, rollback, err := planMigrations(tt.local, tt.applied)
			if tt.expectedErr != "" {
				assert.ErrorContains(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			pendingNums := make([]int, 0)
			for _, m := range pending {
				pendingNums = append(pendingNums, m.num)
			}
			rolledNums := make([]int, 0)
			for _, m := range rollback {
				rolledNums = append(rolledNums, m.Num)
			}
			if tt.expectedPending == nil {
				tt.expectedPending = []int{}
			}
			if tt.expectedRolled == nil {
				tt.expectedRolled = []int{}
			}
			assert.Equal(t, tt.expectedPending, pendingNums)
			assert.Equal(t, tt.expectedRolled, rolledNums)
		})
	}
}

func TestCalculateMigrationHash(t *testing.T) {
	data := []byte("create table a();")
	assert.Equal(t, calculateMigrationHash(1, data), calculateMigrationHash(1, data))
	assert.NotEqual(t, calculateMigrationHash(1, data), calculateMigrationHash(2, data))
}
