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
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/qubership-export/delay-export-service/db"
	mEntity "github.com/qubership-export/delay-export-service/migration/entity"
	"github.com/qubership-export/delay-export-service/utils"
	log "github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const migrationsFolder = "migrations"

// schema migrations of concurrently starting instances are serialized by this lock
const migrationLockId = 7305163

var migrationFileRegexp = regexp.MustCompile(`^([0-9]+)_(.+)\.(up|down)\.sql$`)

type DBMigrationService interface {
	// Migrate brings the schema to the version of the embedded migrations. Returns the versions before and after.
	Migrate() (int, int, error)
}

type migration struct {
	num  int
	name string
	up   string
	down string
	hash string
}

func NewDBMigrationService(cp db.ConnectionProvider) (DBMigrationService, error) {
	return newDBMigrationService(cp, migrationFiles)
}

func newDBMigrationService(cp db.ConnectionProvider, files fs.FS) (*dbMigrationServiceImpl, error) {
	migrations, err := loadMigrations(files)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration files: %w", err)
	}
	return &dbMigrationServiceImpl{cp: cp, migrations: migrations}, nil
}

type dbMigrationServiceImpl struct {
	cp         db.ConnectionProvider
	migrations []migration
}

func (d *dbMigrationServiceImpl) Migrate() (int, int, error) {
	var before, after int
	err := d.cp.GetConnection().RunInTransaction(context.Background(), func(tx *pg.Tx) error {
		if _, err := tx.Exec(`select pg_advisory_xact_lock(?)`, migrationLockId); err != nil {
			return fmt.Errorf("failed to acquire schema migration lock: %w", err)
		}
		if _, err := tx.Exec(`
			create table if not exists schema_migration
			(
				num        integer primary key,
				name       varchar not null,
				hash       varchar not null,
				sql_down   varchar not null default '',
				applied_at timestamp without time zone not null default now()
			)`); err != nil {
			return fmt.Errorf("failed to create schema_migration table: %w", err)
		}

		var applied []mEntity.AppliedMigrationEntity
		if err := tx.Model(&applied).Order("num ASC").Select(); err != nil {
			return fmt.Errorf("failed to read applied migrations: %w", err)
		}
		before = len(applied)

		pending, rollback, err := planMigrations(d.migrations, applied)
		if err != nil {
			return err
		}
		for _, m := range rollback {
			if _, err := tx.Exec(m.SqlDown); err != nil {
				return fmt.Errorf("failed to roll back migration %d_%s: %w", m.Num, m.Name, err)
			}
			if _, err := tx.Model(&m).WherePK().Delete(); err != nil {
				return err
			}
			log.Infof("Schema migration: rolled back %d_%s", m.Num, m.Name)
		}
		for _, m := range pending {
			start := time.Now()
			if _, err := tx.Exec(m.up); err != nil {
				return fmt.Errorf("failed to apply migration %d_%s: %w", m.num, m.name, err)
			}
			_, err := tx.Model(&mEntity.AppliedMigrationEntity{
				Num:       m.num,
				Name:      m.name,
				Hash:      m.hash,
				SqlDown:   m.down,
				AppliedAt: time.Now(),
			}).Insert()
			if err != nil {
				return fmt.Errorf("failed to record migration %d_%s: %w", m.num, m.name, err)
			}
			utils.PerfLog(fmt.Sprintf("Schema migration: apply %d_%s", m.num, m.name), start, 10*time.Second)
		}
		after = len(d.migrations)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return before, after, nil
}

// planMigrations returns the local migrations to apply and the applied migrations to roll back.
// An applied migration whose content differs from the local file stops the service: it has to be fixed with a new migration.
func planMigrations(local []migration, applied []mEntity.AppliedMigrationEntity) ([]migration, []mEntity.AppliedMigrationEntity, error) {
	rollback := make([]mEntity.AppliedMigrationEntity, 0)
	for i := len(applied) - 1; i >= len(local); i-- {
		rollback = append(rollback, applied[i])
	}
	for i := 0; i < len(applied) && i < len(local); i++ {
		if applied[i].Num != local[i].num {
			return nil, nil, fmt.Errorf("applied migration %d does not match local migration %d", applied[i].Num, local[i].num)
		}
		if applied[i].Hash != local[i].hash {
			return nil, nil, fmt.Errorf("migration %d_%s was modified after it had been applied", local[i].num, local[i].name)
		}
	}
	if len(applied) >= len(local) {
		return []migration{}, rollback, nil
	}
	return local[len(applied):], rollback, nil
}

// loadMigrations reads numbered "N_name.up.sql" / "N_name.down.sql" pairs. Numbers start at 1 without gaps.
func loadMigrations(files fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(files, migrationsFolder)
	if err != nil {
		return nil, err
	}
	byNum := make(map[int]*migration)
	downs := make(map[int]string)
	for _, entry := range entries {
		groups := migrationFileRegexp.FindStringSubmatch(entry.Name())
		if groups == nil {
			continue
		}
		num, _ := strconv.Atoi(groups[1])
		data, err := fs.ReadFile(files, migrationsFolder+"/"+entry.Name())
		if err != nil {
			return nil, err
		}
		if groups[3] == "down" {
			if _, exists := downs[num]; exists {
				return nil, fmt.Errorf("duplicate down migration number %d: %s", num, entry.Name())
			}
			downs[num] = string(data)
			continue
		}
		if _, exists := byNum[num]; exists {
			return nil, fmt.Errorf("duplicate migration number %d: %s", num, entry.Name())
		}
		byNum[num] = &migration{
			num:  num,
			name: groups[2],
			up:   string(data),
			hash: calculateMigrationHash(num, data),
		}
	}
	for num := range downs {
		m, exists := byNum[num]
		if !exists {
			return nil, fmt.Errorf("down migration %d has no up migration", num)
		}
		m.down = downs[num]
	}

	result := make([]migration, 0, len(byNum))
	for _, m := range byNum {
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].num < result[j].num })
	for i, m := range result {
		if m.num != i+1 {
			return nil, fmt.Errorf("migration numbers must start at 1 without gaps, got %d at position %d", m.num, i+1)
		}
	}
	return result, nil
}

func calculateMigrationHash(migrationNum int, data []byte) string {
	return utils.CreateSHA256Hash(append([]byte(strconv.Itoa(migrationNum)), data...))
}
