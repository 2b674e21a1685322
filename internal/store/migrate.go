/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package store

import (
	"context"
	"fmt"
	"log/slog"
)

// MigrationFunc transforms persisted state up to its associated version.
// Migrations run sequentially in version order and at most once per store
// lifetime per version.
type MigrationFunc func(ctx context.Context, s *Store) error

// knownVersions lists every schema version this build understands, ascending.
// The last entry is the target version stamped after migration. Append here
// when adding a migration.
var knownVersions = []string{"0.9.0", "1.0.0"}

var builtinMigrations = map[string]MigrationFunc{
	"1.0.0": migrateLegacySettingsKey,
}

// migrate brings the stored schema version up to the target.
//
// First run (no stored version) stamps the target and runs nothing: a blank
// store needs no migration. An unknown stored version plans no migrations so
// a misapplied step cannot damage data. A failing step aborts the rest of the
// batch but the target version is stamped afterwards regardless, trading a
// retry of the broken step on next load for a usable application.
func (s *Store) migrate(ctx context.Context, l *slog.Logger) error {
	stored, ok, err := s.b.Get(ctx, s.versionKey())
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	target := s.TargetVersion()
	if !ok {
		if err := s.b.Set(ctx, s.versionKey(), target); err != nil {
			return fmt.Errorf("stamp schema version: %w", err)
		}
		l.Info("first run, schema version stamped", slog.String("version", target))
		return nil
	}
	if stored == target {
		return nil
	}

	plan := s.planMigrations(stored, l)
	for _, v := range plan {
		fn := s.migrations[v]
		if fn == nil {
			continue
		}
		if err := fn(ctx, s); err != nil {
			l.Error("migration failed, aborting batch",
				slog.String("version", v), slog.Any("err", err))
			break
		}
		l.Info("migration applied", slog.String("version", v))
	}

	if err := s.b.Set(ctx, s.versionKey(), target); err != nil {
		return fmt.Errorf("stamp schema version: %w", err)
	}
	l.Info("schema version stamped",
		slog.String("from", stored), slog.String("to", target))
	return nil
}

// planMigrations returns the versions strictly after stored up to and
// including the target, by index position in the known-version list.
func (s *Store) planMigrations(stored string, l *slog.Logger) []string {
	idx := -1
	for i, v := range s.versions {
		if v == stored {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.Warn("unknown stored schema version, no migrations planned",
			slog.String("stored", stored))
		return nil
	}
	return s.versions[idx+1:]
}

// migrateLegacySettingsKey renames the pre-1.0.0 settings key to the
// canonical one, only when the legacy key exists and the canonical key does
// not. Existing canonical data is never overwritten.
func migrateLegacySettingsKey(ctx context.Context, s *Store) error {
	legacy, ok, err := s.b.Get(ctx, s.legacyKey())
	if err != nil {
		return fmt.Errorf("read legacy settings: %w", err)
	}
	if !ok {
		return nil
	}
	if _, ok, err := s.b.Get(ctx, s.settingsKey()); err != nil {
		return fmt.Errorf("read settings: %w", err)
	} else if ok {
		return nil
	}
	if err := s.b.Set(ctx, s.settingsKey(), legacy); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := s.b.Delete(ctx, s.legacyKey()); err != nil {
		return fmt.Errorf("remove legacy settings: %w", err)
	}
	return nil
}
