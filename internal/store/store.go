/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package store implements the persistent settings/data store. It owns three
// logical namespaces in the underlying key-value layer (settings, free-form
// data, schema version), applies hard-coded defaults on first run, and runs
// ordered one-way migrations when the stored schema version is behind the
// running application's target version.
//
// Write failures surface as errors; read paths degrade to the caller-supplied
// default on absence or corrupt JSON, so the application keeps working with
// whatever state it has.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"prefvault/internal/kv"
	applog "prefvault/internal/log"
)

// DefaultPrefix namespaces all fixed keys in the shared kv space.
const DefaultPrefix = "prefvault"

// DefaultRetention is the age limit applied by CleanupOldData.
const DefaultRetention = 30 * 24 * time.Hour

// Suffixes of the fixed keys, appended to the configured prefix.
const (
	settingsSuffix = "_settings"
	dataSuffix     = "_data"
	versionSuffix  = "_version"
	installSuffix  = "_install"

	// legacySuffix is the pre-1.0.0 settings key, migrated on first load.
	legacySuffix = "_config"
)

// DefaultSettings returns the settings written on first run. Initialization
// fills in any of these keys that are missing, never overwriting present ones.
func DefaultSettings() map[string]any {
	return map[string]any{
		"theme":         "auto",
		"notifications": true,
		"autoUpdate":    true,
		"language":      "en",
		"debugMode":     false,
	}
}

// Options tunes a Store. The zero value selects the defaults.
type Options struct {
	// Prefix replaces DefaultPrefix for all fixed keys.
	Prefix string
	// Retention replaces DefaultRetention for CleanupOldData.
	Retention time.Duration
	// Secrets enables the keyring-backed secret accessors; nil disables them.
	Secrets Secrets
	// Now replaces time.Now, for tests.
	Now func() time.Time
	// Versions and Migrations replace the built-in migration table, for tests.
	Versions   []string
	Migrations map[string]MigrationFunc
}

// Store is the persistent settings/data store. Construct one per process with
// New and pass it to every consumer needing persistence; there is no package
// global.
type Store struct {
	b         kv.Backend
	prefix    string
	retention time.Duration
	secrets   Secrets
	now       func() time.Time
	log       *slog.Logger

	versions   []string
	migrations map[string]MigrationFunc

	mu          sync.Mutex
	initialized bool
}

// New wraps backend b. The store is not usable for settings access until
// Initialize has run.
func New(b kv.Backend, opts Options) *Store {
	s := &Store{
		b:          b,
		prefix:     opts.Prefix,
		retention:  opts.Retention,
		secrets:    opts.Secrets,
		now:        opts.Now,
		versions:   opts.Versions,
		migrations: opts.Migrations,
		log:        applog.WithComponent("store"),
	}
	if s.prefix == "" {
		s.prefix = DefaultPrefix
	}
	if s.retention <= 0 {
		s.retention = DefaultRetention
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.versions == nil {
		s.versions = knownVersions
	}
	if s.migrations == nil {
		s.migrations = builtinMigrations
	}
	return s
}

func (s *Store) settingsKey() string { return s.prefix + settingsSuffix }
func (s *Store) dataKey() string     { return s.prefix + dataSuffix }
func (s *Store) versionKey() string  { return s.prefix + versionSuffix }
func (s *Store) installKey() string  { return s.prefix + installSuffix }
func (s *Store) legacyKey() string   { return s.prefix + legacySuffix }

// TargetVersion is the schema version this build writes after migration.
func (s *Store) TargetVersion() string { return s.versions[len(s.versions)-1] }

// Initialize runs the migration check, seeds default settings and the install
// id on first run, and marks the store ready. It is idempotent: after the
// first successful completion further calls are no-ops. The whole sequence
// runs under a lock, so concurrent callers cannot interleave migrations.
//
// Only storage-layer failures are returned; a failed migration step is logged
// and absorbed so the application stays usable with a stale schema.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	l := applog.WithOperation(s.log, "initialize")

	if err := s.migrate(ctx, l); err != nil {
		return err
	}

	// Seed defaults. Presence is checked on the raw key so corrupt JSON is
	// never clobbered here; fixSettingsDefaults only touches decodable state.
	_, ok, err := s.b.Get(ctx, s.settingsKey())
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if !ok {
		if err := s.writeJSON(ctx, s.settingsKey(), DefaultSettings()); err != nil {
			return fmt.Errorf("write default settings: %w", err)
		}
		l.Info("default settings written")
	} else if err := s.fixSettingsDefaults(ctx, l); err != nil {
		return err
	}

	if _, ok, err := s.b.Get(ctx, s.installKey()); err != nil {
		return fmt.Errorf("read install id: %w", err)
	} else if !ok {
		id := uuid.NewString()
		if err := s.b.Set(ctx, s.installKey(), id); err != nil {
			return fmt.Errorf("write install id: %w", err)
		}
		l.Info("install id assigned", slog.String("install", id))
	}

	s.initialized = true
	return nil
}

// fixSettingsDefaults fills in missing default keys on an existing, decodable
// settings record. Corrupt JSON is left untouched.
func (s *Store) fixSettingsDefaults(ctx context.Context, l *slog.Logger) error {
	cur, ok := s.readJSON(ctx, s.settingsKey())
	if !ok {
		l.Warn("settings present but not decodable; leaving as is")
		return nil
	}
	changed := false
	for k, v := range DefaultSettings() {
		if _, present := cur[k]; !present {
			cur[k] = v
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := s.writeJSON(ctx, s.settingsKey(), cur); err != nil {
		return fmt.Errorf("backfill default settings: %w", err)
	}
	return nil
}

// Settings returns the decoded settings record, or nil when absent or when
// the stored JSON is corrupt (logged, never an error).
func (s *Store) Settings() map[string]any {
	m, ok := s.readJSON(context.Background(), s.settingsKey())
	if !ok {
		return nil
	}
	return m
}

// SetSettings shallow-merges partial on top of the current settings record
// (or an empty one) and writes the result. Callers pass only the fields that
// changed; constructing a full record from defaults and passing it wholesale
// would clobber user state.
func (s *Store) SetSettings(partial map[string]any) error {
	return s.mergeWrite(s.settingsKey(), partial, map[string]any{})
}

// UpdateSettings behaves like SetSettings but guarantees the built-in
// defaults as the merge base when nothing is stored yet.
func (s *Store) UpdateSettings(updates map[string]any) error {
	return s.mergeWrite(s.settingsKey(), updates, DefaultSettings())
}

// Item reads the JSON value stored under key, returning def on absence or
// decode failure.
func (s *Store) Item(key string, def any) any {
	ctx := context.Background()
	raw, ok, err := s.b.Get(ctx, key)
	if err != nil || !ok {
		if err != nil {
			s.log.Error("read item failed", slog.String("key", key), slog.Any("err", err))
		}
		return def
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.log.Warn("corrupt item ignored", slog.String("key", key), slog.Any("err", err))
		return def
	}
	return v
}

// SetItem stores v JSON-encoded under key.
func (s *Store) SetItem(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode item %q: %w", key, err)
	}
	if err := s.b.Set(context.Background(), key, string(raw)); err != nil {
		s.log.Error("write item failed", slog.String("key", key), slog.Any("err", err))
		return err
	}
	return nil
}

// RemoveItem deletes key from the underlying store.
func (s *Store) RemoveItem(key string) error {
	return s.b.Delete(context.Background(), key)
}

// Data returns the free-form data record, or nil when absent or corrupt.
func (s *Store) Data() map[string]any {
	m, ok := s.readJSON(context.Background(), s.dataKey())
	if !ok {
		return nil
	}
	return m
}

// SetData replaces the whole data record.
func (s *Store) SetData(data map[string]any) error {
	if err := s.writeJSON(context.Background(), s.dataKey(), data); err != nil {
		s.log.Error("write data failed", slog.Any("err", err))
		return err
	}
	return nil
}

// UpdateData shallow-merges updates into the current data record.
func (s *Store) UpdateData(updates map[string]any) error {
	return s.mergeWrite(s.dataKey(), updates, map[string]any{})
}

// ClearData removes the data record.
func (s *Store) ClearData() error {
	return s.b.Delete(context.Background(), s.dataKey())
}

// ClearAll removes every key from the underlying store, including the schema
// version stamp. The next Initialize behaves like a first run.
func (s *Store) ClearAll() error {
	ctx := context.Background()
	keys, err := s.b.Keys(ctx)
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}
	for _, k := range keys {
		if err := s.b.Delete(ctx, k); err != nil {
			return fmt.Errorf("delete %q: %w", k, err)
		}
	}
	s.mu.Lock()
	s.initialized = false
	s.mu.Unlock()
	return nil
}

// Version returns the stored schema version, or "" before first Initialize.
func (s *Store) Version() string {
	v, ok, err := s.b.Get(context.Background(), s.versionKey())
	if err != nil || !ok {
		return ""
	}
	return v
}

// InstallID returns the per-installation id stamped on first Initialize.
func (s *Store) InstallID() string {
	v, ok, err := s.b.Get(context.Background(), s.installKey())
	if err != nil || !ok {
		return ""
	}
	return v
}

// Usage sums len(key)+len(value) over every key in the underlying store.
// Diagnostic only; nothing enforces a limit.
func (s *Store) Usage() (int64, error) {
	return s.b.Usage(context.Background())
}

// Quota reports the backend's capacity estimate, or nil when the backend
// cannot provide one.
func (s *Store) Quota(ctx context.Context) (*kv.Estimate, error) {
	return s.b.Estimate(ctx)
}

// readJSON decodes the object stored under key. ok is false on absence and
// on corrupt JSON; the latter is logged.
func (s *Store) readJSON(ctx context.Context, key string) (map[string]any, bool) {
	raw, ok, err := s.b.Get(ctx, key)
	if err != nil {
		s.log.Error("read failed", slog.String("key", key), slog.Any("err", err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		s.log.Warn("corrupt record ignored", slog.String("key", key), slog.Any("err", err))
		return nil, false
	}
	return m, true
}

func (s *Store) writeJSON(ctx context.Context, key string, m map[string]any) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	return s.b.Set(ctx, key, string(raw))
}

// mergeWrite loads the record under key (falling back to base when absent or
// corrupt), shallow-merges updates on top and writes the result back.
func (s *Store) mergeWrite(key string, updates map[string]any, base map[string]any) error {
	ctx := context.Background()
	cur, ok := s.readJSON(ctx, key)
	if !ok {
		cur = base
	}
	for k, v := range updates {
		cur[k] = v
	}
	if err := s.writeJSON(ctx, key, cur); err != nil {
		s.log.Error("merge write failed", slog.String("key", key), slog.Any("err", err))
		return err
	}
	return nil
}
