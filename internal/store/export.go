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
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	applog "prefvault/internal/log"
)

// ErrInvalidBundle marks an import payload rejected before any write. Use
// errors.Is to distinguish it from storage failures.
var ErrInvalidBundle = errors.New("store: invalid backup bundle")

//go:embed bundle_schema.json
var bundleSchema []byte

// Bundle is the backup snapshot written by Export and accepted by Import.
type Bundle struct {
	Settings   map[string]any `json:"settings"`
	Data       map[string]any `json:"data,omitempty"`
	Version    string         `json:"version"`
	ExportDate string         `json:"exportDate"`
	InstallID  string         `json:"installId,omitempty"`
}

// exportDateFormat matches the millisecond ISO form the original bundles
// carried, e.g. 2025-10-03T12:00:00.000Z.
const exportDateFormat = "2006-01-02T15:04:05.000Z"

func (s *Store) bundle() Bundle {
	settings := s.Settings()
	if settings == nil {
		settings = map[string]any{}
	}
	version := s.Version()
	if version == "" {
		version = s.TargetVersion()
	}
	return Bundle{
		Settings:   settings,
		Data:       s.Data(),
		Version:    version,
		ExportDate: s.now().UTC().Format(exportDateFormat),
		InstallID:  s.InstallID(),
	}
}

// ExportTo serializes the current snapshot to w.
func (s *Store) ExportTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s.bundle()); err != nil {
		return fmt.Errorf("encode bundle: %w", err)
	}
	return nil
}

// Export writes the snapshot to <prefix>-backup-<date>.json inside dir and
// returns the full path.
func (s *Store) Export(dir string) (string, error) {
	l := applog.WithOperation(s.log, "export")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	name := fmt.Sprintf("%s-backup-%s.json", s.prefix, s.now().UTC().Format("2006-01-02"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		l.Error("create export file failed", slog.Any("err", err))
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			l.Error("close export file failed", slog.Any("err", cerr))
		}
	}()
	if err := s.ExportTo(f); err != nil {
		return "", err
	}
	l.Info("backup written", slog.String("path", path))
	return path, nil
}

// Import restores a bundle previously produced by Export. The payload is
// validated first; anything missing the required version or settings fields
// is rejected wholesale with ErrInvalidBundle and nothing is written.
// Accepted bundles overwrite settings and, when present, data wholesale;
// import is the one operation that deliberately bypasses merge semantics.
func (s *Store) Import(ctx context.Context, r io.Reader) error {
	l := applog.WithOperation(s.log, "import")
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read bundle: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(bundleSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		// Undecodable JSON lands here.
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		l.Warn("bundle rejected", slog.String("reasons", strings.Join(msgs, "; ")))
		return fmt.Errorf("%w: %s", ErrInvalidBundle, strings.Join(msgs, "; "))
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	if err := s.writeJSON(ctx, s.settingsKey(), b.Settings); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if b.Data != nil {
		if err := s.writeJSON(ctx, s.dataKey(), b.Data); err != nil {
			return fmt.Errorf("write data: %w", err)
		}
	}
	l.Info("bundle imported", slog.String("version", b.Version))
	return nil
}
