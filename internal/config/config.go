/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config holds the user-editable application configuration persisted
// to a YAML file in the user scope. Environment variables are treated as
// read-only overrides at runtime.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type StoreConfig struct {
	// Dir is the directory holding the store database. Empty means the
	// per-OS user data directory.
	Dir string `yaml:"dir"`
	// Prefix namespaces the fixed store keys.
	Prefix string `yaml:"prefix"`
	// RetentionDays bounds the age of timestamped data entries kept by cleanup.
	RetentionDays int `yaml:"retention_days"`
	// ExportDir receives backup bundles. Empty means the current directory.
	ExportDir string `yaml:"export_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the full on-disk configuration.
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Store         StoreConfig   `yaml:"store"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Store:         StoreConfig{Dir: "", Prefix: "prefvault", RetentionDays: 30, ExportDir: ""},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvStoreDir      = "PV_STORE_DIR"
	EnvStorePrefix   = "PV_STORE_PREFIX"
	EnvRetentionDays = "PV_RETENTION_DAYS"
	EnvExportDir     = "PV_EXPORT_DIR"
	EnvLogLevel      = "PV_LOG_LEVEL"
	EnvLogFormat     = "PV_LOG_FORMAT"
	EnvLogSource     = "PV_LOG_SOURCE"
	EnvLogFile       = "PV_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	base, err := userDir("config")
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DefaultStoreDir returns the per-user data directory for the store database.
func DefaultStoreDir() (string, error) {
	return userDir("data")
}

func userDir(kind string) (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "PrefVault")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "PrefVault")
	default: // linux and others
		if kind == "data" {
			base = filepath.Join(os.Getenv("HOME"), ".local", "share", "prefvault")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "prefvault")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve user directory")
	}
	return base, nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides on top.
func Load() (AppConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return Defaults(), err
	}
	return LoadFrom(path)
}

// LoadFrom behaves like Load but reads the given file instead of the default
// location. A missing or unparsable file falls back to defaults.
func LoadFrom(path string) (AppConfig, error) {
	cfg := Defaults()
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if strings.TrimSpace(src.Store.Dir) != "" {
		dst.Store.Dir = strings.TrimSpace(src.Store.Dir)
	}
	if strings.TrimSpace(src.Store.Prefix) != "" {
		dst.Store.Prefix = strings.TrimSpace(src.Store.Prefix)
	}
	if src.Store.RetentionDays > 0 {
		dst.Store.RetentionDays = src.Store.RetentionDays
	}
	if strings.TrimSpace(src.Store.ExportDir) != "" {
		dst.Store.ExportDir = strings.TrimSpace(src.Store.ExportDir)
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvStoreDir)); v != "" {
		cfg.Store.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStorePrefix)); v != "" {
		cfg.Store.Prefix = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRetentionDays)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Store.RetentionDays = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportDir)); v != "" {
		cfg.Store.ExportDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
