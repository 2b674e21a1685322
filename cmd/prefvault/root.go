/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"prefvault/internal/config"
	"prefvault/internal/crash"
	"prefvault/internal/kv"
	applog "prefvault/internal/log"
	"prefvault/internal/store"
	"prefvault/internal/version"
)

// Exit codes: 0 success, 1 user error, 2 system error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagConfig   string
	flagStoreDir string
	flagPrefix   string
)

// Shared state wired up by PersistentPreRunE.
var (
	cfg      config.AppConfig
	storeDir string
	backend  *kv.SQLite
	st       *store.Store
)

var rootCmd = &cobra.Command{
	Use:     "prefvault",
	Short:   "PrefVault is a persistent settings and data store",
	Version: version.String(),
	Long: `PrefVault keeps application settings, free-form data and a schema
version in a local store, applying ordered one-way migrations when the
stored schema version is behind the running build.`,
	SilenceUsage:      true,
	PersistentPreRunE: openStore,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: per-user config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagStoreDir, "store-dir", "", "store directory (default: per-user data dir)")
	rootCmd.PersistentFlags().StringVar(&flagPrefix, "prefix", "", "key prefix (default: prefvault)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(unsetCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(usageCmd)
	rootCmd.AddCommand(secretCmd)
}

// openStore loads configuration, initializes logging and opens the store.
// Runs before every subcommand.
func openStore(cmd *cobra.Command, args []string) error {
	var err error
	if flagConfig != "" {
		cfg, err = config.LoadFrom(flagConfig)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})

	storeDir = flagStoreDir
	if storeDir == "" {
		storeDir = cfg.Store.Dir
	}
	if storeDir == "" {
		if storeDir, err = config.DefaultStoreDir(); err != nil {
			return fmt.Errorf("resolve store dir: %w", err)
		}
	}

	crash.SetReportDir(storeDir)

	backend, err = kv.OpenSQLite(storeDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	prefix := flagPrefix
	if prefix == "" {
		prefix = cfg.Store.Prefix
	}
	st = store.New(backend, store.Options{
		Prefix:    prefix,
		Retention: time.Duration(cfg.Store.RetentionDays) * 24 * time.Hour,
		Secrets:   config.NewKeyring(),
	})
	if err := st.Initialize(cmd.Context()); err != nil {
		_ = backend.Close()
		return fmt.Errorf("initialize store: %w", err)
	}
	return nil
}

func closeStore() error {
	if backend == nil {
		return nil
	}
	return backend.Close()
}
