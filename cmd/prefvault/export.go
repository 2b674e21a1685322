/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prefvault/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export [dir]",
	Short: "Write a backup bundle and print its path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.Store.ExportDir
		if len(args) == 1 {
			dir = args[0]
		}
		if dir == "" {
			dir = "."
		}
		path, err := st.Export(dir)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		fmt.Println(path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Restore settings and data from a backup bundle",
	Long: `Restore from a bundle previously written by export. The bundle must
carry both a version and a settings field; anything else is rejected without
touching the store. Settings and data are replaced wholesale.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open bundle: %w", err)
		}
		defer f.Close()
		if err := st.Import(cmd.Context(), f); err != nil {
			if errors.Is(err, store.ErrInvalidBundle) {
				return fmt.Errorf("rejected: %w", err)
			}
			return fmt.Errorf("import: %w", err)
		}
		fmt.Println("imported", args[0])
		return nil
	},
}
