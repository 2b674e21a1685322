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

	"github.com/spf13/cobra"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Work with keyring-backed secrets",
	Long: `Secrets are filed in the OS keyring, never in the store database,
and never appear in export bundles.`,
}

var secretGetCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Print a secret value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := st.Secret(args[0])
		if err != nil {
			return fmt.Errorf("secret %q: %w", args[0], err)
		}
		fmt.Println(v)
		return nil
	},
}

var secretSetCmd = &cobra.Command{
	Use:   "set <name> <value>",
	Short: "Store a secret value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.SetSecret(args[0], args[1]); err != nil {
			return fmt.Errorf("store secret %q: %w", args[0], err)
		}
		return nil
	},
}

var secretRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a secret value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.DeleteSecret(args[0]); err != nil {
			return fmt.Errorf("delete secret %q: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	secretCmd.AddCommand(secretGetCmd)
	secretCmd.AddCommand(secretSetCmd)
	secretCmd.AddCommand(secretRmCmd)
}
