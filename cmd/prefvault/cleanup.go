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

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Evict data entries older than the retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.CleanupOldData(cmd.Context()); err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
		return nil
	},
}

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show store usage and capacity estimate",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := st.Usage()
		if err != nil {
			return fmt.Errorf("usage: %w", err)
		}
		fmt.Printf("entries: %d bytes\n", n)
		est, err := st.Quota(cmd.Context())
		if err != nil {
			return fmt.Errorf("quota: %w", err)
		}
		if est == nil {
			fmt.Println("quota:   unavailable")
			return nil
		}
		fmt.Printf("on disk: %d bytes\nquota:   %d bytes\n", est.Usage, est.Quota)
		return nil
	},
}
