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

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Work with the free-form data namespace",
}

var dataGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one data entry, or the whole record",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data := st.Data()
		if data == nil {
			data = map[string]any{}
		}
		if len(args) == 0 {
			return printJSON(data)
		}
		v, ok := data[args[0]]
		if !ok {
			return fmt.Errorf("no data entry %q", args[0])
		}
		return printJSON(v)
	},
}

var dataSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Merge one entry into the data record",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := st.UpdateData(map[string]any{args[0]: parseValue(args[1])}); err != nil {
			return fmt.Errorf("set data %q: %w", args[0], err)
		}
		return nil
	},
}

var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the whole data record",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return st.ClearData()
	},
}

func init() {
	dataCmd.AddCommand(dataGetCmd)
	dataCmd.AddCommand(dataSetCmd)
	dataCmd.AddCommand(dataClearCmd)
}
