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
	"testing"

	"prefvault/internal/kv"
)

// TestCorruptSettingsReturnNil: a malformed settings record degrades to nil,
// it never raises.
func TestCorruptSettingsReturnNil(t *testing.T) {
	b := kv.NewMemory()
	ctx := context.Background()
	if err := b.Set(ctx, "prefvault_settings", `{"theme": "dark"`); err != nil {
		t.Fatalf("seed corrupt settings: %v", err)
	}
	s := New(b, Options{})
	if got := s.Settings(); got != nil {
		t.Fatalf("Settings on corrupt JSON = %#v, want nil", got)
	}
}

// TestInitializeLeavesCorruptSettingsAlone: initialization checks raw
// presence, so corrupt settings are neither clobbered with defaults nor
// repaired.
func TestInitializeLeavesCorruptSettingsAlone(t *testing.T) {
	b := kv.NewMemory()
	ctx := context.Background()
	corrupt := `{"theme": "dark"`
	if err := b.Set(ctx, "prefvault_settings", corrupt); err != nil {
		t.Fatalf("seed corrupt settings: %v", err)
	}
	s := New(b, Options{})
	if err := s.Initialize(ctx); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	raw, ok, err := b.Get(ctx, "prefvault_settings")
	if err != nil || !ok {
		t.Fatalf("settings key vanished: ok=%v err=%v", ok, err)
	}
	if raw != corrupt {
		t.Fatalf("corrupt settings rewritten to %q", raw)
	}
}

func TestCorruptDataReturnsNil(t *testing.T) {
	b := kv.NewMemory()
	ctx := context.Background()
	if err := b.Set(ctx, "prefvault_data", `[not json`); err != nil {
		t.Fatalf("seed corrupt data: %v", err)
	}
	s := New(b, Options{})
	if got := s.Data(); got != nil {
		t.Fatalf("Data on corrupt JSON = %#v, want nil", got)
	}
}

func TestCorruptItemReturnsDefault(t *testing.T) {
	b := kv.NewMemory()
	ctx := context.Background()
	if err := b.Set(ctx, "cache", `{{`); err != nil {
		t.Fatalf("seed corrupt item: %v", err)
	}
	s := New(b, Options{})
	if v := s.Item("cache", "default"); v != "default" {
		t.Fatalf("Item on corrupt JSON = %v, want default", v)
	}
}
