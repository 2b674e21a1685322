/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package kv

import (
	"context"
	"os"
	"reflect"
	"testing"
)

func openTestSQLite(t *testing.T, dir string) *SQLite {
	t.Helper()
	s, err := OpenSQLite(dir)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteBasicOperations(t *testing.T) {
	s := openTestSQLite(t, t.TempDir())
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing = ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "a", "2"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	if err := s.Set(ctx, "b", "3"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := s.Get(ctx, "a")
	if err != nil || !ok || v != "2" {
		t.Fatalf("Get a = %q ok=%v err=%v, want 2", v, ok, err)
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Fatalf("Keys = %v, want [a b]", keys)
	}

	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatalf("key a still present after delete")
	}
	// Deleting an absent key is not an error.
	if err := s.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestSQLiteUsage(t *testing.T) {
	s := openTestSQLite(t, t.TempDir())
	ctx := context.Background()

	n, err := s.Usage(ctx)
	if err != nil || n != 0 {
		t.Fatalf("Usage empty = %d, %v", n, err)
	}
	if err := s.Set(ctx, "ab", "cdef"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	n, err = s.Usage(ctx)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if n != 6 {
		t.Fatalf("Usage = %d, want 6", n)
	}
}

func TestSQLiteEstimate(t *testing.T) {
	s := openTestSQLite(t, t.TempDir())
	ctx := context.Background()
	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	est, err := s.Estimate(ctx)
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if est == nil {
		t.Fatalf("Estimate returned nil for sqlite backend")
	}
	if est.Usage <= 0 || est.Quota <= 0 {
		t.Fatalf("Estimate = %+v, want positive usage and quota", est)
	}
	if est.Usage > est.Quota {
		t.Fatalf("usage %d exceeds quota %d", est.Usage, est.Quota)
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenSQLite(dir)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := s.Set(ctx, "durable", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2 := openTestSQLite(t, dir)
	v, ok, err := s2.Get(ctx, "durable")
	if err != nil || !ok || v != "value" {
		t.Fatalf("Get after reopen = %q ok=%v err=%v", v, ok, err)
	}
}

func TestSQLiteClosedBackend(t *testing.T) {
	s := openTestSQLite(t, t.TempDir())
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// Second close is a no-op.
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	ctx := context.Background()
	if _, _, err := s.Get(ctx, "k"); err != ErrClosed {
		t.Fatalf("Get on closed = %v, want ErrClosed", err)
	}
	if err := s.Set(ctx, "k", "v"); err != ErrClosed {
		t.Fatalf("Set on closed = %v, want ErrClosed", err)
	}
}

func TestOpenSQLiteRejectsEmptyDir(t *testing.T) {
	if _, err := OpenSQLite("  "); err == nil {
		t.Fatalf("OpenSQLite accepted blank dir")
	}
}

func TestOpenSQLiteCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/store"
	s := openTestSQLite(t, dir)
	_ = s
	if _, err := os.Stat(DBPath(dir)); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}
