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
	"reflect"
	"testing"
)

func TestMemoryBasicOperations(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, ok, err := m.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get missing = ok=%v err=%v", ok, err)
	}
	if err := m.Set(ctx, "b", "2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := m.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	keys, err := m.Keys(ctx)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Fatalf("Keys = %v, want sorted [a b]", keys)
	}
	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatalf("key a still present after delete")
	}

	n, err := m.Usage(ctx)
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if n != 2 {
		t.Fatalf("Usage = %d, want 2", n)
	}
}

func TestMemoryHasNoEstimate(t *testing.T) {
	m := NewMemory()
	est, err := m.Estimate(context.Background())
	if err != nil {
		t.Fatalf("Estimate: %v", err)
	}
	if est != nil {
		t.Fatalf("Estimate = %+v, want nil for memory backend", est)
	}
}

func TestMemoryClosed(t *testing.T) {
	m := NewMemory()
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	ctx := context.Background()
	if _, _, err := m.Get(ctx, "k"); err != ErrClosed {
		t.Fatalf("Get on closed = %v, want ErrClosed", err)
	}
	if err := m.Set(ctx, "k", "v"); err != ErrClosed {
		t.Fatalf("Set on closed = %v, want ErrClosed", err)
	}
	if _, err := m.Keys(ctx); err != ErrClosed {
		t.Fatalf("Keys on closed = %v, want ErrClosed", err)
	}
}
