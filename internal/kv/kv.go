/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package kv provides the key-value persistence layer the store is built on.
// Values are opaque strings; callers handle their own serialization. Two
// backends exist: a durable SQLite-backed one and an in-memory one.
package kv

import (
	"context"
	"errors"
)

// ErrClosed is returned by all operations after Close.
var ErrClosed = errors.New("kv: backend closed")

// Backend is a flat string-to-string key space.
type Backend interface {
	// Get returns the value for key. The boolean reports presence; a missing
	// key is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Keys returns every key currently present.
	Keys(ctx context.Context) ([]string, error)

	// Usage returns the sum of len(key)+len(value) over all entries.
	Usage(ctx context.Context) (int64, error)

	// Estimate reports capacity information, or nil when the backend cannot
	// provide one.
	Estimate(ctx context.Context) (*Estimate, error)

	// Close releases resources held by the backend.
	Close() error
}

// Estimate describes how much space the backing medium holds and uses.
// Quota is zero when the backend has no hard limit.
type Estimate struct {
	Usage int64 `json:"usage"`
	Quota int64 `json:"quota"`
}
