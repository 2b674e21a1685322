/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package store

import (
	"errors"
	"log/slog"
)

// ErrNoSecretStore is returned by the secret accessors when the store was
// built without one.
var ErrNoSecretStore = errors.New("store: no secret store configured")

// Secrets holds values that must never reach the kv backend or an export
// bundle, typically the OS keyring. Implementations live outside this
// package; tests stub it.
type Secrets interface {
	Get(name string) (string, error)
	Set(name, value string) error
	Delete(name string) error
}

// Secret returns the named secret value.
func (s *Store) Secret(name string) (string, error) {
	if s.secrets == nil {
		return "", ErrNoSecretStore
	}
	return s.secrets.Get(name)
}

// SetSecret stores a secret value outside the kv backend.
func (s *Store) SetSecret(name, value string) error {
	if s.secrets == nil {
		return ErrNoSecretStore
	}
	if err := s.secrets.Set(name, value); err != nil {
		s.log.Error("store secret failed", slog.String("name", name), slog.Any("err", err))
		return err
	}
	return nil
}

// DeleteSecret removes a secret value.
func (s *Store) DeleteSecret(name string) error {
	if s.secrets == nil {
		return ErrNoSecretStore
	}
	return s.secrets.Delete(name)
}
