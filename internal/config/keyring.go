/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	keyring "github.com/zalando/go-keyring"
)

// keyringService is the service name under which secrets are filed in the OS
// keyring.
const keyringService = "PrefVault"

// Keyring stores secret values in the OS keyring. It satisfies the store
// package's Secrets interface; secret values never touch the kv backend.
type Keyring struct {
	service string
}

// NewKeyring returns a Keyring filing secrets under the default service name.
func NewKeyring() *Keyring {
	return &Keyring{service: keyringService}
}

func (k *Keyring) Get(name string) (string, error) {
	return keyring.Get(k.service, name)
}

func (k *Keyring) Set(name, value string) error {
	return keyring.Set(k.service, name, value)
}

func (k *Keyring) Delete(name string) error {
	return keyring.Delete(k.service, name)
}
