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
	"log/slog"
	"time"

	applog "prefvault/internal/log"
)

// CleanupOldData drops data entries older than the retention window. Only
// entries carrying a numeric "timestamp" field (milliseconds since epoch)
// within the window survive; untimestamped entries are dropped too. The
// filtered record is rewritten wholesale.
func (s *Store) CleanupOldData(ctx context.Context) error {
	l := applog.WithOperation(s.log, "cleanup")
	data, ok := s.readJSON(ctx, s.dataKey())
	if !ok {
		return nil
	}

	cutoff := s.now().Add(-s.retention)
	kept := make(map[string]any, len(data))
	dropped := 0
	for k, v := range data {
		ts, ok := entryTimestamp(v)
		if ok && !ts.Before(cutoff) {
			kept[k] = v
		} else {
			dropped++
		}
	}
	if dropped == 0 {
		return nil
	}
	if err := s.writeJSON(ctx, s.dataKey(), kept); err != nil {
		l.Error("rewrite data failed", slog.Any("err", err))
		return err
	}
	l.Info("stale data evicted", slog.Int("dropped", dropped), slog.Int("kept", len(kept)))
	return nil
}

// entryTimestamp extracts the millisecond epoch timestamp from a data entry.
func entryTimestamp(v any) (time.Time, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return time.Time{}, false
	}
	ms, ok := m["timestamp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)), true
}
