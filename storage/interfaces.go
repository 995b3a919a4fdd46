// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage defines the persistence interfaces used to cache
// parsed external configuration across invocations.
package storage

import (
	"context"

	"github.com/poiesic/designkit/core"
)

// SnapshotRepository persists parsed external configuration snapshots
// keyed by their content fingerprint, so an unchanged configuration
// directory is never re-parsed.
type SnapshotRepository interface {
	// Load returns the snapshot for a fingerprint, or ErrNotFound.
	Load(ctx context.Context, fingerprint string) (*core.ExternalConfig, error)

	// Save stores a snapshot under its own fingerprint.
	Save(ctx context.Context, cfg *core.ExternalConfig) error

	// Close releases the underlying store.
	Close() error
}
