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


package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/designkit/core"
	"github.com/poiesic/designkit/storage"
)

const snapshotPrefix = "snapshot:"

// SnapshotRepository persists external-configuration snapshots in Badger.
// Values are JSON; keys are the snapshot's content fingerprint.
type SnapshotRepository struct {
	backend *Backend
}

var _ storage.SnapshotRepository = (*SnapshotRepository)(nil)

// NewSnapshotRepository creates a repository over an open backend.
func NewSnapshotRepository(backend *Backend) *SnapshotRepository {
	return &SnapshotRepository{backend: backend}
}

// Load returns the snapshot stored under the fingerprint.
func (r *SnapshotRepository) Load(ctx context.Context, fingerprint string) (*core.ExternalConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var cfg *core.ExternalConfig
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(snapshotKey(fingerprint))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var decoded core.ExternalConfig
			if err := json.Unmarshal(val, &decoded); err != nil {
				return fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
			}
			cfg = &decoded
			return nil
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save stores the snapshot under its own fingerprint.
func (r *SnapshotRepository) Save(ctx context.Context, cfg *core.ExternalConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if cfg == nil || cfg.Fingerprint == "" {
		return fmt.Errorf("%w: snapshot without fingerprint", storage.ErrSerializationFailed)
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrSerializationFailed, err)
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(snapshotKey(cfg.Fingerprint), data); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// Close closes the underlying backend.
func (r *SnapshotRepository) Close() error {
	return r.backend.Close()
}

func snapshotKey(fingerprint string) []byte {
	return []byte(snapshotPrefix + fingerprint)
}
