// Package snapshot persists the per-user dashboard snapshot as one JSON blob
// on local disk.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/peterbourgon/diskv/v3"

	"crystalos/internal/core/domain"
	"crystalos/internal/core/ports"
)

const (
	keyPrefix    = "personal-dashboard-prefs-"
	cacheSizeMax = 1024 * 1024 // 1MB
)

// Store owns the snapshot directory. Blobs are addressed per user via ForUser.
type Store struct {
	d *diskv.Diskv
}

func New(basePath string) *Store {
	return &Store{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: cacheSizeMax,
	})}
}

// Key returns the blob name used for userID.
func Key(userID string) string {
	return keyPrefix + userID
}

// ForUser returns the snapshot blob of userID.
func (s *Store) ForUser(userID string) *Blob {
	return &Blob{d: s.d, key: Key(userID)}
}

type Blob struct {
	d   *diskv.Diskv
	key string
}

var _ ports.SnapshotStore = (*Blob)(nil)

func (b *Blob) Load(ctx context.Context) (domain.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, false, err
	}
	if !b.d.Has(b.key) {
		return domain.Snapshot{}, false, nil
	}

	raw, err := b.d.Read(b.key)
	if err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("read %s: %w", b.key, err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.Snapshot{}, false, fmt.Errorf("decode %s: %w", b.key, err)
	}
	return snap, true, nil
}

func (b *Blob) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode %s: %w", b.key, err)
	}
	return b.d.Write(b.key, raw)
}

func (b *Blob) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !b.d.Has(b.key) {
		return nil
	}
	return b.d.Erase(b.key)
}
