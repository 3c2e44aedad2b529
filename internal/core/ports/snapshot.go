package ports

import (
	"context"

	"crystalos/internal/core/domain"
)

type SnapshotStore interface {
	Load(ctx context.Context) (domain.Snapshot, bool, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
	Delete(ctx context.Context) error
}
