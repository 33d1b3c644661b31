package dataset

import "context"

// Repository stores loaded snapshots. Replace swaps a whole snapshot
// atomically; readers always observe a complete load.
type Repository interface {
	Get(ctx context.Context, id string) (Snapshot, bool, error)
	List(ctx context.Context) ([]Snapshot, error)
	Replace(ctx context.Context, snapshot Snapshot) error
	Delete(ctx context.Context, id string) error
}

// ArchiveRepository persists snapshots across restarts. Implementations are
// optional; the service runs fully in memory without one.
type ArchiveRepository interface {
	Save(ctx context.Context, snapshot Snapshot) error
	List(ctx context.Context) ([]Snapshot, error)
	Load(ctx context.Context, id string) (Snapshot, bool, error)
	Delete(ctx context.Context, id string) error
}
