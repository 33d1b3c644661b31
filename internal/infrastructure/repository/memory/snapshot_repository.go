package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
)

// SnapshotRepository keeps loaded datasets in process memory. Replace swaps
// the stored value in one step under the lock, so concurrent readers never
// see a partially loaded snapshot.
type SnapshotRepository struct {
	mu     sync.RWMutex
	items  map[string]dataset.Snapshot
	orders []string
}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{
		items: make(map[string]dataset.Snapshot),
	}
}

func (r *SnapshotRepository) Get(_ context.Context, id string) (dataset.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.items[id]
	if !ok {
		return dataset.Snapshot{}, false, nil
	}

	return snapshot, true, nil
}

func (r *SnapshotRepository) List(_ context.Context) ([]dataset.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]dataset.Snapshot, 0, len(r.orders))
	for _, id := range r.orders {
		out = append(out, r.items[id])
	}

	return out, nil
}

func (r *SnapshotRepository) Replace(_ context.Context, snapshot dataset.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[snapshot.ID]; !ok {
		r.orders = append(r.orders, snapshot.ID)
	}
	r.items[snapshot.ID] = snapshot

	return nil
}

func (r *SnapshotRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return nil
	}
	delete(r.items, id)
	for i, stored := range r.orders {
		if stored == id {
			r.orders = append(r.orders[:i], r.orders[i+1:]...)
			break
		}
	}

	return nil
}
