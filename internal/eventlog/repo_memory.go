package eventlog

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is the in-process fallback used when no database is
// configured.
type MemoryRepo struct {
	mu   sync.RWMutex
	logs []EventLog
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Create(_ context.Context, log EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *MemoryRepo) List(_ context.Context) ([]EventLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]EventLog, len(r.logs))
	copy(out, r.logs)
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryRepo) ListByUser(_ context.Context, userID string) ([]EventLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []EventLog
	for _, l := range r.logs {
		if l.UserID != nil && *l.UserID == userID {
			out = append(out, l)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func sortNewestFirst(logs []EventLog) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].CreatedAt.After(logs[j].CreatedAt)
	})
}
