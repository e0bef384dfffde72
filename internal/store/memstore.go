package store

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemStore is an in-memory Store for tests and one-off runs.
type MemStore struct {
	mu   sync.Mutex
	runs map[int64]*Run
	next int64
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{runs: make(map[int64]*Run)}
}

func (s *MemStore) SaveRun(r *Run) (int64, error) {
	if r == nil {
		return 0, fmt.Errorf("save run: nil run")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	cp := *r
	cp.ID = s.next
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now().UTC()
	}
	s.runs[cp.ID] = &cp
	return cp.ID, nil
}

func (s *MemStore) GetRun(id int64) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	cp := *r
	return &cp, nil
}

func (s *MemStore) ListRuns(f Filter) ([]*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Run
	for _, r := range s.runs {
		if f.Problem != "" && r.Problem != f.Problem {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *MemStore) Close() error { return nil }
