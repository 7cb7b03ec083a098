// Package store holds the bounded in-memory window of recent analyses.
package store

import (
	"sort"
	"sync"

	domain "github.com/contractshield/contractshield/internal/domain/analysis"
)

const (
	// DefaultCapacity bounds how many records are retained.
	DefaultCapacity = 20
	// DefaultRecentLimit bounds ListRecent when the caller passes no limit.
	DefaultRecentLimit = 10
)

// Memory is a capacity-bounded record store with strict insertion-order
// eviction: once full, Put drops the oldest-inserted record. Reads never
// promote. Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	capacity int
	records  map[domain.ID]*domain.AnalysisRecord
	order    []domain.ID
}

func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		capacity: capacity,
		records:  make(map[domain.ID]*domain.AnalysisRecord, capacity),
	}
}

func (m *Memory) Put(rec *domain.AnalysisRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[rec.ID]; !exists {
		m.order = append(m.order, rec.ID)
	}
	m.records[rec.ID] = rec

	for len(m.order) > m.capacity {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.records, oldest)
	}
}

func (m *Memory) Get(id domain.ID) (*domain.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// ListRecent returns up to limit records, newest first by creation time.
func (m *Memory) ListRecent(limit int) []*domain.AnalysisRecord {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	m.mu.Lock()
	out := make([]*domain.AnalysisRecord, 0, len(m.order))
	// Walk newest-inserted first so the stable sort keeps insertion recency
	// for records created in the same instant.
	for i := len(m.order) - 1; i >= 0; i-- {
		out = append(out, m.records[m.order[i]])
	}
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
