package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory Store. It backs mock mode and tests: collections
// live only for the lifetime of the process, and an optional fixed latency
// simulates the network delay of the hosted record API.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]Record
	lastID  map[string]int
	latency time.Duration
	now     func() time.Time
}

// MemoryOption configures a Memory store.
type MemoryOption func(*Memory)

// WithLatency makes every operation wait the given duration before touching
// the collection, mimicking a remote round trip.
func WithLatency(d time.Duration) MemoryOption {
	return func(m *Memory) { m.latency = d }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) { m.now = now }
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		records: make(map[string][]Record),
		lastID:  make(map[string]int),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) delay(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(m.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// GetAll returns the collection most-recent-first.
func (m *Memory) GetAll(ctx context.Context, entity string) ([]Record, error) {
	if err := m.delay(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	collection := m.records[entity]
	out := make([]Record, 0, len(collection))
	// Records are appended in creation order, so reverse iteration yields
	// most-recent-first with insertion order breaking timestamp ties.
	for i := len(collection) - 1; i >= 0; i-- {
		out = append(out, collection[i].Clone())
	}
	return out, nil
}

func (m *Memory) GetByID(ctx context.Context, entity string, id int) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}
	if err := m.delay(ctx); err != nil {
		return Record{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.records[entity] {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return Record{}, ErrNotFound
}

func (m *Memory) Create(ctx context.Context, entity string, fields map[string]any) (Record, error) {
	if err := m.delay(ctx); err != nil {
		return Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.lastID[entity] + 1
	for _, r := range m.records[entity] {
		if r.ID >= id {
			id = r.ID + 1
		}
	}
	m.lastID[entity] = id

	now := m.now()
	record := Record{
		ID:        id,
		CreatedAt: now,
		UpdatedAt: now,
		Fields:    cloneFields(fields),
	}
	if record.Fields == nil {
		record.Fields = map[string]any{}
	}
	m.records[entity] = append(m.records[entity], record)
	return record.Clone(), nil
}

func (m *Memory) Update(ctx context.Context, entity string, id int, fields map[string]any) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}
	if err := m.delay(ctx); err != nil {
		return Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	collection := m.records[entity]
	for i := range collection {
		if collection[i].ID != id {
			continue
		}
		for k, v := range fields {
			collection[i].Fields[k] = cloneValue(v)
		}
		collection[i].UpdatedAt = m.now()
		return collection[i].Clone(), nil
	}
	return Record{}, ErrNotFound
}

func (m *Memory) Delete(ctx context.Context, entity string, id int) (Record, error) {
	if err := ValidateID(id); err != nil {
		return Record{}, err
	}
	if err := m.delay(ctx); err != nil {
		return Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	collection := m.records[entity]
	for i := range collection {
		if collection[i].ID != id {
			continue
		}
		removed := collection[i]
		m.records[entity] = append(collection[:i], collection[i+1:]...)
		return removed, nil
	}
	return Record{}, ErrNotFound
}

// Seed inserts a record with a caller-chosen ID and creation time, used to
// load fixture data in mock mode. The ID counter advances past seeded IDs so
// later creates stay strictly increasing.
func (m *Memory) Seed(entity string, id int, createdAt time.Time, fields map[string]any) Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := Record{
		ID:        id,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Fields:    cloneFields(fields),
	}
	if record.Fields == nil {
		record.Fields = map[string]any{}
	}
	m.records[entity] = append(m.records[entity], record)
	if id > m.lastID[entity] {
		m.lastID[entity] = id
	}
	return record.Clone()
}
