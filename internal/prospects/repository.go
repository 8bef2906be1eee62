package prospects

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("prospect not found")

// Repository persists prospects. List returns them in import order.
type Repository interface {
	List(ctx context.Context) ([]*Prospect, error)
	Get(ctx context.Context, id string) (*Prospect, error)
	SetStatus(ctx context.Context, id string, st CallStatus) error
	SetComments(ctx context.Context, id string, comments []Comment) error
	SetInsuranceNeeds(ctx context.Context, id string, needs map[InsuranceKey]InsuranceNeed) error
	DeleteAll(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, ps []*Prospect) error
}

type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*Prospect
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*Prospect)}
}

func (m *MemoryRepo) List(_ context.Context) ([]*Prospect, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Prospect, 0, len(m.store))
	for _, p := range m.store {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*Prospect, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (m *MemoryRepo) update(id string, fn func(p *Prospect)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	fn(p)
	return nil
}

func (m *MemoryRepo) SetStatus(_ context.Context, id string, st CallStatus) error {
	return m.update(id, func(p *Prospect) { p.CallStatus = st })
}

func (m *MemoryRepo) SetComments(_ context.Context, id string, comments []Comment) error {
	return m.update(id, func(p *Prospect) { p.Comments = append([]Comment(nil), comments...) })
}

func (m *MemoryRepo) SetInsuranceNeeds(_ context.Context, id string, needs map[InsuranceKey]InsuranceNeed) error {
	return m.update(id, func(p *Prospect) {
		p.InsuranceNeeds = make(map[InsuranceKey]InsuranceNeed, len(needs))
		for k, v := range needs {
			p.InsuranceNeeds[k] = v
		}
	})
}

func (m *MemoryRepo) DeleteAll(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := int64(len(m.store))
	m.store = make(map[string]*Prospect)
	return n, nil
}

func (m *MemoryRepo) InsertMany(_ context.Context, ps []*Prospect) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range ps {
		m.store[p.ID] = p.clone()
	}
	return nil
}
