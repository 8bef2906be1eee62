package articles

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	ErrNotFound  = errors.New("article not found")
	ErrSlugTaken = errors.New("slug already used by another article")
)

// Repository persists articles. List returns newest first.
type Repository interface {
	Create(ctx context.Context, a *Article) error
	Get(ctx context.Context, id string) (*Article, error)
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	List(ctx context.Context) ([]*Article, error)
	Replace(ctx context.Context, a *Article) error
	Delete(ctx context.Context, id string) error
}

type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*Article
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*Article)}
}

func (m *MemoryRepo) slugOwner(slug string) (string, bool) {
	for id, a := range m.store {
		if a.Slug == slug {
			return id, true
		}
	}
	return "", false
}

func (m *MemoryRepo) Create(_ context.Context, a *Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.slugOwner(a.Slug); taken {
		return ErrSlugTaken
	}
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MemoryRepo) GetBySlug(_ context.Context, slug string) (*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.slugOwner(slug)
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m.store[id]
	return &cp, nil
}

func (m *MemoryRepo) List(_ context.Context) ([]*Article, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Article, 0, len(m.store))
	for _, a := range m.store {
		cp := *a
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryRepo) Replace(_ context.Context, a *Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[a.ID]; !ok {
		return ErrNotFound
	}
	if owner, taken := m.slugOwner(a.Slug); taken && owner != a.ID {
		return ErrSlugTaken
	}
	cp := *a
	m.store[a.ID] = &cp
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
