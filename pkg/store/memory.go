package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/project"
)

// MemoryStore is an in-memory Store for tests and single-process development.
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[string]*project.Project
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[string]*project.Project),
		now:      time.Now,
	}
}

// CreateProject implements Store.
func (s *MemoryStore) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	if p == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "project is required")
	}
	if p.Name == "" {
		return nil, errors.New(errors.ErrCodeInvalidProject, "project name is required")
	}
	if p.ID != "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "project id is assigned by the store")
	}

	stored := p.Clone()
	stored.ID = uuid.NewString()
	stored.CreatedAt = s.now()
	if err := prepareWrite(stored, stored.CreatedAt); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.projects[stored.ID] = stored
	s.mu.Unlock()

	return stored.Clone(), nil
}

// GetProject implements Store.
func (s *MemoryStore) GetProject(ctx context.Context, id string) (*project.Project, error) {
	s.mu.RLock()
	p, ok := s.projects[id]
	s.mu.RUnlock()
	if !ok {
		return nil, NotFound(id)
	}
	return p.Clone(), nil
}

// ListProjects implements Store.
func (s *MemoryStore) ListProjects(ctx context.Context) ([]project.Project, error) {
	s.mu.RLock()
	out := make([]project.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, *p.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// PutFlows implements Store.
func (s *MemoryStore) PutFlows(ctx context.Context, id string, flows []project.Flow) (*project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, NotFound(id)
	}

	updated := p.Clone()
	updated.Flows = project.CloneFlows(flows)
	if err := prepareWrite(updated, s.now()); err != nil {
		return nil, err
	}

	s.projects[id] = updated
	return updated.Clone(), nil
}

// DeleteProject implements Store.
func (s *MemoryStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return NotFound(id)
	}
	delete(s.projects, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
