// Package store persists projects and their requirement trees.
//
// Two implementations are provided:
//   - MemoryStore: mutex-guarded map for tests and single-process development
//   - MongoStore: MongoDB-backed store for deployments
//
// Both return deep copies so callers can mutate results freely, and both
// normalize trees on write so stored projects never carry absent child
// collections.
package store

import (
	"context"
	"time"

	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/project"
)

// Store is the persistence interface for projects.
type Store interface {
	// CreateProject stores a new project. The ID must be unset; the store
	// assigns one. Returns the stored project.
	CreateProject(ctx context.Context, p *project.Project) (*project.Project, error)

	// GetProject returns a project by ID, or a PROJECT_NOT_FOUND error.
	GetProject(ctx context.Context, id string) (*project.Project, error)

	// ListProjects returns all projects ordered by creation time.
	ListProjects(ctx context.Context) ([]project.Project, error)

	// PutFlows replaces a project's flow tree in full.
	PutFlows(ctx context.Context, id string, flows []project.Flow) (*project.Project, error)

	// DeleteProject removes a project, or returns a PROJECT_NOT_FOUND error.
	DeleteProject(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NotFound builds the canonical missing-project error.
func NotFound(id string) error {
	return errors.New(errors.ErrCodeProjectNotFound, "project %s does not exist", id)
}

// prepareWrite validates and normalizes a tree before it is stored, and
// stamps the update time.
func prepareWrite(p *project.Project, now time.Time) error {
	project.Normalize(p)
	if err := p.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidProject, err, "invalid project %s", p.ID)
	}
	p.UpdatedAt = now
	return nil
}
