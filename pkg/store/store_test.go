package store

import (
	"context"
	"testing"

	"github.com/gauravm26/vishmaker/pkg/errors"
	"github.com/gauravm26/vishmaker/pkg/project"
)

func TestMemoryStoreCreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.CreateProject(ctx, &project.Project{Name: "Shop"})
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if created.ID == "" {
		t.Fatal("store did not assign an ID")
	}
	if created.Flows == nil {
		t.Error("flows not normalized to empty slice")
	}
	if created.CreatedAt.IsZero() {
		t.Error("missing creation timestamp")
	}

	got, err := s.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Name != "Shop" {
		t.Errorf("Name = %q, want Shop", got.Name)
	}
}

func TestMemoryStoreCreateRejects(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateProject(ctx, nil); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("nil project: %v, want INVALID_INPUT", err)
	}
	if _, err := s.CreateProject(ctx, &project.Project{}); !errors.Is(err, errors.ErrCodeInvalidProject) {
		t.Errorf("unnamed project: %v, want INVALID_PROJECT", err)
	}
	if _, err := s.CreateProject(ctx, &project.Project{ID: "preset", Name: "x"}); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("preset id: %v, want INVALID_INPUT", err)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.GetProject(context.Background(), "nope")
	if !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("error = %v, want PROJECT_NOT_FOUND", err)
	}
}

func TestMemoryStorePutFlows(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.CreateProject(ctx, &project.Project{Name: "Shop"})
	if err != nil {
		t.Fatal(err)
	}

	flows := []project.Flow{{
		ID:   "f1",
		Name: "Checkout",
		Requirements: []project.HighLevelRequirement{
			{ID: "h1", Text: "User can pay"},
		},
	}}
	updated, err := s.PutFlows(ctx, created.ID, flows)
	if err != nil {
		t.Fatalf("PutFlows: %v", err)
	}
	if len(updated.Flows) != 1 {
		t.Fatalf("flows = %d, want 1", len(updated.Flows))
	}
	if updated.Flows[0].Requirements[0].Requirements == nil {
		t.Error("nested collections not normalized on write")
	}

	// Mutating the caller's slice must not leak into the store.
	flows[0].Name = "Tampered"
	got, err := s.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Flows[0].Name != "Checkout" {
		t.Error("store shares memory with caller input")
	}
}

func TestMemoryStorePutFlowsRejectsDuplicates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.CreateProject(ctx, &project.Project{Name: "Shop"})
	if err != nil {
		t.Fatal(err)
	}

	flows := []project.Flow{
		{ID: "f1", Name: "A"},
		{ID: "f1", Name: "B"},
	}
	if _, err := s.PutFlows(ctx, created.ID, flows); !errors.Is(err, errors.ErrCodeInvalidProject) {
		t.Errorf("duplicate flow ids: %v, want INVALID_PROJECT", err)
	}

	// A rejected write must not clobber the stored project.
	got, err := s.GetProject(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Flows) != 0 {
		t.Error("rejected write modified the stored project")
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"One", "Two", "Three"} {
		if _, err := s.CreateProject(ctx, &project.Project{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("projects = %d, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].CreatedAt.Before(all[i-1].CreatedAt) {
			t.Error("projects not ordered by creation time")
		}
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	created, err := s.CreateProject(ctx, &project.Project{Name: "Shop"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteProject(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if err := s.DeleteProject(ctx, created.ID); !errors.Is(err, errors.ErrCodeProjectNotFound) {
		t.Errorf("second delete: %v, want PROJECT_NOT_FOUND", err)
	}
}
