package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

func TestMemoryStoreCRUD(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	session := &domain.Session{
		ID:         "test-session-1",
		RecipeID:   "test-recipe",
		RecipeName: "Test Recipe",
		Status:     domain.SessionActive,
		StepIndex:  0,
		StartedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	// Save.
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Load.
	loaded, err := store.Load(ctx, "test-session-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != session.ID {
		t.Fatalf("expected ID %s, got %s", session.ID, loaded.ID)
	}

	// Load nonexistent.
	_, err = store.Load(ctx, "nonexistent")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// ListActive.
	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("expected 1 active session, got %d", len(active))
	}

	// Delete.
	if err := store.Delete(ctx, "test-session-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = store.Load(ctx, "test-session-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Delete nonexistent.
	if err := store.Delete(ctx, "nonexistent"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreCopiesSessions(t *testing.T) {
	store := NewMemoryStore(logger.New(logger.LevelOff, nil))
	ctx := context.Background()

	session := &domain.Session{ID: "s1", Status: domain.SessionActive, StepIndex: 2}
	if err := store.Save(ctx, session); err != nil {
		t.Fatalf("save: %v", err)
	}
	session.StepIndex = 7

	loaded, err := store.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.StepIndex != 2 {
		t.Fatalf("expected stored step 2, got %d", loaded.StepIndex)
	}

	loaded.StepIndex = 9
	again, _ := store.Load(ctx, "s1")
	if again.StepIndex != 2 {
		t.Fatalf("mutating a loaded session leaked into the store: got %d", again.StepIndex)
	}
}

func TestMemoryStoreListActiveFilters(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	store := NewMemoryStore(log)
	ctx := context.Background()

	base := time.Now()
	sessions := []*domain.Session{
		{ID: "s1", Status: domain.SessionActive, StartedAt: base.Add(time.Minute)},
		{ID: "s2", Status: domain.SessionActive, StartedAt: base},
		{ID: "s3", Status: domain.SessionCompleted, StartedAt: base},
		{ID: "s4", Status: domain.SessionAbandoned, StartedAt: base},
	}

	for _, s := range sessions {
		if err := store.Save(ctx, s); err != nil {
			t.Fatalf("save %s: %v", s.ID, err)
		}
	}

	active, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("expected 2 active sessions, got %d", len(active))
	}
	if active[0].ID != "s2" || active[1].ID != "s1" {
		t.Fatalf("expected oldest first, got %s, %s", active[0].ID, active[1].ID)
	}
}
