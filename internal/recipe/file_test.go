package recipe

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/cookvoice/internal/logger"
)

const pancakeBook = `recipes:
  - id: pancakes
    name: Pancakes
    description: Thin breakfast pancakes.
    servings: 4
    tags: [breakfast, sweet]
    ingredients:
      - 1 cup flour
      - 2 eggs
      - 1 cup milk
    instructions: |
      1. Whisk everything together and rest the batter for 10 minutes.
      2. Fry each pancake for 2 minutes per side.
`

const twoRecipeBook = pancakeBook + `  - id: eggs
    name: Boiled Eggs
    instructions: Boil the eggs for 7 minutes.
`

func writeBook(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "recipes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestFileSourceLoad(t *testing.T) {
	path := writeBook(t, t.TempDir(), pancakeBook)
	src, err := NewFileSource(path, logger.New(logger.LevelOff, nil))
	require.NoError(t, err)
	ctx := context.Background()

	r, err := src.Get(ctx, "pancakes")
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", r.Name)
	assert.Equal(t, 4, r.Servings)
	assert.Equal(t, []string{"1 cup flour", "2 eggs", "1 cup milk"}, r.Ingredients)
	assert.Equal(t, []string{
		"Whisk everything together and rest the batter for 10 minutes.",
		"Fry each pancake for 2 minutes per side.",
	}, r.Steps())

	found, err := src.Search(ctx, "breakfast")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "pancakes", found[0].ID)
}

func TestFileSourceRejectsBadBooks(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"not yaml", "recipes: [", "parsing recipe book"},
		{"missing instructions", "recipes:\n  - id: toast\n    name: Toast\n", "no instructions"},
		{"missing id", "recipes:\n  - name: Toast\n    instructions: Toast it.\n", "no id"},
		{"duplicate id", twoRecipeBook + "  - id: eggs\n    name: More Eggs\n    instructions: Boil.\n", "duplicate recipe id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeBook(t, t.TempDir(), tt.body)
			_, err := NewFileSource(path, logger.New(logger.LevelOff, nil))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"), logger.New(logger.LevelOff, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestFileSourceWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeBook(t, dir, pancakeBook)

	var reloads atomic.Int32
	src, err := NewFileSource(path, logger.New(logger.LevelOff, nil),
		WithDebounce(10*time.Millisecond),
		WithReloadHook(func(n int) { reloads.Store(int32(n)) }),
	)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Watch(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the watcher a moment to register the directory.
	time.Sleep(50 * time.Millisecond)

	// A broken edit keeps the old recipes.
	require.NoError(t, os.WriteFile(path, []byte("recipes: ["), 0o644))
	time.Sleep(100 * time.Millisecond)
	_, err = src.Get(context.Background(), "pancakes")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(twoRecipeBook), 0o644))
	require.Eventually(t, func() bool {
		return reloads.Load() == 2
	}, 2*time.Second, 10*time.Millisecond)

	r, err := src.Get(context.Background(), "eggs")
	require.NoError(t, err)
	assert.Equal(t, "Boiled Eggs", r.Name)
}
