package recipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*FileSource)(nil)

// book is the on-disk layout of a recipe file:
//
//	recipes:
//	  - id: pancakes
//	    name: Pancakes
//	    ingredients: [flour, eggs, milk]
//	    instructions: |
//	      1. Whisk everything together.
//	      2. Fry for 2 minutes per side.
type book struct {
	Recipes []*domain.Recipe `yaml:"recipes"`
}

// FileOption configures a FileSource.
type FileOption func(*FileSource)

// WithDebounce sets how long Watch waits for writes to settle before
// reloading.
func WithDebounce(d time.Duration) FileOption {
	return func(s *FileSource) {
		s.debounce = d
	}
}

// WithReloadHook is called after every successful reload with the new
// recipe count.
func WithReloadHook(fn func(n int)) FileOption {
	return func(s *FileSource) {
		s.onReload = fn
	}
}

// FileSource serves recipes from a YAML recipe book and can reload it when
// the file changes.
type FileSource struct {
	catalog
	path     string
	debounce time.Duration
	onReload func(n int)
}

// NewFileSource loads the recipe book at path.
func NewFileSource(path string, log *logger.Logger, opts ...FileOption) (*FileSource, error) {
	s := &FileSource{
		catalog:  catalog{log: log},
		path:     filepath.Clean(path),
		debounce: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the recipe book location.
func (s *FileSource) Path() string { return s.path }

// Load reads and validates the recipe book, replacing the catalog only when
// the whole file is good.
func (s *FileSource) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("reading recipe book: %w", err)
	}
	recipes, err := parseBook(data)
	if err != nil {
		return fmt.Errorf("%s: %w", s.path, err)
	}
	s.replace(recipes)
	s.log.Info("loaded %d recipes from %s", len(recipes), s.path)
	return nil
}

func parseBook(data []byte) ([]*domain.Recipe, error) {
	var b book
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing recipe book: %w", err)
	}
	seen := make(map[string]bool, len(b.Recipes))
	for _, r := range b.Recipes {
		if err := validate(r); err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("duplicate recipe id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return b.Recipes, nil
}

// Watch reloads the recipe book whenever it changes, until ctx is
// cancelled. The directory is watched rather than the file, since editors
// usually save by renaming a temp file over the original. A bad edit is
// logged and the previous recipes stay in place.
func (s *FileSource) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}
	s.log.Info("watching %s for recipe changes", s.path)

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			s.log.Debug("recipe book event: %s", ev)
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			reload = timer.C

		case <-reload:
			reload = nil
			if err := s.Load(); err != nil {
				s.log.Error("recipe reload failed, keeping previous recipes: %v", err)
				continue
			}
			if s.onReload != nil {
				s.onReload(s.count())
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.Error("recipe watcher: %v", err)
		}
	}
}

func (s *FileSource) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipes)
}
