// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// catalog is the concurrency-safe recipe map shared by every source.
type catalog struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// List returns summaries of all available recipes, sorted by name.
func (c *catalog) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.log.Debug("listing all recipes, count=%d", len(c.recipes))

	out := make([]domain.RecipeSummary, 0, len(c.recipes))
	for _, r := range c.recipes {
		out = append(out, r.Summary())
	}
	sortSummaries(out)
	return out, nil
}

// Get returns a recipe by ID.
func (c *catalog) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	r, ok := c.recipes[id]
	if !ok {
		c.log.Debug("recipe not found: %s", id)
		return nil, fmt.Errorf("recipe %q: %w", id, domain.ErrNotFound)
	}
	return r, nil
}

// Search returns recipes whose name, description or tags contain the query.
func (c *catalog) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	q := strings.ToLower(strings.TrimSpace(query))
	c.log.Debug("searching recipes for: %s", q)

	var out []domain.RecipeSummary
	for _, r := range c.recipes {
		if matches(r, q) {
			out = append(out, r.Summary())
		}
	}
	sortSummaries(out)
	return out, nil
}

// replace swaps the whole catalog.
func (c *catalog) replace(recipes []*domain.Recipe) {
	next := make(map[string]*domain.Recipe, len(recipes))
	for _, r := range recipes {
		next[r.ID] = r
	}
	c.mu.Lock()
	c.recipes = next
	c.mu.Unlock()
}

func matches(r *domain.Recipe, query string) bool {
	if strings.Contains(strings.ToLower(r.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Description), query) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func sortSummaries(s []domain.RecipeSummary) {
	sort.Slice(s, func(i, j int) bool { return s[i].Name < s[j].Name })
}

// validate checks the fields every recipe needs to be cooked by voice.
func validate(r *domain.Recipe) error {
	switch {
	case r == nil:
		return fmt.Errorf("empty recipe entry")
	case strings.TrimSpace(r.ID) == "":
		return fmt.Errorf("recipe %q has no id", r.Name)
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("recipe %q has no name", r.ID)
	case len(r.Steps()) == 0:
		return fmt.Errorf("recipe %q has no instructions", r.ID)
	}
	return nil
}

// ── MemorySource ─────────────────────────────────────────────────

// MemorySource holds recipes in memory. Safe for concurrent use.
type MemorySource struct {
	catalog
}

// NewMemorySource creates a recipe source preloaded with built-in recipes.
func NewMemorySource(log *logger.Logger) *MemorySource {
	src := &MemorySource{catalog: catalog{log: log}}
	src.replace(builtin())
	log.Debug("seeded %d recipes", len(src.recipes))
	return src
}

// Put adds or replaces a recipe.
func (s *MemorySource) Put(recipe *domain.Recipe) error {
	if err := validate(recipe); err != nil {
		return err
	}
	s.mu.Lock()
	s.recipes[recipe.ID] = recipe
	s.mu.Unlock()
	s.log.Info("recipe stored: %s", recipe.Name)
	return nil
}

// builtin returns the recipes every install starts with.
func builtin() []*domain.Recipe {
	return []*domain.Recipe{
		{
			ID:          "chicken-alfredo",
			Name:        "Chicken Alfredo",
			Description: "Creamy spaghetti alfredo with pan-seared chicken. Rich, indulgent, and not from a jar.",
			Servings:    2,
			Tags:        []string{"italian", "pasta", "chicken", "comfort"},
			Ingredients: []string{
				"250g spaghetti",
				"2 medium chicken breasts",
				"1 cup creme fraiche",
				"1 cup grated gruyere",
				"3 tablespoons butter",
				"4 cloves garlic",
				"1 tablespoon olive oil",
				"salt and black pepper",
			},
			Instructions: strings.Join([]string{
				"1. Bring a large pot of salted water to a boil for the pasta.",
				"2. Season the chicken breasts with salt and pepper and pound them to an even thickness.",
				"3. Heat the olive oil in a skillet over medium-high heat. Sear the chicken for about 6 minutes per side until golden and cooked through, then let it rest.",
				"4. Cook the spaghetti for 9-11 minutes until al dente. Reserve a cup of pasta water before draining.",
				"5. Melt the butter in the same skillet. Add the minced garlic and cook for about 1 minute until fragrant.",
				"6. Stir in the creme fraiche and simmer for 3 minutes until it thickens slightly.",
				"7. Take the pan off the heat and stir in the gruyere until smooth. Loosen with pasta water if needed.",
				"8. Slice the chicken, toss the spaghetti through the sauce and serve immediately.",
			}, "\n"),
		},
		{
			ID:          "vegetable-stir-fry",
			Name:        "Vegetable Stir Fry",
			Description: "Fast, crunchy, wok-charred vegetables in a savory soy-ginger sauce. Vegan.",
			Servings:    2,
			Tags:        []string{"asian", "vegan", "vegetarian", "quick"},
			Ingredients: []string{
				"1 large bell pepper",
				"2 cups broccoli florets",
				"1 carrot",
				"1 cup snap peas",
				"3 cloves garlic",
				"1 tablespoon grated ginger",
				"2 tablespoons soy sauce",
				"1 tablespoon sesame oil",
				"2 tablespoons vegetable oil",
				"1 cup rice",
			},
			Instructions: strings.Join([]string{
				"1. Rinse the rice and simmer it covered for 15-18 minutes.",
				"2. Slice the pepper, cut the broccoli small, julienne the carrot and trim the snap peas. Mince the garlic and grate the ginger.",
				"3. Mix the soy sauce, sesame oil and 2 tablespoons of water.",
				"4. Heat the wok on high until it just starts to smoke, then add the vegetable oil.",
				"5. Stir-fry the broccoli and carrot for 2 minutes, then add the pepper and snap peas for another 2 minutes.",
				"6. Push the vegetables aside, fry the garlic and ginger for 30 seconds, then toss everything together.",
				"7. Pour in the sauce, toss to coat and serve over the rice.",
			}, "\n"),
		},
		{
			ID:          "roast-lamb",
			Name:        "Roast Leg of Lamb",
			Description: "Garlic and rosemary studded leg of lamb, slow roasted with potatoes.",
			Servings:    6,
			Tags:        []string{"roast", "lamb", "sunday"},
			Ingredients: []string{
				"1 leg of lamb, about 2kg",
				"6 cloves garlic",
				"3 sprigs rosemary",
				"1kg potatoes",
				"3 tablespoons olive oil",
				"salt and pepper",
			},
			Instructions: strings.Join([]string{
				"1. Preheat the oven to 200°C.",
				"2. Cut small slits in the lamb and push in slivers of garlic and rosemary. Rub with oil, salt and pepper.",
				"3. Parboil the potatoes for 10 minutes, drain and rough them up.",
				"4. Roast the lamb on the potatoes for 1.5 hours for medium.",
				"5. Rest the lamb under foil for 20 minutes before carving.",
			}, "\n"),
		},
	}
}
