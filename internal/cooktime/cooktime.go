// Package cooktime pulls cooking durations out of recipe text.
package cooktime

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/cookvoice/internal/domain"
)

// MaxMinutes is the longest duration accepted. Anything above eight hours is
// treated as a parsing accident.
const MaxMinutes = 480

// contextRadius is how many characters either side of a match go into Match.Context.
const contextRadius = 30

// Match is an extracted cooking time.
type Match struct {
	Minutes int
	Context string // the matched phrase with some surrounding text
}

type pattern struct {
	re    *regexp.Regexp
	hours bool
}

// patterns are tried in order against lowercased text; the first one that
// yields an in-range duration wins. Minute patterns capture a lower and an
// optional upper bound.
var patterns = []pattern{
	{re: regexp.MustCompile(`\b(?:for|about|approximately|approx\.?|around)\s+(\d+)(?:\s*(?:-|–|to)\s*(\d+))?\s*(?:minutes?|mins?)\b`)},
	{re: regexp.MustCompile(`\b(\d+)(?:\s*(?:-|–)\s*(\d+))?\s*(?:minutes?|mins?)\b`)},
	{re: regexp.MustCompile(`\b(\d+)\s+to\s+(\d+)\s*(?:minutes?|mins?)\b`)},
	{re: regexp.MustCompile(`\b(\d+(?:\.\d+)?)\s*(?:hours?|hrs?)\b`), hours: true},
}

// Extract finds the first cooking duration in text. Ranges resolve to the
// upper bound so the timer covers the longer cook.
func Extract(text string) (Match, bool) {
	lower := strings.ToLower(text)

	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(lower, -1) {
			minutes, ok := p.minutes(lower, loc)
			if !ok || minutes <= 0 || minutes > MaxMinutes {
				continue
			}
			return Match{Minutes: minutes, Context: window(lower, loc[0], loc[1])}, true
		}
	}
	return Match{}, false
}

func (p pattern) minutes(text string, loc []int) (int, bool) {
	if p.hours {
		h, err := strconv.ParseFloat(text[loc[2]:loc[3]], 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(h * 60)), true
	}

	low, err := strconv.Atoi(text[loc[2]:loc[3]])
	if err != nil {
		return 0, false
	}
	if len(loc) < 6 || loc[4] < 0 {
		return low, true
	}
	high, err := strconv.Atoi(text[loc[4]:loc[5]])
	if err != nil {
		return low, true
	}
	return max(low, high), true
}

// window returns text[start:end] widened by contextRadius bytes each side,
// snapped outward to whole words.
func window(text string, start, end int) string {
	from := max(0, start-contextRadius)
	to := min(len(text), end+contextRadius)
	for from > 0 && text[from-1] != ' ' {
		from--
	}
	for to < len(text) && text[to] != ' ' {
		to++
	}
	return strings.TrimSpace(text[from:to])
}

// cookingVerb matches the verbs that usually sit next to a duration.
var cookingVerb = regexp.MustCompile(`\b(?:cook|bake|roast|fry|grill|boil|simmer|saut[eé]|braise|steam|poach|broil|toast|sear)\w*`)

// HasCookingVerb reports whether text mentions a cooking verb.
func HasCookingVerb(text string) bool {
	return cookingVerb.MatchString(strings.ToLower(text))
}

var leadingArticle = regexp.MustCompile(`^(?:the|a|an|some|my|our|those|these)(?:\s+|$)`)

// NormalizeItem lowercases an item reference and drops articles and a
// trailing "timer".
func NormalizeItem(item string) string {
	s := strings.ToLower(strings.TrimSpace(item))
	s = leadingArticle.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, " timer")
	return strings.TrimSpace(s)
}

// FindItemTime looks for a duration near where the recipe mentions item.
//
// The first pass runs Extract on every sentence that names the item. The
// second pass handles recipes where the ingredient and the cooking verb sit
// in different clauses: within each step that names the item, it tries the
// sentences carrying a cooking verb, then the sentence right after the
// mention. A multi-word item that is never mentioned is retried by its last
// word ("the roast chicken" -> "chicken").
func FindItemTime(recipe *domain.Recipe, item string) (Match, bool) {
	if recipe == nil {
		return Match{}, false
	}
	needle := NormalizeItem(item)
	if needle == "" {
		return Match{}, false
	}

	candidates := []string{needle}
	if words := strings.Fields(needle); len(words) > 1 {
		candidates = append(candidates, words[len(words)-1])
	}

	steps := recipe.Steps()
	for _, c := range candidates {
		if m, ok := findInSteps(steps, c); ok {
			return m, true
		}
	}
	return Match{}, false
}

func findInSteps(steps []string, needle string) (Match, bool) {
	split := make([][]string, len(steps))
	for i, step := range steps {
		split[i] = domain.SplitSentences(step)
	}

	for _, sentences := range split {
		for _, s := range sentences {
			if !strings.Contains(strings.ToLower(s), needle) {
				continue
			}
			if m, ok := Extract(s); ok {
				return m, true
			}
		}
	}

	for _, sentences := range split {
		for i, s := range sentences {
			if !strings.Contains(strings.ToLower(s), needle) {
				continue
			}
			for _, other := range sentences {
				if !HasCookingVerb(other) {
					continue
				}
				if m, ok := Extract(other); ok {
					return m, true
				}
			}
			if i+1 < len(sentences) {
				if m, ok := Extract(sentences[i+1]); ok {
					return m, true
				}
			}
		}
	}
	return Match{}, false
}

// StepTime extracts the duration from a 1-based step of the recipe.
func StepTime(recipe *domain.Recipe, stepNumber int) (Match, bool) {
	if recipe == nil {
		return Match{}, false
	}
	steps := recipe.Steps()
	if stepNumber < 1 || stepNumber > len(steps) {
		return Match{}, false
	}
	return Extract(steps[stepNumber-1])
}
