// Package domain defines the core types and interfaces for the cooking assistant.
// All other packages depend on domain; domain depends on nothing.
package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// Recipe is what the recipe store hands to the assistant. Instructions are
// free-form text; Steps splits them into speakable units.
type Recipe struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Servings     int      `yaml:"servings"`
	Ingredients  []string `yaml:"ingredients"`
	Instructions string   `yaml:"instructions"`
	Tags         []string `yaml:"tags"`
}

// RecipeSummary is a lightweight view of a recipe for listing.
type RecipeSummary struct {
	ID          string
	Name        string
	Description string
	Tags        []string
}

// Summary returns the listing view of the recipe.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{ID: r.ID, Name: r.Name, Description: r.Description, Tags: r.Tags}
}

// stepNumbering matches "1.", "2)", "Step 3:" and friends at the start of a line.
var stepNumbering = regexp.MustCompile(`(?i)^(?:step\s*\d+\s*[.):\-]?|\d+\s*[.):])\s+`)

// inlineNumbering matches numbered steps run together on one line: "1. Boil. 2. Drain."
var inlineNumbering = regexp.MustCompile(`(?:^|\s)\d+[.)]\s+`)

// Steps splits the instructions into steps. Multi-line text yields one step
// per non-empty line; a single paragraph is split on inline numbering, and
// failing that, on sentences.
func (r *Recipe) Steps() []string {
	text := strings.TrimSpace(r.Instructions)
	if text == "" {
		return nil
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(stepNumbering.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) != 1 {
		return lines
	}

	if locs := inlineNumbering.FindAllStringIndex(text, -1); len(locs) > 1 {
		var steps []string
		for i, loc := range locs {
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][0]
			}
			if s := strings.TrimSpace(text[loc[1]:end]); s != "" {
				steps = append(steps, s)
			}
		}
		return steps
	}

	return SplitSentences(lines[0])
}

// SplitSentences splits text at sentence boundaries (. ! ? followed by
// whitespace or end of text), keeping the punctuation. Decimal points such
// as "2.5" are not boundaries.
func SplitSentences(text string) []string {
	var out []string
	var current strings.Builder

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		current.WriteRune(runes[i])
		if !isSentenceEnd(runes[i]) {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(current.String()); s != "" {
			out = append(out, s)
		}
		current.Reset()
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?' || r == ';'
}
