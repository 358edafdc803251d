package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecipeSteps(t *testing.T) {
	tests := []struct {
		name         string
		instructions string
		want         []string
	}{
		{
			name:         "numbered lines",
			instructions: "1. Boil the water.\n2. Cook pasta for 10 minutes.\n\n3) Drain.",
			want:         []string{"Boil the water.", "Cook pasta for 10 minutes.", "Drain."},
		},
		{
			name:         "step prefixes",
			instructions: "Step 1: Preheat to 200°C.\nStep 2 - Roast for 1.5 hours.",
			want:         []string{"Preheat to 200°C.", "Roast for 1.5 hours."},
		},
		{
			name:         "inline numbering",
			instructions: "1. Sear the lamb. 2. Roast for 40 minutes. 3. Rest.",
			want:         []string{"Sear the lamb.", "Roast for 40 minutes.", "Rest."},
		},
		{
			name:         "plain paragraph",
			instructions: "Simmer for 2.5 hours. Season to taste!",
			want:         []string{"Simmer for 2.5 hours.", "Season to taste!"},
		},
		{
			name:         "empty",
			instructions: "   ",
			want:         nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Recipe{Instructions: tt.instructions}
			assert.Equal(t, tt.want, r.Steps())
		})
	}
}

func TestSplitSentencesKeepsDecimals(t *testing.T) {
	got := SplitSentences("Bake 1.5 hours. Cool; then slice")
	assert.Equal(t, []string{"Bake 1.5 hours.", "Cool;", "then slice"}, got)
}

func TestTimerStatus(t *testing.T) {
	assert.Equal(t, TimerRunning, Timer{Running: true}.Status())
	assert.Equal(t, TimerPaused, Timer{}.Status())
	assert.Equal(t, TimerExpired, Timer{Expired: true}.Status())
	assert.Equal(t, "expired", TimerExpired.String())
}
