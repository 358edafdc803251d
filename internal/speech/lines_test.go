package speech

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/cookvoice/internal/domain"
)

func TestFormatDurationSpeech(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "zero seconds"},
		{time.Second, "one second"},
		{45 * time.Second, "forty-five seconds"},
		{time.Minute, "one minute"},
		{90 * time.Second, "one minute thirty seconds"},
		{25 * time.Minute, "twenty-five minutes"},
		{90 * time.Minute, "one hour thirty minutes"},
		{2 * time.Hour, "two hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDurationSpeech(tt.d), tt.d.String())
	}
}

func TestLineIngredients(t *testing.T) {
	assert.Equal(t, "You'll need: flour.", LineIngredients([]string{"flour"}))
	assert.Equal(t, "You'll need: flour, eggs, and milk.", LineIngredients([]string{"flour", "eggs", "milk"}))
	assert.Contains(t, LineIngredients(nil), "doesn't list")
}

func TestLineTimersStatus(t *testing.T) {
	timers := []domain.Timer{
		{Name: "pasta", DurationSeconds: 600, RemainingSeconds: 300, Running: true},
		{Name: "sauce", DurationSeconds: 60, RemainingSeconds: 60},
		{Name: "eggs", DurationSeconds: 60, Expired: true},
	}
	assert.Equal(t,
		"pasta has five minutes left. sauce is paused with one minute left. eggs is done.",
		LineTimersStatus(timers))
	assert.Equal(t, LineNoActiveTimers(), LineTimersStatus(nil))
}

func TestLineCookingStart(t *testing.T) {
	r := &domain.Recipe{Name: "Pancakes", Instructions: "1. Mix.\n2. Fry.\n3. Serve."}
	assert.Equal(t, "Cooking Pancakes. Three steps. Say next when you're ready.", LineCookingStart(r))
}

func TestLineTimerStarted(t *testing.T) {
	tm := domain.Timer{Name: "Cooking timer", DurationSeconds: 300}
	assert.Equal(t, "Cooking timer set for five minutes.", LineTimerStarted(tm))
}
