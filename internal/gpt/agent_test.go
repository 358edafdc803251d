package gpt

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// chatServer answers every request with reply and records the last payload.
func chatServer(t *testing.T, status int, reply string) (*httptest.Server, *payload) {
	t.Helper()
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("api-key"))
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(reply))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func newTestAgent(url string, opts ...ClientOption) *Agent {
	log := logger.New(logger.LevelOff, nil)
	return NewAgent(NewClient(url, "key", log, opts...), log)
}

var pasta = &domain.Recipe{
	ID:           "pasta",
	Name:         "Garlic Pasta",
	Ingredients:  []string{"200g spaghetti", "3 cloves garlic"},
	Instructions: "1. Boil the spaghetti for 10 minutes.\n2. Fry the garlic in oil.\n3. Toss and serve.",
}

func TestAskParsesJSONAnswer(t *testing.T) {
	srv, got := chatServer(t, http.StatusOK, `{"answer": "Yes, butter works.", "timer": {"name": "garlic", "minutes": 2}}`)
	agent := newTestAgent(srv.URL, WithJSONMode(true))

	reply, err := agent.Ask(context.Background(), "can I use butter", domain.DialogueContext{
		Recipe:    pasta,
		StepIndex: 1,
		Timers:    []domain.Timer{{Name: "pasta", DurationSeconds: 600, RemainingSeconds: 300, Running: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Yes, butter works.", reply.Text)
	require.NotNil(t, reply.Timer)
	assert.Equal(t, domain.TimerSuggestion{Name: "garlic", Minutes: 2}, *reply.Timer)

	require.Len(t, got.Messages, 4)
	assert.Equal(t, RoleSystem, got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "Recipe: Garlic Pasta")
	assert.Contains(t, got.Messages[1].Content, "1. Boil the spaghetti for 10 minutes. [about 10 min]")
	assert.Contains(t, got.Messages[1].Content, "on step 2 of 3: Fry the garlic in oil.")
	assert.Contains(t, got.Messages[1].Content, "RUNNING: pasta, 5m remaining")
	assert.Equal(t, "can I use butter", got.Messages[3].Content)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestAskPlainTextFallback(t *testing.T) {
	srv, _ := chatServer(t, http.StatusOK, "Just keep stirring.")
	agent := newTestAgent(srv.URL)

	reply, err := agent.Ask(context.Background(), "what now", domain.DialogueContext{})
	require.NoError(t, err)
	assert.Equal(t, "Just keep stirring.", reply.Text)
	assert.Nil(t, reply.Timer)
}

func TestAskAPIError(t *testing.T) {
	srv, _ := chatServer(t, http.StatusTooManyRequests, `{"error": {"message": "rate limited"}}`)
	agent := newTestAgent(srv.URL)

	_, err := agent.Ask(context.Background(), "hi", domain.DialogueContext{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestAskEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	_, err := newTestAgent(srv.URL).Ask(context.Background(), "hi", domain.DialogueContext{})
	assert.True(t, errors.Is(err, ErrEmptyReply))
}

func TestParseReply(t *testing.T) {
	agent := newTestAgent("http://unused")

	tests := []struct {
		name      string
		raw       string
		wantText  string
		wantTimer *domain.TimerSuggestion
	}{
		{"fenced json", "```json\n{\"answer\": \"Sure.\"}\n```", "Sure.", nil},
		{"timer out of range", `{"answer": "Slow roast.", "timer": {"name": "lamb", "minutes": 900}}`, "Slow roast.", nil},
		{"zero minutes", `{"answer": "Ok.", "timer": {"name": "x", "minutes": 0}}`, "Ok.", nil},
		{"unnamed timer", `{"answer": "Starting one.", "timer": {"minutes": 5}}`, "Starting one.", &domain.TimerSuggestion{Minutes: 5}},
		{"json without answer", `{"foo": 1}`, `{"foo": 1}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := agent.parseReply(tt.raw)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantTimer, got.Timer)
		})
	}
}

func TestBuildContextWithoutRecipe(t *testing.T) {
	block := buildContext(domain.DialogueContext{
		Timers: []domain.Timer{{Name: "eggs", DurationSeconds: 60, Expired: true}},
	})
	assert.True(t, strings.HasPrefix(block, "[No recipe selected.]"))
	assert.Contains(t, block, "DONE: eggs")
}
