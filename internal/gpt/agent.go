package gpt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/hammamikhairi/cookvoice/internal/cooktime"
	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
)

// Compile-time interface check.
var _ domain.Dialogue = (*Agent)(nil)

// Agent wraps the Client with cooking-context building. It answers whatever
// the command classifier could not.
type Agent struct {
	client *Client
	log    *logger.Logger
}

// NewAgent creates a cooking agent backed by the given Client.
func NewAgent(client *Client, log *logger.Logger) *Agent {
	return &Agent{client: client, log: log}
}

// answer is the JSON the model is asked to produce.
type answer struct {
	Answer string `json:"answer"`
	Timer  *struct {
		Name    string `json:"name"`
		Minutes int    `json:"minutes"`
	} `json:"timer,omitempty"`
}

// Ask sends the question with the cooking context. A reply that isn't the
// expected JSON is spoken as-is; a timer suggestion outside (0, 480]
// minutes is dropped.
func (a *Agent) Ask(ctx context.Context, question string, dc domain.DialogueContext) (*domain.DialogueReply, error) {
	raw, err := a.client.Chat(ctx, a.buildMessages(question, dc))
	if err != nil {
		return nil, err
	}
	return a.parseReply(raw), nil
}

func (a *Agent) parseReply(raw string) *domain.DialogueReply {
	raw = stripCodeFence(raw)

	var ans answer
	if err := json.Unmarshal([]byte(raw), &ans); err != nil || strings.TrimSpace(ans.Answer) == "" {
		if err != nil {
			a.log.Debug("gpt: reply is not JSON, speaking it as-is: %v", err)
		}
		return &domain.DialogueReply{Text: raw}
	}

	reply := &domain.DialogueReply{Text: strings.TrimSpace(ans.Answer)}
	if t := ans.Timer; t != nil {
		if t.Minutes > 0 && t.Minutes <= cooktime.MaxMinutes {
			reply.Timer = &domain.TimerSuggestion{Name: strings.TrimSpace(t.Name), Minutes: t.Minutes}
		} else {
			a.log.Warn("gpt: dropping timer suggestion %q for %d minutes", t.Name, t.Minutes)
		}
	}
	return reply
}

// stripCodeFence removes ```json ... ``` wrappers that LLMs love to add.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
	}
	return strings.TrimSpace(s)
}

// ── Context building ─────────────────────────────────────────────

// buildMessages assembles the system prompt, the cooking context, and the
// user's question.
func (a *Agent) buildMessages(question string, dc domain.DialogueContext) []Message {
	msgs := []Message{{Role: RoleSystem, Content: PromptQuestion}}

	if block := buildContext(dc); block != "" {
		msgs = append(msgs,
			Message{Role: RoleUser, Content: block},
			// Fake an ack so the model treats the context as established.
			Message{Role: RoleAssistant, Content: `{"answer": "Got it, I have the context."}`},
		)
	}
	return append(msgs, Message{Role: RoleUser, Content: question})
}

// buildContext serializes the recipe, step position and timers into a
// plain-text block the model can reason over.
func buildContext(dc domain.DialogueContext) string {
	var b strings.Builder

	if r := dc.Recipe; r != nil {
		b.WriteString("[Current Recipe]\n")
		fmt.Fprintf(&b, "Recipe: %s\n", r.Name)
		if r.Description != "" {
			fmt.Fprintf(&b, "Description: %s\n", r.Description)
		}
		if r.Servings > 0 {
			fmt.Fprintf(&b, "Servings: %d\n", r.Servings)
		}

		b.WriteString("\nIngredients:\n")
		for _, ing := range r.Ingredients {
			fmt.Fprintf(&b, "- %s\n", ing)
		}

		steps := r.Steps()
		b.WriteString("\nSteps:\n")
		for i, s := range steps {
			fmt.Fprintf(&b, "%d. %s", i+1, s)
			if m, ok := cooktime.Extract(s); ok {
				fmt.Fprintf(&b, " [about %d min]", m.Minutes)
			}
			b.WriteString("\n")
		}

		if dc.StepIndex >= 0 && dc.StepIndex < len(steps) {
			fmt.Fprintf(&b, "\nThe user is on step %d of %d: %s\n", dc.StepIndex+1, len(steps), steps[dc.StepIndex])
		}
	} else {
		b.WriteString("[No recipe selected.]\n")
	}

	b.WriteString("\n[Timers]\n")
	if len(dc.Timers) == 0 {
		b.WriteString("No timers.\n")
	}
	for _, t := range dc.Timers {
		switch t.Status() {
		case domain.TimerRunning:
			fmt.Fprintf(&b, "RUNNING: %s, %s remaining\n", t.Name, formatDuration(t.Remaining()))
		case domain.TimerPaused:
			fmt.Fprintf(&b, "PAUSED: %s, %s remaining\n", t.Name, formatDuration(t.Remaining()))
		case domain.TimerExpired:
			fmt.Fprintf(&b, "DONE: %s, waiting to be dismissed\n", t.Name)
		}
	}

	return b.String()
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
