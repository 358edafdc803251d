package speech

// Every spoken string lives in this file. Keep lines short and direct;
// the TTS engine handles inflection.

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/numwords"
)

// ── Greeting / Global ────────────────────────────────────────────

func LineWelcome() string {
	return "Hello. What are we cooking today?"
}

func LineBye() string {
	return "Bye."
}

func LineUnknown() string {
	return "Sorry, I didn't catch that. Try asking for the next step or setting a timer."
}

// ── Recipe / session ─────────────────────────────────────────────

// LineCookingStart is spoken when a session begins. It reads out the
// ingredients so the cook can gather them.
func LineCookingStart(recipe *domain.Recipe) string {
	steps := len(recipe.Steps())
	return fmt.Sprintf("Cooking %s. %s steps. Say next when you're ready.",
		recipe.Name, capitalize(numwords.ToWords(steps)))
}

func LineNoRecipe() string {
	return "Pick a recipe first."
}

// LineIngredients reads the ingredient list as one sentence.
func LineIngredients(ingredients []string) string {
	if len(ingredients) == 0 {
		return "This recipe doesn't list any ingredients."
	}
	var b strings.Builder
	b.WriteString("You'll need: ")
	for i, ing := range ingredients {
		if i > 0 && i == len(ingredients)-1 {
			b.WriteString(", and ")
		} else if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ing)
	}
	b.WriteString(".")
	return b.String()
}

// LineFullRecipe reads the whole recipe: name, ingredients, then every step.
func LineFullRecipe(recipe *domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s. ", recipe.Name)
	b.WriteString(LineIngredients(recipe.Ingredients))
	for i, s := range recipe.Steps() {
		fmt.Fprintf(&b, " Step %d. %s", i+1, s)
	}
	return b.String()
}

// LineStep builds the spoken text for one cooking step.
func LineStep(order, total int, instruction string) string {
	return fmt.Sprintf("Step %d of %d. %s", order, total, instruction)
}

func LineLastStepDone() string {
	return "That was the last step. You're done."
}

func LineAtFirstStep() string {
	return "You're already on the first step."
}

func LineNoSuchStep(n, total int) string {
	return fmt.Sprintf("There's no step %d. This recipe has %d steps.", n, total)
}

// ── Timers ───────────────────────────────────────────────────────

func LineTimerStarted(t domain.Timer) string {
	return fmt.Sprintf("%s set for %s.", t.Name, FormatDurationSpeech(t.Duration()))
}

func LineTooManyTimers(max int) string {
	return fmt.Sprintf("You already have %d timers going. Dismiss one first.", max)
}

func LineTimerStopped(name string) string {
	return fmt.Sprintf("%s stopped.", name)
}

func LineTimersDismissed(n int) string {
	if n == 1 {
		return "Timer dismissed."
	}
	return fmt.Sprintf("%d timers dismissed.", n)
}

func LineNoActiveTimers() string {
	return "No timers running."
}

func LineNoTimerNamed(name string) string {
	return fmt.Sprintf("I don't have a %s timer.", name)
}

// LineNoStepTime is spoken when a step-referenced timer finds no duration.
func LineNoStepTime(step int, fallback int) string {
	return fmt.Sprintf("Step %d doesn't say how long, so I'll use %s.", step, FormatDurationSpeech(time.Duration(fallback)*time.Minute))
}

// LineNoItemTime is spoken when an item-referenced timer finds no duration.
func LineNoItemTime(item string, fallback int) string {
	return fmt.Sprintf("The recipe doesn't say how long for the %s, so I'll use %s.", item, FormatDurationSpeech(time.Duration(fallback)*time.Minute))
}

// LineTimerStatus describes one timer.
func LineTimerStatus(t domain.Timer) string {
	switch t.Status() {
	case domain.TimerExpired:
		return fmt.Sprintf("%s is done.", t.Name)
	case domain.TimerPaused:
		return fmt.Sprintf("%s is paused with %s left.", t.Name, FormatDurationSpeech(t.Remaining()))
	default:
		return fmt.Sprintf("%s has %s left.", t.Name, FormatDurationSpeech(t.Remaining()))
	}
}

// LineTimersStatus describes every timer in one utterance.
func LineTimersStatus(timers []domain.Timer) string {
	if len(timers) == 0 {
		return LineNoActiveTimers()
	}
	parts := make([]string, len(timers))
	for i, t := range timers {
		parts[i] = LineTimerStatus(t)
	}
	return strings.Join(parts, " ")
}

// ── AI agent ─────────────────────────────────────────────────────

func LineAIDisabled() string {
	return "I can only handle steps and timers right now."
}

func LineAIError() string {
	return "Something went wrong with the AI. Try again."
}

// ── Thinking fillers ─────────────────────────────────────────────
// Spoken while waiting for the AI to respond. Randomized to avoid repetition.

var thinkingQuestion = []string{
	"Let me think about that.",
	"Good question. Give me a second.",
	"Hmm, one moment.",
	"Hang on, thinking.",
	"Bear with me a sec.",
	"One second, looking that up.",
	"Okay, let me think.",
}

// LineThinkingQuestion returns a random filler for when a question is being processed.
func LineThinkingQuestion() string {
	return thinkingQuestion[rand.Intn(len(thinkingQuestion))]
}

// ── Listening acknowledgment ─────────────────────────────────────
// Spoken when the wake word is detected, so the user knows they've
// been heard and should start talking.

var listeningFillers = []string{
	"I'm listening.",
	"Listening.",
	"Yes chef?",
	"What do you need?",
	"I'm here.",
	"Yes?",
}

// LineListening returns a random acknowledgment for when the wake
// word is detected.
func LineListening() string {
	return listeningFillers[rand.Intn(len(listeningFillers))]
}

// ── Helpers ──────────────────────────────────────────────────────

// FormatDurationSpeech returns a human-friendly spoken duration with the
// numbers spelled out: "five minutes", "one minute thirty seconds".
func FormatDurationSpeech(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60

	var parts []string
	if h > 0 {
		parts = append(parts, plural(h, "hour"))
	}
	if m > 0 {
		parts = append(parts, plural(m, "minute"))
	}
	if s > 0 || len(parts) == 0 {
		parts = append(parts, plural(s, "second"))
	}
	return strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "one " + unit
	}
	return numwords.ToWords(n) + " " + unit + "s"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
