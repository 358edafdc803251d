// Package display renders the terminal side of the assistant with lipgloss.
//
// [Console] serialises every write so lines printed from the timer clocks,
// the announcer and the REPL never interleave. [RenderTimers] draws the
// one-line timer bar shown above the prompt.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/cookvoice/internal/domain"
)

// ── Styles ───────────────────────────────────────────────────────

var (
	barBg = lipgloss.NewStyle().
		Background(lipgloss.Color("#27272a")).
		Foreground(lipgloss.Color("#a1a1aa"))

	timerRunStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fde68a"))

	timerDoneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5"))

	timerPausedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#71717a")).
				Italic(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a1a1aa"))

	sepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#52525b"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	// BannerStyle is the muted slate used for the startup banner.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#94a3b8"))

	chatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bae6fd"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#bbf7d0"))

	primaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4d4d8"))

	secondaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#71717a"))

	urgentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fca5a5")).
			Bold(true)

	userInputEchoStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a1a1aa"))
)

// Prompt is printed before every line of typed input.
const Prompt = "cook> "

// ── Console ──────────────────────────────────────────────────────

// Console writes styled lines to a terminal. Safe for concurrent use.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsole creates a console writing to out. If out is nil, os.Stdout is used.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{out: out}
}

// Println prints one line.
func (c *Console) Println(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, line)
}

// Printf prints formatted text on its own line.
func (c *Console) Printf(format string, a ...any) {
	c.Println(fmt.Sprintf(format, a...))
}

// PrintChat prints a conversational assistant line.
func (c *Console) PrintChat(text string) {
	c.Println(chatStyle.Render("  " + text))
}

// PrintStep prints a step header like "Step 2/8 (~5m)".
func (c *Console) PrintStep(text string) {
	c.Println(stepStyle.Render("  " + text))
}

// PrintInstruction prints the step's main instruction text.
func (c *Console) PrintInstruction(text string) {
	c.Println(primaryStyle.Render("  " + text))
}

// PrintHint prints a dimmed line.
func (c *Console) PrintHint(text string) {
	c.Println(secondaryStyle.Render("  " + text))
}

// PrintUrgent prints an alert line.
func (c *Console) PrintUrgent(text string) {
	c.Println(urgentStyle.Render("  " + text))
}

// PrintVoice prints a line heard through the microphone.
func (c *Console) PrintVoice(text string) {
	c.Println(secondaryStyle.Render("[voice] ") + primaryStyle.Render(text))
}

// PrintTimers prints the timer bar; nothing when there are no timers.
func (c *Console) PrintTimers(timers []domain.Timer) {
	if bar := RenderTimers(timers, termWidth()); bar != "" {
		c.Println(bar)
	}
}

// PrintPrompt writes the input prompt without a newline.
func (c *Console) PrintPrompt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, promptStyle.Render(Prompt))
}

// ── Timer bar ────────────────────────────────────────────────────

// RenderTimers draws the timers on one bar of the given width, in the
// manager's creation order. Returns "" for an empty list.
func RenderTimers(timers []domain.Timer, width int) string {
	if len(timers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(timers))
	for _, t := range timers {
		switch t.Status() {
		case domain.TimerExpired:
			parts = append(parts, timerDoneStyle.Render(t.Name+": DONE!"))
		case domain.TimerPaused:
			parts = append(parts, timerPausedStyle.Render(t.Name+": paused "+FormatClock(t.Remaining())))
		default:
			parts = append(parts, labelStyle.Render(t.Name+": ")+timerRunStyle.Render(FormatClock(t.Remaining())))
		}
	}

	content := " " + strings.Join(parts, sepStyle.Render("  │  ")) + " "
	if width <= 0 {
		width = 80
	}
	return barBg.Width(width).Render(content)
}

// Title is a plain-text summary of the timers for a window title.
func Title(timers []domain.Timer) string {
	if len(timers) == 0 {
		return "cookvoice"
	}
	p := make([]string, 0, len(timers))
	for _, t := range timers {
		switch t.Status() {
		case domain.TimerExpired:
			p = append(p, t.Name+": DONE!")
		case domain.TimerPaused:
			p = append(p, t.Name+": paused")
		default:
			p = append(p, t.Name+": "+FormatClock(t.Remaining()))
		}
	}
	return "cookvoice | " + strings.Join(p, " | ")
}

// ── Helpers ──────────────────────────────────────────────────────

// FormatClock renders a countdown as "45s", "4m05s" or "1h02m10s".
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
