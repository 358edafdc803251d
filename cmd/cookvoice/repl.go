package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/hammamikhairi/cookvoice/internal/assistant"
	"github.com/hammamikhairi/cookvoice/internal/display"
	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
	"github.com/hammamikhairi/cookvoice/internal/speech"
	"github.com/hammamikhairi/cookvoice/internal/timer"
)

// errQuit ends the errgroup when the user leaves.
var errQuit = errors.New("quit")

const helpText = `Commands:
  recipes            list available recipes
  cook <id>          start cooking a recipe
  timers             show running timers
  help               show this help
  quit               exit

While cooking, just talk: "next", "repeat", "read step 3", "ingredients",
"set a timer for 10 minutes", "stop the pasta timer", "how long left".`

type repl struct {
	assistant *assistant.Assistant
	recipes   domain.RecipeSource
	timers    *timer.Manager
	console   *display.Console
	speaker   domain.Speaker
	mouth     *speech.Mouth
	log       *logger.Logger
}

// run feeds typed lines and final voice transcripts to the assistant until
// ctx ends or the user quits.
func (r *repl) run(ctx context.Context, startRecipe string, typed <-chan string, heard <-chan domain.TranscriptEvent) error {
	r.speak(ctx, speech.LineWelcome())
	if startRecipe != "" {
		r.start(ctx, startRecipe)
	}
	r.console.PrintPrompt()

	for {
		var line string
		select {
		case <-ctx.Done():
			return nil
		case l, ok := <-typed:
			if !ok {
				return errQuit
			}
			line = l
		case ev, ok := <-heard:
			if !ok {
				heard = nil
				continue
			}
			if !ev.IsFinal || strings.TrimSpace(ev.Text) == "" {
				continue
			}
			line = ev.Text
			r.console.PrintVoice(line)
		}

		if err := r.dispatch(ctx, line); err != nil {
			return err
		}
		r.console.PrintPrompt()
	}
}

func (r *repl) dispatch(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	verb, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(verb) {
	case "quit", "exit":
		r.console.PrintChat(speech.LineBye())
		return errQuit
	case "help":
		r.console.Println(helpText)
		return nil
	case "recipes":
		r.listRecipes(ctx)
		return nil
	case "timers":
		if list := r.timers.List(); len(list) > 0 {
			r.console.PrintTimers(list)
		} else {
			r.console.PrintHint("No timers running.")
		}
		return nil
	case "cook":
		if arg != "" {
			r.start(ctx, arg)
			return nil
		}
	}

	// New input cuts off whatever is being read out.
	if r.mouth != nil {
		r.mouth.Interrupt()
	}

	reply, err := r.assistant.Handle(ctx, line)
	switch {
	case err == nil,
		errors.Is(err, domain.ErrTooManyTimers),
		errors.Is(err, domain.ErrNoRecipe):
	default:
		r.log.Error("handling %q: %v", line, err)
	}
	if reply.Text == "" {
		return nil
	}
	if reply.Command.Kind.IsNavigation() {
		r.console.PrintInstruction(reply.Text)
	} else {
		r.console.PrintChat(reply.Text)
	}
	return nil
}

func (r *repl) start(ctx context.Context, id string) {
	sess, err := r.assistant.Start(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.console.PrintHint(fmt.Sprintf("No recipe %q. Type 'recipes' to see what's available.", id))
			return
		}
		r.log.Error("starting %q: %v", id, err)
		return
	}
	_, rec, err := r.assistant.Session(ctx)
	if err != nil {
		r.log.Error("loading session %s: %v", sess.ID, err)
		return
	}
	r.console.PrintChat(speech.LineCookingStart(rec))
	r.console.PrintHint(`Say "next" to read the first step.`)
}

func (r *repl) listRecipes(ctx context.Context) {
	list, err := r.recipes.List(ctx)
	if err != nil {
		r.log.Error("listing recipes: %v", err)
		return
	}
	if len(list) == 0 {
		r.console.PrintHint("No recipes loaded.")
		return
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	for _, s := range list {
		line := fmt.Sprintf("  %-20s %s", s.ID, s.Name)
		if len(s.Tags) > 0 {
			line += "  [" + strings.Join(s.Tags, ", ") + "]"
		}
		r.console.Println(line)
	}
}

func (r *repl) speak(ctx context.Context, text string) {
	if err := r.speaker.Speak(ctx, text); err != nil {
		r.log.Debug("speak: %v", err)
	}
}

// readLines scans in on its own goroutine. The channel closes at EOF.
func readLines(ctx context.Context, in io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case out <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// timerBar reprints the timer bar when the set of timers or their state
// changes, not on every tick.
type timerBar struct {
	console *display.Console

	mu   sync.Mutex
	last string
}

func newTimerBar(c *display.Console) *timerBar {
	return &timerBar{console: c}
}

func (b *timerBar) update(timers []domain.Timer) {
	key := barKey(timers)

	b.mu.Lock()
	changed := key != b.last
	b.last = key
	b.mu.Unlock()

	if changed && len(timers) > 0 {
		b.console.PrintTimers(timers)
	}
}

func barKey(timers []domain.Timer) string {
	var sb strings.Builder
	for _, t := range timers {
		sb.WriteString(t.ID)
		switch {
		case t.Expired:
			sb.WriteString(":x;")
		case t.Running:
			sb.WriteString(":r;")
		default:
			sb.WriteString(":p;")
		}
	}
	return sb.String()
}
