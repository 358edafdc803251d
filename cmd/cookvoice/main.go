// cookvoice is a hands-free cooking assistant: it reads recipes step by
// step, runs kitchen timers, and answers questions, by keyboard or voice.
//
// Usage:
//
//	cookvoice [-config cookvoice.yaml] [-recipe id] [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/hammamikhairi/cookvoice/internal/assistant"
	"github.com/hammamikhairi/cookvoice/internal/command"
	"github.com/hammamikhairi/cookvoice/internal/config"
	"github.com/hammamikhairi/cookvoice/internal/display"
	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/gpt"
	"github.com/hammamikhairi/cookvoice/internal/logger"
	"github.com/hammamikhairi/cookvoice/internal/metrics"
	"github.com/hammamikhairi/cookvoice/internal/recipe"
	"github.com/hammamikhairi/cookvoice/internal/speech"
	"github.com/hammamikhairi/cookvoice/internal/storage"
	"github.com/hammamikhairi/cookvoice/internal/timer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cookvoice: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to a YAML config file (default: ./cookvoice.yaml if present)")
	recipeID := flag.String("recipe", "", "start cooking this recipe right away")
	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	logLevel := logger.ParseLevel(cfg.Log.Level)
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Logs go to a file when configured so the REPL stays readable.
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" {
		if dir := filepath.Dir(cfg.Log.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("creating log dir: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}

	// The whisper bindings log through the standard library logger.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// ── Recipes and sessions ──

	var (
		recipes  domain.RecipeSource
		fileBook *recipe.FileSource
	)
	if cfg.Recipes.File != "" {
		fileBook, err = recipe.NewFileSource(cfg.Recipes.File, log)
		if err != nil {
			return err
		}
		recipes = fileBook
	} else {
		recipes = recipe.NewMemorySource(log)
	}
	store := storage.NewMemoryStore(log)

	// ── Output ──

	console := display.NewConsole(nil)
	var notifier domain.Notifier = display.NewNotifier(console, log)
	var speaker domain.Speaker = speech.NewNoOp(log)

	g, gctx := errgroup.WithContext(ctx)

	var mouth *speech.Mouth
	if cfg.Speech.Enabled {
		mouth, err = buildMouth(cfg, log)
		if err != nil {
			log.Error("speech disabled: %v", err)
		} else {
			g.Go(func() error {
				mouth.Run(gctx)
				return nil
			})
			mouth.Prefetch(gctx, speech.LineWelcome())
			speaker = speech.Queued{Sayer: mouth, Priority: speech.PriorityNormal}
			notifier = speech.NewSpeakingNotifier(notifier, mouth, log)
			log.Info("TTS enabled (voice=%s, region=%s)", cfg.Speech.Voice, cfg.Speech.AzureRegion)
		}
	}

	// ── Timers ──

	timers := timer.New(log,
		timer.WithMaxTimers(cfg.Timers.Max),
		timer.WithTickInterval(cfg.Timers.Tick),
		timer.WithMetrics(metrics.NewTimers(reg)),
	)
	defer timers.Close()

	announcer := timer.NewAnnouncer(timers, notifier, log,
		timer.WithNotifyCooldown(cfg.Timers.ReminderCooldown),
		timer.WithMaxEscalation(cfg.Timers.MaxEscalation),
		timer.WithAlmostDoneThreshold(cfg.Timers.AlmostDone),
	)
	watcher := timer.NewWatcher(store, recipes, timers, notifier, log,
		timer.WithIdleLimit(cfg.Timers.IdleLimit),
	)
	bar := newTimerBar(console)
	unsubscribe := timers.Subscribe(bar.update)
	defer unsubscribe()

	g.Go(func() error {
		announcer.Run(gctx)
		return nil
	})
	g.Go(func() error {
		watcher.Run(gctx)
		return nil
	})

	// ── Assistant ──

	opts := []assistant.Option{assistant.WithDefaultMinutes(cfg.Timers.DefaultMinutes)}
	if cfg.AI.Enabled {
		client := gpt.NewClient(cfg.AI.Endpoint, cfg.AI.Key, log,
			gpt.WithModel(cfg.AI.Model),
			gpt.WithJSONMode(true),
		)
		opts = append(opts, assistant.WithDialogue(gpt.NewAgent(client, log)))
		log.Info("AI dialogue enabled")
	} else {
		log.Info("AI dialogue disabled: set ai.enabled, ai.endpoint and ai.key to enable")
	}
	classifier := command.New(log, command.WithMetrics(metrics.NewCommands(reg)))
	asst := assistant.New(recipes, store, timers, classifier, speaker, log, opts...)

	// ── Background services ──

	if fileBook != nil && cfg.Recipes.Watch {
		g.Go(func() error {
			return fileBook.Watch(gctx)
		})
	}

	if cfg.Metrics.Addr != "" {
		srv := &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           metricsMux(reg),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("metrics listening on %s", cfg.Metrics.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	var heard <-chan domain.TranscriptEvent
	if cfg.Voice.Enabled {
		ear, err := buildEar(cfg, mouth, log)
		if err != nil {
			return err
		}
		heard = ear.Listen(gctx)
		log.Info("voice input enabled (bin=%s, model=%s)", cfg.Voice.WhisperBin, cfg.Voice.WhisperModel)
	}

	// ── REPL ──

	fmt.Print(display.RenderBanner(0))
	if heard != nil {
		console.Println(display.BannerStyle.Render(`  Voice mode on. Say "hey chef" to talk, or type.`))
	}
	console.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	console.Println("")

	r := &repl{
		assistant: asst,
		recipes:   recipes,
		timers:    timers,
		console:   console,
		speaker:   speaker,
		mouth:     mouth,
		log:       log,
	}
	g.Go(func() error {
		return r.run(gctx, *recipeID, readLines(gctx, os.Stdin), heard)
	})

	err = g.Wait()
	if stopErr := asst.Stop(context.Background()); stopErr != nil {
		log.Warn("ending session: %v", stopErr)
	}
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func buildMouth(cfg *config.Config, log *logger.Logger) (*speech.Mouth, error) {
	tts := speech.NewAzureClient(cfg.Speech.AzureKey, cfg.Speech.AzureRegion, log,
		speech.WithVoice(cfg.Speech.Voice),
	)
	player, err := speech.NewPlayer(log)
	if err != nil {
		return nil, err
	}

	var cacheOpts []speech.CacheOption
	if cfg.Speech.CacheDir != "" {
		cacheOpts = append(cacheOpts, speech.WithCacheDir(cfg.Speech.CacheDir))
	}
	cache := speech.NewAudioCache(tts.Voice(), log, cacheOpts...)
	return speech.NewMouth(tts, player, log, speech.WithCache(cache)), nil
}

func buildEar(cfg *config.Config, mouth *speech.Mouth, log *logger.Logger) (*speech.Ear, error) {
	if _, err := os.Stat(cfg.Voice.WhisperModel); err != nil {
		return nil, fmt.Errorf("whisper model: %w", err)
	}
	opts := []speech.EarOption{
		speech.WithDormantDuration(cfg.RecordDuration()),
		speech.WithListenTimeout(cfg.Voice.ListenFor),
	}
	if mouth != nil {
		opts = append(opts, speech.WithMouth(mouth))
	}
	return speech.NewEar(cfg.Voice.WhisperBin, cfg.Voice.WhisperModel, log, opts...), nil
}

func metricsMux(reg *prometheus.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
