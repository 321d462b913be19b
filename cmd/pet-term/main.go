// Command pet-term runs the pet in the local terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/pocketpet/server/internal/engine"
	"github.com/pocketpet/server/internal/events"
	"github.com/pocketpet/server/internal/infra/speciesdoc"
	"github.com/pocketpet/server/internal/infra/storage"
	"github.com/pocketpet/server/internal/platform/config"
	"github.com/pocketpet/server/internal/platform/logger"
	"github.com/pocketpet/server/internal/render/term"
)

const actor = "terminal"

func main() {
	configPath := flag.String("config", "pet.yaml", "Path to the YAML config file")
	logPath := flag.String("log", "pet-term.log", "Log file (the terminal is taken by the UI)")
	flag.Parse()

	if err := run(*configPath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath, logPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	appLogger := logger.NewWithWriters(logFile, logFile)

	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	var opts []speciesdoc.Option
	opts = append(opts, speciesdoc.WithHTTPClient(&http.Client{Timeout: cfg.FetchTimeout}))
	if !cfg.ValidateSpeciesDocs {
		opts = append(opts, speciesdoc.WithoutValidation())
	}
	fetcher, err := speciesdoc.NewFetcher(cfg.AssetBaseURL, opts...)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	surface := term.NewSurface(screen)
	petEngine := engine.NewEngine(surface, storage.NewSQLiteKVStore(db), fetcher, events.NewEventLog(nil), appLogger, engine.Options{
		TickInterval:  cfg.TickInterval,
		SettleDelay:   cfg.SettleDelay,
		FetchTimeout:  cfg.FetchTimeout,
		MoodThreshold: cfg.MoodThreshold,
		QueueSize:     cfg.TaskQueueSize,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	petEngine.Start(ctx)

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !handleInput(ctx, ev, petEngine, surface, appLogger) {
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// petActions is the part of the engine the keyboard drives.
type petActions interface {
	Feed(ctx context.Context, actor string) (engine.ActionResult, error)
	Play(ctx context.Context, actor string) (engine.ActionResult, error)
}

func handleInput(ctx context.Context, ev tcell.Event, pet petActions, surface *term.Surface, log *logger.Logger) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case 'f':
			go act(ctx, pet, log, "FEED")
		case 'p':
			go act(ctx, pet, log, "PLAY")
		}
	case *tcell.EventResize:
		surface.Resize()
	}
	return true
}

// act submits one action and logs its outcome. It blocks until the engine
// loop has applied the action.
func act(ctx context.Context, pet petActions, log *logger.Logger, kind string) {
	var (
		res engine.ActionResult
		err error
	)
	switch kind {
	case "FEED":
		res, err = pet.Feed(ctx, actor)
	case "PLAY":
		res, err = pet.Play(ctx, actor)
	default:
		log.Warn("Unknown action: " + kind)
		return
	}
	if err != nil {
		log.Errorf("%s failed: %v", kind, err)
		return
	}
	log.Event("PLAYER_ACTION_"+kind, actor, res.State.Filename())
}
