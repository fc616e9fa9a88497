// cmd/endgame-tui/main.go
//
// Terminal client for Assembly Endgame. Plays one local game at a time, no
// server involved. Logs go to ENDGAME_LOG_FILE (or nowhere) because the
// terminal belongs to the game.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/assembly-endgame/internal/config"
	"github.com/robalobadob/assembly-endgame/internal/tui"
	"github.com/robalobadob/assembly-endgame/internal/words"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "endgame-tui: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadTUI()
	if err != nil {
		return err
	}
	logger, closeLog, err := config.SetupFileLogging(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closeLog()

	if err := words.Init(cfg.WordsFile); err != nil {
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

	chime := tui.NewChime(cfg.Sound, logger)
	defer chime.Close()

	app, err := tui.New(screen, words.Default(), tui.Options{
		Celebrator: chime,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Int("words", words.Default().Len()).Bool("sound", cfg.Sound).Msg("terminal client started")
	return app.Run(ctx)
}
