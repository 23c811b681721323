// Command tictactoe-term plays a hot-seat game in the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
	"github.com/jaminalder/tic-tac-toe-history/internal/config"
	"github.com/jaminalder/tic-tac-toe-history/internal/logging"
	"github.com/jaminalder/tic-tac-toe-history/internal/term"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	base := config.Default()
	// Logs share the terminal with the board, so stay quiet unless asked.
	base.LogLevel = "warn"
	cfg, err := config.LoadFrom(base, "tictactoe-term", args, os.Stderr)
	if err != nil {
		return err
	}
	closer, err := logging.Init(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s, err := term.NewSession(app.NewService(), term.NewRenderer(os.Stdout))
	if err != nil {
		return err
	}
	log.Debug().Str("game_id", s.ID()).Msg("terminal session started")
	return s.Run(ctx, os.Stdin)
}
