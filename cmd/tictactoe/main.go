// Command tictactoe serves the browser game.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/jaminalder/tic-tac-toe-history/internal/app"
	"github.com/jaminalder/tic-tac-toe-history/internal/config"
	"github.com/jaminalder/tic-tac-toe-history/internal/logging"
	"github.com/jaminalder/tic-tac-toe-history/internal/web"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("tictactoe", args, os.Stderr)
	if err != nil {
		return err
	}
	closer, err := logging.Init(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	svc := app.NewService()
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: web.NewServer(svc, web.WithLogger(log.Logger), web.WithHeartbeat(cfg.Heartbeat)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("Starting App")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
