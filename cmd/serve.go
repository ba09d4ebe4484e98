package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhisek/fido/internal/api"
	"github.com/abhisek/fido/internal/feedback"
	"github.com/abhisek/fido/internal/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve feedback sessions, work items, and the leaderboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = e.cfg.Server.Addr
		}
		telemetry, _ := cmd.Flags().GetBool("telemetry")
		if telemetry || e.cfg.Server.Telemetry {
			shutdown, err := metrics.InitTracer(os.Stderr)
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("tracer shutdown failed", "error", err)
				}
			}()
		}

		e.connectLLM(cmd, os.Stderr)

		sm, err := metrics.NewSessionMetrics()
		if err != nil {
			return fmt.Errorf("create session metrics: %w", err)
		}
		registry := api.NewRegistry(func(assessor, target string) (*feedback.Session, error) {
			return e.newSession(assessor, target, sm)
		}, sm)

		srv := api.New(api.Deps{
			Registry:    registry,
			WorkItems:   e.items,
			Leaderboard: e.board,
			Feedback:    e.st.FeedbackRepo(),
			Logger:      logger,
		})

		server := &http.Server{
			Addr:        addr,
			Handler:     srv.Handler(),
			ReadTimeout: 15 * time.Second,
			// Question fetches may wait on a provider for a while.
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", addr, "version", buildVersion(), "llm", e.llmReady)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			return nil
		case <-quit:
		}
		logger.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		registry.CloseAll(ctx)
		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (defaults to server.addr in config)")
	serveCmd.Flags().Bool("telemetry", false, "Export traces to stderr")
}
