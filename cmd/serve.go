package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/metanotes/internal/auth"
	"github.com/abhisek/metanotes/internal/config"
	"github.com/abhisek/metanotes/internal/httpapi"
	"github.com/abhisek/metanotes/internal/llm"
	"github.com/abhisek/metanotes/internal/pipeline"
	"github.com/abhisek/metanotes/internal/usage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

// runServe wires the collaborators and runs the HTTP server until a
// termination signal arrives.
func runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := config.FromEnv()

	llmCfg := resolveLLMConfig()
	if err := llmCfg.Validate(); err != nil {
		return fmt.Errorf("LLM provider not configured: %w", err)
	}

	provider, err := llm.NewProvider(ctx, llmCfg)
	if err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}

	dbPath := cfg.DBPath
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		dbPath = p
	}
	store, err := usage.Open(dbPath, cfg.UsageLimit)
	if err != nil {
		return fmt.Errorf("open usage store: %w", err)
	}
	defer store.Close()

	verifier := auth.NewVerifier(cfg.AuthVerifyURL, cfg.AuthAppID)
	svc := pipeline.NewService(provider)
	srv := httpapi.NewServer(svc, verifier, store)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("metanotes listening on %s (model %s, usage limit %d)",
			cfg.Addr, provider.ModelID(), store.Limit())
		errCh <- httpSrv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stop:
		log.Println("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}

	return nil
}

// resolveLLMConfig prefers explicit METANOTES_* configuration and falls back
// to probing the standard provider key env vars.
func resolveLLMConfig() llm.Config {
	cfg := llm.ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg
	}
	if discovered, ok := llm.DiscoverConfig(); ok {
		return discovered
	}
	return cfg
}
