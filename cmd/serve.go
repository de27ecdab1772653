package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ca-srg/hexocat/internal/github"
	"github.com/ca-srg/hexocat/internal/hexocat"
	"github.com/ca-srg/hexocat/internal/observability"
	"github.com/ca-srg/hexocat/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the slash command webhook server",
	Long: `
The serve command listens for Slack slash command webhooks on POST /hexocat/.

Configuration is read from the environment (and .env):
  HEXOCAT_ENV      development | staging | production
  HEXOCAT_KEY      verification token, required outside development
  HEXOCAT_PORT     listen port (default 8000)

Example:
  hexocat serve                         # development on 0.0.0.0:8000
  HEXOCAT_KEY=xxx hexocat serve -e prod # production
`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := log.New(os.Stdout, "[hexocat] ", log.LstdFlags)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	shutdownTelemetry, err := observability.Init(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.Printf("observability: shutdown failed: %v", err)
		}
	}()

	client, err := github.NewClient(cfg.GitHubAPIURL, cfg.UserAgent)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}
	handler := hexocat.NewHandler(cfg, client, logger)
	srv := server.New(cfg, handler, log.New(os.Stdout, "[server] ", log.LstdFlags))

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case sig := <-sigChan:
			logger.Printf("Received signal: %v", sig)
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return srv.Run(gctx)
	})
	return g.Wait()
}
