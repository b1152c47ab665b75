// Package main provides the issue-scout server binary. It runs the
// HTTP API standalone, for deployments that don't need the CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/issuescout/issue-scout/internal/config"
	"github.com/issuescout/issue-scout/internal/pkg/logger"
	"github.com/issuescout/issue-scout/internal/server"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "issue-scout-server",
		Short: "Issue Scout Server - HTTP API for issue search and ranking",
		Long: `Issue Scout Server exposes the search, ranking, and suggestion API
over HTTP.

Examples:
  issue-scout-server                         # Start with defaults
  issue-scout-server --port 9090             # Custom HTTP port
  issue-scout-server --issues issues.json    # Seed the store at startup`,
		RunE:         runServer,
		SilenceUsage: true,
	}

	rootCmd.Flags().StringP("config", "c", "", "config file path")
	rootCmd.Flags().BoolP("verbose", "v", false, "verbose logging")
	rootCmd.Flags().IntP("port", "p", 8080, "HTTP server port")
	rootCmd.Flags().String("host", "0.0.0.0", "server host")
	rootCmd.Flags().String("issues", "", "JSON file to seed the issue store from")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("issue-scout-server %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	port, _ := cmd.Flags().GetInt("port")
	host, _ := cmd.Flags().GetString("host")
	issuesFile, _ := cmd.Flags().GetString("issues")

	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log := logger.New(logLevel, "text")

	appCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Override from flags
	if cmd.Flags().Changed("port") {
		appCfg.Port = port
	}
	if cmd.Flags().Changed("host") {
		appCfg.Host = host
	}
	if issuesFile != "" {
		appCfg.IssuesFile = issuesFile
	}

	log.Info("Starting Issue Scout Server",
		"version", version,
		"addr", appCfg.Address(),
		"bus", appCfg.Bus.Type,
		"history", appCfg.History.Type,
	)

	srvCfg := server.DefaultConfig()
	srvCfg.Host = appCfg.Host
	srvCfg.Port = appCfg.Port
	srvCfg.Version = version

	srv, err := server.New(srvCfg, *appCfg, log)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return srv.Stop(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.WithError(err).Error("Server exited with error")
		return err
	}

	log.Info("Server exited cleanly")
	return nil
}
