// Package main provides the issue-scout CLI for searching, ranking,
// and exploring repository issues from the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/issuescout/issue-scout/internal/config"
	"github.com/issuescout/issue-scout/internal/history"
	"github.com/issuescout/issue-scout/internal/issue"
	"github.com/issuescout/issue-scout/internal/pkg/logger"
	"github.com/issuescout/issue-scout/internal/query"
	"github.com/issuescout/issue-scout/internal/rank"
	"github.com/issuescout/issue-scout/internal/server"
	"github.com/issuescout/issue-scout/internal/suggest"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "issue-scout",
		Short: "Issue Scout - find approachable issues to contribute to",
		Long: `Issue Scout searches repository issues with a small filter query
language and ranks them for first-contribution friendliness.

Run 'issue-scout serve' to start the HTTP server.
Run 'issue-scout --help' for available commands.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("format", "text", "output format (text, json)")

	rootCmd.AddCommand(
		serveCmd(),
		queryCmd(),
		rankCmd(),
		suggestCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Issue Scout HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if cmd.Flags().Changed("port") {
				appCfg.Port = port
			}
			if cmd.Flags().Changed("host") {
				appCfg.Host = host
			}
			if issuesFile != "" {
				appCfg.IssuesFile = issuesFile
			}

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

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case <-ctx.Done():
				return srv.Stop(context.Background())
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().IntP("port", "p", 8080, "HTTP server port")
	cmd.Flags().String("host", "0.0.0.0", "HTTP server host")
	cmd.Flags().String("issues", "", "JSON file to seed the issue store from")

	return cmd
}

func queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query EXPRESSION",
		Short: "Parse a filter query and show how it was understood",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			result := query.ParseQuery(args[0])

			if format == "json" {
				return printJSON(struct {
					query.ParseResult
					Canonical string `json:"canonical"`
				}{result, query.ToCanonicalQuery(result.AST)})
			}

			if !result.Success {
				fmt.Printf("no filters recognized (offset %d)\n", result.ErrOffset)
				return nil
			}
			fmt.Printf("canonical: %s\n", query.ToCanonicalQuery(result.AST))
			for _, cond := range result.Conditions {
				fmt.Printf("  %-8s %s\n", cond.ID, cond.Label)
			}
			return nil
		},
	}
}

func rankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank issues from a JSON file",
		Long: `Rank issues from a JSON file, optionally filtered by a query.

The file is either a JSON array of issues or an object mapping
"owner/repo" to issue arrays (use --repo to pick one).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			repo, _ := cmd.Flags().GetString("repo")
			rawQuery, _ := cmd.Flags().GetString("query")
			sortBy, _ := cmd.Flags().GetString("sort")
			direction, _ := cmd.Flags().GetString("direction")
			limit, _ := cmd.Flags().GetInt("limit")
			format, _ := cmd.Flags().GetString("format")

			byRepo, err := issue.LoadFile(file)
			if err != nil {
				return err
			}
			issues, ok := byRepo[repo]
			if !ok {
				return fmt.Errorf("repository %q not found in %s", repo, file)
			}

			parsed := query.ParseQuery(rawQuery)
			if rawQuery != "" && !parsed.Success {
				fmt.Fprintf(os.Stderr, "warning: no filters recognized in %q, ranking all issues\n", rawQuery)
			}
			matched := issue.Filter(issues, parsed.AST)

			scorer := rank.NewScorer()
			sorted := scorer.Sort(matched, rank.ParseCriterion(sortBy), rank.Direction(direction))
			if limit > 0 && len(sorted) > limit {
				sorted = sorted[:limit]
			}

			if format == "json" {
				return printJSON(sorted)
			}
			for _, iss := range sorted {
				fmt.Printf("#%-6d %6.1f  %s\n", iss.Number, scorer.Score(iss), iss.Title)
			}
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "issues.json", "issues JSON file")
	cmd.Flags().StringP("repo", "r", "", `repository key ("" for bare array files)`)
	cmd.Flags().StringP("query", "q", "", "filter query")
	cmd.Flags().String("sort", "relevance", "sort criterion (relevance, date, comments, reactions)")
	cmd.Flags().String("direction", "", "sort direction (asc, desc; default per criterion)")
	cmd.Flags().IntP("limit", "n", 0, "maximum issues to print (0 = all)")

	return cmd
}

func suggestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest [PREFIX]",
		Short: "Suggest repositories to search",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}
			format, _ := cmd.Flags().GetString("format")
			historyFile, _ := cmd.Flags().GetString("history")

			var records []history.Record
			if historyFile != "" {
				data, err := os.ReadFile(historyFile)
				if err != nil {
					return fmt.Errorf("reading history file: %w", err)
				}
				if err := json.Unmarshal(data, &records); err != nil {
					return fmt.Errorf("parsing history file: %w", err)
				}
			}

			ranked := suggest.Rank(records, prefix)
			if format == "json" {
				return printJSON(ranked)
			}
			for _, sg := range ranked {
				age := ""
				if !sg.LastUsed.IsZero() {
					age = fmt.Sprintf(" (last used %s ago)", time.Since(sg.LastUsed).Round(time.Minute))
				}
				fmt.Printf("%-8s %5.0f  %s%s\n", sg.Origin, sg.Score, sg.DisplayName, age)
			}
			return nil
		},
	}

	cmd.Flags().String("history", "", "JSON file of past searches")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("issue-scout %s\n", version)
			fmt.Printf("  commit: %s\n", commit)
			fmt.Printf("  built:  %s\n", date)
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
