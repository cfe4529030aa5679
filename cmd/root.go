package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "newsforge",
	Short: "Score, rewrite and curate geek culture news",
	Long: `Newsforge collects articles from RSS sources, rewrites them in an
editorial voice, checks that the rewrite is original and only publishes
items whose composite score passes the admission gate.

Pipeline: fetch → relevance → rewrite → score → gate`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = "0.1.0"
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.newsforge/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
