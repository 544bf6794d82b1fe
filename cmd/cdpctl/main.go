package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cdp-query/internal/config"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cdpctl",
		Short:         "CDP marketing query tools",
		Long:          "cdpctl runs the CDP column recommender locally and mints API tokens for the query service.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "log analysis details to stderr")

	root.AddCommand(analyzeCmd())
	root.AddCommand(tokenCmd())
	root.AddCommand(catalogCmd())
	root.AddCommand(checkCmd())
	root.AddCommand(shellCmd())
	return root
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command) *zap.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop()
	}
	return zap.NewExample()
}
