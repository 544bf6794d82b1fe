package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cdp-query/internal/service"
)

func tokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for the query API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			tokens := service.NewTokenService(cfg.APIJWTSecret)
			if !tokens.Enabled() {
				return fmt.Errorf("API_JWT_SECRET is not set")
			}
			token, err := tokens.Issue(args[0], ttl)
			if err != nil {
				return fmt.Errorf("issue token: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
