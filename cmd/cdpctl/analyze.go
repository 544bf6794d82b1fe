package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cdp-query/internal/llm"
	"cdp-query/internal/service"
)

func analyzeCmd() *cobra.Command {
	var useLLM bool

	cmd := &cobra.Command{
		Use:   "analyze <query>",
		Short: "Recommend CDP columns for a marketing question",
		Example: `  cdpctl analyze "30대 여성 골프 좋아하는 고객"
  cdpctl analyze --llm "해외여행 자주 가는 고소득 고객"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger(cmd)

			opts := service.AnalysisOptions{
				MaxQueryLength: cfg.MaxQueryLength,
				LLMTimeout:     cfg.LLMTimeout(),
			}
			var svc *service.AnalysisService
			if useLLM {
				if !cfg.LLMEnabled() {
					return fmt.Errorf("--llm requires LLM_API_KEY")
				}
				client := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, llm.Options{
					Temperature: cfg.LLMTemperature,
					MaxTokens:   cfg.LLMMaxTokens,
					Timeout:     cfg.LLMTimeout(),
				}, nil)
				svc = service.NewAnalysisService(client, logger, opts)
			} else {
				svc = service.NewAnalysisService(nil, logger, opts)
			}

			result, err := svc.Analyze(cmd.Context(), "cli", strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("analyze: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(result)
		},
	}
	cmd.Flags().BoolVar(&useLLM, "llm", false, "call the configured LLM instead of the rule engine")
	return cmd
}
