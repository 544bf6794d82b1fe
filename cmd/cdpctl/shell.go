package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cdp-query/internal/domain"
	"cdp-query/internal/service"
)

// runShell lee una consulta por línea hasta EOF o "/exit".
func runShell(ctx context.Context, in io.Reader, out io.Writer, a analyzer) error {
	reader := bufio.NewReader(in)
	fmt.Fprintln(out, "CDP query shell. Escribe una consulta, /sql para ver el último SQL o /exit para salir.")

	var last *domain.RecommendationResult
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		input := strings.TrimSpace(line)

		switch input {
		case "":
		case "/exit", "/quit":
			return nil
		case "/sql":
			if last == nil {
				fmt.Fprintln(out, "Todavía no hay resultados.")
			} else {
				fmt.Fprintln(out, last.SQLQuery)
			}
		default:
			result, aerr := a.Analyze(ctx, "shell", input)
			if aerr != nil {
				fmt.Fprintf(out, "Error: %v\n", aerr)
			} else {
				last = &result
				printSummary(out, result)
			}
		}

		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func printSummary(out io.Writer, r domain.RecommendationResult) {
	if r.Metadata != nil {
		fmt.Fprintf(out, "[%s] %dms\n", r.Metadata.AnalysisMethod, r.Metadata.ProcessingTimeMs)
	}
	fmt.Fprintln(out, r.TargetDescription)
	for i, col := range r.RecommendedColumns {
		fmt.Fprintf(out, "  %2d. %-26s %-8s %s\n", i+1, col.Column, col.Priority, col.Condition)
	}
	fmt.Fprintf(out, "예상 타겟 규모: %s\n", r.EstimatedTargetSize)
}

func shellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive prompt backed by the rule engine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc := service.NewAnalysisService(nil, newLogger(cmd), service.AnalysisOptions{MaxQueryLength: cfg.MaxQueryLength})
			return runShell(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), svc)
		},
	}
}
