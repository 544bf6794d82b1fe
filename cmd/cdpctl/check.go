package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"cdp-query/internal/domain"
	"cdp-query/internal/llm"
	"cdp-query/internal/service"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
)

// Scenario es una consulta de referencia con las columnas que no deberían faltar.
type Scenario struct {
	Name     string
	Query    string
	Expected []string
}

var defaultScenarios = []Scenario{
	{Name: "golf 30s female", Query: "30대 여성 골프 좋아하는 고객", Expected: []string{"fa_int_golf", "fi_npay_age30", "fi_npay_genderf"}},
	{Name: "credit loan office worker", Query: "신용대출이 필요한 직장인", Expected: []string{"fa_int_loan1stfinancial", "fi_npay_age30"}},
	{Name: "premium traveler", Query: "해외여행 자주 가는 고소득 고객", Expected: []string{"fa_int_traveloverseas", "sc_int_highincome"}},
	{Name: "cosmetics 20s", Query: "화장품 관심 많은 20대", Expected: []string{"fa_ind_cosmetic", "fi_npay_age20"}},
	{Name: "unmapped category", Query: "40대 남성 자동차 관심 고객", Expected: []string{"fi_npay_age40", "fi_npay_genderm"}},
}

// scenarioReport resume qué tan bien un resultado cubre un escenario.
type scenarioReport struct {
	Scenario Scenario
	Method   string
	Recall   float64
	Missing  []string
	Invented []string
}

func (r scenarioReport) passed(minRecall float64) bool {
	return len(r.Invented) == 0 && r.Recall >= minRecall
}

// scoreResult: columnas fuera del catálogo cuentan como inventadas.
func scoreResult(sc Scenario, result domain.RecommendationResult) scenarioReport {
	present := make(map[string]bool, len(result.RecommendedColumns))
	var invented []string
	for _, col := range result.RecommendedColumns {
		present[col.Column] = true
		if _, ok := service.LookupColumn(col.Column); !ok {
			invented = append(invented, col.Column)
		}
	}

	var missing []string
	for _, want := range sc.Expected {
		if !present[want] {
			missing = append(missing, want)
		}
	}

	recall := 1.0
	if len(sc.Expected) > 0 {
		recall = float64(len(sc.Expected)-len(missing)) / float64(len(sc.Expected))
	}
	method := ""
	if result.Metadata != nil {
		method = result.Metadata.AnalysisMethod
	}
	return scenarioReport{Scenario: sc, Method: method, Recall: recall, Missing: missing, Invented: invented}
}

type analyzer interface {
	Analyze(ctx context.Context, clientKey, query string) (domain.RecommendationResult, error)
}

func runScenarios(ctx context.Context, a analyzer, scenarios []Scenario) ([]scenarioReport, error) {
	reports := make([]scenarioReport, 0, len(scenarios))
	for _, sc := range scenarios {
		result, err := a.Analyze(ctx, "check", sc.Query)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
		reports = append(reports, scoreResult(sc, result))
	}
	return reports, nil
}

func printReports(w io.Writer, reports []scenarioReport, minRecall float64) int {
	failed := 0
	for _, r := range reports {
		status := colorGreen + "PASS" + colorReset
		if !r.passed(minRecall) {
			status = colorRed + "FAIL" + colorReset
			failed++
		}
		fmt.Fprintf(w, "%s %-28s method=%-20s recall=%.2f", status, r.Scenario.Name, r.Method, r.Recall)
		if len(r.Missing) > 0 {
			fmt.Fprintf(w, " missing=%s", strings.Join(r.Missing, ","))
		}
		if len(r.Invented) > 0 {
			fmt.Fprintf(w, " invented=%s", strings.Join(r.Invented, ","))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "\n%d/%d scenarios passed\n", len(reports)-failed, len(reports))
	return failed
}

func checkCmd() *cobra.Command {
	var (
		useLLM    bool
		minRecall float64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run reference marketing scenarios and score the recommended columns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			opts := service.AnalysisOptions{MaxQueryLength: cfg.MaxQueryLength, LLMTimeout: cfg.LLMTimeout()}

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
				svc = service.NewAnalysisService(client, newLogger(cmd), opts)
			} else {
				svc = service.NewAnalysisService(nil, newLogger(cmd), opts)
			}

			reports, err := runScenarios(cmd.Context(), svc, defaultScenarios)
			if err != nil {
				return err
			}
			if failed := printReports(cmd.OutOrStdout(), reports, minRecall); failed > 0 {
				return fmt.Errorf("%d scenarios failed", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&useLLM, "llm", false, "score the configured LLM instead of the rule engine")
	cmd.Flags().Float64Var(&minRecall, "min-recall", 1.0, "minimum share of expected columns per scenario")
	return cmd
}
