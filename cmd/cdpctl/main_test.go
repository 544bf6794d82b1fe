package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"cdp-query/internal/domain"
	"cdp-query/internal/service"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestAnalyzeCmd_RuleEngine(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	out, err := runCmd(t, "analyze", "30대", "여성", "골프")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	var res domain.RecommendationResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.Metadata == nil || res.Metadata.AnalysisMethod != domain.MethodFallbackNoKey {
		t.Fatalf("unexpected metadata %+v", res.Metadata)
	}
	if res.Metadata.Query != "30대 여성 골프" {
		t.Fatalf("expected args joined into query, got %q", res.Metadata.Query)
	}
}

func TestAnalyzeCmd_LLMRequiresKey(t *testing.T) {
	t.Setenv("LLM_API_KEY", "")
	if _, err := runCmd(t, "analyze", "--llm", "골프"); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestTokenCmd(t *testing.T) {
	t.Setenv("API_JWT_SECRET", "secret")
	out, err := runCmd(t, "token", "crm-team", "--ttl", "1h")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := service.NewTokenService("secret").Parse(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.Subject != "crm-team" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}

	t.Setenv("API_JWT_SECRET", "")
	if _, err := runCmd(t, "token", "crm-team"); err == nil {
		t.Fatalf("expected error without secret")
	}
}

func TestCatalogCmd(t *testing.T) {
	out, err := runCmd(t, "catalog", "--family", "demographic_flags")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	if !strings.Contains(out, "fi_npay_genderf") || strings.Contains(out, "fa_int_golf") {
		t.Fatalf("unexpected catalog output:\n%s", out)
	}
}
