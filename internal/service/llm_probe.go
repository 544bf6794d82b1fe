package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"cdp-query/internal/llm"
)

// ProbeResult describe en qué paso falló (o no) la verificación del proveedor.
type ProbeResult struct {
	Success    bool      `json:"success"`
	Step       string    `json:"step,omitempty"`
	Status     int       `json:"status,omitempty"`
	Error      string    `json:"error,omitempty"`
	Suggestion string    `json:"suggestion,omitempty"`
	Message    string    `json:"message,omitempty"`
	Models     []string  `json:"availableModels,omitempty"`
	KeyPrefix  string    `json:"apiKeyPrefix,omitempty"`
	CheckedAt  time.Time `json:"timestamp"`
}

const (
	ProbeStepEnv    = "env_check"
	ProbeStepFormat = "format_check"
	ProbeStepAPI    = "api_call"
	ProbeStepNet    = "exception"
)

const (
	suggestionNoKey  = "LLM_API_KEY 환경변수를 설정해주세요."
	suggestionFormat = "API 키는 sk-로 시작해야 합니다."
	suggestion401    = "인증 오류: API 키 상태를 확인하고, 새 키를 발급해 재설정하세요. 앞뒤 공백이 없는지 확인하세요."
	suggestion403    = "권한 오류: 사용 가능한 모델과 계정 상태, 결제 정보를 확인하세요."
	suggestion429    = "사용량 한도 초과: Usage와 Billing을 확인하고 잠시 후 다시 시도하세요."
	suggestionOther  = "몇 분 후 다시 시도하고, 서비스 상태와 네트워크 연결을 확인하세요."
	suggestionNet    = "네트워크가 느리거나 LLM 서버가 응답하지 않습니다. 잠시 후 다시 시도해주세요."
	probeMaxModels   = 5
)

// LLMProbe verifica credenciales y conectividad sin gastar tokens de generación.
type LLMProbe struct {
	apiKey string
	lister llm.ModelLister
}

func NewLLMProbe(apiKey string, lister llm.ModelLister) *LLMProbe {
	return &LLMProbe{apiKey: strings.TrimSpace(apiKey), lister: lister}
}

func (p *LLMProbe) Run(ctx context.Context) ProbeResult {
	now := time.Now().UTC()
	if p.apiKey == "" || p.lister == nil {
		return ProbeResult{Step: ProbeStepEnv, Error: "LLM API key is not configured", Suggestion: suggestionNoKey, CheckedAt: now}
	}
	if !strings.HasPrefix(p.apiKey, "sk-") {
		return ProbeResult{Step: ProbeStepFormat, Error: "unexpected API key format", Suggestion: suggestionFormat, CheckedAt: now}
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	models, err := p.lister.ListModels(ctx)
	if err != nil {
		var se *llm.StatusError
		if errors.As(err, &se) {
			return ProbeResult{
				Step:       ProbeStepAPI,
				Status:     se.StatusCode,
				Error:      se.Body,
				Suggestion: suggestionForStatus(se.StatusCode),
				CheckedAt:  now,
			}
		}
		return ProbeResult{Step: ProbeStepNet, Error: err.Error(), Suggestion: suggestionNet, CheckedAt: now}
	}

	if len(models) > probeMaxModels {
		models = models[:probeMaxModels]
	}
	return ProbeResult{
		Success:   true,
		Message:   "LLM API 키가 정상적으로 작동합니다.",
		Models:    models,
		KeyPrefix: MaskKey(p.apiKey, 12),
		CheckedAt: now,
	}
}

func suggestionForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return suggestion401
	case http.StatusForbidden:
		return suggestion403
	case http.StatusTooManyRequests:
		return suggestion429
	default:
		return suggestionOther
	}
}

// MaskKey deja visibles sólo los primeros n caracteres.
func MaskKey(key string, n int) string {
	if key == "" {
		return "Not Set"
	}
	if utf8.RuneCountInString(key) <= n {
		return key + "..."
	}
	return string([]rune(key)[:n]) + "..."
}
