package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/youngthe/gemini-demo/internal/domain"
)

// Generator produces a plain-text completion for a prompt. Implemented by
// GenerationService; tests substitute fakes.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GenerationService wraps the Gemini generateContent REST endpoint.
// It performs no retries and no streaming; every failure mode collapses
// into domain.ErrGenerationFailed.
type GenerationService struct {
	client   *resty.Client
	endpoint string
}

// GenerationConfig holds configuration for the generation client.
type GenerationConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// NewGenerationService creates a new generation client.
// Parameters:
//   - cfg: generation configuration including API key and model.
// Returns:
//   - *GenerationService: initialized client wrapper.
func NewGenerationService(cfg *GenerationConfig) *GenerationService {
	client := resty.New()
	client.SetHeader("x-goog-api-key", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Set timeout to prevent hanging requests
	client.SetTimeout(60 * time.Second)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", baseURL, model)

	return &GenerationService{
		client:   client,
		endpoint: endpoint,
	}
}

// Gemini generateContent request/response structures
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate submits a prompt and returns the raw completion text.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - prompt: instruction string to send.
// Returns:
//   - string: raw completion text, possibly fenced.
//   - error: domain.ErrGenerationFailed wrapped with detail on any failure.
func (s *GenerationService) Generate(ctx context.Context, prompt string) (string, error) {
	req := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	var resp geminiResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		SetError(&resp).
		Post(s.endpoint)

	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		}
		return "", fmt.Errorf("%w: %s", domain.ErrGenerationFailed, errorMsg)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrGenerationFailed, resp.Error.Message)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidates in response", domain.ErrGenerationFailed)
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}
