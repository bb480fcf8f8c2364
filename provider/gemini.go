// Package provider provides inference provider implementations.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medibot/medibot/logger"
)

const (
	geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

	// geminiRequestTimeout bounds a single generation call. The original
	// behavior relied on transport defaults; an explicit ceiling keeps a
	// hung endpoint from freezing the chat loop.
	geminiRequestTimeout = 60 * time.Second

	logSnippetLen = 80
)

func init() {
	Register("gemini", Registration{
		Models:  []string{"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash"},
		EnvKey:  "GEMINI_API_KEY",
		EnvBase: "GEMINI_API_BASE",
		Constructor: func(apiKey, apiBase, modelType, modelName string, opts GenerationOptions) Provider {
			return NewGeminiProvider(apiKey, apiBase, modelType, modelName, opts)
		},
	})
}

// GeminiProvider implements the Provider interface against the Google
// generative-language REST endpoint.
type GeminiProvider struct {
	apiKey    string
	apiBase   string
	modelName string
	opts      GenerationOptions
	client    *http.Client
}

// NewGeminiProvider creates a Gemini provider. An empty apiBase selects the
// public endpoint.
func NewGeminiProvider(apiKey, apiBase, modelType, modelName string, opts GenerationOptions) *GeminiProvider {
	if modelName == "" {
		modelName = modelType
	}
	base := strings.TrimRight(strings.TrimSpace(apiBase), "/")
	if base == "" {
		base = geminiAPIBase
	}
	return &GeminiProvider{
		apiKey:    strings.TrimSpace(apiKey),
		apiBase:   base,
		modelName: modelName,
		opts:      opts,
		client:    &http.Client{Timeout: geminiRequestTimeout},
	}
}

// geminiRequest is the generateContent request body.
type geminiRequest struct {
	Contents         []geminiContent       `json:"contents"`
	GenerationConfig geminiGenConfig       `json:"generationConfig"`
	SafetySettings   []geminiSafetySetting `json:"safetySettings"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiSafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// geminiResponse is the subset of the generateContent response we consume.
type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// geminiSafetyCategories lists the four harm categories attached to every
// request, all at the same fixed threshold.
var geminiSafetyCategories = []string{
	"HARM_CATEGORY_HARASSMENT",
	"HARM_CATEGORY_HATE_SPEECH",
	"HARM_CATEGORY_SEXUALLY_EXPLICIT",
	"HARM_CATEGORY_DANGEROUS_CONTENT",
}

const geminiSafetyThreshold = "BLOCK_MEDIUM_AND_ABOVE"

// BuildPrompt concatenates the fixed system instruction with the user text
// into the single prompt payload the endpoint receives.
func BuildPrompt(system, query string) string {
	return system + "\n\nUser: " + query + "\n\nAssistant:"
}

// Generate sends one generateContent request.
func (p *GeminiProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	if p.apiKey == "" {
		return nil, ErrNoCredential
	}

	start := time.Now()
	requestID := uuid.NewString()[:8]

	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: BuildPrompt(req.System, req.Query)}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     p.opts.Temperature,
			TopK:            p.opts.TopK,
			TopP:            p.opts.TopP,
			MaxOutputTokens: p.opts.MaxOutputTokens,
		},
		SafetySettings: buildSafetySettings(),
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	logger.Info("gemini request",
		"requestID", requestID,
		"model", p.modelName,
		"query", snippet(req.Query),
		"bodyBytes", len(payload),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		logger.Error("gemini request send error", "requestID", requestID, "err", err)
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		logger.Error("gemini read error", "requestID", requestID, "err", err)
		return nil, &TransportError{Status: httpResp.StatusCode, Err: err}
	}

	if httpResp.StatusCode != http.StatusOK {
		logger.Error("gemini non-success status",
			"requestID", requestID,
			"status", httpResp.StatusCode,
			"body", snippet(string(raw)),
		)
		return nil, &TransportError{
			Status: httpResp.StatusCode,
			Err:    fmt.Errorf("%s", snippet(string(raw))),
		}
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		logger.Error("gemini decode error", "requestID", requestID, "err", err)
		return nil, &ShapeError{Reason: "body is not valid JSON"}
	}

	text, ok := firstCandidateText(&decoded)
	if !ok {
		logger.Error("gemini empty candidates", "requestID", requestID, "candidates", len(decoded.Candidates))
		return nil, &ShapeError{Reason: "no candidate with non-empty text"}
	}

	logger.Info("gemini response",
		"requestID", requestID,
		"model", p.modelName,
		"promptTokens", decoded.UsageMetadata.PromptTokenCount,
		"candidateTokens", decoded.UsageMetadata.CandidatesTokenCount,
		"totalTokens", decoded.UsageMetadata.TotalTokenCount,
		"outputChars", len(text),
		"latencyMs", time.Since(start).Milliseconds(),
	)

	return &Response{
		Content: text,
		Usage: Usage{
			PromptTokens:     decoded.UsageMetadata.PromptTokenCount,
			CompletionTokens: decoded.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      decoded.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// endpoint builds the generateContent URL with the credential attached as a
// query parameter, as the API requires.
func (p *GeminiProvider) endpoint() string {
	return p.apiBase + "/models/" + p.modelName + ":generateContent?key=" + url.QueryEscape(p.apiKey)
}

func buildSafetySettings() []geminiSafetySetting {
	settings := make([]geminiSafetySetting, 0, len(geminiSafetyCategories))
	for _, category := range geminiSafetyCategories {
		settings = append(settings, geminiSafetySetting{
			Category:  category,
			Threshold: geminiSafetyThreshold,
		})
	}
	return settings
}

// firstCandidateText returns the first non-empty text part of the first
// candidate. Any other shape is rejected.
func firstCandidateText(resp *geminiResponse) (string, bool) {
	if len(resp.Candidates) == 0 {
		return "", false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if strings.TrimSpace(part.Text) != "" {
			return part.Text, true
		}
	}
	return "", false
}

func snippet(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= logSnippetLen {
		return s
	}
	return s[:logSnippetLen] + "..."
}
