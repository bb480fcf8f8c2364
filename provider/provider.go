// Package provider defines the inference provider interface and common types.
package provider

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Provider is the interface for inference providers.
type Provider interface {
	// Generate sends a single-turn generation request and returns the response.
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Request represents a single-turn generation request. The provider embeds
// System and Query into one prompt payload.
type Request struct {
	System string // fixed system instruction
	Query  string // user question
}

// Response represents a generation response.
type Response struct {
	Content string // first candidate text
	Usage   Usage  // token usage when reported
}

// Usage represents token usage information.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ErrNoCredential is returned when a provider is constructed or invoked
// without an API key.
var ErrNoCredential = errors.New("api key not configured")

// TransportError reports a network failure or a non-success HTTP status.
type TransportError struct {
	Status int // 0 when the request never reached the endpoint
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("endpoint returned status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ShapeError reports a response that decoded but lacks the expected
// candidate text. Safety-filter suppression surfaces here, since the
// endpoint reports it as an empty candidate list.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "unexpected response shape: " + e.Reason
}

// Constructor builds a provider for the requested model/runtime settings.
type Constructor func(apiKey, apiBase, modelType, modelName string, opts GenerationOptions) Provider

// GenerationOptions carries the fixed sampling parameters attached to every
// request.
type GenerationOptions struct {
	MaxOutputTokens int
	Temperature     float64
	TopP            float64
	TopK            int
}

// Registration defines metadata and constructor for a provider.
type Registration struct {
	Models      []string
	EnvKey      string
	EnvBase     string
	Constructor Constructor
}

// supportedModelTypes is the whitelist of supported model types.
var supportedModelTypes = map[string]bool{}

// providerModelTypes maps providers to their supported model types.
var providerModelTypes = map[string][]string{}

var registry = map[string]Registration{}

// Register registers provider metadata and constructor.
func Register(name string, reg Registration) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	models := make([]string, 0, len(reg.Models))
	for _, model := range reg.Models {
		model = strings.TrimSpace(model)
		if model == "" {
			continue
		}
		models = append(models, model)
		supportedModelTypes[model] = true
	}

	reg.Models = models
	reg.EnvKey = strings.TrimSpace(reg.EnvKey)
	reg.EnvBase = strings.TrimSpace(reg.EnvBase)
	registry[name] = reg
	providerModelTypes[name] = append([]string(nil), models...)
}

// Lookup returns the registration for a provider name.
func Lookup(name string) (Registration, bool) {
	reg, ok := registry[name]
	return reg, ok
}

// SupportedProviders returns all supported provider names in sorted order.
func SupportedProviders() []string {
	names := make([]string, 0, len(providerModelTypes))
	for name := range providerModelTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SupportedModelsForProvider returns supported model types for the given provider.
func SupportedModelsForProvider(providerName string) []string {
	models, ok := providerModelTypes[providerName]
	if !ok {
		return nil
	}
	out := make([]string, len(models))
	copy(out, models)
	return out
}

// ValidateProviderModelType checks if a model type is valid for a provider.
func ValidateProviderModelType(providerName, modelType string) error {
	if !supportedModelTypes[modelType] {
		return errors.New("unsupported model type: " + modelType)
	}

	allowed, ok := providerModelTypes[providerName]
	if !ok {
		return errors.New("unknown provider: " + providerName)
	}

	for _, m := range allowed {
		if m == modelType {
			return nil
		}
	}

	return errors.New("model type " + modelType + " is not supported by provider " + providerName)
}
