// Package replicate provides an LLM service adapter using the Replicate
// model hosting API.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/opencivics/engage/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL      = "https://api.replicate.com"
	DefaultModelUser    = "replicate"
	DefaultModelName    = "vicuna-13b"
	DefaultModelHash    = "a68b84083b703ab3d5fbf31b6e25f16be2988e4c3e21fe79c2ff1c18b99e61c1"
	DefaultMaxLength    = 2048
	DefaultTemperature  = 0.75
	DefaultTopP         = 1.0
	DefaultRepetition   = 1.1
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
)

// Config holds configuration for the Replicate LLM service.
type Config struct {
	// APIToken is the Replicate API token (required).
	APIToken string

	// BaseURL is the API base URL (default: https://api.replicate.com).
	BaseURL string

	// ModelUser is the model owner (default: replicate).
	ModelUser string

	// ModelName is the model name (default: vicuna-13b).
	ModelName string

	// ModelHash is the model version hash to run.
	ModelHash string

	// MaxLength caps the generated sequence length (default: 2048).
	MaxLength int

	// Temperature is the sampling temperature (default: 0.75).
	Temperature float64

	// TopP is the nucleus sampling cutoff (default: 1.0).
	TopP float64

	// RepetitionPenalty discourages repeated tokens (default: 1.1).
	RepetitionPenalty float64

	// Timeout is the per-request timeout (default: 30s). Prediction
	// runtime is bounded by the caller's context, not this.
	Timeout time.Duration

	// PollInterval is the delay between prediction status checks
	// (default: 250ms).
	PollInterval time.Duration
}

// LLMService runs prompts through a model hosted on Replicate.
// Predictions are asynchronous: create, then poll until terminal.
type LLMService struct {
	client       *http.Client
	baseURL      string
	apiToken     string
	modelUser    string
	modelName    string
	modelHash    string
	input        predictionInput
	pollInterval time.Duration
}

// predictionInput is the model input block sent on create.
type predictionInput struct {
	Prompt            string  `json:"prompt"`
	MaxLength         int     `json:"max_length"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
}

// createPredictionRequest is the /v1/predictions request format.
type createPredictionRequest struct {
	Version string          `json:"version"`
	Input   predictionInput `json:"input"`
}

// prediction is the Replicate prediction resource.
type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  *string         `json:"error"`
	Detail string          `json:"detail"`
}

// NewLLMService creates a new Replicate LLM service.
func NewLLMService(cfg Config) (*LLMService, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("replicate: API token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.ModelUser == "" {
		cfg.ModelUser = DefaultModelUser
	}
	if cfg.ModelName == "" {
		cfg.ModelName = DefaultModelName
	}
	if cfg.ModelHash == "" {
		cfg.ModelHash = DefaultModelHash
	}
	if cfg.MaxLength == 0 {
		cfg.MaxLength = DefaultMaxLength
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.TopP == 0 {
		cfg.TopP = DefaultTopP
	}
	if cfg.RepetitionPenalty == 0 {
		cfg.RepetitionPenalty = DefaultRepetition
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   cfg.BaseURL,
		apiToken:  cfg.APIToken,
		modelUser: cfg.ModelUser,
		modelName: cfg.ModelName,
		modelHash: cfg.ModelHash,
		input: predictionInput{
			MaxLength:         cfg.MaxLength,
			Temperature:       cfg.Temperature,
			TopP:              cfg.TopP,
			RepetitionPenalty: cfg.RepetitionPenalty,
		},
		pollInterval: cfg.PollInterval,
	}, nil
}

// Invoke creates a prediction for the prompt and polls it to completion.
func (s *LLMService) Invoke(ctx context.Context, prompt string) (string, error) {
	pred, err := s.createPrediction(ctx, prompt)
	if err != nil {
		return "", err
	}

	for !terminal(pred.Status) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(s.pollInterval):
		}
		pred, err = s.getPrediction(ctx, pred.ID)
		if err != nil {
			return "", err
		}
	}

	if pred.Status != "succeeded" {
		if pred.Error != nil && *pred.Error != "" {
			return "", fmt.Errorf("replicate: prediction %s: %s", pred.Status, *pred.Error)
		}
		return "", fmt.Errorf("replicate: prediction %s", pred.Status)
	}

	var parts []string
	if err := json.Unmarshal(pred.Output, &parts); err != nil {
		return "", fmt.Errorf("replicate: unexpected output shape: %w", err)
	}
	return joinOutput(parts), nil
}

func terminal(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// joinOutput concatenates streamed output tokens. Tokens ending in a
// letter with no surrounding whitespace get a trailing space so words
// from adjacent tokens don't run together.
func joinOutput(parts []string) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part)
		if part == "" || strings.TrimSpace(part) != part {
			continue
		}
		runes := []rune(part)
		if unicode.IsLetter(runes[len(runes)-1]) {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func (s *LLMService) createPrediction(ctx context.Context, prompt string) (*prediction, error) {
	input := s.input
	input.Prompt = prompt

	jsonBody, err := json.Marshal(createPredictionRequest{
		Version: s.modelHash,
		Input:   input,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/v1/predictions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+s.apiToken)

	return s.doPredictionRequest(req, http.StatusCreated)
}

func (s *LLMService) getPrediction(ctx context.Context, id string) (*prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/predictions/"+id, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.apiToken)

	return s.doPredictionRequest(req, http.StatusOK)
}

func (s *LLMService) doPredictionRequest(req *http.Request, wantStatus int) (*prediction, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("replicate error (status %d): %s", resp.StatusCode, string(body))
	}

	var pred prediction
	if err := json.Unmarshal(body, &pred); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &pred, nil
}

// ModelName returns the model identifier in user/name form.
func (s *LLMService) ModelName() string {
	return s.modelUser + "/" + s.modelName
}

// Ping validates the service is reachable by fetching the model resource.
// This is a lightweight check that validates the API token without
// creating a prediction.
func (s *LLMService) Ping(ctx context.Context) error {
	url := fmt.Sprintf("%s/v1/models/%s/%s", s.baseURL, s.modelUser, s.modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("replicate: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+s.apiToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("replicate: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("replicate: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("replicate: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
