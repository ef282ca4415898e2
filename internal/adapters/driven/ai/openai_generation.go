package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
)

// Ensure OpenAIGeneration implements GenerationService
var _ driven.GenerationService = (*OpenAIGeneration)(nil)

// answerPromptTemplate frames the retrieved context for the model
const answerPromptTemplate = `Based on the following information, answer the user's question.
If the information is not sufficient or not related, clearly indicate so.

Available information:
%s

User question: %s

Answer:`

// OpenAIGeneration implements GenerationService using OpenAI's chat
// completions API
type OpenAIGeneration struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	client      *http.Client
	breaker     *gobreaker.CircuitBreaker
}

// NewOpenAIGeneration creates a new OpenAI generation service
func NewOpenAIGeneration(apiKey, model, baseURL string) (driven.GenerationService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	if model == "" {
		model = "gpt-4o-mini"
	}

	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &OpenAIGeneration{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		temperature: 0.3,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		breaker: newBreaker("openai-chat"),
	}, nil
}

// chatRequest is the request body for OpenAI chat completions API
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the response from OpenAI chat completions API
type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index   int         `json:"index"`
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// Generate asks the model to answer the query from the given context
func (g *OpenAIGeneration) Generate(ctx context.Context, query, contextText string) (string, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(answerPromptTemplate, contextText, query)},
		},
		Temperature: g.temperature,
	}

	resp, err := g.doRequest(ctx, reqBody)
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion returned", domain.ErrProvider)
	}
	return resp.Choices[0].Message.Content, nil
}

// Model returns the model name being used
func (g *OpenAIGeneration) Model() string {
	return g.model
}

// Ping verifies the generation service is reachable
func (g *OpenAIGeneration) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", g.baseURL+"/models", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: models endpoint returned status %d", domain.ErrProvider, resp.StatusCode)
	}
	return nil
}

// Close releases resources held by the generation service
func (g *OpenAIGeneration) Close() error {
	g.client.CloseIdleConnections()
	return nil
}

func (g *OpenAIGeneration) doRequest(ctx context.Context, reqBody chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var chatResp *chatResponse
	err = withRetry(ctx, func() error {
		result, err := g.breaker.Execute(func() (interface{}, error) {
			return g.send(ctx, body)
		})
		if err != nil {
			return err
		}
		chatResp = result.(*chatResponse)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	return chatResp, nil
}

func (g *OpenAIGeneration) send(ctx context.Context, body []byte) (*chatResponse, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &apiError{status: resp.StatusCode, message: string(respBody)}
		}
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return nil, &apiError{status: resp.StatusCode, message: fmt.Sprintf("%s (type: %s, code: %s)",
			chatResp.Error.Message, chatResp.Error.Type, chatResp.Error.Code)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apiError{status: resp.StatusCode, message: string(respBody)}
	}

	return &chatResp, nil
}
