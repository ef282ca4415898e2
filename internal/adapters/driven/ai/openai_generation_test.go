package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewOpenAIGeneration_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIGeneration("", "gpt-4o-mini", "")
	if err == nil {
		t.Error("expected error for empty API key")
	}
}

func TestNewOpenAIGeneration_Defaults(t *testing.T) {
	svc, err := NewOpenAIGeneration("sk-test", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gen := svc.(*OpenAIGeneration)
	if gen.model != "gpt-4o-mini" {
		t.Errorf("expected default model gpt-4o-mini, got %s", gen.model)
	}
	if gen.baseURL != "https://api.openai.com/v1" {
		t.Errorf("expected default base URL, got %s", gen.baseURL)
	}
}

func TestOpenAIGeneration_Generate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		prompt := req.Messages[0].Content
		if !strings.Contains(prompt, "Available information:") {
			t.Errorf("prompt missing context section: %q", prompt)
		}
		if !strings.Contains(prompt, "the sky is blue") {
			t.Errorf("prompt missing context text: %q", prompt)
		}
		if !strings.Contains(prompt, "User question: what color is the sky?") {
			t.Errorf("prompt missing question: %q", prompt)
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "chatcmpl-1",
			"choices": []map[string]interface{}{
				{"index": 0, "message": map[string]string{"role": "assistant", "content": "The sky is blue."}},
			},
		})
	}))
	defer server.Close()

	svc, err := NewOpenAIGeneration("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	answer, err := svc.Generate(context.Background(), "what color is the sky?", "the sky is blue")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "The sky is blue." {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestOpenAIGeneration_Generate_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "chatcmpl-1", "choices": []interface{}{}})
	}))
	defer server.Close()

	svc, err := NewOpenAIGeneration("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Generate(context.Background(), "query", "context")
	if err == nil {
		t.Error("expected an error for empty choices")
	}
}

func TestOpenAIGeneration_Generate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"context too long","type":"invalid_request_error","code":""}}`))
	}))
	defer server.Close()

	svc, err := NewOpenAIGeneration("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.Generate(context.Background(), "query", "context")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "context too long") {
		t.Errorf("expected provider message in error, got %v", err)
	}
}

func TestOpenAIGeneration_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewOpenAIGeneration("sk-test", "gpt-4o-mini", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Ping(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
