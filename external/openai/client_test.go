package openai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskandar/fpl-agent/internal/platform/logging"
	"github.com/riskandar/fpl-agent/internal/platform/resilience"
	"github.com/riskandar/fpl-agent/internal/usecase"
)

func newTestModel(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "sk-test",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
		Logger:  logging.NewNop(),
	})
}

func userMessage(content string) []usecase.ChatMessage {
	return []usecase.ChatMessage{{Role: usecase.RoleUser, Content: content}}
}

func TestComplete_ReturnsAssistantReply(t *testing.T) {
	t.Parallel()

	model := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if r.Header.Get("content-type") != "application/json" {
			t.Errorf("unexpected content type: %s", r.Header.Get("content-type"))
		}

		raw, _ := io.ReadAll(r.Body)
		var req chatRequest
		if err := sonic.Unmarshal(raw, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 1 || req.Messages[0].Role != usecase.RoleUser {
			t.Errorf("unexpected request: %+v", req)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Consider an early wildcard."},"finish_reason":"stop"}]}`))
	}))

	reply, err := model.Complete(context.Background(), userMessage("what should I do?"))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if reply != "Consider an early wildcard." {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestComplete_TemperatureConfiguration(t *testing.T) {
	t.Parallel()

	completionFor := func(t *testing.T, temperature *float64) chatRequest {
		t.Helper()

		var captured chatRequest
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			if err := sonic.Unmarshal(raw, &captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"},"finish_reason":"stop"}]}`))
		}))
		t.Cleanup(server.Close)

		model := NewClient(ClientConfig{
			BaseURL:     server.URL,
			APIKey:      "sk-test",
			Timeout:     5 * time.Second,
			Temperature: temperature,
			Logger:      logging.NewNop(),
		})
		if _, err := model.Complete(context.Background(), userMessage("hello")); err != nil {
			t.Fatalf("complete: %v", err)
		}
		return captured
	}

	t.Run("zero is sent as configured", func(t *testing.T) {
		t.Parallel()

		temperature := 0.0
		if got := completionFor(t, &temperature).Temperature; got != 0 {
			t.Fatalf("expected temperature 0, got %v", got)
		}
	})

	t.Run("unset falls back to default", func(t *testing.T) {
		t.Parallel()

		if got := completionFor(t, nil).Temperature; got != defaultTemperature {
			t.Fatalf("expected temperature %v, got %v", defaultTemperature, got)
		}
	})
}

func TestComplete_MissingAPIKey(t *testing.T) {
	t.Parallel()

	model := NewClient(ClientConfig{Logger: logging.NewNop()})
	_, err := model.Complete(context.Background(), userMessage("hello"))
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}

func TestComplete_EmptyMessages(t *testing.T) {
	t.Parallel()

	model := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request without messages")
	}))

	_, err := model.Complete(context.Background(), nil)
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestComplete_RejectedCredentials(t *testing.T) {
	t.Parallel()

	model := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))

	_, err := model.Complete(context.Background(), userMessage("hello"))
	if !errors.Is(err, usecase.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestComplete_ErrorEnvelope(t *testing.T) {
	t.Parallel()

	model := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"message":"model overloaded","type":"server_error"}}`))
	}))

	_, err := model.Complete(context.Background(), userMessage("hello"))
	if err == nil || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected provider error message, got %v", err)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	t.Parallel()

	model := newTestModel(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))

	_, err := model.Complete(context.Background(), userMessage("hello"))
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Fatalf("expected no-choices error, got %v", err)
	}
}

func TestComplete_BreakerOpensAfterServerErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	model := NewClient(ClientConfig{
		BaseURL: server.URL,
		APIKey:  "sk-test",
		Timeout: 5 * time.Second,
		Logger:  logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	ctx := context.Background()
	if _, err := model.Complete(ctx, userMessage("hello")); err == nil {
		t.Fatalf("expected transient failure")
	}
	if _, err := model.Complete(ctx, userMessage("hello")); !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
