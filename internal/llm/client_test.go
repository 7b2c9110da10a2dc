package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"resume-ragu/internal/domain"
)

func sampleRequest() Request {
	return Request{
		System: "You write resumes.",
		Messages: []domain.ConversationMessage{
			{Role: domain.RoleUser, Content: "Draft a summary"},
			{Role: domain.RoleAssistant, Content: "Sure, here it is"},
			{Role: domain.RoleUser, Content: "Shorter please"},
		},
	}
}

func TestHTTPClientComplete(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing bearer token")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-test","choices":[{"message":{"role":"assistant","content":"Built Go services."}}],"usage":{"prompt_tokens":12,"completion_tokens":4}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "key", "gpt-test", 256, zap.NewNop())
	resp, err := c.Complete(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Text != "Built Go services." || resp.Model != "gpt-test" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Usage == nil || resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 4 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	if len(got.Messages) != 4 || got.Messages[0].Role != "system" || got.Messages[3].Content != "Shorter please" {
		t.Fatalf("unexpected outgoing messages: %+v", got.Messages)
	}
	if got.MaxTokens != 256 {
		t.Fatalf("expected max_tokens 256, got %d", got.MaxTokens)
	}
}

func TestHTTPClientErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down"}}`, func(err error) bool {
			return errors.Is(err, domain.ErrProviderRateLimited)
		}},
		{"server error", http.StatusInternalServerError, `{"error":{"message":"overloaded"}}`, func(err error) bool {
			var pe *domain.ProviderError
			return errors.As(err, &pe) && pe.Status == http.StatusInternalServerError && pe.Message == "overloaded"
		}},
		{"malformed body", http.StatusOK, `not json`, func(err error) bool {
			return errors.Is(err, domain.ErrMalformedProviderResponse)
		}},
		{"empty choices", http.StatusOK, `{"choices":[]}`, func(err error) bool {
			return errors.Is(err, domain.ErrMalformedProviderResponse)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL, "key", "m", 0, nil)
			_, err := c.Complete(context.Background(), sampleRequest())
			if err == nil || !tc.check(err) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHTTPClientTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	c := NewHTTPClient(srv.URL, "key", "m", 0, nil)
	_, err := c.Complete(ctx, sampleRequest())
	if !errors.Is(err, domain.ErrProviderTimeout) {
		t.Fatalf("expected ErrProviderTimeout, got %v", err)
	}
}

func TestAnthropicClientComplete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test","content":[{"type":"text","text":"Led a team of five."}],"stop_reason":"end_turn","usage":{"input_tokens":30,"output_tokens":7}}`))
	}))
	defer srv.Close()

	c := NewAnthropicClient(srv.URL, "key", "claude-test", 512, zap.NewNop())
	resp, err := c.Complete(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if resp.Text != "Led a team of five." {
		t.Fatalf("unexpected text %q", resp.Text)
	}
	if resp.Usage == nil || resp.Usage.InputTokens != 30 || resp.Usage.OutputTokens != 7 {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
	msgs, ok := got["messages"].([]any)
	if !ok || len(msgs) != 3 {
		t.Fatalf("expected 3 outgoing messages, got %v", got["messages"])
	}
	if got["system"] == nil {
		t.Fatalf("expected system prompt in request")
	}
}

func TestAnthropicClientErrorMapping(t *testing.T) {
	t.Run("rate limited is not retried", func(t *testing.T) {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
		}))
		defer srv.Close()

		c := NewAnthropicClient(srv.URL, "key", "m", 0, nil)
		_, err := c.Complete(context.Background(), sampleRequest())
		if !errors.Is(err, domain.ErrProviderRateLimited) {
			t.Fatalf("expected ErrProviderRateLimited, got %v", err)
		}
		if hits.Load() != 1 {
			t.Fatalf("expected a single attempt, got %d", hits.Load())
		}
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
		}))
		defer srv.Close()

		c := NewAnthropicClient(srv.URL, "key", "m", 0, nil)
		_, err := c.Complete(context.Background(), sampleRequest())
		var pe *domain.ProviderError
		if !errors.As(err, &pe) || pe.Status != http.StatusBadRequest {
			t.Fatalf("expected ProviderError with status 400, got %v", err)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"m","content":[],"usage":{"input_tokens":1,"output_tokens":0}}`))
		}))
		defer srv.Close()

		c := NewAnthropicClient(srv.URL, "key", "m", 0, nil)
		_, err := c.Complete(context.Background(), sampleRequest())
		if !errors.Is(err, domain.ErrMalformedProviderResponse) {
			t.Fatalf("expected ErrMalformedProviderResponse, got %v", err)
		}
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		c := NewAnthropicClient(srv.URL, "key", "m", 0, nil)
		_, err := c.Complete(ctx, sampleRequest())
		if !errors.Is(err, domain.ErrProviderTimeout) {
			t.Fatalf("expected ErrProviderTimeout, got %v", err)
		}
	})
}

func TestMockClientCountsCalls(t *testing.T) {
	m := &MockClient{Response: Response{Text: "ok"}}
	if _, ok := m.LastRequest(); ok {
		t.Fatalf("expected no requests yet")
	}
	_, _ = m.Complete(context.Background(), sampleRequest())
	_, _ = m.Complete(context.Background(), Request{System: "second"})
	if m.Calls() != 2 {
		t.Fatalf("expected 2 calls, got %d", m.Calls())
	}
	last, _ := m.LastRequest()
	if last.System != "second" {
		t.Fatalf("unexpected last request: %+v", last)
	}
}
