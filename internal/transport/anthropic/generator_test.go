package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/kailas-cloud/papyrus/internal/domain"
)

func messagesServer(t *testing.T, status int, body string, check func(req map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Errorf("unexpected api key header: %q", r.Header.Get("X-Api-Key"))
		}
		if check != nil {
			raw, _ := io.ReadAll(r.Body)
			var req map[string]any
			_ = json.Unmarshal(raw, &req)
			check(req)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

const okBody = `{
	"id": "msg_01",
	"type": "message",
	"role": "assistant",
	"model": "claude-test",
	"content": [{"type": "text", "text": "مرور ادبیات تولید شد."}],
	"stop_reason": "end_turn",
	"usage": {"input_tokens": 30, "output_tokens": 9}
}`

func TestGenerator_Generate(t *testing.T) {
	server := messagesServer(t, http.StatusOK, okBody, func(req map[string]any) {
		if req["model"] != "claude-test" {
			t.Errorf("model = %v", req["model"])
		}
		if req["max_tokens"] != float64(512) {
			t.Errorf("max_tokens = %v", req["max_tokens"])
		}
	})
	defer server.Close()

	g := NewGenerator(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test", MaxTokens: 512})
	res, err := g.Generate(context.Background(), domain.GenerationRequest{
		Task: domain.TaskPromptReview, Language: domain.Farsi, Prompt: "climate",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Text != "مرور ادبیات تولید شد." {
		t.Errorf("Text = %q", res.Text)
	}
	if res.PromptTokens != 30 || res.CompletionTokens != 9 {
		t.Errorf("usage = %d/%d", res.PromptTokens, res.CompletionTokens)
	}
}

func TestGenerator_EmptyContent(t *testing.T) {
	body := `{"id":"msg_02","type":"message","role":"assistant","model":"claude-test","content":[],` +
		`"usage":{"input_tokens":1,"output_tokens":0}}`
	server := messagesServer(t, http.StatusOK, body, nil)
	defer server.Close()

	g := NewGenerator(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test"})
	_, err := g.Generate(context.Background(), domain.GenerationRequest{Task: domain.TaskCite, Text: "x"})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerator_ServerError(t *testing.T) {
	body := `{"type":"error","error":{"type":"api_error","message":"internal"}}`
	server := messagesServer(t, http.StatusInternalServerError, body, nil)
	defer server.Close()

	g := NewGenerator(&Config{APIKey: "test-key", BaseURL: server.URL, Model: "claude-test"})
	_, err := g.Generate(context.Background(), domain.GenerationRequest{Task: domain.TaskExpand, Text: "x"})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"rate limit", &anthropic.APIError{Type: anthropic.ErrTypeRateLimit, Message: "slow down"}, domain.ErrRateLimited},
		{"overloaded", &anthropic.APIError{Type: anthropic.ErrTypeOverloaded, Message: "busy"}, domain.ErrGenerationFailed},
		{"transport", errors.New("connection reset"), domain.ErrGenerationFailed},
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyError(tt.err); !errors.Is(got, tt.want) {
				t.Errorf("classifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}
