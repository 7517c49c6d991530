package explain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func gatewayStub(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode chat request: %v", err)
		}
		if req.Model != "google/gemini-2.5-flash" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected message shape: %+v", req.Messages)
		}
		if !strings.Contains(req.Messages[1].Content, "Avg Fatigue Score") {
			t.Errorf("user prompt missing metric name: %q", req.Messages[1].Content)
		}

		w.WriteHeader(status)
		if status == http.StatusOK {
			json.NewEncoder(w).Encode(map[string]any{
				"choices": []map[string]any{
					{"message": map[string]any{"content": content}},
				},
			})
		}
	}))
}

func newTestClient(url string, cache Cache) Client {
	return NewClient(Config{
		GatewayURL: url,
		APIKey:     "test-key",
		Model:      "google/gemini-2.5-flash",
		Timeout:    time.Second,
	}, cache)
}

func testRequest() Request {
	return Request{
		Metric:  "Avg Fatigue Score",
		Value:   76,
		Context: map[string]any{"trend": "up", "change": "+8%"},
	}
}

func TestExplain(t *testing.T) {
	srv := gatewayStub(t, http.StatusOK, "You're looking alert today.")
	defer srv.Close()

	got, err := newTestClient(srv.URL, nil).Explain(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Explain() error: %v", err)
	}
	if got != "You're looking alert today." {
		t.Errorf("Explain() = %q", got)
	}
}

func TestExplainErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected error
	}{
		{"RateLimited", http.StatusTooManyRequests, ErrRateLimited},
		{"QuotaExceeded", http.StatusPaymentRequired, ErrQuotaExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := gatewayStub(t, tt.status, "")
			defer srv.Close()

			_, err := newTestClient(srv.URL, nil).Explain(context.Background(), testRequest())
			if !errors.Is(err, tt.expected) {
				t.Errorf("Explain() error = %v, want %v", err, tt.expected)
			}
		})
	}
}

func TestExplainGenericFailure(t *testing.T) {
	srv := gatewayStub(t, http.StatusBadGateway, "")
	defer srv.Close()

	_, err := newTestClient(srv.URL, nil).Explain(context.Background(), testRequest())
	if err == nil {
		t.Fatal("Explain() did not surface gateway failure")
	}
	if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("generic failure misclassified: %v", err)
	}
}

func TestExplainEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL, nil).Explain(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Explain() error: %v", err)
	}
	if got != "Unable to generate explanation" {
		t.Errorf("Explain() = %q", got)
	}
}

// memoryCache is an in-process Cache for tests.
type memoryCache struct {
	entries map[string]string
	sets    int
}

func (m *memoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memoryCache) Set(ctx context.Context, key, explanation string, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = map[string]string{}
	}
	m.entries[key] = explanation
	m.sets++
	return nil
}

func TestExplainCaching(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "cached answer"}},
			},
		})
	}))
	defer srv.Close()

	cache := &memoryCache{}
	client := newTestClient(srv.URL, cache)

	for i := 0; i < 3; i++ {
		got, err := client.Explain(context.Background(), testRequest())
		if err != nil {
			t.Fatalf("Explain() error: %v", err)
		}
		if got != "cached answer" {
			t.Errorf("Explain() = %q", got)
		}
	}

	if calls != 1 {
		t.Errorf("gateway invoked %d times, want 1", calls)
	}
	if cache.sets != 1 {
		t.Errorf("cache written %d times, want 1", cache.sets)
	}
}
