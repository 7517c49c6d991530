// Package explain proxies metric-explanation requests to an
// OpenAI-compatible chat-completions gateway.
package explain

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Error kinds the gateway can report. Each maps to a distinct user-facing
// message in the API layer; anything else is generic.
var (
	ErrRateLimited   = errors.New("explanation rate limit exceeded")
	ErrQuotaExceeded = errors.New("explanation usage quota exceeded")
)

const systemPrompt = `You are a friendly driving safety assistant that explains wellness metrics in simple, everyday language - like a helpful friend, not a doctor or scientist.

Guidelines:
1. Use simple words - avoid jargon (don't say "physiological", say "body signs")
2. Start with the "so what?" - why this number matters to them right now
3. Use relatable examples: "like when you stay up too late" or "similar to feeling after a workout"
4. Give ONE clear action they can take now
5. Keep it short (2-3 sentences max), warm, and reassuring
6. Avoid technical terms like "metrics", "indices", "parameters" - use "your energy level", "how you're feeling"

Think: How would you explain this to a friend who knows nothing about driving safety tech?`

// Request identifies the metric the driver asked about.
type Request struct {
	Metric  string         `json:"metric"`
	Value   any            `json:"value"` // string or number
	Context map[string]any `json:"context,omitempty"`
}

// Config holds the gateway connection settings.
type Config struct {
	GatewayURL string
	APIKey     string
	Model      string
	Timeout    time.Duration
	CacheTTL   time.Duration
}

// Cache stores generated explanations keyed by request digest. A nil cache
// disables caching.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, explanation string, ttl time.Duration) error
}

// Client produces a short natural-language explanation for a metric value.
type Client interface {
	Explain(ctx context.Context, req Request) (string, error)
}

type gatewayClient struct {
	cfg        Config
	httpClient *http.Client
	cache      Cache
}

// NewClient creates a gateway-backed explanation client.
func NewClient(cfg Config, cache Cache) Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 15 * time.Minute
	}
	return &gatewayClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cache:      cache,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *gatewayClient) Explain(ctx context.Context, req Request) (string, error) {
	key := digest(req)

	if c.cache != nil {
		if cached, ok, err := c.cache.Get(ctx, key); err != nil {
			log.Warn().Err(err).Msg("Explanation cache read failed")
		} else if ok {
			log.Debug().Str("metric", req.Metric).Msg("Explanation cache hit")
			return cached, nil
		}
	}

	explanation, err := c.invoke(ctx, req)
	if err != nil {
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, explanation, c.cfg.CacheTTL); err != nil {
			log.Warn().Err(err).Msg("Explanation cache write failed")
		}
	}

	return explanation, nil
}

func (c *gatewayClient) invoke(ctx context.Context, req Request) (string, error) {
	contextJSON, err := json.MarshalIndent(req.Context, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode context: %w", err)
	}

	userPrompt := fmt.Sprintf(`Explain why the driver's %s is at %v.

Context data:
%s

Provide a clear explanation of what's causing this reading and what it means for driver safety.`,
		req.Metric, req.Value, contextJSON)

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return "", ErrRateLimited
	case http.StatusPaymentRequired:
		return "", ErrQuotaExceeded
	default:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Error().Int("status", resp.StatusCode).Bytes("body", detail).Msg("AI gateway error")
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}

	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "Unable to generate explanation", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

// digest produces a stable cache key for a request.
func digest(req Request) string {
	payload, _ := json.Marshal(req)
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
