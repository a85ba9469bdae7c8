package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"content-protect-assistant/internal/logger"
)

const (
	chatTimeout    = 45 * time.Second
	historyTimeout = 20 * time.Second
	apiKeyHeader   = "X-Gateway-Key"
)

// ErrNoAPIKey signals a configuration problem, not a transport one. Callers
// surface it as a setup prompt instead of a generic gateway failure.
var ErrNoAPIKey = errors.New("gateway API key not configured")

// Options configures a gateway client
type Options struct {
	BaseURL  string
	APIKey   string
	Provider string
	Model    string
	Keep     int
}

// Client talks to the remote AI gateway over its JSON chat protocol
type Client struct {
	opts          Options
	chatClient    *http.Client
	historyClient *http.Client
	breaker       *gobreaker.CircuitBreaker
	limiter       *rate.Limiter
}

// Reply is the interpreted outcome of a chat round-trip. A failed call is a
// Reply with Success=false, never a panic or a raw transport error.
type Reply struct {
	Success bool   `json:"success"`
	Reply   string `json:"reply,omitempty"`
	Model   string `json:"model,omitempty"`
	Tokens  int    `json:"tokens,omitempty"`
	Error   string `json:"error,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatPayload struct {
	Session  string    `json:"session"`
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
	Keep     int       `json:"keep"`
}

type historyPayload struct {
	Session string `json:"session"`
	Action  string `json:"action"`
}

func NewClient(opts Options) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "AIGateway",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	// Smooths outbound bursts; the per-admin quota lives in the redis limiter
	limiter := rate.NewLimiter(rate.Limit(2), 5)

	return &Client{
		opts:          opts,
		chatClient:    &http.Client{Timeout: chatTimeout},
		historyClient: &http.Client{Timeout: historyTimeout},
		breaker:       breaker,
		limiter:       limiter,
	}
}

// Chat sends a two-message conversation (system prompt + admin message) to
// the gateway and interprets the response. Returns ErrNoAPIKey before any
// network activity when the key is missing; every other failure mode is
// reported inside the Reply.
func (c *Client) Chat(ctx context.Context, sessionKey, systemPrompt, userMessage string) (*Reply, error) {
	if c.opts.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	tracer := otel.Tracer("gateway-client")
	ctx, span := tracer.Start(ctx, "gateway.chat")
	defer span.End()

	span.SetAttributes(
		attribute.String("gateway.session", sessionKey),
		attribute.String("gateway.model", c.opts.Model),
		attribute.Int("gateway.prompt_length", len(systemPrompt)),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		span.SetAttributes(attribute.Bool("gateway.rate_limited", true))
		return &Reply{Success: false, Error: fmt.Sprintf("gateway error: %v", err)}, nil
	}

	payload := chatPayload{
		Session:  sessionKey,
		Provider: c.opts.Provider,
		Model:    c.opts.Model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Keep: c.opts.Keep,
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.postChat(ctx, payload)
	})

	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			span.SetAttributes(attribute.Bool("gateway.circuit_breaker_open", true))
			return &Reply{Success: false, Error: "gateway temporarily unavailable"}, nil
		}
		span.SetAttributes(attribute.Bool("gateway.error", true))
		return &Reply{Success: false, Error: fmt.Sprintf("gateway error: %v", err)}, nil
	}

	reply := result.(*Reply)
	span.SetAttributes(
		attribute.Bool("gateway.success", reply.Success),
		attribute.Int("gateway.tokens", reply.Tokens),
	)
	return reply, nil
}

// postChat performs one round-trip. Transport failures come back as errors so
// the breaker counts them; protocol-level failures (bad status, malformed
// body) are terminal Reply values and do not trip the breaker when the
// gateway is at least reachable, except for 5xx responses.
func (c *Client) postChat(ctx context.Context, payload chatPayload) (*Reply, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.opts.APIKey)

	resp, err := c.chatClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("gateway returned error code: %d", resp.StatusCode)
		}
		return &Reply{Success: false, Error: fmt.Sprintf("gateway returned error code: %d", resp.StatusCode)}, nil
	}

	var parsed struct {
		Reply      *string `json:"reply"`
		Model      string  `json:"model"`
		TokensUsed int     `json:"tokens_used"`
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Reply == nil {
		return &Reply{Success: false, Error: "invalid response from gateway"}, nil
	}

	model := parsed.Model
	if model == "" {
		model = c.opts.Model
	}

	return &Reply{
		Success: true,
		Reply:   *parsed.Reply,
		Model:   model,
		Tokens:  parsed.TokensUsed,
	}, nil
}

// ClearHistory asks the gateway to drop the stored conversation for a
// session. Best effort: callers log the error and move on.
func (c *Client) ClearHistory(ctx context.Context, sessionKey string) error {
	if c.opts.APIKey == "" {
		// Nothing stored at the gateway without a key; treat as cleared
		return nil
	}

	body, err := json.Marshal(historyPayload{Session: sessionKey, Action: "clear"})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+"/history", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.opts.APIKey)

	resp, err := c.historyClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("gateway returned error code: %d", resp.StatusCode)
	}

	return nil
}
