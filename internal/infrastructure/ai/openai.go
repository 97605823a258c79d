// Package ai provides the HTTP client for an OpenAI-compatible
// chat-completions backend, streaming responses over server-sent events.
package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kasseeashil-ctrl/intel-platform/internal/core/ports"
)

// ClientError categorizes failures talking to the AI backend.
type ClientError struct {
	Status  int
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

var (
	ErrUnavailable = errors.New("ai backend unavailable")
	ErrBadResponse = errors.New("ai backend returned an invalid response")
)

// Config holds the settings for the chat-completions client.
type Config struct {
	// BaseURL of the OpenAI-compatible API (e.g. https://api.openai.com).
	BaseURL string
	// APIKey sent as a bearer token. May be empty for local backends.
	APIKey string
	// Model requested for every completion.
	Model string
	// ConnectTimeout bounds establishing the streaming connection. Reading
	// the stream itself is bounded by the caller's context.
	ConnectTimeout time.Duration
}

// Client streams chat completions from an OpenAI-compatible backend.
// It implements ports.AIClient and is safe for concurrent use.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}
	// No client-level timeout: a streaming response outlives any fixed
	// deadline, cancellation comes from the request context.
	// ConnectTimeout bounds only dialing, the TLS handshake, and the wait
	// for response headers.
	transport := &http.Transport{
		DialContext:           (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout,
		ResponseHeaderTimeout: cfg.ConnectTimeout,
	}
	return &Client{cfg: cfg, httpClient: &http.Client{Transport: transport}}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type streamEvent struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// StreamCompletion sends a streaming chat request and returns a channel of
// chunks. The channel is closed after the final chunk; stream failures are
// delivered as a chunk with Err set.
func (c *Client) StreamCompletion(ctx context.Context, systemPrompt string, messages []ports.ChatMessage) (<-chan ports.ChatChunk, error) {
	payload := chatRequest{
		Model:    c.cfg.Model,
		Messages: make([]chatMessage, 0, len(messages)+1),
		Stream:   true,
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: systemPrompt})
	for _, m := range messages {
		payload.Messages = append(payload.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ClientError{Message: "failed to marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, &ClientError{Status: resp.StatusCode, Message: apiErr.Error.Message}
		}
		return nil, &ClientError{Status: resp.StatusCode, Message: "completion request failed: " + resp.Status}
	}

	ch := make(chan ports.ChatChunk)
	go func() {
		defer close(ch)
		defer resp.Body.Close()
		c.readStream(ctx, resp, ch)
	}()

	return ch, nil
}

// readStream scans SSE lines ("data: {...}" terminated by "data: [DONE]")
// and forwards content deltas as chunks.
func (c *Client) readStream(ctx context.Context, resp *http.Response, ch chan<- ports.ChatChunk) {
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			c.send(ctx, ch, ports.ChatChunk{Final: true})
			return
		}

		var event streamEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			c.send(ctx, ch, ports.ChatChunk{Final: true, Err: fmt.Errorf("%w: %v", ErrBadResponse, err)})
			return
		}
		if len(event.Choices) == 0 {
			continue
		}

		choice := event.Choices[0]
		if choice.Delta.Content != "" {
			if !c.send(ctx, ch, ports.ChatChunk{Content: choice.Delta.Content}) {
				return
			}
		}
		if choice.FinishReason != nil && *choice.FinishReason != "" {
			c.send(ctx, ch, ports.ChatChunk{Final: true})
			return
		}
	}

	if err := scanner.Err(); err != nil {
		c.send(ctx, ch, ports.ChatChunk{Final: true, Err: fmt.Errorf("%w: %v", ErrBadResponse, err)})
		return
	}
	// Stream ended without a terminator; still mark completion.
	c.send(ctx, ch, ports.ChatChunk{Final: true})
}

func (c *Client) send(ctx context.Context, ch chan<- ports.ChatChunk, chunk ports.ChatChunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
