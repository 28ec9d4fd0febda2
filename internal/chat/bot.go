package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Responder generates a reply for a user message. The model itself is an
// external collaborator: the service treats this as an opaque
// text-in/text-out call and handles persistence and fallbacks around it.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

// maxBotResponseBytes caps how much of the inference response body is read.
const maxBotResponseBytes = 1 << 20 // 1 MB

// HTTPResponder calls a language-model inference service over HTTP.
// It POSTs {"message": ...} and expects {"response": ...} back.
type HTTPResponder struct {
	url    string
	client *http.Client
}

// NewHTTPResponder creates a responder that calls the given inference
// endpoint with a per-request timeout.
func NewHTTPResponder(url string, timeout time.Duration) *HTTPResponder {
	return &HTTPResponder{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Reply sends the message to the inference endpoint and returns its reply.
func (r *HTTPResponder) Reply(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", fmt.Errorf("encoding bot request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building bot request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling bot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bot returned status %d", resp.StatusCode)
	}

	var body struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBotResponseBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding bot response: %w", err)
	}
	if body.Response == "" {
		return "", fmt.Errorf("bot returned empty response")
	}

	return body.Response, nil
}

// StaticResponder is the development stand-in used when no inference
// endpoint is configured. It always returns the same canned reply.
type StaticResponder struct{}

// Reply returns a fixed development reply.
func (StaticResponder) Reply(_ context.Context, _ string) (string, error) {
	return "This is a development reply; configure BOT_URL to talk to a real model.", nil
}
