package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// chatClient talks to the backend's /chat endpoint under one session ID.
type chatClient struct {
	baseURL    string
	sessionID  string
	httpClient *http.Client
}

func newChatClient(baseURL string, timeout time.Duration) *chatClient {
	return &chatClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		sessionID:  uuid.NewString(),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// newSession drops the server-side conversation and starts a fresh one.
func (c *chatClient) newSession(ctx context.Context) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/sessions/"+c.sessionID, nil)
	if err == nil {
		if resp, err := c.httpClient.Do(req); err == nil {
			resp.Body.Close()
		}
	}
	c.sessionID = uuid.NewString()
}

func (c *chatClient) send(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"session_id": c.sessionID,
		"message":    message,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out struct {
		Reply string `json:"reply"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("unexpected response (status %d): %s", resp.StatusCode, string(data))
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend error (status %d): %s", resp.StatusCode, out.Error)
	}
	return out.Reply, nil
}
