// Package testsvc is the Test Persistence Service boundary: it receives an
// assembled, validated question set and returns the created test id. The
// service side owns committing usage counts; nothing here mutates the bank.
package testsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/examforge/examforge-admin/internal/assembly"
)

type Client struct {
	http    *http.Client
	baseURL string
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

func New(cfg Config) *Client {
	h := &http.Client{}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{http: h, baseURL: strings.TrimSuffix(cfg.BaseURL, "/")}
}

// NewWithHTTP builds a client over a caller-supplied *http.Client, for
// httptest-driven tests.
func NewWithHTTP(baseURL string, h *http.Client) *Client {
	if h == nil {
		h = &http.Client{}
	}
	return &Client{http: h, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// CreateTest hands the assembled test to persistence and returns its id.
func (c *Client) CreateTest(ctx context.Context, t assembly.AssembledTest, meta map[string]any) (string, error) {
	body, err := json.Marshal(struct {
		assembly.AssembledTest
		Metadata map[string]any `json:"metadata,omitempty"`
	}{t, meta})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tests", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("test persistence: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return "", fmt.Errorf("create test: %s %s", res.Status, strings.TrimSpace(string(snippet)))
	}
	var out struct {
		TestID string `json:"test_id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.TestID == "" {
		return "", errors.New("create test: empty test_id in response")
	}
	return out.TestID, nil
}
