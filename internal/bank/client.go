package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

// ErrBankUnavailable marks transport-level failures against the Question
// Bank Service. Fatal to the current sampling run; never retried here.
var ErrBankUnavailable = errors.New("question bank unavailable")

type Client struct {
	http    *http.Client
	baseURL string
}

type Config struct {
	BaseURL string
	// OAuth2 client-credentials against the bank's token endpoint.
	// Leave TokenURL empty for unauthenticated dev/offline banks.
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

func New(cfg Config) *Client {
	var h *http.Client
	if cfg.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		h = cc.Client(context.Background())
	} else {
		h = &http.Client{}
	}
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	return &Client{http: h, baseURL: strings.TrimSuffix(cfg.BaseURL, "/")}
}

// NewWithHTTP builds a client over a caller-supplied *http.Client.
// Used by tests against httptest servers.
func NewWithHTTP(baseURL string, h *http.Client) *Client {
	if h == nil {
		h = &http.Client{}
	}
	return &Client{http: h, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// FetchPage runs one page of the bank's bulk-selection query.
// page and pageSize are 1-based; the caller owns pagination bookkeeping.
func (c *Client) FetchPage(ctx context.Context, sel Selector, page, pageSize int) (Page, error) {
	if page < 1 {
		return Page{}, fmt.Errorf("page must be >= 1, got %d", page)
	}
	if pageSize < 1 {
		return Page{}, fmt.Errorf("page size must be >= 1, got %d", pageSize)
	}
	body := struct {
		Selector
		Page     int `json:"page"`
		PageSize int `json:"page_size"`
	}{sel, page, pageSize}

	var out Page
	if err := c.postJSON(ctx, "/questions/bulk-selection", body, &out); err != nil {
		return Page{}, err
	}
	return out, nil
}

// CountQuestions returns how many bank questions match the selector.
func (c *Client) CountQuestions(ctx context.Context, sel Selector) (int, error) {
	var out struct {
		AvailableCount int `json:"available_count"`
	}
	if err := c.postJSON(ctx, "/questions/count", sel, &out); err != nil {
		return 0, err
	}
	return out.AvailableCount, nil
}

// AudioAvailability probes the bank's synthesis backend.
func (c *Client) AudioAvailability(ctx context.Context) (Availability, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/audio/availability", nil)
	if err != nil {
		return Availability{}, err
	}
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return Availability{}, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return Availability{}, fmt.Errorf("audio availability: %s", res.Status)
	}
	var out Availability
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return Availability{}, err
	}
	return out, nil
}

// GenerateAudio synthesizes speech for one question and returns the bank's
// audio reference. One call per question; the orchestrator sequences them.
func (c *Client) GenerateAudio(ctx context.Context, req GenerateAudioRequest) (string, error) {
	var out struct {
		AudioRef string `json:"audio_ref"`
	}
	if err := c.postJSON(ctx, "/audio/generate", req, &out); err != nil {
		return "", err
	}
	if out.AudioRef == "" {
		return "", errors.New("generate audio: empty audio_ref in response")
	}
	return out.AudioRef, nil
}

// FetchAudio streams the audio bytes behind an audioRef. Relative refs are
// resolved against the bank base URL.
func (c *Client) FetchAudio(ctx context.Context, audioRef string) (io.ReadCloser, error) {
	u := audioRef
	if parsed, err := url.Parse(audioRef); err != nil || !parsed.IsAbs() {
		u = c.baseURL + "/" + strings.TrimPrefix(audioRef, "/")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}
	if res.StatusCode/100 != 2 {
		res.Body.Close()
		return nil, fmt.Errorf("fetch audio %s: %s", audioRef, res.Status)
	}
	return res.Body, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBankUnavailable, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 500 {
		return fmt.Errorf("%w: %s %s: %s", ErrBankUnavailable, http.MethodPost, path, res.Status)
	}
	if res.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("%s %s: %s", http.MethodPost, path, strings.TrimSpace(res.Status+" "+string(snippet)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
