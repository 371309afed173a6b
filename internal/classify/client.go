package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/suykerbuyk/aiscope/internal/config"
	"github.com/suykerbuyk/aiscope/internal/score"
)

// Classifier scores raw text.
type Classifier interface {
	Classify(ctx context.Context, text string) (score.Result, error)
}

// ClassificationError reports any upstream failure. Status is zero when the
// request never produced an HTTP response.
type ClassificationError struct {
	Status int
	Body   string
	Err    error
}

func (e *ClassificationError) Error() string {
	switch {
	case e.Status != 0:
		return fmt.Sprintf("classification failed (status %d): %s", e.Status, e.Body)
	case e.Err != nil:
		return "classification failed: " + e.Err.Error()
	default:
		return "classification failed"
	}
}

func (e *ClassificationError) Unwrap() error { return e.Err }

// ErrNoAPIKey is returned by New when the configured key variable is unset.
var ErrNoAPIKey = errors.New("classifier API key not set")

// Client calls the hosted classification API.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// New builds a Client from config, reading the API key from the environment.
func New(cfg config.ClassifierConfig) (*Client, error) {
	keyEnv := cfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "PANGRAM_API_KEY"
	}
	apiKey := os.Getenv(keyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: export %s", ErrNoAPIKey, keyEnv)
	}

	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		BaseURL: cfg.BaseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: timeout},
	}, nil
}

type predictRequest struct {
	Text string `json:"text"`
}

type apiError struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// Classify posts text and decodes the scored result. The result is validated
// against the known labels and confidence tiers before it is returned; an
// empty text field is filled with the submitted text.
func (c *Client) Classify(ctx context.Context, text string) (score.Result, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return score.Result{}, fmt.Errorf("marshal request: %w", err)
	}

	url := strings.TrimRight(c.BaseURL, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return score.Result{}, &ClassificationError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return score.Result{}, &ClassificationError{Err: fmt.Errorf("http request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return score.Result{}, &ClassificationError{Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK {
		return score.Result{}, &ClassificationError{Status: resp.StatusCode, Body: errorText(respBody)}
	}

	return parseResponse(respBody, text)
}

func parseResponse(body []byte, text string) (score.Result, error) {
	var r score.Result
	if err := json.Unmarshal(body, &r); err != nil {
		return score.Result{}, &ClassificationError{Err: fmt.Errorf("unmarshal response: %w", err)}
	}
	if len(r.Windows) == 0 {
		return score.Result{}, &ClassificationError{Err: errors.New("response has no windows")}
	}
	for i, w := range r.Windows {
		if w.StartIndex < 0 || w.EndIndex < w.StartIndex {
			return score.Result{}, &ClassificationError{
				Err: fmt.Errorf("window %d has span [%d, %d)", i, w.StartIndex, w.EndIndex),
			}
		}
	}
	if end := r.Windows[len(r.Windows)-1].EndIndex; end <= 0 {
		return score.Result{}, &ClassificationError{Err: fmt.Errorf("windows cover %d characters", end)}
	}
	if err := r.Validate(); err != nil {
		return score.Result{}, fmt.Errorf("classifier response: %w", err)
	}
	if r.Text == "" {
		r.Text = text
	}
	return r, nil
}

func errorText(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil {
		if e.Detail != "" {
			return e.Detail
		}
		if e.Message != "" {
			return e.Message
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
