package classify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/suykerbuyk/aiscope/internal/config"
	"github.com/suykerbuyk/aiscope/internal/score"
)

const okResponse = `{
  "text": "Some text to check.",
  "headline": "Mixed",
  "fraction_ai": 0.5,
  "fraction_ai_assisted": 0.25,
  "fraction_human": 0.25,
  "windows": [
    {"text": "Some text", "start_index": 0, "end_index": 9, "ai_assistance_score": 0.12, "label": "Human Written", "confidence": "High"},
    {"text": " to check.", "start_index": 9, "end_index": 19, "ai_assistance_score": 0.97, "label": "AI-Generated", "confidence": "Medium"}
  ]
}`

func newTestClient(url string) *Client {
	return &Client{BaseURL: url, APIKey: "test-key", HTTP: http.DefaultClient}
}

func TestClassify(t *testing.T) {
	var gotKey, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		var req predictRequest
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &req)
		gotText = req.Text
		w.Write([]byte(okResponse))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Classify(context.Background(), "Some text to check.")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotText != "Some text to check." {
		t.Errorf("request text = %q", gotText)
	}
	if res.FractionAI != 0.5 || len(res.Windows) != 2 {
		t.Errorf("result = %+v", res)
	}
	if res.Windows[1].Label != score.AIGenerated || res.Windows[1].Confidence != score.Medium {
		t.Errorf("window 1 = %+v", res.Windows[1])
	}
}

func TestClassifyFillsMissingText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fraction_ai":0,"fraction_ai_assisted":0,"fraction_human":1,` +
			`"windows":[{"start_index":0,"end_index":5,"ai_assistance_score":0.01,"label":"Human Written","confidence":"High"}]}`))
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Classify(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if res.Text != "hello" {
		t.Errorf("Text = %q, want submitted text", res.Text)
	}
}

func TestClassifyHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"detail":"out of credits"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Classify(context.Background(), "x")
	var ce *ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if ce.Status != http.StatusPaymentRequired || ce.Body != "out of credits" {
		t.Errorf("error = %+v", ce)
	}
}

func TestClassifyBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>gateway</html>`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Classify(context.Background(), "x")
	var ce *ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
}

func TestClassifyUnknownLabel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"x","fraction_ai":1,"fraction_ai_assisted":0,"fraction_human":0,` +
			`"windows":[{"start_index":0,"end_index":1,"ai_assistance_score":0.8,"label":"Partially Synthetic","confidence":"High"}]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Classify(context.Background(), "x")
	var ule *score.UnknownLabelError
	if !errors.As(err, &ule) {
		t.Fatalf("expected UnknownLabelError, got %v", err)
	}
}

func TestClassifyNoWindows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"text":"x","fraction_ai":0,"fraction_ai_assisted":0,"fraction_human":1,"windows":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Classify(context.Background(), "x")
	var ce *ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
}

func TestClassifyBadWindowSpans(t *testing.T) {
	tests := []struct {
		name    string
		windows string
	}{
		{"zero total span", `[{"start_index":0,"end_index":0,"ai_assistance_score":0.5,"label":"Human Written","confidence":"High"}]`},
		{"reversed window", `[{"start_index":4,"end_index":2,"ai_assistance_score":0.5,"label":"Human Written","confidence":"High"},` +
			`{"start_index":2,"end_index":5,"ai_assistance_score":0.5,"label":"Human Written","confidence":"High"}]`},
		{"negative start", `[{"start_index":-1,"end_index":5,"ai_assistance_score":0.5,"label":"Human Written","confidence":"High"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"text":"hello","fraction_ai":0,"fraction_ai_assisted":0,"fraction_human":1,"windows":` + tt.windows + `}`))
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Classify(context.Background(), "hello")
			var ce *ClassificationError
			if !errors.As(err, &ce) {
				t.Fatalf("expected ClassificationError, got %v", err)
			}
		})
	}
}

func TestClassifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Classify(context.Background(), "x")
	var ce *ClassificationError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}
	if ce.Status != 0 {
		t.Errorf("Status = %d, want 0", ce.Status)
	}
}

func TestNewRequiresKey(t *testing.T) {
	t.Setenv("AISCOPE_TEST_KEY", "")
	_, err := New(config.ClassifierConfig{APIKeyEnv: "AISCOPE_TEST_KEY"})
	if !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}

	t.Setenv("AISCOPE_TEST_KEY", "secret")
	c, err := New(config.ClassifierConfig{APIKeyEnv: "AISCOPE_TEST_KEY", BaseURL: "http://example.invalid"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.APIKey != "secret" || c.HTTP.Timeout == 0 {
		t.Errorf("client = %+v", c)
	}
}
