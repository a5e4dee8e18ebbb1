package embedder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaEmbedder_Embed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req ollamaEmbedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" {
			t.Errorf("model = %q, want nomic-embed-text", req.Model)
		}
		embeddings := make([][]float32, len(req.Input))
		for i := range req.Input {
			embeddings[i] = []float32{float32(i), 0.5}
		}
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: embeddings})
	}))
	defer srv.Close()

	emb := NewOllamaEmbedder(&OllamaConfig{Host: srv.URL, Model: "nomic-embed-text"})
	got, err := emb.Embed(context.Background(), []string{"dismissal notice period", "severance pay"})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d embeddings, want 2", len(got))
	}
	if got[1][0] != 1 {
		t.Errorf("embeddings out of order: got[1][0] = %v", got[1][0])
	}
}

func TestOllamaEmbedder_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(ollamaEmbedResponse{Error: "model not found"})
	}))
	defer srv.Close()

	emb := NewOllamaEmbedder(&OllamaConfig{Host: srv.URL, Model: "missing"})
	_, err := emb.Embed(context.Background(), []string{"x"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("error %q does not surface server message", err)
	}
}

func TestOpenAIEmbedder_ReordersByIndex(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		// Return data deliberately out of order.
		w.Write([]byte(`{"data":[{"embedding":[2.0],"index":1},{"embedding":[1.0],"index":0}]}`))
	}))
	defer srv.Close()

	emb := NewOpenAIEmbedder(&OpenAIConfig{BaseURL: srv.URL, APIKey: "test-key", Model: "text-embedding-3-small"})
	got, err := emb.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if got[0][0] != 1.0 || got[1][0] != 2.0 {
		t.Errorf("embeddings not sorted by index: %v", got)
	}
}

func TestOpenAIEmbedder_AzureAuth(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("api-key"); got != "azure-key" {
			t.Errorf("api-key header = %q", got)
		}
		if !strings.Contains(r.URL.Path, "/deployments/embed-deploy/embeddings") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"embedding":[0.1],"index":0}]}`))
	}))
	defer srv.Close()

	emb := NewOpenAIEmbedder(&OpenAIConfig{
		BaseURL:    srv.URL,
		APIKey:     "azure-key",
		Model:      "embed-deploy",
		Azure:      true,
		APIVersion: "2025-04-01-preview",
	})
	if _, err := emb.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
}

func TestNewFromEnv_UnknownBackend(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "bedrock")
	if _, err := NewFromEnv(context.Background()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewFromEnv_DefaultsToOllama(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "")
	emb, err := NewFromEnv(context.Background())
	if err != nil {
		t.Fatalf("NewFromEnv() error: %v", err)
	}
	if _, ok := emb.(*OllamaEmbedder); !ok {
		t.Errorf("default embedder is %T, want *OllamaEmbedder", emb)
	}
}

func TestValidate(t *testing.T) {
	log := slog.New(slog.NewTextHandler(&strings.Builder{}, nil))

	t.Run("openai without key", func(t *testing.T) {
		t.Setenv("EMBEDDING_PROVIDER", "openai")
		t.Setenv("EMBEDDING_API_KEY", "")
		t.Setenv("OPENAI_API_KEY", "")
		if err := Validate(log); err == nil {
			t.Fatal("expected error for openai without API key")
		}
	})

	t.Run("ollama needs nothing", func(t *testing.T) {
		t.Setenv("EMBEDDING_PROVIDER", "ollama")
		if err := Validate(log); err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
	})
}

func TestLooksLikeChatModel(t *testing.T) {
	t.Parallel()

	cases := []struct {
		model string
		want  bool
	}{
		{"nomic-embed-text", false},
		{"text-embedding-3-small", false},
		{"gpt-4o", true},
		{"llama3.1:8b", true},
		{"gemini-2.0-flash", true},
		{"text-embedding-004", false},
	}
	for _, tc := range cases {
		if got := looksLikeChatModel(tc.model); got != tc.want {
			t.Errorf("looksLikeChatModel(%q) = %v, want %v", tc.model, got, tc.want)
		}
	}
}
