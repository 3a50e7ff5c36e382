package gemini_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicare-health/assistant-api/internal/gemini"
)

func TestRestClientGenerateContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.URL.Path, ":generateContent")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"{\"severity\":\"low\"}"}]}}]}`))
	}))
	defer server.Close()

	client := gemini.NewRestClient(gemini.Config{
		APIKey:  "test-key",
		APIBase: server.URL,
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
	})

	resp, err := client.GenerateContent(context.Background(), &gemini.GenerateRequest{
		Contents: []gemini.Content{{Parts: []gemini.Part{{Text: "hello"}}}},
	})
	require.NoError(t, err)

	text, err := gemini.ExtractText(resp)
	require.NoError(t, err)
	assert.Equal(t, `{"severity":"low"}`, text)
}

func TestRestClientNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := gemini.NewRestClient(gemini.Config{
		APIKey:  "test-key",
		APIBase: server.URL,
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
	})

	_, err := client.GenerateContent(context.Background(), &gemini.GenerateRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *gemini.GenerateResponse
		want    string
		wantErr error
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: gemini.ErrNoCandidates,
		},
		{
			name:    "no candidates",
			resp:    &gemini.GenerateResponse{},
			wantErr: gemini.ErrNoCandidates,
		},
		{
			name:    "no parts",
			resp:    &gemini.GenerateResponse{Candidates: []gemini.Candidate{{Content: &gemini.Content{}}}},
			wantErr: gemini.ErrNoParts,
		},
		{
			name: "whitespace text",
			resp: &gemini.GenerateResponse{Candidates: []gemini.Candidate{
				{Content: &gemini.Content{Parts: []gemini.Part{{Text: "   "}}}},
			}},
			wantErr: gemini.ErrEmptyText,
		},
		{
			name: "text is trimmed",
			resp: &gemini.GenerateResponse{Candidates: []gemini.Candidate{
				{Content: &gemini.Content{Parts: []gemini.Part{{Text: "  {\"a\":1}  "}}}},
			}},
			want: `{"a":1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := gemini.ExtractText(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeObject(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		obj, err := gemini.DecodeObject(`{"severity":"high","confidence":0.9}`)
		require.NoError(t, err)
		assert.Equal(t, "high", obj["severity"])
	})

	t.Run("object wrapped in prose", func(t *testing.T) {
		obj, err := gemini.DecodeObject("Here is the result:\n```json\n{\"severity\":\"low\"}\n```\nthanks")
		require.NoError(t, err)
		assert.Equal(t, "low", obj["severity"])
	})

	t.Run("top-level array is rejected", func(t *testing.T) {
		_, err := gemini.DecodeObject(`["not","an","object"]`)
		assert.ErrorIs(t, err, gemini.ErrNoJSON)
	})

	t.Run("no braces at all", func(t *testing.T) {
		_, err := gemini.DecodeObject("I cannot answer that.")
		assert.ErrorIs(t, err, gemini.ErrNoJSON)
	})

	t.Run("malformed braces", func(t *testing.T) {
		_, err := gemini.DecodeObject("}{")
		assert.ErrorIs(t, err, gemini.ErrNoJSON)
	})
}
