package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/AgusMolinaCode/stockly/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(endpoint string) *config.Config {
	cfg := config.Default()
	cfg.LLM.APIKey = "sk-test"
	cfg.LLM.Endpoint = endpoint
	return cfg
}

func TestOpenAI_Complete(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"  Your portfolio is up.  "}}]}`))
	}))
	defer srv.Close()

	out, err := NewOpenAI(testConfig(srv.URL)).Complete(context.Background(), Request{
		System:    "be brief",
		Prompt:    "explain",
		MaxTokens: 500,
	})
	require.NoError(t, err)
	assert.Equal(t, "Your portfolio is up.", out)

	assert.Equal(t, "gpt-4", got["model"])
	assert.EqualValues(t, 500, got["max_tokens"])
	messages := got["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
}

func TestOpenAI_DefaultMaxTokens(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(testConfig(srv.URL)).Complete(context.Background(), Request{Prompt: "p"})
	require.NoError(t, err)
	assert.EqualValues(t, 1500, got["max_tokens"])
	assert.Len(t, got["messages"].([]any), 1)
}

func TestOpenAI_Failures(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"http error", http.StatusTooManyRequests, `{}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"empty content", http.StatusOK, `{"choices":[{"message":{"content":"   "}}]}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewOpenAI(testConfig(srv.URL)).Complete(context.Background(), Request{Prompt: "p"})
			assert.Error(t, err)
		})
	}
}

func TestOpenAI_MissingKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:0")
	cfg.LLM.APIKey = ""
	_, err := NewOpenAI(cfg).Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew_WithoutKeyIsNoop(t *testing.T) {
	cfg := config.Default()
	gen, err := New(context.Background(), cfg)
	require.NoError(t, err)

	_, err = gen.Complete(context.Background(), Request{Prompt: "p"})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew_UnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = "llama"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
