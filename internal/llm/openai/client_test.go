package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncostruct/bclc-extractor/internal/common"
	"github.com/oncostruct/bclc-extractor/internal/llm"
	"github.com/oncostruct/bclc-extractor/internal/llm/openai"
)

func completionEnvelope(content string) string {
	env := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
	b, _ := json.Marshal(env)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *openai.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return openai.NewClient(openai.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
	}, nil)
}

func TestExtractParsesContentAndSidecar(t *testing.T) {
	content := `{
		"study_metadata": {"pmid": "11112222"},
		"experiments": [],
		"evidence_level": "low",
		"_evidence": [
			{"field_path": "study_metadata.pmid", "section": "Header", "page": 1}
		]
	}`

	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotEmpty(t, body["messages"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionEnvelope(content)))
	})

	candidate, err := client.Extract(context.Background(), llm.Request{
		ArticleText: "article body",
		SchemaJSON:  []byte(`{}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)

	// The sidecar must be stripped from the candidate and surfaced as hints.
	assert.NotContains(t, string(candidate.RawJSON), "_evidence")
	require.Len(t, candidate.Hints, 1)
	assert.Equal(t, "study_metadata.pmid", candidate.Hints[0].FieldPath)
	assert.Equal(t, "Header", candidate.Hints[0].Section)
	assert.Equal(t, 1, candidate.Hints[0].Page)

	var got map[string]any
	require.NoError(t, json.Unmarshal(candidate.RawJSON, &got))
	assert.Equal(t, "low", got["evidence_level"])
}

func TestExtractWithoutSidecar(t *testing.T) {
	content := `{"study_metadata": {}, "experiments": [], "evidence_level": "high"}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionEnvelope(content)))
	})

	candidate, err := client.Extract(context.Background(), llm.Request{ArticleText: "text"})
	require.NoError(t, err)
	assert.Empty(t, candidate.Hints)
	assert.JSONEq(t, content, string(candidate.RawJSON))
}

func TestExtractErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "non-2xx status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "upstream overloaded", http.StatusServiceUnavailable)
			},
			wantErr: common.ErrBackendUnavailable,
		},
		{
			name: "envelope not JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("<html>gateway error</html>"))
			},
			wantErr: common.ErrMalformedResponse,
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices": []}`))
			},
			wantErr: common.ErrMalformedResponse,
		},
		{
			name: "content is prose not JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(completionEnvelope("I could not find the requested data.")))
			},
			wantErr: common.ErrMalformedResponse,
		},
		{
			name: "broken evidence sidecar",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(completionEnvelope(`{"experiments": [], "_evidence": {"not": "an array"}}`)))
			},
			wantErr: common.ErrMalformedResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)
			_, err := client.Extract(context.Background(), llm.Request{ArticleText: "text"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractUnreachableEndpoint(t *testing.T) {
	client := openai.NewClient(openai.Config{
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		APIKey:  "test-key",
	}, nil)
	_, err := client.Extract(context.Background(), llm.Request{ArticleText: "text"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBackendUnavailable)
}
