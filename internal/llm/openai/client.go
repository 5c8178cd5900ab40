package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/oncostruct/bclc-extractor/internal/common"
	"github.com/oncostruct/bclc-extractor/internal/llm"
)

// Extract implements llm.Backend against a chat/completions endpoint. It
// returns a syntactically valid JSON candidate plus any evidence hints the
// model reported; schema validation stays with the caller.
func (c *Client) Extract(ctx context.Context, req llm.Request) (llm.Candidate, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.ArticleText),
	)

	maxChars := c.cfg.MaxArticleChars
	if maxChars < 0 {
		maxChars = 0
	}
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": llm.BuildUserPrompt(req.SchemaJSON, req.ArticleText, maxChars)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, status, err := llm.SendJSON(ctx, c.httpClient, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Error("llm.extract.transport_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Candidate{}, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Candidate{}, fmt.Errorf("%w: decode completion envelope: %v", common.ErrMalformedResponse, err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices", "req_id", rid, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.Candidate{}, fmt.Errorf("%w: no choices in completion", common.ErrMalformedResponse)
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)

	candidate, hints, err := splitEvidenceSidecar([]byte(content))
	if err != nil {
		c.log.Error("llm.extract.content_not_json",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.Candidate{}, err
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"candidate_bytes", len(candidate),
		"hints", len(hints),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return llm.Candidate{RawJSON: candidate, Hints: hints}, nil
}

// splitEvidenceSidecar separates the optional top-level "_evidence" array from
// the candidate object. The sidecar is this backend's hint convention; it must
// be stripped before validation because the schema is closed-world.
func splitEvidenceSidecar(content []byte) ([]byte, []llm.Hint, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(content, &obj); err != nil {
		return nil, nil, fmt.Errorf("%w: content is not a JSON object: %v", common.ErrMalformedResponse, err)
	}

	var hints []llm.Hint
	if sidecar, ok := obj["_evidence"]; ok {
		if err := json.Unmarshal(sidecar, &hints); err != nil {
			// A present-but-broken sidecar is still a malformed reply; hints are
			// part of this backend's contract once it chooses to emit them.
			return nil, nil, fmt.Errorf("%w: _evidence sidecar: %v", common.ErrMalformedResponse, err)
		}
		delete(obj, "_evidence")
	}

	candidate, err := json.Marshal(obj)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: re-encode candidate: %v", common.ErrMalformedResponse, err)
	}
	return candidate, hints, nil
}
