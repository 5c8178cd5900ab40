package llm

import "context"

// Request is the input to an extraction backend: the full article text plus
// the serialized schema descriptor the backend must conform to. ArticleText
// must be non-empty; any truncation policy belongs to the concrete backend.
type Request struct {
	ArticleText string
	SchemaJSON  []byte
}

// Hint is a backend-supplied provenance pointer for one extracted field.
// FieldPath uses dotted notation with zero-based experiment indexes, e.g.
// "experiments[0].results.os.value". Zero values mean the backend did not
// report that locator component.
type Hint struct {
	FieldPath   string `json:"field_path"`
	Section     string `json:"section,omitempty"`
	Page        int    `json:"page,omitempty"`
	TableFigure string `json:"table_figure,omitempty"`
	Excerpt     string `json:"excerpt,omitempty"`
	Locator     string `json:"locator,omitempty"`
}

// Candidate is the unvalidated backend result: the raw JSON payload plus
// whatever per-field evidence hints the backend produced. Validation against
// the schema model is the orchestrator's job, not the backend's.
type Candidate struct {
	RawJSON []byte
	Hints   []Hint
}

// Backend is the replaceable text-understanding boundary the pipeline depends
// on. The mock and the live client are interchangeable behind it.
type Backend interface {
	Extract(ctx context.Context, req Request) (Candidate, error)
}
