// Package pipeline sequences one article-processing run: load text, invoke
// the extraction backend, validate against the schema model, record evidence
// provenance, and optionally persist the lot as a single logical save.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oncostruct/bclc-extractor/constants"
	"github.com/oncostruct/bclc-extractor/internal/common"
	"github.com/oncostruct/bclc-extractor/internal/evidence"
	"github.com/oncostruct/bclc-extractor/internal/llm"
	"github.com/oncostruct/bclc-extractor/internal/repository"
	"github.com/oncostruct/bclc-extractor/internal/schema"
	"github.com/oncostruct/bclc-extractor/internal/textsource"
)

// SourceProvider is the load boundary; textsource.Provider satisfies it.
type SourceProvider interface {
	Load(ctx context.Context, path string) (textsource.Result, error)
}

// Request describes one run. Persist is opt-in; a console-only run discards
// the output after returning it.
type Request struct {
	Path        string
	ArticleType string
	Persist     bool
}

// Result is a completed run: the validated output, its evidence spans, and,
// when persisted, the new extraction row's id.
type Result struct {
	Output       *schema.ExtractionOutput
	Spans        []evidence.Span
	ExtractionID uuid.UUID
}

// Processor owns no state across invocations; each ProcessArticle call is
// independent, so concurrent runs need no coordination.
type Processor struct {
	source  SourceProvider
	backend llm.Backend
	store   repository.ExtractionStore // nil when persistence is not wired
	logger  *slog.Logger
}

func NewProcessor(source SourceProvider, backend llm.Backend, store repository.ExtractionStore, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{source: source, backend: backend, store: store, logger: logger}
}

// ProcessArticle runs the full pipeline for one article. Every stage either
// succeeds completely or fails with exactly one of the error kinds in
// internal/common; no partial or coerced output is ever returned.
func (p *Processor) ProcessArticle(ctx context.Context, req Request) (*Result, error) {
	rid := uuid.New().String()
	start := time.Now()
	p.logger.Info("pipeline.run.start", "req_id", rid, "path", req.Path, "persist", req.Persist)

	// A persist run without a store fails up front, before any I/O is spent.
	if req.Persist && p.store == nil {
		p.logger.Error("pipeline.persist.unconfigured", "req_id", rid)
		return nil, fmt.Errorf("%w: no store configured", common.ErrPersistenceFailure)
	}

	// 1) Load. Fails before the backend is ever touched.
	text, err := p.source.Load(ctx, req.Path)
	if err != nil {
		p.logger.Error("pipeline.load.failed", "req_id", rid, "path", req.Path, "error", err)
		return nil, err
	}
	p.logger.Info("pipeline.load.ok", "req_id", rid, "format", text.Format, "pages", text.Pages, "bytes", len(text.Text))

	// 2) Extract. Adapter errors propagate unchanged.
	candidate, err := p.backend.Extract(ctx, llm.Request{
		ArticleText: text.Text,
		SchemaJSON:  schema.SchemaJSON(),
	})
	if err != nil {
		p.logger.Error("pipeline.extract.failed", "req_id", rid, "error", err)
		return nil, err
	}
	p.logger.Info("pipeline.extract.ok", "req_id", rid, "candidate_bytes", len(candidate.RawJSON), "hints", len(candidate.Hints))

	// 3) Validate. Hard stop on any schema violation.
	out, err := schema.ParseAndValidate(candidate.RawJSON)
	if err != nil {
		p.logger.Error("pipeline.validate.failed", "req_id", rid, "error", err)
		return nil, err
	}

	// 4) Evidence.
	spans, err := evidence.Record(out, candidate.Hints)
	if err != nil {
		p.logger.Error("pipeline.evidence.failed", "req_id", rid, "error", err)
		return nil, err
	}

	result := &Result{Output: out, Spans: spans}

	// 5) Persist, only when asked.
	if req.Persist {
		extractionID, err := p.store.SaveExtraction(ctx, &repository.SaveRequest{
			Output:        out,
			Spans:         spans,
			ArticleType:   req.ArticleType,
			SourcePath:    req.Path,
			SchemaVersion: constants.SchemaVersion,
			BundleVersion: constants.BundleVersion,
		})
		if err != nil {
			p.logger.Error("pipeline.persist.failed", "req_id", rid, "error", err)
			return nil, err
		}
		result.ExtractionID = extractionID
		p.logger.Info("pipeline.persist.ok", "req_id", rid, "extraction_id", extractionID)
	}

	p.logger.Info("pipeline.run.ok",
		"req_id", rid,
		"experiments", len(out.Experiments),
		"evidence_level", out.EvidenceLevel,
		"spans", len(spans),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}
