package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oncostruct/bclc-extractor/internal/common"
	"github.com/oncostruct/bclc-extractor/internal/evidence"
	"github.com/oncostruct/bclc-extractor/internal/outcomes"
	"github.com/oncostruct/bclc-extractor/internal/schema"
)

// SaveRequest is the single logical save unit: one validated output, its
// evidence spans, and the article identity it belongs to.
type SaveRequest struct {
	Output        *schema.ExtractionOutput
	Spans         []evidence.Span
	ArticleType   string
	SourcePath    string
	SchemaVersion string
	BundleVersion string
}

// ExtractionRecord is one persisted extraction row.
type ExtractionRecord struct {
	ID                     uuid.UUID
	ArticleID              uuid.UUID
	SchemaVersion          string
	ExtractorBundleVersion string
	Payload                []byte
	CreatedAt              string // RFC3339
}

// ExtractionSummary is the joined article/extraction view used for listings
// and exports.
type ExtractionSummary struct {
	ExtractionID  uuid.UUID
	ArticleID     uuid.UUID
	PMID          *string
	DOI           *string
	Title         *string
	Journal       *string
	Year          *int
	ArticleType   *string
	EvidenceLevel string
	ArmCount      int
	SchemaVersion string
	CreatedAt     string
}

// ListFilter narrows listings by article attributes.
type ListFilter struct {
	Year        *int
	ArticleType *string
}

// ExtractionStore is the narrow save-extraction contract the pipeline consumes.
type ExtractionStore interface {
	SaveExtraction(ctx context.Context, req *SaveRequest) (uuid.UUID, error)
	GetExtraction(ctx context.Context, id uuid.UUID) (*ExtractionRecord, error)
	ListExtractions(ctx context.Context, filter ListFilter) ([]ExtractionSummary, error)
}

type extractionStore struct {
	db     *DB
	logger *slog.Logger
}

func NewExtractionStore(db *DB, logger *slog.Logger) ExtractionStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &extractionStore{db: db, logger: logger}
}

// SaveExtraction persists the article (upserted by pmid/doi), the versioned
// payload, every evidence span and the derived survival rows in a single
// transaction. Re-runs insert new extraction rows; nothing is overwritten.
func (s *extractionStore) SaveExtraction(ctx context.Context, req *SaveRequest) (uuid.UUID, error) {
	payload, err := req.Output.CanonicalJSON()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: encode payload: %v", common.ErrPersistenceFailure, err)
	}

	tx, err := s.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: begin: %v", common.ErrPersistenceFailure, err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(time.RFC3339)

	articleID, err := s.upsertArticle(ctx, tx, req, now)
	if err != nil {
		return uuid.Nil, err
	}

	extractionID := uuid.New()
	_, err = tx.ExecContext(ctx, s.db.rebind(
		`INSERT INTO extractions (id, article_id, schema_version, extractor_bundle_version, payload, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`),
		extractionID.String(), articleID.String(), req.SchemaVersion, req.BundleVersion, string(payload), now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: insert extraction: %v", common.ErrPersistenceFailure, err)
	}

	if err := s.insertSpans(ctx, tx, extractionID, req.Spans); err != nil {
		return uuid.Nil, err
	}
	if err := s.insertSurvivalRows(ctx, tx, extractionID, outcomes.DeriveSurvivalRows(req.Output)); err != nil {
		return uuid.Nil, err
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("%w: commit: %v", common.ErrPersistenceFailure, err)
	}

	s.logger.Info("extraction saved",
		"extraction_id", extractionID,
		"article_id", articleID,
		"spans", len(req.Spans),
	)
	return extractionID, nil
}

func (s *extractionStore) upsertArticle(ctx context.Context, tx *sql.Tx, req *SaveRequest, now string) (uuid.UUID, error) {
	meta := req.Output.StudyMetadata

	var existing *string
	switch {
	case meta.PMID != nil && meta.DOI != nil:
		existing = s.scanArticleID(ctx, tx, `SELECT id FROM articles WHERE pmid = ? OR doi = ?`, *meta.PMID, *meta.DOI)
	case meta.PMID != nil:
		existing = s.scanArticleID(ctx, tx, `SELECT id FROM articles WHERE pmid = ?`, *meta.PMID)
	case meta.DOI != nil:
		existing = s.scanArticleID(ctx, tx, `SELECT id FROM articles WHERE doi = ?`, *meta.DOI)
	}

	if existing != nil {
		id, err := uuid.Parse(*existing)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: corrupt article id %q", common.ErrPersistenceFailure, *existing)
		}
		_, err = tx.ExecContext(ctx, s.db.rebind(
			`UPDATE articles SET pmid = ?, doi = ?, title = ?, journal = ?, year = ?, updated_at = ? WHERE id = ?`),
			meta.PMID, meta.DOI, meta.Title, meta.Journal, meta.Year, now, *existing)
		if err != nil {
			return uuid.Nil, fmt.Errorf("%w: update article: %v", common.ErrPersistenceFailure, err)
		}
		return id, nil
	}

	id := uuid.New()
	_, err := tx.ExecContext(ctx, s.db.rebind(
		`INSERT INTO articles (id, pmid, doi, title, journal, year, article_type, source_path, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		id.String(), meta.PMID, meta.DOI, meta.Title, meta.Journal, meta.Year,
		req.ArticleType, req.SourcePath, now, now)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: insert article: %v", common.ErrPersistenceFailure, err)
	}
	return id, nil
}

func (s *extractionStore) scanArticleID(ctx context.Context, tx *sql.Tx, query string, args ...any) *string {
	var id string
	err := tx.QueryRowContext(ctx, s.db.rebind(query), args...).Scan(&id)
	if err != nil {
		return nil
	}
	return &id
}

func (s *extractionStore) insertSpans(ctx context.Context, tx *sql.Tx, extractionID uuid.UUID, spans []evidence.Span) error {
	query := s.db.rebind(
		`INSERT INTO evidence_spans (id, extraction_id, field_path, value_json, evidence_section,
		                             evidence_page, table_figure, verbatim_excerpt, locator)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, span := range spans {
		_, err := tx.ExecContext(ctx, query,
			uuid.New().String(), extractionID.String(), span.FieldPath, span.ValueJSON,
			span.EvidenceSection, span.EvidencePage, span.TableFigure, span.VerbatimExcerpt, span.Locator)
		if err != nil {
			return fmt.Errorf("%w: insert evidence span %s: %v", common.ErrPersistenceFailure, span.FieldPath, err)
		}
	}
	return nil
}

func (s *extractionStore) insertSurvivalRows(ctx context.Context, tx *sql.Tx, extractionID uuid.UUID, rows []outcomes.SurvivalRow) error {
	query := s.db.rebind(
		`INSERT INTO outcomes_survival (id, extraction_id, endpoint, group_a, group_b,
		                                median_a_months, median_b_months, p_value, hr, hr_ci_low, hr_ci_high,
		                                evidence_section, evidence_page, table_figure, verbatim_excerpt)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, row := range rows {
		_, err := tx.ExecContext(ctx, query,
			uuid.New().String(), extractionID.String(), row.Endpoint, row.GroupA, row.GroupB,
			row.MedianAMonths, row.MedianBMonths, row.PValue, row.HR, row.HRCILow, row.HRCIHigh,
			row.EvidenceSection, row.EvidencePage, row.TableFigure, row.VerbatimExcerpt)
		if err != nil {
			return fmt.Errorf("%w: insert survival row %s/%s: %v", common.ErrPersistenceFailure, row.Endpoint, row.GroupA, err)
		}
	}
	return nil
}

// GetExtraction loads one persisted extraction row by id.
func (s *extractionStore) GetExtraction(ctx context.Context, id uuid.UUID) (*ExtractionRecord, error) {
	var (
		rec        ExtractionRecord
		idStr      string
		articleStr string
		payload    string
	)
	err := s.db.SQL.QueryRowContext(ctx, s.db.rebind(
		`SELECT id, article_id, schema_version, extractor_bundle_version, payload, created_at
		 FROM extractions WHERE id = ?`), id.String()).
		Scan(&idStr, &articleStr, &rec.SchemaVersion, &rec.ExtractorBundleVersion, &payload, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: load extraction %s: %v", common.ErrPersistenceFailure, id, err)
	}
	if rec.ID, err = uuid.Parse(idStr); err != nil {
		return nil, fmt.Errorf("%w: corrupt extraction id %q", common.ErrPersistenceFailure, idStr)
	}
	if rec.ArticleID, err = uuid.Parse(articleStr); err != nil {
		return nil, fmt.Errorf("%w: corrupt article id %q", common.ErrPersistenceFailure, articleStr)
	}
	rec.Payload = []byte(payload)
	return &rec, nil
}

// ListExtractions returns the joined article/extraction summaries matching the
// filter, newest first. EvidenceLevel and ArmCount are read out of the payload.
func (s *extractionStore) ListExtractions(ctx context.Context, filter ListFilter) ([]ExtractionSummary, error) {
	query := `SELECT e.id, e.article_id, a.pmid, a.doi, a.title, a.journal, a.year, a.article_type,
	                 e.schema_version, e.payload, e.created_at
	          FROM extractions e
	          JOIN articles a ON a.id = e.article_id`
	var (
		clauses []string
		args    []any
	)
	if filter.Year != nil {
		clauses = append(clauses, "a.year = ?")
		args = append(args, *filter.Year)
	}
	if filter.ArticleType != nil {
		clauses = append(clauses, "a.article_type = ?")
		args = append(args, *filter.ArticleType)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY e.created_at DESC"

	rows, err := s.db.SQL.QueryContext(ctx, s.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list extractions: %v", common.ErrPersistenceFailure, err)
	}
	defer rows.Close()

	var result []ExtractionSummary
	for rows.Next() {
		var (
			sum        ExtractionSummary
			idStr      string
			articleStr string
			payload    string
		)
		if err := rows.Scan(&idStr, &articleStr, &sum.PMID, &sum.DOI, &sum.Title, &sum.Journal,
			&sum.Year, &sum.ArticleType, &sum.SchemaVersion, &payload, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan extraction row: %v", common.ErrPersistenceFailure, err)
		}
		if sum.ExtractionID, err = uuid.Parse(idStr); err != nil {
			return nil, fmt.Errorf("%w: corrupt extraction id %q", common.ErrPersistenceFailure, idStr)
		}
		if sum.ArticleID, err = uuid.Parse(articleStr); err != nil {
			return nil, fmt.Errorf("%w: corrupt article id %q", common.ErrPersistenceFailure, articleStr)
		}

		var out schema.ExtractionOutput
		if err := json.Unmarshal([]byte(payload), &out); err != nil {
			// A corrupt payload is surfaced in the log but does not sink the
			// whole listing; the summary keeps its zero values.
			s.logger.Warn("corrupt extraction payload",
				"extraction_id", sum.ExtractionID, "error", err)
		} else {
			sum.EvidenceLevel = string(out.EvidenceLevel)
			sum.ArmCount = len(out.Experiments)
		}
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate extractions: %v", common.ErrPersistenceFailure, err)
	}
	return result, nil
}
