package repository

import (
	"context"
	"fmt"
)

// ddlStatements returns the schema DDL for the dialect. The payload column is
// JSONB on Postgres (with a GIN index for ad-hoc querying) and plain TEXT on
// SQLite; everything else is shared.
func ddlStatements(dialect Dialect) []string {
	payloadType := "TEXT"
	if dialect == DialectPostgres {
		payloadType = "JSONB"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id           TEXT PRIMARY KEY,
			pmid         TEXT UNIQUE,
			doi          TEXT UNIQUE,
			title        TEXT,
			journal      TEXT,
			year         INTEGER,
			article_type TEXT,
			source_path  TEXT,
			created_at   TEXT NOT NULL,
			updated_at   TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_year ON articles (year)`,
		`CREATE INDEX IF NOT EXISTS idx_articles_type ON articles (article_type)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS extractions (
			id                       TEXT PRIMARY KEY,
			article_id               TEXT NOT NULL REFERENCES articles(id),
			schema_version           TEXT NOT NULL,
			extractor_bundle_version TEXT NOT NULL,
			payload                  %s NOT NULL,
			created_at               TEXT NOT NULL
		)`, payloadType),
		`CREATE INDEX IF NOT EXISTS idx_extractions_article ON extractions (article_id)`,

		`CREATE TABLE IF NOT EXISTS evidence_spans (
			id               TEXT PRIMARY KEY,
			extraction_id    TEXT NOT NULL REFERENCES extractions(id),
			field_path       TEXT NOT NULL,
			value_json       TEXT NOT NULL,
			evidence_section TEXT,
			evidence_page    INTEGER,
			table_figure     TEXT,
			verbatim_excerpt TEXT,
			locator          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_spans_extraction ON evidence_spans (extraction_id)`,
		`CREATE INDEX IF NOT EXISTS idx_spans_field_path ON evidence_spans (field_path)`,

		`CREATE TABLE IF NOT EXISTS outcomes_survival (
			id               TEXT PRIMARY KEY,
			extraction_id    TEXT NOT NULL REFERENCES extractions(id),
			endpoint         TEXT NOT NULL,
			group_a          TEXT NOT NULL,
			group_b          TEXT,
			median_a_months  REAL NOT NULL,
			median_b_months  REAL,
			p_value          REAL,
			hr               REAL,
			hr_ci_low        REAL,
			hr_ci_high       REAL,
			evidence_section TEXT,
			evidence_page    INTEGER,
			table_figure     TEXT,
			verbatim_excerpt TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_outcomes_extraction ON outcomes_survival (extraction_id)`,
	}

	if dialect == DialectPostgres {
		stmts = append(stmts,
			`CREATE INDEX IF NOT EXISTS idx_extractions_payload ON extractions USING GIN (payload)`)
	}
	return stmts
}

// InitSchema creates the tables and indexes if they do not exist.
func (d *DB) InitSchema(ctx context.Context) error {
	for _, stmt := range ddlStatements(d.Dialect) {
		if _, err := d.SQL.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
