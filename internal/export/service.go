package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/oncostruct/bclc-extractor/internal/repository"
)

// Service is a tiny façade over the store that produces XLSX bytes for exports.
type Service struct {
	store  repository.ExtractionStore
	logger *slog.Logger
}

func NewService(store repository.ExtractionStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// ExportExtractionsXLSX returns an XLSX workbook (as bytes) with one row per
// stored extraction matching the filter, newest first.
func (s *Service) ExportExtractionsXLSX(ctx context.Context, filter repository.ListFilter) ([]byte, error) {
	start := time.Now()

	recs, err := s.store.ListExtractions(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("query extractions: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Extractions"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Extraction ID",
		"PMID",
		"DOI",
		"Title",
		"Journal",
		"Year",
		"Article Type",
		"Evidence Level",
		"Arms",
		"Schema Version",
		"Created At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range recs {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.ExtractionID.String())
		write(2, strOrEmpty(r.PMID))
		write(3, strOrEmpty(r.DOI))
		write(4, truncate(strOrEmpty(r.Title), 140))
		write(5, strOrEmpty(r.Journal))
		if r.Year != nil {
			write(6, *r.Year)
		} else {
			write(6, "")
		}
		write(7, strOrEmpty(r.ArticleType))
		write(8, r.EvidenceLevel)
		write(9, r.ArmCount)
		write(10, r.SchemaVersion)
		write(11, r.CreatedAt)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 38) // extraction id
	_ = f.SetColWidth(sheet, "B", "C", 14) // pmid / doi
	_ = f.SetColWidth(sheet, "D", "D", 60) // title
	_ = f.SetColWidth(sheet, "E", "E", 28) // journal
	_ = f.SetColWidth(sheet, "F", "I", 12)
	_ = f.SetColWidth(sheet, "J", "K", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
