package export_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/oncostruct/bclc-extractor/constants"
	"github.com/oncostruct/bclc-extractor/internal/export"
	"github.com/oncostruct/bclc-extractor/internal/repository"
	"github.com/oncostruct/bclc-extractor/internal/schema"
)

func strp(s string) *string { return &s }

func intp(n int) *int { return &n }

func seedStore(t *testing.T) repository.ExtractionStore {
	t.Helper()
	dsn := "sqlite:" + filepath.Join(t.TempDir(), "export.db")
	db, err := repository.Open(context.Background(), repository.Config{DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })
	require.NoError(t, db.InitSchema(context.Background()))

	store := repository.NewExtractionStore(db, nil)
	out := &schema.ExtractionOutput{
		StudyMetadata: schema.StudyMetadata{
			PMID:    strp("12345678"),
			Title:   strp("Lenvatinib versus sorafenib in unresectable HCC"),
			Journal: strp("Journal of Mock Oncology"),
			Year:    intp(2023),
		},
		Experiments: []schema.ExperimentArm{
			{ArmName: strp("Lenvatinib")},
			{ArmName: strp("Sorafenib")},
		},
		EvidenceLevel: constants.EvidenceHigh,
	}
	_, err = store.SaveExtraction(context.Background(), &repository.SaveRequest{
		Output:        out,
		ArticleType:   "rct",
		SourcePath:    "/articles/lenvatinib.pdf",
		SchemaVersion: constants.SchemaVersion,
		BundleVersion: constants.BundleVersion,
	})
	require.NoError(t, err)
	return store
}

func TestExportExtractionsXLSX(t *testing.T) {
	svc := export.NewService(seedStore(t), nil)

	data, err := svc.ExportExtractionsXLSX(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Extractions")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one data row")

	assert.Equal(t, "Extraction ID", rows[0][0])
	assert.Equal(t, "PMID", rows[0][1])

	data1 := rows[1]
	assert.Equal(t, "12345678", data1[1])
	assert.Equal(t, "Lenvatinib versus sorafenib in unresectable HCC", data1[3])
	assert.Equal(t, "2023", data1[5])
	assert.Equal(t, "high", data1[7])
	assert.Equal(t, "2", data1[8])
}

func TestExportHonorsFilter(t *testing.T) {
	svc := export.NewService(seedStore(t), nil)

	year := 1999
	data, err := svc.ExportExtractionsXLSX(context.Background(), repository.ListFilter{Year: &year})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Extractions")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only when nothing matches")
}
