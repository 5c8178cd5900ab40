package evidence_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncostruct/bclc-extractor/constants"
	"github.com/oncostruct/bclc-extractor/internal/evidence"
	"github.com/oncostruct/bclc-extractor/internal/llm"
	"github.com/oncostruct/bclc-extractor/internal/schema"
)

func strp(s string) *string { return &s }

func intp(n int) *int { return &n }

func floatp(f float64) *float64 { return &f }

func sampleOutput() *schema.ExtractionOutput {
	return &schema.ExtractionOutput{
		StudyMetadata: schema.StudyMetadata{
			PMID:       strp("87654321"),
			Title:      strp("Regorafenib after sorafenib in BCLC-C HCC"),
			Year:       intp(2021),
			Arms:       []string{"Regorafenib", "Placebo"},
			Comparator: strp("Placebo"),
		},
		Experiments: []schema.ExperimentArm{
			{
				ArmName: strp("Regorafenib"),
				Treatment: schema.Treatment{
					Name:     strp("Regorafenib"),
					Category: strp("Systemic"),
				},
				Results: schema.Results{
					OS: schema.OutcomeMetric{
						Value: strp("10.6 months"),
						HR:    floatp(0.63),
					},
				},
			},
		},
		EvidenceLevel: constants.EvidenceHigh,
	}
}

func TestRecordEmitsOneSpanPerDeclaredField(t *testing.T) {
	out := sampleOutput()
	spans, err := evidence.Record(out, nil)
	require.NoError(t, err)

	// One experiment, so the placeholder expands 1:1 and the span count equals
	// the declared path count exactly.
	assert.Len(t, spans, len(schema.FieldPaths()))

	byPath := make(map[string]evidence.Span, len(spans))
	for _, s := range spans {
		_, dup := byPath[s.FieldPath]
		require.Falsef(t, dup, "duplicate span for %q", s.FieldPath)
		byPath[s.FieldPath] = s
	}
	assert.Contains(t, byPath, "study_metadata.pmid")
	assert.Contains(t, byPath, "experiments[0].results.os.value")
	assert.NotContains(t, byPath, "experiments[].results.os.value")
}

func TestRecordResolvesValuesFromCanonicalOutput(t *testing.T) {
	out := sampleOutput()
	spans, err := evidence.Record(out, nil)
	require.NoError(t, err)

	byPath := make(map[string]evidence.Span, len(spans))
	for _, s := range spans {
		byPath[s.FieldPath] = s
	}

	assert.Equal(t, `"10.6 months"`, byPath["experiments[0].results.os.value"].ValueJSON)
	assert.Equal(t, `0.63`, byPath["experiments[0].results.os.hr"].ValueJSON)
	assert.Equal(t, `"87654321"`, byPath["study_metadata.pmid"].ValueJSON)
	assert.Equal(t, `["Regorafenib","Placebo"]`, byPath["study_metadata.arms"].ValueJSON)
	assert.Equal(t, `"high"`, byPath["evidence_level"].ValueJSON)

	// Fields the extraction omitted record as JSON null, keeping the span set
	// complete for every run.
	assert.Equal(t, `null`, byPath["study_metadata.doi"].ValueJSON)
	assert.Equal(t, `null`, byPath["experiments[0].results.pfs.value"].ValueJSON)
}

func TestRecordAttachesHintsAndNullLocators(t *testing.T) {
	out := sampleOutput()
	hints := []llm.Hint{
		{
			FieldPath:   "experiments[0].results.os.value",
			Section:     "Results",
			Page:        7,
			TableFigure: "Table 3",
			Excerpt:     "Median OS was 10.6 months with regorafenib.",
		},
		{FieldPath: "evidence_level", Locator: "study design statement"},
	}

	spans, err := evidence.Record(out, hints)
	require.NoError(t, err)

	byPath := make(map[string]evidence.Span, len(spans))
	for _, s := range spans {
		byPath[s.FieldPath] = s
	}

	os := byPath["experiments[0].results.os.value"]
	require.True(t, os.Located())
	require.NotNil(t, os.EvidenceSection)
	assert.Equal(t, "Results", *os.EvidenceSection)
	require.NotNil(t, os.EvidencePage)
	assert.Equal(t, 7, *os.EvidencePage)
	require.NotNil(t, os.TableFigure)
	assert.Equal(t, "Table 3", *os.TableFigure)
	require.NotNil(t, os.VerbatimExcerpt)
	assert.Nil(t, os.Locator)

	lvl := byPath["evidence_level"]
	require.True(t, lvl.Located())
	require.NotNil(t, lvl.Locator)
	assert.Equal(t, "study design statement", *lvl.Locator)
	assert.Nil(t, lvl.EvidenceSection)

	// Unhinted fields keep the value but carry no locator at all:
	// extracted-but-unlocated, distinguishable from not-extracted.
	title := byPath["study_metadata.title"]
	assert.False(t, title.Located())
	assert.Equal(t, `"Regorafenib after sorafenib in BCLC-C HCC"`, title.ValueJSON)
}

func TestRecordExpandsPlaceholderPerExperiment(t *testing.T) {
	out := sampleOutput()
	out.Experiments = append(out.Experiments, schema.ExperimentArm{
		ArmName: strp("Placebo"),
	})

	spans, err := evidence.Record(out, nil)
	require.NoError(t, err)

	var zero, one int
	for _, s := range spans {
		switch {
		case strings.HasPrefix(s.FieldPath, "experiments[0]."):
			zero++
		case strings.HasPrefix(s.FieldPath, "experiments[1]."):
			one++
		}
	}
	require.NotZero(t, zero)
	assert.Equal(t, zero, one, "both experiments expand to the same declared path set")
}
