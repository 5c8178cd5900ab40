package pubmed_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oncostruct/bclc-extractor/constants"
	"github.com/oncostruct/bclc-extractor/internal/pubmed"
)

func TestInferEvidenceLevel(t *testing.T) {
	tests := []struct {
		name     string
		pubTypes []string
		want     constants.EvidenceLevel
		ok       bool
	}{
		{
			name:     "RCT is high",
			pubTypes: []string{"Journal Article", "Randomized Controlled Trial"},
			want:     constants.EvidenceHigh,
			ok:       true,
		},
		{
			name:     "meta-analysis is high",
			pubTypes: []string{"Meta-Analysis"},
			want:     constants.EvidenceHigh,
			ok:       true,
		},
		{
			name:     "phase II is moderate",
			pubTypes: []string{"Journal Article", "Phase II"},
			want:     constants.EvidenceModerate,
			ok:       true,
		},
		{
			name:     "high wins over moderate",
			pubTypes: []string{"Controlled Clinical Trial", "Phase III"},
			want:     constants.EvidenceHigh,
			ok:       true,
		},
		{
			name:     "plain journal article is filtered out",
			pubTypes: []string{"Journal Article", "Review"},
			ok:       false,
		},
		{
			name:     "empty list is filtered out",
			pubTypes: nil,
			ok:       false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := pubmed.InferEvidenceLevel(tt.pubTypes)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMatchedPubTypes(t *testing.T) {
	got := pubmed.MatchedPubTypes([]string{
		"Journal Article",
		"Phase III",
		"Randomized Controlled Trial",
		"Phase III", // duplicate
		"Review",
	})
	assert.Equal(t, []string{"Phase III", "Randomized Controlled Trial"}, got)

	assert.Empty(t, pubmed.MatchedPubTypes([]string{"Journal Article"}))
}

func TestDefaultQueryShape(t *testing.T) {
	assert.Contains(t, pubmed.DefaultQuery, `"Carcinoma, Hepatocellular"[MeSH Terms]`)
	assert.Contains(t, pubmed.DefaultQuery, `"Randomized Controlled Trial"[Publication Type]`)
	assert.Contains(t, pubmed.DefaultQuery, "humans[MeSH Terms]")
}
