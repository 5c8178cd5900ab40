// Package pubmed holds the literature-search seam. The Searcher interface is a
// placeholder for an Entrez-backed client; the publication-type to evidence-level
// inference underneath it is real and used to pre-filter candidate articles.
package pubmed

import (
	"context"
	"sort"

	"github.com/oncostruct/bclc-extractor/constants"
)

// DefaultQuery is the canned HCC treatment-outcome query used when no custom
// query is supplied. It restricts to clinical-trial publication types with
// outcome and safety terms, humans, English or Spanish.
const DefaultQuery = `(("Carcinoma, Hepatocellular"[MeSH Terms] OR hepatocellular carcinoma[Title/Abstract] OR HCC[Title/Abstract]) OR ("Liver Neoplasms"[MeSH Terms] OR liver cancer[Title/Abstract] OR hepatic tumor*[Title/Abstract])) AND (treat*[Title/Abstract] OR therap*[Title/Abstract] OR drug therapy[MeSH Subheading] OR intervention*[Title/Abstract]) AND ("Clinical Trial"[Publication Type] OR "Randomized Controlled Trial"[Publication Type] OR "Controlled Clinical Trial"[Publication Type] OR "Phase I"[Publication Type] OR "Phase II"[Publication Type] OR "Phase III"[Publication Type] OR "Phase IV"[Publication Type] OR trial[Title/Abstract]) AND ("Treatment Outcome"[MeSH Terms] OR outcome*[Title/Abstract] OR response rate[Title/Abstract] OR ORR[Title/Abstract] OR "Progression-Free Survival"[MeSH Terms] OR PFS[Title/Abstract] OR "Overall Survival"[MeSH Terms] OR OS[Title/Abstract]) AND ("Drug-Related Side Effects and Adverse Reactions"[MeSH Terms] OR "adverse events"[Title/Abstract] OR AE[Title/Abstract] OR toxicity[Title/Abstract] OR safety[Title/Abstract]) AND (humans[MeSH Terms] AND (english[Language] OR spanish[Language]))`

// Summary is the filtered search result kept for downstream extraction.
type Summary struct {
	PMID             string
	Title            string
	Abstract         string
	EvidenceLevel    constants.EvidenceLevel
	MatchedPubTypes  []string
	PublicationTypes []string
}

// Searcher is the literature-search contract. No live implementation ships;
// callers inject their own Entrez-backed client or a fake.
type Searcher interface {
	Search(ctx context.Context, query string, retmax int) ([]string, error)
	Fetch(ctx context.Context, pmids []string) ([]Summary, error)
}

// Publication types that map to an evidence level. Anything outside both sets
// is filtered out entirely.
var highEvidencePubTypes = map[string]struct{}{
	"Randomized Controlled Trial": {},
	"Phase III":                   {},
	"Meta-Analysis":               {},
	"Systematic Review":           {},
}

var moderateEvidencePubTypes = map[string]struct{}{
	"Controlled Clinical Trial": {},
	"Phase II":                  {},
}

// InferEvidenceLevel maps an article's publication types to an evidence level.
// Any high-evidence type wins over moderate; ok is false when no relevant type
// appears, meaning the article should be dropped.
func InferEvidenceLevel(publicationTypes []string) (constants.EvidenceLevel, bool) {
	for _, pt := range publicationTypes {
		if _, found := highEvidencePubTypes[pt]; found {
			return constants.EvidenceHigh, true
		}
	}
	for _, pt := range publicationTypes {
		if _, found := moderateEvidencePubTypes[pt]; found {
			return constants.EvidenceModerate, true
		}
	}
	return "", false
}

// MatchedPubTypes returns the sorted subset of publicationTypes that carry
// evidence weight, deduplicated.
func MatchedPubTypes(publicationTypes []string) []string {
	seen := make(map[string]struct{}, len(publicationTypes))
	var matched []string
	for _, pt := range publicationTypes {
		if _, dup := seen[pt]; dup {
			continue
		}
		_, high := highEvidencePubTypes[pt]
		_, moderate := moderateEvidencePubTypes[pt]
		if high || moderate {
			matched = append(matched, pt)
			seen[pt] = struct{}{}
		}
	}
	sort.Strings(matched)
	return matched
}
