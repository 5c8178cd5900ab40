package constants

import "strings"

// EvidenceLevel is the whole-extraction reliability tag derived from study design.
type EvidenceLevel string

const (
	EvidenceHigh     EvidenceLevel = "high"
	EvidenceModerate EvidenceLevel = "moderate"
	EvidenceLow      EvidenceLevel = "low"
)

var allEvidenceLevels = []EvidenceLevel{
	EvidenceHigh,
	EvidenceModerate,
	EvidenceLow,
}

// EvidenceLevels returns the declared evidence-level values as strings,
// in schema order.
func EvidenceLevels() []string {
	result := make([]string, len(allEvidenceLevels))
	for i, lvl := range allEvidenceLevels {
		result[i] = string(lvl)
	}
	return result
}

// ParseEvidenceLevel canonicalizes a free-form label into an EvidenceLevel.
func ParseEvidenceLevel(input string) (EvidenceLevel, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, lvl := range allEvidenceLevels {
		if normalized == string(lvl) {
			return lvl, true
		}
	}
	return "", false
}
