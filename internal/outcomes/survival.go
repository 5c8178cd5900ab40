// Package outcomes derives comparative survival rows from a validated
// extraction, normalizing the string-preserving outcome metrics into numeric
// columns suitable for ad-hoc querying.
package outcomes

import (
	"strconv"
	"strings"

	"github.com/oncostruct/bclc-extractor/internal/schema"
)

// SurvivalRow is one comparative endpoint measurement: an experimental arm
// (group A) against the study comparator (group B), with whatever numeric
// values could be recovered from the reported strings.
type SurvivalRow struct {
	Endpoint      string // OS | PFS | TTP
	GroupA        string
	GroupB        *string
	MedianAMonths float64
	MedianBMonths *float64
	PValue        *float64
	HR            *float64
	HRCILow       *float64
	HRCIHigh      *float64

	EvidenceSection *string
	EvidencePage    *int
	TableFigure     *string
	VerbatimExcerpt *string
}

// ParseLeadingNumber recovers the leading numeric value from a reported
// metric string such as "13.6 months".
func ParseLeadingNumber(value string) (float64, bool) {
	fields := strings.Fields(strings.TrimSpace(value))
	if len(fields) == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParsePValue recovers the numeric part of a p-value string like "p<0.001"
// or "P = 0.03".
func ParsePValue(p string) (float64, bool) {
	s := strings.ToLower(strings.TrimSpace(p))
	s = strings.NewReplacer("p", "", "<", "", "=", "", " ", "").Replace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseCIBounds splits a confidence-interval string like "0.79-1.06" into its
// bounds.
func ParseCIBounds(ci string) (low, high float64, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(ci), "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	hi, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// DeriveSurvivalRows builds comparative OS/PFS/TTP rows for every
// non-comparator arm. The comparator arm is matched by name against
// study_metadata.comparator; endpoints with no parseable median are skipped
// rather than stored as empty rows.
func DeriveSurvivalRows(out *schema.ExtractionOutput) []SurvivalRow {
	comparatorName := out.StudyMetadata.Comparator
	var comparatorArm *schema.ExperimentArm
	if comparatorName != nil {
		for i := range out.Experiments {
			arm := &out.Experiments[i]
			if arm.ArmName != nil && *arm.ArmName == *comparatorName {
				comparatorArm = arm
				break
			}
		}
	}

	var rows []SurvivalRow
	for i := range out.Experiments {
		arm := &out.Experiments[i]
		if comparatorName != nil && arm.ArmName != nil && *arm.ArmName == *comparatorName {
			continue
		}

		groupA := "N/A"
		if arm.ArmName != nil {
			groupA = *arm.ArmName
		}

		for _, ep := range []struct {
			name    string
			metricA *schema.OutcomeMetric
		}{
			{"OS", &arm.Results.OS},
			{"PFS", &arm.Results.PFS},
			{"TTP", &arm.Results.TTP},
		} {
			if ep.metricA.Value == nil {
				continue
			}
			medianA, ok := ParseLeadingNumber(*ep.metricA.Value)
			if !ok {
				continue
			}

			row := SurvivalRow{
				Endpoint:        ep.name,
				GroupA:          groupA,
				GroupB:          comparatorName,
				MedianAMonths:   medianA,
				HR:              ep.metricA.HR,
				EvidenceSection: ep.metricA.EvidenceSection,
				EvidencePage:    ep.metricA.EvidencePage,
				TableFigure:     ep.metricA.TableFigure,
				VerbatimExcerpt: ep.metricA.VerbatimExcerpt,
			}

			if ep.metricA.PValue != nil {
				if p, ok := ParsePValue(*ep.metricA.PValue); ok {
					row.PValue = &p
				}
			}
			if ep.metricA.HRCI != nil {
				if lo, hi, ok := ParseCIBounds(*ep.metricA.HRCI); ok {
					row.HRCILow = &lo
					row.HRCIHigh = &hi
				}
			}
			if comparatorArm != nil {
				if metricB := comparatorMetric(comparatorArm, ep.name); metricB != nil && metricB.Value != nil {
					if medianB, ok := ParseLeadingNumber(*metricB.Value); ok {
						row.MedianBMonths = &medianB
					}
				}
			}

			rows = append(rows, row)
		}
	}
	return rows
}

func comparatorMetric(arm *schema.ExperimentArm, endpoint string) *schema.OutcomeMetric {
	switch endpoint {
	case "OS":
		return &arm.Results.OS
	case "PFS":
		return &arm.Results.PFS
	case "TTP":
		return &arm.Results.TTP
	default:
		return nil
	}
}
