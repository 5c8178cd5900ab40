// Package schema declares the canonical, versioned shape of extracted clinical
// data and enforces it strictly. Validation is closed-world: a candidate payload
// carrying any field not declared here is rejected outright.
package schema

import (
	"encoding/json"

	"github.com/oncostruct/bclc-extractor/constants"
)

// StudyMetadata mirrors the identifying article fields captured at extraction
// time. All fields are optional; extraction is point-in-time and may not find
// every identifier in the text.
type StudyMetadata struct {
	PMID            *string  `json:"pmid,omitempty"`
	Title           *string  `json:"title,omitempty"`
	Year            *int     `json:"year,omitempty"`
	Journal         *string  `json:"journal,omitempty"`
	DOI             *string  `json:"doi,omitempty"`
	StudyDesign     *string  `json:"study_design,omitempty"` // RCT, Phase II, Observational, ...
	Phase           *string  `json:"phase,omitempty"`
	SampleSizeTotal *int     `json:"sample_size_total,omitempty"`
	Arms            []string `json:"arms,omitempty"`
	Comparator      *string  `json:"comparator,omitempty"`
}

// Treatment describes one arm's intervention.
type Treatment struct {
	Name          *string  `json:"name,omitempty"`
	Category      *string  `json:"category,omitempty"` // Surgical | Locoregional | Systemic | Palliative | Other
	LineOfTherapy *string  `json:"line_of_therapy,omitempty"`
	Duration      *string  `json:"duration,omitempty"`
	Combination   *bool    `json:"combination,omitempty"`
	Components    []string `json:"components,omitempty"`
}

// TumorBurden carries the BCLC tumor-burden axis.
type TumorBurden struct {
	Nodules            *string  `json:"nodules,omitempty"` // single | 2-3 | >3 | not_reported
	LargestNoduleCM    *float64 `json:"largest_nodule_cm,omitempty"`
	VascularInvasion   *bool    `json:"vascular_invasion,omitempty"`
	ExtrahepaticSpread *bool    `json:"extrahepatic_spread,omitempty"`
	AFPNgML            *float64 `json:"afp_ng_ml,omitempty"`
	AFPGreater400      *bool    `json:"afp_gt_400,omitempty"`
}

// ChildPugh carries the liver-function axis.
type ChildPugh struct {
	BilirubinMgDL  *float64 `json:"bilirubin_mg_dl,omitempty"`
	AlbuminGdL     *float64 `json:"albumin_g_dl,omitempty"`
	INR            *float64 `json:"inr,omitempty"`
	Ascites        *string  `json:"ascites,omitempty"`        // none | mild_controlled | moderate_severe
	Encephalopathy *string  `json:"encephalopathy,omitempty"` // none | grade_1_2 | grade_3_4
	ClassLetter    *string  `json:"class_letter,omitempty"`   // A | B | C
	Score          *int     `json:"score,omitempty"`
}

// PerformanceStatus carries the patient-status axis.
type PerformanceStatus struct {
	ECOG *int `json:"ecog,omitempty"` // 0..4
}

// BCLCBaseline groups the three BCLC staging axes reported for an arm.
type BCLCBaseline struct {
	TumorBurden       TumorBurden       `json:"tumor_burden"`
	ChildPugh         ChildPugh         `json:"child_pugh"`
	PerformanceStatus PerformanceStatus `json:"performance_status"`
}

// BCLC2025CUSE captures whether the article engages the 2025 BCLC
// clinical-decision update (CUSE) and, if so, on what terms.
type BCLC2025CUSE struct {
	Mentioned           bool     `json:"mentioned"`
	CUSECriteria        []string `json:"cuse_criteria,omitempty"`
	PersonalizedFactors []string `json:"personalized_factors,omitempty"`
	DecisionLogic       *string  `json:"decision_logic,omitempty"`
}

// OutcomeMetric is one reported endpoint measure. Values stay as strings to
// preserve units and formatting exactly as published ("13.6 months", "p<0.001").
// The evidence_* fields are the inline locator the backend reports for the metric.
type OutcomeMetric struct {
	Value    *string  `json:"value,omitempty"`
	CI       *string  `json:"ci,omitempty"`
	PValue   *string  `json:"p_value,omitempty"`
	HR       *float64 `json:"hr,omitempty"`
	HRCI     *string  `json:"hr_ci,omitempty"`
	FollowUp *string  `json:"follow_up,omitempty"`

	EvidenceSection *string `json:"evidence_section,omitempty"`
	EvidencePage    *int    `json:"evidence_page,omitempty"`
	TableFigure     *string `json:"table_figure,omitempty"`
	VerbatimExcerpt *string `json:"verbatim_excerpt,omitempty"`
}

// Results groups the survival and response endpoints for an arm.
type Results struct {
	ResponseCriteria *string        `json:"response_criteria,omitempty"` // RECIST / mRECIST
	OS               OutcomeMetric  `json:"os"`
	PFS              OutcomeMetric  `json:"pfs"`
	ORR              OutcomeMetric  `json:"orr"`
	DCR              OutcomeMetric  `json:"dcr"`
	TTP              OutcomeMetric  `json:"ttp"`
	Other            map[string]any `json:"other,omitempty"`
}

// AdverseEvent is one reported toxicity.
type AdverseEvent struct {
	Name      *string `json:"name,omitempty"`
	Grade     *string `json:"grade,omitempty"`
	Frequency *string `json:"frequency,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// Safety groups an arm's toxicity reporting.
type Safety struct {
	AnyAdverseEventsReported     *bool          `json:"any_adverse_events_reported,omitempty"`
	Grade34Events                []AdverseEvent `json:"grade_3_4_events,omitempty"`
	SAEs                         []AdverseEvent `json:"saes,omitempty"`
	DiscontinuationDueToToxicity *string        `json:"discontinuation_due_to_toxicity,omitempty"`
	TreatmentRelatedDeaths       *string        `json:"treatment_related_deaths,omitempty"`
	Narrative                    *string        `json:"narrative,omitempty"`
}

// ExperimentArm is one treatment arm or experimental cohort.
type ExperimentArm struct {
	ArmName           *string      `json:"arm_name,omitempty"`
	Treatment         Treatment    `json:"treatment"`
	BCLCBaseline      BCLCBaseline `json:"bclc_baseline"`
	BCLCStageReported *string      `json:"bclc_stage_reported,omitempty"` // 0 | A | B | C | D
	BCLC2025CUSE      BCLC2025CUSE `json:"bclc_2025_cuse"`
	Results           Results      `json:"results"`
	Safety            Safety       `json:"safety"`
}

// ExtractionOutput is the root structured result for one article-processing run.
// Immutable once validated; corrections are new extraction runs.
type ExtractionOutput struct {
	StudyMetadata StudyMetadata           `json:"study_metadata"`
	Experiments   []ExperimentArm         `json:"experiments"`
	EvidenceLevel constants.EvidenceLevel `json:"evidence_level"`
}

// CanonicalJSON returns the wire form consumers rely on: compact JSON with keys
// in declared order. Two identical outputs always marshal to identical bytes.
func (o *ExtractionOutput) CanonicalJSON() ([]byte, error) {
	return json.Marshal(o)
}
