package schema

import (
	"encoding/json"

	"github.com/oncostruct/bclc-extractor/constants"
)

// BuildExtractionJSONSchema returns the machine-readable descriptor of
// ExtractionOutput as a JSON-Schema (draft 2020-12 subset) generic map.
// It is handed to extraction backends as the output contract and used locally
// for closed-world validation: every object level sets additionalProperties
// to false, so any undeclared key anywhere in the candidate fails validation.
func BuildExtractionJSONSchema() map[string]any {
	studyMetadata := objProp(map[string]any{
		"pmid":              strProp(),
		"title":             strProp(),
		"year":              intProp(),
		"journal":           strProp(),
		"doi":               strProp(),
		"study_design":      strProp(),
		"phase":             strProp(),
		"sample_size_total": intProp(),
		"arms":              arrProp(strProp()),
		"comparator":        strProp(),
	})

	treatment := objProp(map[string]any{
		"name":            strProp(),
		"category":        enumProp("Surgical", "Locoregional", "Systemic", "Palliative", "Other"),
		"line_of_therapy": strProp(),
		"duration":        strProp(),
		"combination":     boolProp(),
		"components":      arrProp(strProp()),
	})

	tumorBurden := objProp(map[string]any{
		"nodules":             enumProp("single", "2-3", ">3", "not_reported"),
		"largest_nodule_cm":   numProp(),
		"vascular_invasion":   boolProp(),
		"extrahepatic_spread": boolProp(),
		"afp_ng_ml":           numProp(),
		"afp_gt_400":          boolProp(),
	})

	childPugh := objProp(map[string]any{
		"bilirubin_mg_dl": numProp(),
		"albumin_g_dl":    numProp(),
		"inr":             numProp(),
		"ascites":         enumProp("none", "mild_controlled", "moderate_severe"),
		"encephalopathy":  enumProp("none", "grade_1_2", "grade_3_4"),
		"class_letter":    enumProp("A", "B", "C"),
		"score":           intProp(),
	})

	performanceStatus := objProp(map[string]any{
		"ecog": map[string]any{"type": "integer", "minimum": 0, "maximum": 4},
	})

	bclcBaseline := objProp(map[string]any{
		"tumor_burden":       tumorBurden,
		"child_pugh":         childPugh,
		"performance_status": performanceStatus,
	})

	cuse := objProp(map[string]any{
		"mentioned":            boolProp(),
		"cuse_criteria":        arrProp(strProp()),
		"personalized_factors": arrProp(strProp()),
		"decision_logic":       strProp(),
	})
	// mentioned is non-optional: a bare {} must not decode into "not mentioned".
	cuse["required"] = []string{"mentioned"}

	outcomeMetric := objProp(map[string]any{
		"value":            strProp(),
		"ci":               strProp(),
		"p_value":          strProp(),
		"hr":               numProp(),
		"hr_ci":            strProp(),
		"follow_up":        strProp(),
		"evidence_section": strProp(),
		"evidence_page":    intProp(),
		"table_figure":     strProp(),
		"verbatim_excerpt": strProp(),
	})

	results := objProp(map[string]any{
		"response_criteria": strProp(),
		"os":                outcomeMetric,
		"pfs":               outcomeMetric,
		"orr":               outcomeMetric,
		"dcr":               outcomeMetric,
		"ttp":               outcomeMetric,
		// declared free-form overflow bag for endpoints the schema does not name
		"other": map[string]any{"type": "object"},
	})

	adverseEvent := objProp(map[string]any{
		"name":      strProp(),
		"grade":     strProp(),
		"frequency": strProp(),
		"notes":     strProp(),
	})

	safety := objProp(map[string]any{
		"any_adverse_events_reported":     boolProp(),
		"grade_3_4_events":                arrProp(adverseEvent),
		"saes":                            arrProp(adverseEvent),
		"discontinuation_due_to_toxicity": strProp(),
		"treatment_related_deaths":        strProp(),
		"narrative":                       strProp(),
	})

	experimentArm := objProp(map[string]any{
		"arm_name":            strProp(),
		"treatment":           treatment,
		"bclc_baseline":       bclcBaseline,
		"bclc_stage_reported": enumProp("0", "A", "B", "C", "D"),
		"bclc_2025_cuse":      cuse,
		"results":             results,
		"safety":              safety,
	})

	root := objProp(map[string]any{
		"study_metadata": studyMetadata,
		"experiments":    arrProp(experimentArm),
		"evidence_level": enumProp(constants.EvidenceLevels()...),
	})
	root["required"] = []string{"study_metadata", "experiments", "evidence_level"}
	return root
}

// SchemaJSON returns the descriptor serialized for embedding in prompts.
func SchemaJSON() []byte {
	b, _ := json.MarshalIndent(BuildExtractionJSONSchema(), "", "  ")
	return b
}

func strProp() map[string]any {
	return map[string]any{"type": "string"}
}

func numProp() map[string]any {
	return map[string]any{"type": "number"}
}

func intProp() map[string]any {
	return map[string]any{"type": "integer"}
}

func boolProp() map[string]any {
	return map[string]any{"type": "boolean"}
}

func enumProp(values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values}
}

func arrProp(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func objProp(props map[string]any) map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}
