package llm

import (
	"context"
	"fmt"
)

// mockCandidateJSON is the fixed candidate payload the mock backend returns
// for every input: a phase III lenvatinib-vs-sorafenib trial. It exists so the
// whole pipeline can run reproducibly with no network and is the anchor for
// the golden-output tests.
const mockCandidateJSON = `{
  "study_metadata": {
    "pmid": "12345678",
    "title": "Mock Study: Lenvatinib vs. Sorafenib for HCC",
    "year": 2023,
    "journal": "Journal of Mock Oncology",
    "doi": "10.1000/jmo.2023.001",
    "study_design": "RCT",
    "phase": "Phase III",
    "sample_size_total": 954,
    "arms": ["Lenvatinib", "Sorafenib"],
    "comparator": "Sorafenib"
  },
  "experiments": [
    {
      "arm_name": "Lenvatinib",
      "treatment": {
        "name": "Lenvatinib",
        "category": "Systemic",
        "line_of_therapy": "first-line",
        "duration": "Until progression or unacceptable toxicity",
        "combination": false
      },
      "bclc_baseline": {
        "tumor_burden": {
          "nodules": ">3",
          "vascular_invasion": true,
          "extrahepatic_spread": true
        },
        "child_pugh": {
          "class_letter": "A",
          "score": 5
        },
        "performance_status": {
          "ecog": 1
        }
      },
      "bclc_stage_reported": "C",
      "bclc_2025_cuse": {
        "mentioned": false
      },
      "results": {
        "response_criteria": "mRECIST",
        "os": {
          "value": "13.6 months",
          "hr": 0.92,
          "hr_ci": "0.79-1.06",
          "evidence_section": "Results - Survival Analysis",
          "evidence_page": 6,
          "table_figure": "Table 2",
          "verbatim_excerpt": "Median overall survival was 13.6 months (95% CI, 12.1-14.9) in the lenvatinib arm."
        },
        "pfs": {
          "value": "7.4 months",
          "p_value": "p<0.001",
          "evidence_section": "Results - Survival Analysis",
          "evidence_page": 6,
          "table_figure": "Table 2"
        },
        "orr": {
          "value": "24.1%"
        },
        "dcr": {},
        "ttp": {}
      },
      "safety": {
        "any_adverse_events_reported": true,
        "grade_3_4_events": [
          {"name": "Hypertension", "frequency": "42%"},
          {"name": "Diarrhea", "frequency": "8%"}
        ]
      }
    }
  ],
  "evidence_level": "high"
}`

// mockHints is the fixed evidence-hint set accompanying mockCandidateJSON.
// Deliberately partial: most field paths carry no hint so the recorder's
// null-locator behavior is exercised on every run.
var mockHints = []Hint{
	{FieldPath: "study_metadata.title", Section: "Title page", Page: 1, Excerpt: "Mock Study: Lenvatinib vs. Sorafenib for HCC"},
	{FieldPath: "evidence_level", Section: "Methods - Study Design", Page: 3, Locator: "study design statement"},
	{FieldPath: "experiments[0].results.os.value", Section: "Results - Survival Analysis", Page: 6, TableFigure: "Table 2", Excerpt: "Median overall survival was 13.6 months (95% CI, 12.1-14.9) in the lenvatinib arm."},
	{FieldPath: "experiments[0].results.pfs.value", Section: "Results - Survival Analysis", Page: 6, TableFigure: "Table 2", Excerpt: "Median progression-free survival was 7.4 months (p<0.001)."},
	{FieldPath: "experiments[0].safety.grade_3_4_events", Section: "Results - Safety", Page: 8, TableFigure: "Table 4"},
}

// MockBackend is the deterministic Backend used for reproducible runs and
// tests. It performs no I/O and returns the same candidate for every input.
type MockBackend struct {
	// Calls counts Extract invocations; tests assert on it to prove the
	// orchestrator short-circuits before the backend on unreadable sources.
	Calls int
}

// NewMockBackend returns a fresh mock with a zero call counter.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Extract implements Backend. The article text must be non-empty, matching the
// adapter contract; content is otherwise ignored.
func (m *MockBackend) Extract(_ context.Context, req Request) (Candidate, error) {
	m.Calls++
	if req.ArticleText == "" {
		return Candidate{}, fmt.Errorf("mock backend: empty article text")
	}
	hints := make([]Hint, len(mockHints))
	copy(hints, mockHints)
	return Candidate{
		RawJSON: []byte(mockCandidateJSON),
		Hints:   hints,
	}, nil
}
