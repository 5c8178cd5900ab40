// Package evidence binds every declared schema field of a validated extraction
// to its source locator, producing one provenance span per field per run.
package evidence

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/oncostruct/bclc-extractor/internal/llm"
	"github.com/oncostruct/bclc-extractor/internal/schema"
)

// Span is an immutable provenance record: one schema field path, a JSON copy
// of its extracted value, and the locator metadata tying it back to the
// article. A span with all locator fields nil means "extracted but unlocated",
// which downstream consumers can distinguish from "not extracted".
type Span struct {
	FieldPath       string  `json:"field_path"`
	ValueJSON       string  `json:"value_json"`
	EvidenceSection *string `json:"evidence_section,omitempty"`
	EvidencePage    *int    `json:"evidence_page,omitempty"`
	TableFigure     *string `json:"table_figure,omitempty"`
	VerbatimExcerpt *string `json:"verbatim_excerpt,omitempty"`
	Locator         *string `json:"locator,omitempty"`
}

// Located reports whether the span carries any locator component.
func (s Span) Located() bool {
	return s.EvidenceSection != nil || s.EvidencePage != nil || s.TableFigure != nil ||
		s.VerbatimExcerpt != nil || s.Locator != nil
}

// Record walks the declared field paths of the schema model (never arbitrary
// data, so provenance cannot drift from what validation accepts) and produces
// exactly one span per leaf path. The experiments placeholder expands to one
// concrete path per experiment record; fields without a backend hint get a
// null locator. Pure function: no I/O, input untouched.
func Record(out *schema.ExtractionOutput, hints []llm.Hint) ([]Span, error) {
	canonical, err := out.CanonicalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(canonical, &doc); err != nil {
		return nil, fmt.Errorf("decode output: %w", err)
	}

	byPath := make(map[string]llm.Hint, len(hints))
	for _, h := range hints {
		byPath[h.FieldPath] = h
	}

	var spans []Span
	for _, path := range schema.FieldPaths() {
		if strings.HasPrefix(path, schema.ExperimentsPrefix) {
			for i := range out.Experiments {
				concrete := strings.Replace(path, schema.ExperimentsPrefix,
					"experiments["+strconv.Itoa(i)+"]", 1)
				spans = append(spans, makeSpan(doc, concrete, byPath))
			}
			continue
		}
		spans = append(spans, makeSpan(doc, path, byPath))
	}
	return spans, nil
}

func makeSpan(doc map[string]any, path string, byPath map[string]llm.Hint) Span {
	value, _ := resolvePath(doc, path)
	valueJSON, err := json.Marshal(value)
	if err != nil {
		valueJSON = []byte("null")
	}

	s := Span{FieldPath: path, ValueJSON: string(valueJSON)}
	if h, ok := byPath[path]; ok {
		s.EvidenceSection = optStr(h.Section)
		s.EvidencePage = optInt(h.Page)
		s.TableFigure = optStr(h.TableFigure)
		s.VerbatimExcerpt = optStr(h.Excerpt)
		s.Locator = optStr(h.Locator)
	}
	return s
}

// resolvePath walks a dotted path with zero-based index segments like
// "experiments[0].results.os.value". Missing segments resolve to nil.
func resolvePath(doc any, path string) (any, bool) {
	current := doc
	for _, seg := range strings.Split(path, ".") {
		name, idx, indexed := splitIndex(seg)

		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[name]
		if !ok {
			return nil, false
		}

		if indexed {
			arr, ok := current.([]any)
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

func splitIndex(seg string) (name string, idx int, indexed bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 || !strings.HasSuffix(seg, "]") {
		return seg, 0, false
	}
	n, err := strconv.Atoi(seg[open+1 : len(seg)-1])
	if err != nil {
		return seg, 0, false
	}
	return seg[:open], n, true
}

func optStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
