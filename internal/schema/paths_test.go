package schema_test

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oncostruct/bclc-extractor/internal/schema"
)

func TestFieldPathsCoverDeclaredLeaves(t *testing.T) {
	paths := schema.FieldPaths()
	require.NotEmpty(t, paths)

	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		_, dup := set[p]
		require.Falsef(t, dup, "duplicate path %q", p)
		set[p] = struct{}{}
	}

	for _, want := range []string{
		"evidence_level",
		"study_metadata.pmid",
		"study_metadata.arms",
		"experiments[].arm_name",
		"experiments[].treatment.category",
		"experiments[].bclc_baseline.tumor_burden.vascular_invasion",
		"experiments[].bclc_baseline.child_pugh.class_letter",
		"experiments[].bclc_baseline.performance_status.ecog",
		"experiments[].bclc_stage_reported",
		"experiments[].bclc_2025_cuse.mentioned",
		"experiments[].results.os.value",
		"experiments[].results.os.hr_ci",
		"experiments[].results.ttp.evidence_page",
		"experiments[].results.other",
		"experiments[].safety.grade_3_4_events",
	} {
		assert.Containsf(t, set, want, "missing declared leaf %q", want)
	}
}

func TestFieldPathsShapeInvariants(t *testing.T) {
	paths := schema.FieldPaths()

	for _, p := range paths {
		// The experiments sequence is the only walked-into array; everything
		// under it uses the placeholder, never a concrete index.
		if strings.HasPrefix(p, "experiments") {
			assert.Truef(t, strings.HasPrefix(p, schema.ExperimentsPrefix+"."),
				"experiment path %q must use the %s placeholder", p, schema.ExperimentsPrefix)
		}
		// Leaves only: no path may be a strict prefix of another.
		for _, q := range paths {
			if p != q {
				assert.Falsef(t, strings.HasPrefix(q, p+"."), "%q is an interior node of %q", p, q)
			}
		}
	}
}

func TestFieldPathsStableOrder(t *testing.T) {
	first := schema.FieldPaths()
	second := schema.FieldPaths()
	require.Equal(t, first, second)

	// Sibling keys are emitted sorted at every level.
	var top []string
	seen := map[string]struct{}{}
	for _, p := range first {
		head := strings.SplitN(p, ".", 2)[0]
		if _, ok := seen[head]; !ok {
			seen[head] = struct{}{}
			top = append(top, head)
		}
	}
	assert.True(t, sort.StringsAreSorted(top), "top-level groups out of order: %v", top)
}
