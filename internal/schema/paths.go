package schema

import "sort"

// ExperimentsPrefix marks paths under the repeated experiments sequence.
// Consumers expand the placeholder per experiment index at recording time.
const ExperimentsPrefix = "experiments[]"

// FieldPaths returns the ordered leaf field paths declared by the schema,
// walked from the descriptor so the path set can never drift from what
// validation accepts. Arrays of strings and arrays of records count as one
// leaf each; the experiments sequence is the only one whose element shape is
// walked into, using the "experiments[]" placeholder.
func FieldPaths() []string {
	root := BuildExtractionJSONSchema()
	var paths []string
	walkPaths(root, "", &paths)
	return paths
}

func walkPaths(node map[string]any, prefix string, out *[]string) {
	props, ok := node["properties"].(map[string]any)
	if !ok {
		// object with no declared property set (free-form bag): a leaf
		*out = append(*out, prefix)
		return
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		child, _ := props[k].(map[string]any)
		switch child["type"] {
		case "object":
			walkPaths(child, path, out)
		case "array":
			// Only the experiments sequence is walked into; other arrays are
			// recorded whole (their JSON copy becomes the span value).
			if path == "experiments" {
				items, _ := child["items"].(map[string]any)
				walkPaths(items, ExperimentsPrefix, out)
			} else {
				*out = append(*out, path)
			}
		default:
			*out = append(*out, path)
		}
	}
}
