package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/oncostruct/bclc-extractor/internal/common"
)

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(BuildExtractionJSONSchema())
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("extraction.schema.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile("extraction.schema.json")
	})
	return compiled, compileErr
}

// ParseAndValidate turns a raw candidate payload into a validated
// ExtractionOutput. Construction is all-or-nothing: a candidate that is
// missing a required field, uses a wrong type, falls outside an enum, or
// carries any undeclared field fails with a schema violation and no partial
// result is returned.
func ParseAndValidate(raw []byte) (*ExtractionOutput, error) {
	var candidate any
	if err := json.Unmarshal(raw, &candidate); err != nil {
		return nil, fmt.Errorf("%w: candidate is not valid JSON: %v", common.ErrMalformedResponse, err)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(candidate); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSchemaViolation, err)
	}

	// Second gate: strict decode into the typed model. DisallowUnknownFields is
	// the allow-list check against the declared Go field set, so a drift between
	// the descriptor and the structs surfaces here instead of passing silently.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var out ExtractionOutput
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSchemaViolation, err)
	}
	return &out, nil
}
