package astfmt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"
)

const schemaURL = "schema://crabstar-document.json"

// documentSchema describes Document. Keep it in sync with the struct tags.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "crabstar parse document",
  "type": "object",
  "required": ["format", "declarations", "diagnostics"],
  "additionalProperties": false,
  "properties": {
    "format": {"type": "string", "format": "semver"},
    "filename": {"type": "string"},
    "declarations": {
      "type": "array",
      "items": {"$ref": "#/$defs/declaration"}
    },
    "diagnostics": {
      "type": "array",
      "items": {"$ref": "#/$defs/diagnostic"}
    },
    "digest": {"type": "string", "pattern": "^blake2b:[0-9a-f]{64}$"}
  },
  "$defs": {
    "declaration": {
      "allOf": [{"$ref": "#/$defs/record"}],
      "properties": {"kind": {"const": "let"}}
    },
    "record": {
      "type": "object",
      "required": ["kind"],
      "additionalProperties": false,
      "properties": {
        "kind": {"enum": ["dummy", "int", "float", "bool", "ident", "unary", "binary", "block", "let", "call", "if"]},
        "name": {"type": "string"},
        "op": {"enum": ["not", "-", "+", "*", "/", "%", "=", "!=", "<", "<=", ">", ">=", "and", "or"]},
        "int": {"type": "integer", "minimum": 0},
        "float": {"type": "number"},
        "bool": {"type": "boolean"},
        "has_params": {"type": "boolean"},
        "params": {"type": "array", "items": {"$ref": "#/$defs/record"}},
        "children": {"type": "array", "items": {"$ref": "#/$defs/record"}}
      }
    },
    "diagnostic": {
      "type": "object",
      "required": ["severity", "line", "column", "offset", "end_line", "end_column", "end_offset", "message"],
      "additionalProperties": false,
      "properties": {
        "severity": {"enum": ["error", "warning"]},
        "line": {"type": "integer", "minimum": 1},
        "column": {"type": "integer", "minimum": 1},
        "offset": {"type": "integer", "minimum": 0},
        "end_line": {"type": "integer", "minimum": 1},
        "end_column": {"type": "integer", "minimum": 1},
        "end_offset": {"type": "integer", "minimum": 0},
        "message": {"type": "string"},
        "context": {"type": "string"},
        "labels": {"type": "array", "items": {"type": "string"}},
        "expected": {"type": "array", "items": {"type": "string"}},
        "got": {"type": "string"},
        "suggestion": {"type": "string"}
      }
    }
  }
}
`

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

// Schema returns the JSON Schema (Draft 2020-12) for documents.
func Schema() []byte {
	return []byte(documentSchema)
}

// ValidateJSON checks a serialized document against the schema.
func ValidateJSON(data []byte) error {
	schema, err := compiled()
	if err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("document does not match schema: %w", err)
	}
	return nil
}

func compiled() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true
		if compiler.Formats == nil {
			compiler.Formats = make(map[string]func(interface{}) bool)
		}
		compiler.Formats["semver"] = isSemver

		if err := compiler.AddResource(schemaURL, strings.NewReader(documentSchema)); err != nil {
			compileErr = fmt.Errorf("failed to load document schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// isSemver accepts versions with or without the "v" prefix.
func isSemver(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return true // Type validation happens separately
	}
	if !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	return semver.IsValid(s)
}
