package schema

import (
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const shapeURL = "https://src.mcfn.dev/schema/commands.json"

// JSON schema describing the accepted documents. Argument nodes must name
// their parser, other nodes must not carry one.
const shapeJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$ref": "#/$defs/node",
  "$defs": {
    "node": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": ["root", "literal", "argument"]},
        "executable": {"type": "boolean"},
        "parser": {"type": "string", "minLength": 1},
        "properties": {"type": "object"},
        "redirect": {"type": "array", "items": {"type": "string"}},
        "children": {
          "type": "object",
          "additionalProperties": {"$ref": "#/$defs/node"}
        }
      },
      "if": {"properties": {"type": {"const": "argument"}}},
      "then": {"required": ["parser"]},
      "else": {"not": {"required": ["parser"]}}
    }
  }
}`

var shape = jsonschema.MustCompileString(shapeURL, shapeJSON)

func validateShape(doc *yaml.Node) error {
	var v any
	if err := doc.Decode(&v); err != nil {
		return err
	}
	if err := shape.Validate(v); err != nil {
		if ve, ok := err.(*jsonschema.ValidationError); ok {
			// Report the innermost cause, which points at the offending node.
			for len(ve.Causes) > 0 {
				ve = ve.Causes[0]
			}
			return fmt.Errorf("bad document shape at %q: %s", ve.InstanceLocation, ve.Message)
		}
		return err
	}
	return nil
}
