package scene

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Schema returns the JSON schema of a manifest document.
func Schema() ([]byte, error) {
	reflector := new(jsonschema.Reflector)
	reflector.ExpandedStruct = true
	reflector.DoNotReference = true

	schema := reflector.Reflect(&Manifest{})
	schema.Title = "quarrel scene"
	schema.Description = "Four speaker slots played back as one scene"

	return json.MarshalIndent(schema, "", "  ")
}
