package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Envelope is the JSON structure the model is required to return.
type Envelope struct {
	CustomizedMarkdown string `json:"customized_markdown"`
	Summary            string `json:"summary"`
}

// envelopeSchema validates the model's output before it is trusted.
const envelopeSchema = `{
	"type": "object",
	"required": ["customized_markdown"],
	"properties": {
		"customized_markdown": {"type": "string", "minLength": 1},
		"summary": {"type": "string"}
	},
	"additionalProperties": false
}`

// ParseEnvelope validates raw model output against the envelope schema and
// decodes it. Any deviation from the schema is an error; partial output is
// never accepted.
func ParseEnvelope(raw string) (*Envelope, error) {
	schemaLoader := gojsonschema.NewStringLoader(envelopeSchema)
	docLoader := gojsonschema.NewStringLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return nil, fmt.Errorf("failed to validate response: %w", err)
	}
	if !result.Valid() {
		var problems []string
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, fmt.Errorf("response does not match schema: %s", strings.Join(problems, "; "))
	}

	var env Envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if strings.TrimSpace(env.CustomizedMarkdown) == "" {
		return nil, fmt.Errorf("response contains empty document")
	}
	return &env, nil
}
