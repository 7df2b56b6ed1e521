package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"legalinsight-backend/models"

	"github.com/google/generative-ai-go/genai"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidOutput is returned when model output is not JSON at all
var ErrInvalidOutput = errors.New("model output is not valid JSON")

// boundary pairs the schema sent to the model with its compiled JSON Schema
// counterpart used to check what comes back.
type boundary struct {
	name     string
	schema   *genai.Schema
	compiled *gojsonschema.Schema
	// bareKey names the field a top-level JSON array is read into
	bareKey string
}

func mustBoundary(name string, schema *genai.Schema, bareKey string) *boundary {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(toJSONSchema(schema)))
	if err != nil {
		panic(fmt.Sprintf("llm: invalid schema for %s: %v", name, err))
	}
	return &boundary{name: name, schema: schema, compiled: compiled, bareKey: bareKey}
}

// validate returns one message per schema violation
func (b *boundary) validate(doc interface{}) ([]string, error) {
	result, err := b.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return errs, nil
}

// field looks up key in an object document. A bare array stands in for the
// boundary's single list field.
func (b *boundary) field(doc interface{}, key string) interface{} {
	switch v := doc.(type) {
	case map[string]interface{}:
		return v[key]
	case []interface{}:
		if key == b.bareKey {
			return v
		}
	}
	return nil
}

func stringArray(description string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: description,
		Items:       &genai.Schema{Type: genai.TypeString},
	}
}

var precedentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"caseName":    {Type: genai.TypeString, Description: "The name of the case."},
		"citation":    {Type: genai.TypeString, Description: "The citation of the case."},
		"summary":     {Type: genai.TypeString, Description: "A brief summary of the case and its relevance."},
		"differences": {Type: genai.TypeString, Description: "Key differences compared to the query, only if notable."},
	},
	Required: []string{"caseName", "citation", "summary"},
}

var precedentArray = &genai.Schema{
	Type:        genai.TypeArray,
	Description: "A list of relevant past Indian court cases.",
	Items:       precedentSchema,
}

var (
	lawsBoundary = mustBoundary("identify_laws", &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"laws": stringArray("Potentially applicable Indian laws, sections or articles."),
		},
		Required: []string{"laws"},
	}, "laws")

	precedentsBoundary = mustBoundary("retrieve_precedent", &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"precedents": precedentArray,
		},
		Required: []string{"precedents"},
	}, "precedents")

	checklistBoundary = mustBoundary("generate_checklist", &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"checklist": stringArray("Procedural steps or considerations, in order."),
		},
		Required: []string{"checklist"},
	}, "checklist")

	structuredBoundary = mustBoundary("parse_structured_legal_info", &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"laws":       stringArray("Applicable laws, sections or articles."),
			"precedents": precedentArray,
			"checklist":  stringArray("Procedural steps or considerations."),
		},
		Required: []string{"laws", "precedents", "checklist"},
	}, "")

	summaryBoundary = mustBoundary("summarize_document", &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {Type: genai.TypeString, Description: "Concise summary of the document."},
		},
		Required: []string{"summary"},
	}, "")

	adviceBoundary = mustBoundary("client_advice", &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"advice":       {Type: genai.TypeString, Description: "The answer to the legal question."},
			"relevantLaws": stringArray("Indian laws used to formulate the answer."),
			"disclaimer":   {Type: genai.TypeString, Description: "A disclaimer that this is not professional legal advice."},
		},
		Required: []string{"advice", "relevantLaws"},
	}, "")
)

// toJSONSchema converts a Gemini response schema to a JSON Schema document
func toJSONSchema(s *genai.Schema) map[string]interface{} {
	out := map[string]interface{}{}
	switch s.Type {
	case genai.TypeObject:
		out["type"] = "object"
	case genai.TypeArray:
		out["type"] = "array"
	case genai.TypeString:
		out["type"] = "string"
	case genai.TypeInteger:
		out["type"] = "integer"
	case genai.TypeNumber:
		out["type"] = "number"
	case genai.TypeBoolean:
		out["type"] = "boolean"
	}
	if s.Items != nil {
		out["items"] = toJSONSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		props := make(map[string]interface{}, len(s.Properties))
		for name, prop := range s.Properties {
			props[name] = toJSONSchema(prop)
		}
		out["properties"] = props
	}
	if len(s.Required) > 0 {
		required := make([]interface{}, len(s.Required))
		for i, name := range s.Required {
			required[i] = name
		}
		out["required"] = required
	}
	return out
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

// decodeJSON parses model output, accepting a fenced code block
func decodeJSON(text string) (interface{}, error) {
	var doc interface{}
	if err := json.Unmarshal([]byte(stripCodeBlock(text)), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v (raw: %s)", ErrInvalidOutput, err, truncate(text, 200))
	}
	return doc, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asStrings keeps the string members of a JSON array
func asStrings(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return models.CleanStrings(out)
}

func asPrecedents(v interface{}) []models.Precedent {
	items, _ := v.([]interface{})
	out := make([]models.Precedent, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		p := models.Precedent{
			CaseName: asString(m["caseName"]),
			Citation: asString(m["citation"]),
			Summary:  asString(m["summary"]),
		}
		if d, ok := m["differences"].(string); ok {
			p.Differences = &d
		}
		out = append(out, p)
	}
	return models.CleanPrecedents(out)
}
