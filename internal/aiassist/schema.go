package aiassist

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// 字段值允许为字符串、数字或 null，模型经常把 "3年" 写成 3
const extractionSchema = `{
  "type": "object",
  "properties": {
    "basic_info": {
      "type": ["object", "null"],
      "properties": {
        "name":    {"type": ["string", "null"]},
        "phone":   {"type": ["string", "number", "null"]},
        "email":   {"type": ["string", "null"]},
        "address": {"type": ["string", "null"]}
      }
    },
    "optional_info": {
      "type": ["object", "null"],
      "properties": {
        "job_intention":    {"type": ["string", "null"]},
        "experience_years": {"type": ["string", "number", "null"]},
        "education":        {"type": ["string", "null"]},
        "university":       {"type": ["string", "null"]}
      }
    },
    "skills": {
      "type": ["array", "null"],
      "items": {"type": ["string", "null"]}
    }
  }
}`

const matchSchema = `{
  "type": "object",
  "required": ["score"],
  "properties": {
    "score":               {"type": ["number", "string"]},
    "overall_analysis":    {"type": ["string", "null"]},
    "skill_analysis":      {"type": ["string", "null"]},
    "experience_analysis": {"type": ["string", "null"]},
    "education_analysis":  {"type": ["string", "null"]},
    "strengths":           {"type": ["array", "null"], "items": {"type": "string"}},
    "weaknesses":          {"type": ["array", "null"], "items": {"type": "string"}},
    "recommendations":     {"type": ["array", "null"], "items": {"type": "string"}}
  }
}`

var (
	extractionSchemaLoader = gojsonschema.NewStringLoader(extractionSchema)
	matchSchemaLoader      = gojsonschema.NewStringLoader(matchSchema)
)

// SchemaError JSON 不符合约定的结构
type SchemaError struct {
	Fields []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("模型回复不符合约定结构: %s", strings.Join(e.Fields, "; "))
}

func validateAgainst(schema gojsonschema.JSONLoader, doc string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("校验模型回复失败: %w", err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Fields: make([]string, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		schemaErr.Fields = append(schemaErr.Fields, field+": "+desc.Description())
	}
	return schemaErr
}
