package validation

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// Request schemas are inlined: the API surface is small and keeping them next
// to the validator avoids shipping a schema directory with the binary.
const (
	universalFeaturesSchema = `{
		"type": "object",
		"required": ["name", "win_rate", "win_size", "frequency", "ticket_cost"],
		"properties": {
			"name": {"type": "string", "minLength": 1},
			"win_rate": {"type": "number"},
			"win_size": {"type": "number"},
			"frequency": {"type": "number"},
			"ticket_cost": {"type": "number"}
		}
	}`

	bestOfRequestSchema = `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["universal_props_with_k", "real_values"],
		"properties": {
			"universal_props_with_k": {
				"type": "object",
				"required": ["name", "win_rate", "win_size", "frequency", "ticket_cost",
					"win_rate_k", "win_size_k", "frequency_k", "ticket_cost_k"],
				"properties": {
					"name": {"type": "string"},
					"win_rate": {"type": "number"},
					"win_size": {"type": "number"},
					"frequency": {"type": "number"},
					"ticket_cost": {"type": "number"},
					"win_rate_k": {"type": "number"},
					"win_size_k": {"type": "number"},
					"frequency_k": {"type": "number"},
					"ticket_cost_k": {"type": "number"}
				}
			},
			"real_values": {
				"type": "array",
				"items": ` + universalFeaturesSchema + `
			},
			"p": {"type": "object"}
		}
	}`

	shortlistRequestSchema = `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["profile"],
		"properties": {
			"session_id": {"type": "string", "format": "uuid"},
			"count": {"type": "integer", "minimum": 1, "maximum": 20},
			"profile": {
				"type": "object",
				"properties": {
					"style": {"type": "string", "enum": ["instant", "tirage", "any"]},
					"frequency": {"type": "number"},
					"ticket_cost": {"type": "number"},
					"win_rate": {"type": "number"},
					"win_size": {"type": "number"},
					"budget": {"type": "string"},
					"risk": {"type": "string"},
					"draw_type": {"type": "string"},
					"format": {"type": "string"},
					"motivation": {"type": "string"}
				}
			}
		}
	}`

	finalRequestSchema = `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"required": ["profile", "answers"],
		"properties": {
			"session_id": {"type": "string", "format": "uuid"},
			"profile": {"type": "object"},
			"answers": {
				"type": "object",
				"properties": {
					"price_priority": {"type": "string", "enum": ["economy", "balance", "premium", "dontcare"]},
					"risk_feeling": {"type": "string", "enum": ["avoid", "neutral", "seek"]},
					"play_rhythm": {"type": "string", "enum": ["often", "sometimes", "rare"]}
				}
			}
		}
	}`
)

// SchemaValidator handles JSON schema validation for API requests
type SchemaValidator struct {
	schemas map[string]*gojsonschema.Schema
}

// NewSchemaValidator compiles the request schemas
func NewSchemaValidator() (*SchemaValidator, error) {
	sources := map[string]string{
		"best-of-request":   bestOfRequestSchema,
		"shortlist-request": shortlistRequestSchema,
		"final-request":     finalRequestSchema,
	}

	sv := &SchemaValidator{schemas: make(map[string]*gojsonschema.Schema, len(sources))}
	for name, source := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
		}
		sv.schemas[name] = schema
	}
	return sv, nil
}

// ValidateBestOfRequest validates a scoring request against its JSON schema
func (sv *SchemaValidator) ValidateBestOfRequest(data interface{}) *ValidationResult {
	return sv.validate("best-of-request", data)
}

// ValidateShortlistRequest validates a shortlist request against its JSON schema
func (sv *SchemaValidator) ValidateShortlistRequest(data interface{}) *ValidationResult {
	return sv.validate("shortlist-request", data)
}

// ValidateFinalRequest validates a final-pick request against its JSON schema
func (sv *SchemaValidator) ValidateFinalRequest(data interface{}) *ValidationResult {
	return sv.validate("final-request", data)
}

// validate performs the actual validation against a named schema
func (sv *SchemaValidator) validate(schemaName string, data interface{}) *ValidationResult {
	schema, exists := sv.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Message: fmt.Sprintf("Schema '%s' not found", schemaName),
				Code:    "SCHEMA_NOT_FOUND",
			}},
		}
	}

	var documentLoader gojsonschema.JSONLoader
	switch v := data.(type) {
	case string:
		documentLoader = gojsonschema.NewStringLoader(v)
	case []byte:
		documentLoader = gojsonschema.NewBytesLoader(v)
	default:
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return &ValidationResult{
				Valid: false,
				Errors: []ValidationError{{
					Field:   "data",
					Message: fmt.Sprintf("Failed to marshal data to JSON: %v", err),
					Code:    "JSON_MARSHAL_ERROR",
				}},
			}
		}
		documentLoader = gojsonschema.NewBytesLoader(jsonBytes)
	}

	result, err := schema.Validate(documentLoader)
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "validation",
				Message: fmt.Sprintf("Validation error: %v", err),
				Code:    "VALIDATION_ERROR",
			}},
		}
	}

	validationResult := &ValidationResult{
		Valid:  result.Valid(),
		Errors: make([]ValidationError, 0),
	}

	if !result.Valid() {
		for _, err := range result.Errors() {
			validationResult.Errors = append(validationResult.Errors, ValidationError{
				Field:   err.Field(),
				Message: err.Description(),
				Code:    "VALIDATION_ERROR",
				Value:   err.Value(),
				Context: err.Context().String(),
			})
		}
	}

	return validationResult
}

// ValidationResult represents the result of a validation operation
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Code    string      `json:"code"`
	Value   interface{} `json:"value,omitempty"`
	Context string      `json:"context,omitempty"`
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	return fmt.Sprintf("validation error in field '%s': %s", ve.Field, ve.Message)
}

// ToAPIError converts validation errors to API error format
func (vr *ValidationResult) ToAPIError() map[string]interface{} {
	if vr.Valid {
		return nil
	}

	errorDetails := make(map[string]interface{})
	errorDetails["validationErrors"] = vr.Errors

	fieldErrors := make(map[string][]string)
	for _, err := range vr.Errors {
		if err.Field != "" {
			fieldErrors[err.Field] = append(fieldErrors[err.Field], err.Message)
		}
	}

	if len(fieldErrors) > 0 {
		errorDetails["fieldErrors"] = fieldErrors
	}

	return map[string]interface{}{
		"error": map[string]interface{}{
			"code":    "VALIDATION_ERROR",
			"message": "Request validation failed",
			"details": errorDetails,
		},
	}
}
