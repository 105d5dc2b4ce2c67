package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

// Shape declares the structure a raw CSV field must conform to after
// normalization.
type Shape int

const (
	ShapeStringMap Shape = iota
	ShapeStringArray
)

func (s Shape) String() string {
	switch s {
	case ShapeStringMap:
		return "string map"
	case ShapeStringArray:
		return "string array"
	default:
		return "unknown"
	}
}

// NormalizedValue is the tagged result of a normalization: exactly one
// of StringMap or StringArray is set, matching the requested shape.
type NormalizedValue struct {
	Shape       Shape
	StringMap   map[string]string
	StringArray []string
}

// RepairProvider is the model-backed fallback used when a field does
// not parse strictly. The schema constrains the provider's output so
// the returned object is guaranteed well-formed.
type RepairProvider interface {
	GenerateJSON(ctx context.Context, system string, user string, schemaName string, schema map[string]any) (map[string]any, error)
}

// FieldNormalizer parses a raw field value into a declared shape,
// repairing malformed text through a single schema-constrained model
// call.
type FieldNormalizer struct {
	provider RepairProvider
	log      *logger.Logger
}

func NewFieldNormalizer(provider RepairProvider, baseLog *logger.Logger) *FieldNormalizer {
	return &FieldNormalizer{
		provider: provider,
		log:      baseLog.With("service", "FieldNormalizer"),
	}
}

// Normalize tries a strict parse first; already-valid JSON is returned
// unchanged with no provider call. On parse failure it falls back to
// one repair call. A failed repair is a NormalizationError.
func (n *FieldNormalizer) Normalize(ctx context.Context, field string, rawText string, shape Shape) (NormalizedValue, error) {
	if v, ok := parseStrict(rawText, shape); ok {
		return v, nil
	}

	repaired, err := n.repair(ctx, rawText, shape)
	if err != nil {
		return NormalizedValue{}, &NormalizationError{Field: field, Err: err}
	}
	return repaired, nil
}

func parseStrict(rawText string, shape Shape) (NormalizedValue, bool) {
	trimmed := strings.TrimSpace(rawText)
	if trimmed == "" {
		return NormalizedValue{}, false
	}

	switch shape {
	case ShapeStringMap:
		var m map[string]string
		if err := json.Unmarshal([]byte(trimmed), &m); err != nil || m == nil {
			return NormalizedValue{}, false
		}
		return NormalizedValue{Shape: ShapeStringMap, StringMap: m}, true
	case ShapeStringArray:
		var a []string
		if err := json.Unmarshal([]byte(trimmed), &a); err != nil || a == nil {
			return NormalizedValue{}, false
		}
		return NormalizedValue{Shape: ShapeStringArray, StringArray: a}, true
	default:
		return NormalizedValue{}, false
	}
}

const repairSystemPrompt = "You convert messy property-listing text into clean JSON. " +
	"Preserve the information in the input; do not invent values."

func repairSchema(shape Shape) (string, map[string]any) {
	switch shape {
	case ShapeStringMap:
		return "string_map_repair", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value": map[string]any{
					"type":                 "object",
					"additionalProperties": map[string]any{"type": "string"},
				},
			},
			"required":             []string{"value"},
			"additionalProperties": false,
		}
	default:
		return "string_array_repair", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"value": map[string]any{
					"type":  "array",
					"items": map[string]any{"type": "string"},
				},
			},
			"required":             []string{"value"},
			"additionalProperties": false,
		}
	}
}

func (n *FieldNormalizer) repair(ctx context.Context, rawText string, shape Shape) (NormalizedValue, error) {
	schemaName, schema := repairSchema(shape)
	user := fmt.Sprintf("Reformat the following text as a %s under the key \"value\":\n\n%s", shape, rawText)

	obj, err := n.provider.GenerateJSON(ctx, repairSystemPrompt, user, schemaName, schema)
	if err != nil {
		return NormalizedValue{}, err
	}

	inner, ok := obj["value"]
	if !ok {
		return NormalizedValue{}, errors.New("repair response missing value")
	}

	switch shape {
	case ShapeStringMap:
		m, err := coerceStringMap(inner)
		if err != nil {
			return NormalizedValue{}, err
		}
		return NormalizedValue{Shape: ShapeStringMap, StringMap: m}, nil
	case ShapeStringArray:
		a, err := coerceStringArray(inner)
		if err != nil {
			return NormalizedValue{}, err
		}
		return NormalizedValue{Shape: ShapeStringArray, StringArray: a}, nil
	default:
		return NormalizedValue{}, fmt.Errorf("unsupported shape %d", shape)
	}
}

func coerceStringMap(v any) (map[string]string, error) {
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", v)
	}
	out := make(map[string]string, len(raw))
	for k, val := range raw {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("expected string value for key %q, got %T", k, val)
		}
		out[k] = s
	}
	return out, nil
}

func coerceStringArray(v any) ([]string, error) {
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected array, got %T", v)
	}
	out := make([]string, 0, len(raw))
	for i, val := range raw {
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("expected string at index %d, got %T", i, val)
		}
		out = append(out, s)
	}
	return out, nil
}
