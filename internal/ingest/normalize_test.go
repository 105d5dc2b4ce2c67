package ingest

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeValidJSONSkipsRepair(t *testing.T) {
	repair := &fakeRepair{}
	n := NewFieldNormalizer(repair, testLogger(t))

	v, err := n.Normalize(context.Background(), "meta", `{"name":"Unit A","price":"120000"}`, ShapeStringMap)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if v.StringMap["name"] != "Unit A" || v.StringMap["price"] != "120000" {
		t.Fatalf("unexpected map: %v", v.StringMap)
	}
	if repair.calls.Load() != 0 {
		t.Fatalf("repair invoked %d times for valid input", repair.calls.Load())
	}
}

func TestNormalizeValidArraySkipsRepair(t *testing.T) {
	repair := &fakeRepair{}
	n := NewFieldNormalizer(repair, testLogger(t))

	v, err := n.Normalize(context.Background(), "features", `["pool","garden"]`, ShapeStringArray)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(v.StringArray) != 2 || v.StringArray[0] != "pool" {
		t.Fatalf("unexpected array: %v", v.StringArray)
	}
	if repair.calls.Load() != 0 {
		t.Fatalf("repair invoked for valid input")
	}
}

func TestNormalizeMalformedArrayRepairs(t *testing.T) {
	repair := &fakeRepair{
		result: map[string]any{"value": []any{"pool", "garden", "gym"}},
	}
	n := NewFieldNormalizer(repair, testLogger(t))

	v, err := n.Normalize(context.Background(), "features", "pool, garden, gym", ShapeStringArray)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(v.StringArray) != 3 || v.StringArray[2] != "gym" {
		t.Fatalf("unexpected repaired array: %v", v.StringArray)
	}
	if repair.calls.Load() != 1 {
		t.Fatalf("expected exactly one repair call, got %d", repair.calls.Load())
	}
}

func TestNormalizeMalformedMapRepairs(t *testing.T) {
	repair := &fakeRepair{
		result: map[string]any{"value": map[string]any{"location": "4.5"}},
	}
	n := NewFieldNormalizer(repair, testLogger(t))

	v, err := n.Normalize(context.Background(), "ratings", "location: 4.5", ShapeStringMap)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if v.StringMap["location"] != "4.5" {
		t.Fatalf("unexpected repaired map: %v", v.StringMap)
	}
}

func TestNormalizeRepairFailureIsNormalizationError(t *testing.T) {
	repair := &fakeRepair{fail: true}
	n := NewFieldNormalizer(repair, testLogger(t))

	_, err := n.Normalize(context.Background(), "meta", "not json at all", ShapeStringMap)
	var nErr *NormalizationError
	if !errors.As(err, &nErr) {
		t.Fatalf("expected NormalizationError, got %v", err)
	}
	if nErr.Field != "meta" {
		t.Fatalf("expected field meta, got %q", nErr.Field)
	}
}

func TestNormalizeRejectsWrongRepairShape(t *testing.T) {
	repair := &fakeRepair{
		result: map[string]any{"value": "just a string"},
	}
	n := NewFieldNormalizer(repair, testLogger(t))

	_, err := n.Normalize(context.Background(), "features", "broken", ShapeStringArray)
	var nErr *NormalizationError
	if !errors.As(err, &nErr) {
		t.Fatalf("expected NormalizationError, got %v", err)
	}
}
