// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// Pipeline is an aggregation pipeline that passed ValidatePipeline.
type Pipeline []bson.M

var (
	// ErrPipelineNotArray is returned when the pipeline is not a JSON array of stages.
	ErrPipelineNotArray = errors.New("pipeline must be an array")

	// ErrForbiddenOperator is returned when a stage writes data or runs server-side code.
	ErrForbiddenOperator = errors.New("forbidden aggregation operators")
)

// forbiddenStages are rejected as top-level stage keys.
var forbiddenStages = map[string]bool{
	"$out":         true,
	"$merge":       true,
	"$redact":      true,
	"$function":    true,
	"$accumulator": true,
	"$set":         true,
}

// codeOperators are rejected anywhere in the pipeline.
var codeOperators = map[string]bool{
	"$function":    true,
	"$accumulator": true,
	"$where":       true,
}

// ValidatePipeline checks a decoded JSON pipeline. A nil value is an empty pipeline.
func ValidatePipeline(raw interface{}) (Pipeline, error) {
	if raw == nil {
		return Pipeline{}, nil
	}
	stages, ok := raw.([]interface{})
	if !ok {
		return nil, ErrPipelineNotArray
	}

	pipeline := make(Pipeline, 0, len(stages))
	for _, s := range stages {
		stage, ok := s.(map[string]interface{})
		if !ok {
			return nil, ErrPipelineNotArray
		}
		for key, value := range stage {
			if forbiddenStages[key] || containsCodeOperator(value) {
				return nil, ErrForbiddenOperator
			}
		}
		pipeline = append(pipeline, bson.M(stage))
	}
	return pipeline, nil
}

func containsCodeOperator(v interface{}) bool {
	switch x := v.(type) {
	case map[string]interface{}:
		for k, inner := range x {
			if codeOperators[k] || containsCodeOperator(inner) {
				return true
			}
		}
	case []interface{}:
		for _, inner := range x {
			if containsCodeOperator(inner) {
				return true
			}
		}
	}
	return false
}
