// Photon Gateway - Multi-tenant Backend for Photography Studios
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/photon

package store

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultLimit is the page size when the request does not set one.
const DefaultLimit int64 = 1000

// reservedParams are query parameters that shape the query instead of filtering it.
var reservedParams = map[string]bool{
	"fields": true,
	"limit":  true,
	"skip":   true,
	"sort":   true,
}

// isOperatorKey reports whether any segment of a dotted key starts with "$".
// Such keys would reach the server as query operators like $where.
func isOperatorKey(key string) bool {
	for _, part := range strings.Split(key, ".") {
		if strings.HasPrefix(part, "$") {
			return true
		}
	}
	return false
}

// FindOptions shapes a Find call.
type FindOptions struct {
	Projection bson.M
	Limit      int64
	Skip       int64
}

// BuildFilter converts query parameters into an equality filter.
//
// Reserved parameters, operator keys and empty values are skipped, and only the first value
// of a repeated parameter is used. Numeric strings become numbers, "true" and
// "false" become booleans, and a valid hex _id becomes an ObjectID.
func BuildFilter(query url.Values) bson.M {
	filter := bson.M{}
	for key, values := range query {
		if reservedParams[key] || isOperatorKey(key) || len(values) == 0 || values[0] == "" {
			continue
		}
		filter[key] = coerceValue(key, values[0])
	}
	return filter
}

func coerceValue(key, raw string) interface{} {
	if n, ok := parseNumber(raw); ok {
		return n
	}
	switch raw {
	case "true":
		return true
	case "false":
		return false
	}
	if key == "_id" {
		if oid, err := primitive.ObjectIDFromHex(raw); err == nil {
			return oid
		}
	}
	return raw
}

// parseNumber returns an int64 for integral values and a float64 otherwise.
func parseNumber(raw string) (interface{}, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f), true
	}
	return f, true
}

// BuildProjection turns "name,email" into {name: 1, email: 1}.
// It returns nil when no field is named.
func BuildProjection(fields string) bson.M {
	if fields == "" {
		return nil
	}
	projection := bson.M{}
	for _, f := range strings.Split(fields, ",") {
		if f = strings.TrimSpace(f); f != "" {
			projection[f] = 1
		}
	}
	if len(projection) == 0 {
		return nil
	}
	return projection
}

// ParsePaging reads limit and skip. Missing values default to DefaultLimit and 0.
func ParsePaging(query url.Values) (limit, skip int64, err error) {
	limit = DefaultLimit
	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
	}
	if raw := query.Get("skip"); raw != "" {
		skip, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid skip %q", raw)
		}
	}
	return limit, skip, nil
}

// NewDocument builds the document stored by a create request.
// Body fields override the generated id and timestamps.
func NewDocument(id string, now time.Time, body map[string]interface{}) (bson.M, error) {
	doc := bson.M{
		"id":        id,
		"createdAt": now,
		"updatedAt": now,
	}
	for k, v := range body {
		doc[k] = v
	}
	if err := convertSchedule(doc, body); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateSet builds the $set document of an update request.
func UpdateSet(now time.Time, body map[string]interface{}) (bson.M, error) {
	set := bson.M{}
	for k, v := range body {
		set[k] = v
	}
	set["updatedAt"] = now
	if err := convertSchedule(set, body); err != nil {
		return nil, err
	}
	return set, nil
}

// convertSchedule stores startDateTime and endDateTime as dates when both are set.
func convertSchedule(doc bson.M, body map[string]interface{}) error {
	start, okStart := body["startDateTime"]
	end, okEnd := body["endDateTime"]
	if !okStart || !okEnd || isEmpty(start) || isEmpty(end) {
		return nil
	}

	startTime, err := ParseDate(start)
	if err != nil {
		return fmt.Errorf("invalid startDateTime: %w", err)
	}
	endTime, err := ParseDate(end)
	if err != nil {
		return fmt.Errorf("invalid endDateTime: %w", err)
	}
	doc["startDateTime"] = startTime
	doc["endDateTime"] = endTime
	return nil
}

func isEmpty(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case float64:
		return x == 0
	}
	return false
}

// ParseDate accepts RFC 3339 strings, plain dates and epoch milliseconds.
func ParseDate(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, x); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", x)
	case float64:
		return time.UnixMilli(int64(x)).UTC(), nil
	case int64:
		return time.UnixMilli(x).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date type %T", v)
	}
}
