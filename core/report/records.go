// Package report derives display statistics from lists of portal records.
//
// Every function here is pure: inputs are never mutated, nothing panics on
// missing or malformed fields, and absent values degrade to "pending",
// "ungraded" or zero as documented on each function.
package report

import (
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Record is anything the engine can read named fields from.
// Lookup returns ok=false when the field is absent.
type Record interface {
	Lookup(key string) (interface{}, bool)
}

// Fields is a Record backed by a decoded JSON object.
type Fields map[string]interface{}

func (f Fields) Lookup(key string) (interface{}, bool) {
	v, ok := f[key]
	return v, ok
}

// Truthy reports whether v would be truthy on the wire: nil, false, "", 0 and NaN are falsy.
func Truthy(v interface{}) bool {
	switch t := deref(v).(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case float32:
		return t != 0 && !math.IsNaN(float64(t))
	case int:
		return t != 0
	case int64:
		return t != 0
	case int32:
		return t != 0
	case json.Number:
		f, err := t.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	default:
		return true
	}
}

// ApprovalCoercion normalizes the loosely typed is_approved value sent by the backend.
// It is true iff v is truthy and v is neither the string "false", the string "0" nor the number 0.
func ApprovalCoercion(v interface{}) bool {
	if !Truthy(v) {
		return false
	}
	if s, ok := deref(v).(string); ok && (s == "false" || s == "0") {
		return false
	}
	return true
}

func deref(v interface{}) interface{} {
	switch t := v.(type) {
	case *string:
		if t == nil {
			return nil
		}
		return *t
	case *float64:
		if t == nil {
			return nil
		}
		return *t
	case *int:
		if t == nil {
			return nil
		}
		return *t
	case *bool:
		if t == nil {
			return nil
		}
		return *t
	case nil, string, bool, float64, json.Number:
		return v
	}
	// named string and bool types (IDs, doc types, flags)
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

// toNumber reads a numeric field; numeric strings are accepted.
func toNumber(v interface{}) (float64, bool) {
	switch t := deref(v).(type) {
	case float64:
		return t, !math.IsNaN(t)
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// toString coerces a field value to its display string; nil is "".
func toString(v interface{}) string {
	switch t := deref(v).(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case interface{ String() string }:
		return t.String()
	}
	return ""
}

func lookupNumber(r Record, key string) (float64, bool) {
	v, ok := r.Lookup(key)
	if !ok || deref(v) == nil {
		return 0, false
	}
	return toNumber(v)
}

func lookupString(r Record, key string) string {
	v, ok := r.Lookup(key)
	if !ok {
		return ""
	}
	return toString(v)
}
