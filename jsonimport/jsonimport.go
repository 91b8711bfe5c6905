// Package jsonimport decodes the library-facing JSON data-file format into
// mustache.Data values: the bridge between a JSON document on disk (or in
// memory) and the tagged Data tree the renderer walks. It is kept separate
// from the core engine package because JSON is one external collaborator
// among several (the CLI also accepts YAML), not a core rendering concern.
package jsonimport

import (
	"bytes"
	"encoding/json"

	"github.com/stachengine/mustache"
)

// Decode parses raw as a JSON document and converts it to a Data value.
// Objects become Hash, arrays become Vector, strings become String, true
// and false become Bool. Numbers decode as Integer when they carry no
// fractional or exponent part and fit in an int64, Float otherwise. A
// JSON null is dropped: an object member whose value is null is omitted
// from the resulting Hash entirely, and a null array element is skipped,
// rather than being represented as some sentinel Data value.
//
// Any decode failure is reported as a *mustache.JSONError.
func Decode(raw []byte) (mustache.Data, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return mustache.Data{}, &mustache.JSONError{Cause: err}
	}
	d, _ := convert(v)
	return d, nil
}

// convert turns a decoded JSON value (string, json.Number, bool, nil,
// []interface{}, or map[string]interface{}) into a Data; the second
// return reports whether the value was representable (false only for
// nil, which the caller drops instead of storing).
func convert(v interface{}) (mustache.Data, bool) {
	switch val := v.(type) {
	case nil:
		return mustache.Data{}, false
	case string:
		return mustache.NewString(val), true
	case bool:
		return mustache.NewBool(val), true
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return mustache.NewInteger(i), true
		}
		f, _ := val.Float64()
		return mustache.NewFloat(f), true
	case []interface{}:
		items := make([]mustache.Data, 0, len(val))
		for _, elem := range val {
			if d, ok := convert(elem); ok {
				items = append(items, d)
			}
		}
		return mustache.NewVector(items), true
	case map[string]interface{}:
		h := make(map[string]mustache.Data, len(val))
		for k, raw := range val {
			if d, ok := convert(raw); ok {
				h[k] = d
			}
		}
		return mustache.NewHash(h), true
	default:
		return mustache.Data{}, false
	}
}
