package main

import (
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/stachengine/mustache"
)

// decodeYAML decodes a YAML document into a Data value. yaml.v2 decodes
// generic documents as map[interface{}]interface{} rather than
// map[string]interface{}, so keys are stringified with fmt.Sprint; every
// YAML document the CLI accepts is expected to have string-like keys.
func decodeYAML(raw []byte) (mustache.Data, error) {
	var v interface{}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return mustache.Data{}, err
	}
	return yamlToData(v), nil
}

func yamlToData(v interface{}) mustache.Data {
	switch val := v.(type) {
	case nil:
		return mustache.NewBool(false)
	case bool:
		return mustache.NewBool(val)
	case string:
		return mustache.NewString(val)
	case int:
		return mustache.NewInteger(int64(val))
	case int64:
		return mustache.NewInteger(val)
	case float64:
		return mustache.NewFloat(val)
	case []interface{}:
		items := make([]mustache.Data, len(val))
		for i, e := range val {
			items[i] = yamlToData(e)
		}
		return mustache.NewVector(items)
	case map[interface{}]interface{}:
		h := make(map[string]mustache.Data, len(val))
		for k, e := range val {
			h[fmt.Sprint(k)] = yamlToData(e)
		}
		return mustache.NewHash(h)
	case map[string]interface{}:
		h := make(map[string]mustache.Data, len(val))
		for k, e := range val {
			h[k] = yamlToData(e)
		}
		return mustache.NewHash(h)
	default:
		return mustache.NewString(fmt.Sprint(val))
	}
}

// mergeOverride copies every top-level key of override into base,
// overwriting any key base already has. Both must be Hash Data; anything
// else is a no-op since there is nothing sensible to merge.
func mergeOverride(base, override mustache.Data) mustache.Data {
	if base.Kind() != mustache.KindHash || override.Kind() != mustache.KindHash {
		return base
	}
	merged := map[string]mustache.Data{}
	base.Range(func(k string, v mustache.Data) { merged[k] = v })
	override.Range(func(k string, v mustache.Data) { merged[k] = v })
	return mustache.NewHash(merged)
}
