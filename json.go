package configmapper

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// PairsFromJSON flattens a JSON object into keyed pairs: nested objects
// become dotted keys, arrays become lists.  Strings are text and other
// literals keep their JSON spelling, so 1e3 is parsed by the field
// that receives it.  Nulls are dropped.
func PairsFromJSON(data []byte) ([]KeyValuePair, error) {
	if !gjson.ValidBytes(data) {
		return nil, ConfigurationError(errors.New("invalid JSON"))
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ConfigurationError(errors.Errorf("JSON config must be an object, not %s", root.Type))
	}
	var pairs []KeyValuePair
	flattenJSON("", root, &pairs)
	return pairs, nil
}

func flattenJSON(prefix string, r gjson.Result, pairs *[]KeyValuePair) {
	r.ForEach(func(key, value gjson.Result) bool {
		id := prefix + key.String()
		if value.IsObject() {
			flattenJSON(id+".", value, pairs)
			return true
		}
		v := jsonValue(value)
		if v.IsAbsent() {
			return true
		}
		*pairs = append(*pairs, KeyValuePair{
			key:    id,
			hasKey: true,
			value:  v,
		})
		return true
	})
}

func jsonValue(r gjson.Result) Value {
	switch {
	case r.IsArray():
		elements := r.Array()
		items := make([]Value, len(elements))
		for i, e := range elements {
			items[i] = jsonValue(e)
		}
		return Value{kind: List, list: items}
	case r.Type == gjson.Null:
		return Value{}
	case r.Type == gjson.String:
		return TextValue(r.Str)
	default:
		return TextValue(r.Raw)
	}
}

// WithJSON is With for the pairs of PairsFromJSON
func (m ConfigMap) WithJSON(data []byte) (ConfigMap, error) {
	pairs, err := PairsFromJSON(data)
	if err != nil {
		return m, err
	}
	return m.With(pairs...), nil
}
