package configmapper

import (
	"reflect"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Resolved is a coerced value together with the field it belongs to
type Resolved struct {
	Field FieldDescriptor
	Value reflect.Value
}

// Values maps identifiers to their resolved values
type Values map[string]Resolved

// Identifiers returns the resolved identifiers, sorted
func (v Values) Identifiers() []string {
	ids := make([]string, 0, len(v))
	for id := range v {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Get returns the resolved value of an identifier
func (v Values) Get(identifier string) (interface{}, bool) {
	r, ok := v[identifier]
	if !ok || !r.Value.IsValid() {
		return nil, false
	}
	return r.Value.Interface(), true
}

// Resolve matches the supplied pairs to fields and coerces their values.
// Nothing is written anywhere.
//
// Keyed pairs bind to the field with that identifier; unknown keys are
// ignored.  A pair without a key binds to the only field if there is
// just one; otherwise it binds to the field whose position is the index
// of the pair in the supplied sequence.  Positional pairs may not follow
// keyed pairs.  Fields that are required and not supplied are reported
// together.  Nothing binds to a catalog without fields.
func (m ConfigMap) Resolve() (Values, error) {
	values := make(Values)
	if m.catalog.Len() == 0 {
		return values, nil
	}
	keyed := false
	for i, p := range m.pairs {
		var field FieldDescriptor
		switch {
		case p.hasKey:
			d, ok := m.catalog.fields[p.key]
			if !ok {
				debugf("resolve: ignoring unknown key %q", p.key)
				continue
			}
			field = d
			keyed = true
		case m.catalog.sole != "":
			field = m.catalog.fields[m.catalog.sole]
		case keyed:
			return nil, ConfigurationError(errors.New(
				"positioned parameter found after key=value pair usage, positioned parameters must come first"))
		default:
			id, ok := m.catalog.byPosition[i]
			if !ok {
				return nil, ConfigurationError(errors.Errorf(
					"config does not define a positioned parameter at position %d, use key=value pairs instead", i))
			}
			field = m.catalog.fields[id]
		}
		if p.value.IsAbsent() {
			return nil, ConfigurationError(errors.Errorf("config %s has an empty value", field.Identifier))
		}
		rv, err := Coerce(field.Type, p.value)
		if err != nil {
			return nil, errors.Wrapf(err, "config %s", field.Identifier)
		}
		debugf("resolve: %s = %v", field.Identifier, p.value)
		values[field.Identifier] = Resolved{
			Field: field.clone(),
			Value: rv,
		}
	}
	var missing []string
	for id, d := range m.catalog.fields {
		if _, ok := values[id]; d.Required && !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, ConfigurationError(errors.Errorf("config is missing %d required parameters: %s",
			len(missing), strings.Join(missing, ",")))
	}
	return values, nil
}
