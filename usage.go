package configmapper

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AlekSi/pointer"
	"github.com/goccy/go-json"
	"github.com/muir/reflectutils"
)

// Usage describes the catalog for humans: positional parameters first,
// then every field as key=value, required fields before optional ones.
func (c Catalog) Usage() string {
	fields := c.Fields()
	usage := make([]string, 0, len(fields)*2+4)

	if positions := c.positions(); len(positions) > 0 {
		names := make([]string, len(positions))
		for i, p := range positions {
			names[i] = "<" + c.byPosition[p] + ">"
		}
		usage = append(usage, "Usage: "+strings.Join(names, " ")+" [key=value...]\n")
	}

	var required, optional []FieldDescriptor
	for _, d := range fields {
		if d.Required {
			required = append(required, d)
		} else {
			optional = append(optional, d)
		}
	}
	if len(fields) > 0 {
		usage = append(usage, "\nOptions:\n")
	}
	for _, set := range [][]FieldDescriptor{required, optional} {
		for _, d := range set {
			var first string
			if len(d.Description) > 0 {
				first = d.Description[0]
			}
			var position, def string
			if d.Positional() {
				position = fmt.Sprintf("[%d]", d.Position)
			}
			if d.Required {
				def = "(required)"
			} else {
				def = formatDefault(d.Default)
			}
			usage = append(usage, fmt.Sprintf(
				"    %-30s %s\n",
				d.Identifier+"="+describeArg(d.Type),
				strings.Join(notEmpty(position, first, def), " ")))
			for _, line := range tail(d.Description) {
				usage = append(usage, fmt.Sprintf("    %-30s %s\n", "", line))
			}
		}
	}
	return strings.Join(usage, "")
}

func (c Catalog) positions() []int {
	positions := make([]int, 0, len(c.byPosition))
	for p := range c.byPosition {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	return positions
}

func describeArg(typ reflect.Type) string {
	typ = reflectutils.NonPointer(typ)
	if typ == durationType {
		return "duration"
	}
	switch typ.Kind() {
	case reflect.Slice:
		ed := describeArg(typ.Elem())
		return ed + "," + ed + "..."
	case reflect.Array:
		return strings.Join(repeatString(describeArg(typ.Elem()), typ.Len()), ",")
	case reflect.Bool:
		return "true|false"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "int"
	case reflect.Uint, reflect.Uintptr, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "uint"
	case reflect.Float32, reflect.Float64:
		return "x.y"
	case reflect.Complex64, reflect.Complex128:
		return "X+Yi"
	case reflect.String:
		return "string"
	default:
		if typ.Name() != "" {
			return strings.ToLower(typ.Name())
		}
		return "value"
	}
}

func formatDefault(v interface{}) string {
	if v == nil {
		return ""
	}
	rv := reflect.ValueOf(v)
	switch {
	case (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 0:
		return ""
	case rv.IsZero():
		return ""
	case rv.Kind() == reflect.Ptr:
		return fmt.Sprintf("(default: %v)", rv.Elem().Interface())
	}
	return fmt.Sprintf("(default: %v)", v)
}

type fieldJSON struct {
	Identifier  string      `json:"identifier"`
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Position    *int        `json:"position,omitempty"`
	Description []string    `json:"description,omitempty"`
	Required    bool        `json:"required,omitempty"`
	Default     interface{} `json:"default,omitempty"`
}

// MarshalJSON describes the field, with its type as a string
func (d FieldDescriptor) MarshalJSON() ([]byte, error) {
	f := fieldJSON{
		Identifier:  d.Identifier,
		Name:        d.Name,
		Description: d.Description,
		Required:    d.Required,
		Default:     d.Default,
	}
	if d.Type != nil {
		f.Type = d.Type.String()
	}
	if d.Positional() {
		f.Position = pointer.ToInt(d.Position)
	}
	return json.Marshal(f)
}

// MarshalJSON lists the fields sorted by identifier
func (c Catalog) MarshalJSON() ([]byte, error) {
	var typeName string
	if c.typ != nil {
		typeName = c.typ.String()
	}
	return json.Marshal(struct {
		Type   string            `json:"type"`
		Fields []FieldDescriptor `json:"fields"`
	}{
		Type:   typeName,
		Fields: c.Fields(),
	})
}
