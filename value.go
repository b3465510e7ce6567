package configmapper

import (
	"fmt"
	"reflect"
	"strings"
)

// ValueKind says what a Value holds
type ValueKind int

const (
	Absent ValueKind = iota // no value was supplied
	Text                    // textual value that needs parsing
	Scalar                  // already typed value
	List                    // sequence of values
)

func (k ValueKind) String() string {
	switch k {
	case Absent:
		return "absent"
	case Text:
		return "text"
	case Scalar:
		return "scalar"
	case List:
		return "list"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is a supplied, not yet coerced, value.
type Value struct {
	kind   ValueKind
	text   string
	scalar interface{}
	list   []Value
}

func TextValue(s string) Value { return Value{kind: Text, text: s} }

func ScalarValue(v interface{}) Value {
	if v == nil {
		return Value{}
	}
	return Value{kind: Scalar, scalar: v}
}

func ListValue(items ...Value) Value {
	list := make([]Value, len(items))
	copy(list, items)
	return Value{kind: List, list: list}
}

// ValueOf picks the kind of Value that fits v: nil (and nil pointers)
// are Absent, strings are Text, slices and arrays other than []byte
// are Lists.  Anything else is a Scalar.
func ValueOf(v interface{}) Value {
	switch t := v.(type) {
	case nil:
		return Value{}
	case Value:
		return t
	case string:
		return TextValue(t)
	case []byte:
		return ScalarValue(t)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map:
		if rv.IsNil() {
			return Value{}
		}
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Value{}
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = ValueOf(rv.Index(i).Interface())
		}
		return Value{kind: List, list: items}
	}
	return ScalarValue(v)
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsAbsent() bool  { return v.kind == Absent }

// Text returns the textual form, if this is a Text value
func (v Value) Text() (string, bool) { return v.text, v.kind == Text }

// Scalar returns the typed value, if this is a Scalar value
func (v Value) Scalar() (interface{}, bool) { return v.scalar, v.kind == Scalar }

// List returns a copy of the items, if this is a List value
func (v Value) List() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}
	list := make([]Value, len(v.list))
	copy(list, v.list)
	return list, true
}

// Interface unwraps the value: Text becomes a string, Scalar its
// underlying value, and List a []interface{}.
func (v Value) Interface() interface{} {
	switch v.kind {
	case Text:
		return v.text
	case Scalar:
		return v.scalar
	case List:
		items := make([]interface{}, len(v.list))
		for i, item := range v.list {
			items[i] = item.Interface()
		}
		return items
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case Text:
		return v.text
	case Scalar:
		return fmt.Sprint(v.scalar)
	case List:
		items := make([]string, len(v.list))
		for i, item := range v.list {
			items[i] = item.String()
		}
		return "[" + strings.Join(items, ", ") + "]"
	default:
		return "<absent>"
	}
}
