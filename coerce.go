package configmapper

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// Coerce converts a supplied value into a value of type t.
//
// Scalars that already have type t are passed through.  Text is parsed
// according to t: slices and arrays use the quoted, comma separated
// list syntax; numbers and booleans use the strconv grammar for their
// width; time.Duration uses time.ParseDuration and types that implement
// encoding.TextUnmarshaler parse themselves.  Scalars of other basic
// types are formatted and then parsed as text, so 2.0 fits an int but
// 2.5 does not.
func Coerce(t reflect.Type, v Value) (reflect.Value, error) {
	switch v.kind {
	case Text:
		return coerceText(t, v.text)
	case Scalar:
		return coerceScalar(t, v.scalar)
	case List:
		return coerceList(t, v.list)
	default:
		return reflect.Value{}, ConfigurationError(errors.Errorf("no value to convert to %s", t))
	}
}

// CoerceTo is Coerce for a static type
func CoerceTo[T any](raw interface{}) (T, error) {
	var zero T
	t := reflect.TypeOf((*T)(nil)).Elem()
	rv, err := Coerce(t, ValueOf(raw))
	if err != nil {
		return zero, err
	}
	return rv.Interface().(T), nil
}

func isList(t reflect.Type) bool {
	return t.Kind() == reflect.Slice || t.Kind() == reflect.Array
}

func isEmptyInterface(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func coerceText(t reflect.Type, s string) (reflect.Value, error) {
	wrap := func(err error) error {
		return ConfigurationError(errors.Wrapf(err, "cannot convert %q to %s", s, t))
	}
	if t == durationType {
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			n, nerr := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if nerr != nil {
				return reflect.Value{}, wrap(err)
			}
			d = time.Duration(n)
		}
		return reflect.ValueOf(d), nil
	}
	if t.Kind() == reflect.Ptr && t.Implements(textUnmarshalerType) {
		p := reflect.New(t.Elem())
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, wrap(err)
		}
		return p, nil
	}
	if reflect.PtrTo(t).Implements(textUnmarshalerType) {
		p := reflect.New(t)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, wrap(err)
		}
		return p.Elem(), nil
	}
	switch t.Kind() {
	case reflect.Ptr:
		return coercePointer(t, TextValue(s))
	case reflect.Slice, reflect.Array:
		elements := splitArray(s)
		items := make([]Value, len(elements))
		for i, e := range elements {
			items[i] = TextValue(e)
		}
		return coerceList(t, items)
	case reflect.Interface:
		if !isEmptyInterface(t) {
			return reflect.Value{}, wrap(errors.New("unsupported interface type"))
		}
		out := reflect.New(t).Elem()
		out.Set(reflect.ValueOf(s))
		return out, nil
	case reflect.Struct, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Invalid:
		return reflect.Value{}, wrap(errors.New("unsupported type"))
	}
	if t.Kind() != reflect.String {
		s = strings.TrimSpace(s)
	}
	if err := checkWidth(t, s); err != nil {
		return reflect.Value{}, wrap(err)
	}
	setter, err := reflectutils.MakeStringSetter(t)
	if err != nil {
		return reflect.Value{}, wrap(err)
	}
	out := reflect.New(t).Elem()
	if err := setter(out, s); err != nil {
		return reflect.Value{}, wrap(err)
	}
	return out, nil
}

// checkWidth rejects numbers that do not fit the width of t
func checkWidth(t reflect.Type, s string) error {
	var err error
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		_, err = strconv.ParseInt(s, 0, t.Bits())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		_, err = strconv.ParseUint(s, 0, t.Bits())
	case reflect.Float32, reflect.Float64:
		_, err = strconv.ParseFloat(s, t.Bits())
	}
	return errors.WithStack(err)
}

func coerceScalar(t reflect.Type, raw interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(raw)
	if rv.Type() == t {
		return rv, nil
	}
	if rv.Type().AssignableTo(t) {
		out := reflect.New(t).Elem()
		out.Set(rv)
		return out, nil
	}
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, ConfigurationError(errors.Errorf("no value to convert to %s", t))
		}
		return coerceScalar(t, rv.Elem().Interface())
	}
	switch {
	case isList(t):
		return coerceList(t, []Value{ScalarValue(raw)})
	case t.Kind() == reflect.Ptr && t != rv.Type() && !t.Implements(textUnmarshalerType):
		return coercePointer(t, ScalarValue(raw))
	}
	switch rv.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return coerceText(t, fmt.Sprint(raw))
	}
	if s, ok := raw.(fmt.Stringer); ok {
		return coerceText(t, s.String())
	}
	return reflect.Value{}, ConfigurationError(errors.Errorf("cannot convert %T to %s", raw, t))
}

func coercePointer(t reflect.Type, v Value) (reflect.Value, error) {
	elem, err := Coerce(t.Elem(), v)
	if err != nil {
		return reflect.Value{}, err
	}
	p := reflect.New(t.Elem())
	p.Elem().Set(elem)
	return p, nil
}

func coerceList(t reflect.Type, items []Value) (reflect.Value, error) {
	var out reflect.Value
	switch t.Kind() {
	case reflect.Slice:
		out = reflect.MakeSlice(t, len(items), len(items))
	case reflect.Array:
		if len(items) > t.Len() {
			return reflect.Value{}, ConfigurationError(errors.Errorf(
				"cannot fit %d elements into %s", len(items), t))
		}
		out = reflect.New(t).Elem()
	case reflect.Ptr:
		return coercePointer(t, Value{kind: List, list: items})
	case reflect.Interface:
		if isEmptyInterface(t) {
			out = reflect.New(t).Elem()
			out.Set(reflect.ValueOf(Value{kind: List, list: items}.Interface()))
			return out, nil
		}
		fallthrough
	default:
		return reflect.Value{}, ConfigurationError(errors.Errorf("cannot convert a list to %s", t))
	}
	for i, item := range items {
		ev, err := Coerce(t.Elem(), item)
		if err != nil {
			return reflect.Value{}, errors.Wrapf(err, "element %d", i)
		}
		out.Index(i).Set(ev)
	}
	return out, nil
}
