package configmapper

import (
	"reflect"

	"github.com/muir/commonerrors"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// ApplyTo resolves the supplied pairs and writes the values into target,
// which must be a non-nil pointer to the cataloged struct type.  Target
// is returned for chaining.
//
// Nothing is written if resolution fails.  If some fields cannot be
// written, the others still are and all of the failures are returned
// together.  When the map is not Loaded, ApplyTo does nothing.
func (m ConfigMap) ApplyTo(target interface{}) (interface{}, error) {
	if !m.Loaded() {
		return target, nil
	}
	v := reflect.ValueOf(target)
	if !v.IsValid() || v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Type() != m.catalog.typ {
		return target, ConfigurationError(commonerrors.ProgrammerError(errors.Errorf(
			"ApplyTo requires a non-nil pointer to %s, not %T", m.catalog.typ, target)))
	}
	values, err := m.Resolve()
	if err != nil {
		return target, err
	}
	var errs error
	for _, id := range values.Identifiers() {
		r := values[id]
		if err := setField(v.Elem(), r.Field, r.Value); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "config %s", id))
		}
	}
	if errs != nil {
		return target, ConfigurationError(errs)
	}
	if m.opts != nil && m.opts.validator != nil {
		if err := m.opts.validator.Struct(target); err != nil {
			return target, ConfigurationError(errors.Wrap(err, m.catalog.typ.String()))
		}
	}
	if m.opts != nil {
		for _, after := range m.opts.afterApply {
			err := after(Applied{
				Target: target,
				Values: values,
			})
			if err != nil {
				return target, errors.Wrap(err, "after apply")
			}
		}
	}
	return target, nil
}

// Apply is ApplyTo for a static type
func Apply[T any](m ConfigMap, target *T) (*T, error) {
	_, err := m.ApplyTo(target)
	return target, err
}

// setField follows the descriptor path from v, allocating nil pointers
// to nested structs on the way, and stores value in the field.
func setField(v reflect.Value, d FieldDescriptor, value reflect.Value) error {
	step := d.path[0]
	f, err := fieldByIndex(v, step.index)
	if err != nil {
		return errors.Wrap(err, step.name)
	}
	if d.Nested() {
		if f.Kind() == reflect.Ptr {
			if f.IsNil() {
				if !f.CanSet() {
					return errors.Errorf("cannot allocate %s", step.name)
				}
				f.Set(reflect.New(f.Type().Elem()))
			}
			f = f.Elem()
		}
		return setField(f, d.child(), value)
	}
	if !f.CanSet() {
		return errors.Errorf("field %s cannot be set", step.name)
	}
	if !value.Type().AssignableTo(f.Type()) {
		return errors.Errorf("field %s is a %s, cannot store a %s", step.name, f.Type(), value.Type())
	}
	f.Set(value)
	return nil
}

// fieldByIndex is reflect.Value.FieldByIndex but it allocates
// nil embedded pointers rather than panicking.
func fieldByIndex(v reflect.Value, index []int) (reflect.Value, error) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, errors.Errorf("cannot allocate embedded %s", v.Type())
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, nil
}
