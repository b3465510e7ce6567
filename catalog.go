package configmapper

import (
	"encoding"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

var (
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	durationType        = reflect.TypeOf(time.Duration(0))
)

// BuildCatalog walks a struct type and catalogs its configurable fields
// using the default tag.  The instance is optional: when provided (as a
// struct or a pointer to one) its current field values become the
// defaults of the catalog.  A nil formatter means LowerUnderscore.
func BuildCatalog(t reflect.Type, instance interface{}, formatter FieldNameFormatter) (Catalog, error) {
	var v reflect.Value
	if instance != nil {
		v = reflect.ValueOf(instance)
	}
	return buildCatalog(t, v, newOptions([]Option{WithFormatter(formatter)}))
}

func buildCatalog(t reflect.Type, instance reflect.Value, o *options) (Catalog, error) {
	st, err := structType(t)
	if err != nil {
		return Catalog{}, err
	}
	for instance.IsValid() && instance.Kind() == reflect.Ptr {
		if instance.IsNil() {
			instance = reflect.Value{}
			break
		}
		instance = instance.Elem()
	}
	if instance.IsValid() && instance.Type() != st {
		return Catalog{}, ConfigurationError(errors.Errorf(
			"instance for defaults is a %s, not a %s", instance.Type(), st))
	}
	if !instance.IsValid() {
		instance = reflect.New(st).Elem()
	}
	b := catalogBuilder{
		options: o,
		active:  make(map[reflect.Type]bool),
	}
	fields, err := b.walk("", nil, st, instance)
	if err != nil {
		return Catalog{}, err
	}
	c := newCatalog(st, fields)
	debugDump("catalog "+st.String(), c.Fields())
	return c, nil
}

func structType(t reflect.Type) (reflect.Type, error) {
	if t == nil {
		return nil, ConfigurationError(errors.Wrap(ErrInvalidConfigType, "unable to create instance of config type <nil>"))
	}
	st := t
	if st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, ConfigurationError(errors.Wrapf(ErrInvalidConfigType,
			"unable to create instance of config type %s: only structs (or pointers to structs) can be configured", t))
	}
	return st, nil
}

type catalogBuilder struct {
	options *options
	active  map[reflect.Type]bool
}

type fieldKind int

const (
	unsupportedField fieldKind = iota
	leafField
	nestedField
)

func classify(t reflect.Type) fieldKind {
	if t == durationType || t.Implements(textUnmarshalerType) || reflect.PtrTo(t).Implements(textUnmarshalerType) {
		return leafField
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return leafField
	case reflect.Interface:
		if t.NumMethod() == 0 {
			return leafField
		}
	case reflect.Slice, reflect.Array:
		if classify(t.Elem()) == leafField {
			return leafField
		}
	case reflect.Struct:
		return nestedField
	case reflect.Ptr:
		switch classify(t.Elem()) {
		case leafField:
			if t.Elem().Kind() != reflect.Ptr {
				return leafField
			}
		case nestedField:
			if t.Elem().Kind() == reflect.Struct {
				return nestedField
			}
		}
	}
	return unsupportedField
}

func (b catalogBuilder) walk(basePath string, prefix []fieldStep, t reflect.Type, v reflect.Value) (map[string]FieldDescriptor, error) {
	if b.active[t] {
		return nil, ConfigurationError(errors.Errorf("recursive config type %s at %s", t, strings.TrimSuffix(basePath, ".")))
	}
	b.active[t] = true
	defer delete(b.active, t)

	all := hasConfigurableMarker(t)
	candidates, err := collectFields(t, b.options.tag)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]FieldDescriptor)
	add := func(d FieldDescriptor) error {
		if _, ok := fields[d.Identifier]; ok {
			return ConfigurationError(errors.Errorf("duplicate config identifier %q in %s", d.Identifier, t))
		}
		fields[d.Identifier] = d
		return nil
	}
	for _, c := range candidates {
		f := c.field
		opt := c.option
		if opt.ignored || (!all && !opt.tagged) {
			continue
		}
		if f.PkgPath != "" {
			if opt.tagged {
				return nil, ConfigurationError(errors.Errorf(
					"cannot use unexported field %q of %s as a config option, export it or remove the %q tag",
					f.Name, t, b.options.tag))
			}
			continue
		}
		name := opt.name
		if name == "" {
			name = b.options.formatter(f.Name)
		}
		identifier := basePath + name
		step := fieldStep{
			name:    f.Name,
			index:   c.index,
			segment: name,
		}
		path := make([]fieldStep, len(prefix), len(prefix)+1)
		copy(path, prefix)
		path = append(path, step)

		switch classify(f.Type) {
		case leafField:
			debugf("catalog: %s is %s (%s)", identifier, f.Type, f.Name)
			err := add(FieldDescriptor{
				Identifier:  identifier,
				Name:        f.Name,
				Type:        f.Type,
				Position:    opt.position,
				Description: opt.description,
				Required:    opt.required,
				Default:     defaultValue(f.Type, fieldValue(v, c.index)),
				env:         opt.env,
				path:        path,
			})
			if err != nil {
				return nil, err
			}
		case nestedField:
			nt := reflectutils.NonPointer(f.Type)
			nv := fieldValue(v, c.index)
			if nv.IsValid() && nv.Kind() == reflect.Ptr {
				if nv.IsNil() {
					nv = reflect.Value{}
				} else {
					nv = nv.Elem()
				}
			}
			if !nv.IsValid() {
				nv = reflect.New(nt).Elem()
			}
			debugf("catalog: descending into %s (%s)", identifier, nt)
			nested, err := b.walk(identifier+".", path, nt, nv)
			if err != nil {
				return nil, errors.Wrap(err, f.Name)
			}
			for _, d := range nested {
				if err := add(d); err != nil {
					return nil, err
				}
			}
		default:
			if opt.tagged {
				return nil, ConfigurationError(errors.Errorf(
					"field %q of %s has type %s which cannot be configured", f.Name, t, f.Type))
			}
		}
	}
	if err := checkPositions(fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func checkPositions(fields map[string]FieldDescriptor) error {
	byPosition := make(map[int][]string)
	for id, d := range fields {
		if d.Positional() {
			byPosition[d.Position] = append(byPosition[d.Position], id)
		}
	}
	var clashes []int
	for position, ids := range byPosition {
		if len(ids) > 1 {
			clashes = append(clashes, position)
		}
	}
	if len(clashes) == 0 {
		return nil
	}
	sort.Ints(clashes)
	ids := byPosition[clashes[0]]
	sort.Strings(ids)
	return ConfigurationError(errors.Errorf("found same position %d on the following fields: %s",
		clashes[0], strings.Join(ids, ",")))
}

type candidate struct {
	field  reflect.StructField
	index  []int
	option fieldOption
}

// collectFields lists the fields of t in declaration order followed by
// the fields promoted from embedded structs.  A field that is shadowed
// by a shallower field with the same Go name is left out.
func collectFields(t reflect.Type, tagName string) ([]candidate, error) {
	seen := make(map[string]struct{})
	var all []candidate
	var collect func(t reflect.Type, index []int) error
	collect = func(t reflect.Type, index []int) error {
		var embedded []candidate
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			opt, err := parseFieldOption(f, tagName)
			if err != nil {
				return ConfigurationError(err)
			}
			c := candidate{
				field:  f,
				index:  append(append(make([]int, 0, len(index)+1), index...), i),
				option: opt,
			}
			if f.Anonymous {
				if f.Type == configurableType {
					continue
				}
				if isAncestor(f, opt) {
					embedded = append(embedded, c)
					continue
				}
			}
			if _, ok := seen[f.Name]; ok {
				continue
			}
			seen[f.Name] = struct{}{}
			all = append(all, c)
		}
		for _, c := range embedded {
			if c.option.ignored {
				continue
			}
			err := collect(reflectutils.NonPointer(c.field.Type), c.index)
			if err != nil {
				return err
			}
		}
		return nil
	}
	return all, collect(t, nil)
}

// isAncestor reports if an embedded field should have its fields promoted.
// Embedded structs that are given an explicit name are nested instead.
func isAncestor(f reflect.StructField, opt fieldOption) bool {
	if opt.name != "" {
		return false
	}
	t := f.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct && classify(f.Type) == nestedField
}

// fieldValue follows index from v.  It returns an invalid value if a
// nil pointer is in the way.
func fieldValue(v reflect.Value, index []int) reflect.Value {
	if !v.IsValid() {
		return v
	}
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Ptr {
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

func defaultValue(t reflect.Type, v reflect.Value) interface{} {
	if !v.IsValid() || !v.CanInterface() {
		v = reflect.Zero(t)
	}
	if t.Kind() == reflect.Slice && v.IsNil() {
		return reflect.MakeSlice(t, 0, 0).Interface()
	}
	return v.Interface()
}
