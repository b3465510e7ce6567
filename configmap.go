package configmapper

import (
	"reflect"

	"github.com/mohae/deepcopy"
	"github.com/muir/commonerrors"
	"github.com/pkg/errors"
)

// ConfigMap pairs the Catalog of a struct type with supplied values.
// It is immutable: With and friends return new maps and the receiver
// can be shared freely.
type ConfigMap struct {
	catalog  Catalog
	pairs    []KeyValuePair
	instance reflect.Value // pointer to a struct, may be invalid
	opts     *options
}

// Of catalogs model.  Model can be a reflect.Type, a struct, or a pointer
// to a struct.  When model is a non-nil pointer, the struct it points
// to provides the defaults and is the template used by Create.
func Of(model interface{}, opts ...Option) (ConfigMap, error) {
	o := newOptions(opts)
	if o.delayedErr != nil {
		return ConfigMap{}, ConfigurationError(o.delayedErr)
	}
	var t reflect.Type
	var instance reflect.Value
	switch m := model.(type) {
	case reflect.Type:
		t = m
	case nil:
	default:
		rv := reflect.ValueOf(model)
		t = rv.Type()
		switch rv.Kind() {
		case reflect.Ptr:
			if !rv.IsNil() {
				instance = rv
			}
		case reflect.Struct:
			instance = reflect.New(t)
			instance.Elem().Set(rv)
		}
	}
	st, err := structType(t)
	if err != nil {
		return ConfigMap{}, err
	}
	var catalog Catalog
	if !instance.IsValid() && !o.customNames && !o.noCache {
		catalog, err = catalogs.getOrBuild(catalogKey{typ: st, tag: o.tag}, func() (Catalog, error) {
			return buildCatalog(st, reflect.Value{}, o)
		})
	} else {
		catalog, err = buildCatalog(st, instance, o)
	}
	if err != nil {
		return ConfigMap{}, err
	}
	return ConfigMap{
		catalog:  catalog,
		instance: instance,
		opts:     o,
	}, nil
}

// New is Of for a static type
func New[T any](opts ...Option) (ConfigMap, error) {
	return Of(reflect.TypeOf((*T)(nil)).Elem(), opts...)
}

// FromCatalog wraps a catalog that was built earlier.  Only the options
// that matter after cataloging (WithValidate, AfterApply, WithFileOptions)
// have any effect.
func FromCatalog(c Catalog, opts ...Option) (ConfigMap, error) {
	o := newOptions(opts)
	if o.delayedErr != nil {
		return ConfigMap{}, ConfigurationError(o.delayedErr)
	}
	if c.typ == nil {
		return ConfigMap{}, ConfigurationError(commonerrors.ProgrammerError(
			errors.New("FromCatalog requires a catalog created by BuildCatalog")))
	}
	return ConfigMap{
		catalog: c,
		opts:    o,
	}, nil
}

func (m ConfigMap) Catalog() Catalog { return m.catalog }

// KeyValuePairs returns a copy of the supplied pairs in order
func (m ConfigMap) KeyValuePairs() []KeyValuePair {
	pairs := make([]KeyValuePair, len(m.pairs))
	copy(pairs, m.pairs)
	return pairs
}

// Loaded is true once any pair has been supplied
func (m ConfigMap) Loaded() bool { return len(m.pairs) > 0 }

// With returns a new ConfigMap that has pairs added after the existing
// pairs.  When a key is supplied more than once, the first one wins.
func (m ConfigMap) With(pairs ...KeyValuePair) ConfigMap {
	n := m
	n.pairs = mergePairs(m.pairs, pairs)
	return n
}

// withFirst places pairs ahead of the existing pairs so that they win
// over values supplied earlier.
func (m ConfigMap) withFirst(pairs []KeyValuePair) ConfigMap {
	n := m
	n.pairs = mergePairs(pairs, m.pairs)
	return n
}

// Create returns a new, applied, pointer to the cataloged type.  If the
// map was built from an instance, the new value starts as a deep copy of
// that instance (exported fields only).
func (m ConfigMap) Create() (interface{}, error) {
	if m.catalog.typ == nil {
		return nil, ConfigurationError(commonerrors.ProgrammerError(
			errors.New("Create called on a ConfigMap that was not created with Of")))
	}
	var target interface{}
	if m.instance.IsValid() {
		target = deepcopy.Copy(m.instance.Interface())
	} else {
		target = reflect.New(m.catalog.typ).Interface()
	}
	return m.ApplyTo(target)
}
