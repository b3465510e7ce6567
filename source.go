package configmapper

import (
	"strconv"
	"strings"

	"github.com/muir/nflex"
	"github.com/pkg/errors"
)

// PairsFromSource reads the value of every cataloged field from a
// config source.  Identifiers are looked up as paths: nested.flag is
// found under the key flag inside the map nested.  Sequences become
// list values.  Fields that the source does not have are skipped.
func (c Catalog) PairsFromSource(source nflex.Source) ([]KeyValuePair, error) {
	if source == nil {
		return nil, nil
	}
	var pairs []KeyValuePair
	for _, id := range c.Identifiers() {
		keys := strings.Split(id, ".")
		if !source.Exists(keys...) {
			continue
		}
		value, err := sourceValue(source, keys)
		if err != nil {
			return nil, ConfigurationError(errors.Wrapf(err, "config %s", id))
		}
		if value.IsAbsent() {
			continue
		}
		debugf("source: %s = %s", id, value)
		pairs = append(pairs, KeyValuePair{
			key:    id,
			hasKey: true,
			value:  value,
		})
	}
	return pairs, nil
}

func sourceValue(source nflex.Source, keys []string) (Value, error) {
	if source.Type(keys...) == nflex.Nil {
		return Value{}, nil
	}
	if n, err := source.Len(keys...); err == nil {
		items := make([]Value, n)
		for i := range items {
			item := append(append(make([]string, 0, len(keys)+1), keys...), strconv.Itoa(i))
			v, err := sourceValue(source, item)
			if err != nil {
				return Value{}, errors.Wrapf(err, "element %d", i)
			}
			items[i] = v
		}
		return Value{kind: List, list: items}, nil
	}
	if s, err := source.GetString(keys...); err == nil {
		return TextValue(s), nil
	}
	switch source.Type(keys...) {
	case nflex.Int:
		i, err := source.GetInt(keys...)
		return ScalarValue(i), errors.WithStack(err)
	case nflex.Float:
		f, err := source.GetFloat(keys...)
		return ScalarValue(f), errors.WithStack(err)
	case nflex.Bool:
		b, err := source.GetBool(keys...)
		return ScalarValue(b), errors.WithStack(err)
	case nflex.Map:
		return Value{}, errors.New("expected a value, found a map")
	}
	return Value{}, errors.Errorf("cannot read %s", strings.Join(keys, "."))
}

// WithSource returns a new ConfigMap with the values found in source
// placed ahead of the pairs already supplied.  Since the first pair
// for a key wins, values from the source override earlier pairs.
func (m ConfigMap) WithSource(source nflex.Source) (ConfigMap, error) {
	pairs, err := m.catalog.PairsFromSource(source)
	if err != nil {
		return m, err
	}
	return m.withFirst(pairs), nil
}

// WithConfigFile loads a YAML or JSON file with nflex.UnmarshalFile
// and applies WithSource to it.  When prefix is given, the fields are
// looked up below that path in the file.
//
// Use WithFileOptions(nflex.WithFS(fs)) to read from an fs.FS.
func (m ConfigMap) WithConfigFile(path string, prefix ...string) (ConfigMap, error) {
	var opts []nflex.UnmarshalFileArg
	if m.opts != nil {
		opts = m.opts.fileOptions
	}
	source, err := nflex.UnmarshalFile(path, opts...)
	if err != nil {
		return m, ConfigurationError(errors.Wrap(err, path))
	}
	if len(prefix) > 0 {
		source = source.Recurse(prefix...)
		if source == nil {
			debugf("source: %s has nothing at %v", path, prefix)
			return m, nil
		}
	}
	debugf("source: adding config file %s", path)
	return m.WithSource(source)
}
