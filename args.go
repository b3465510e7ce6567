package configmapper

import (
	"strings"

	"github.com/google/shlex"
	"github.com/pkg/errors"
)

// PairsFromArgs turns arguments into pairs: key=value is a keyed pair,
// anything else is positional.
func PairsFromArgs(args []string) []KeyValuePair {
	pairs := make([]KeyValuePair, 0, len(args))
	for _, arg := range args {
		if key, value, ok := strings.Cut(arg, "="); ok && isArgKey(key) {
			pairs = append(pairs, KeyValuePair{
				key:    key,
				hasKey: true,
				value:  TextValue(value),
			})
			continue
		}
		pairs = append(pairs, KeyValuePair{value: TextValue(arg)})
	}
	return pairs
}

func isArgKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, " \t\"'")
}

// ParseArgs splits a line the way a shell would and then applies
// PairsFromArgs.
//
//	name="Jane Doe" 3 tags=a,b
func ParseArgs(line string) ([]KeyValuePair, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, ConfigurationError(errors.Wrapf(err, "parse %q", line))
	}
	return PairsFromArgs(args), nil
}

// WithArgs is With for the pairs of PairsFromArgs
func (m ConfigMap) WithArgs(args ...string) ConfigMap {
	return m.With(PairsFromArgs(args)...)
}

// WithArgLine is With for the pairs of ParseArgs
func (m ConfigMap) WithArgLine(line string) (ConfigMap, error) {
	pairs, err := ParseArgs(line)
	if err != nil {
		return m, err
	}
	return m.With(pairs...), nil
}
