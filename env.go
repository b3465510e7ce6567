package configmapper

import (
	"os"
	"strings"
)

// EnvName is the variable that PairsFromEnv reads for an identifier:
// the identifier upper-cased, with dots turned into double underscores
// and hyphens into underscores, after the prefix and an underscore.
// With prefix "APP", nested.flag is APP_NESTED__FLAG.
func EnvName(prefix, identifier string) string {
	name := strings.ToUpper(identifier)
	name = strings.ReplaceAll(name, ".", "__")
	name = strings.ReplaceAll(name, "-", "_")
	if prefix == "" {
		return name
	}
	return prefix + "_" + name
}

// PairsFromEnv reads the environment for the cataloged fields.  A
// variable named with the env tag is used when it is set, otherwise
// the one given by EnvName.
func (c Catalog) PairsFromEnv(prefix string) []KeyValuePair {
	var pairs []KeyValuePair
	for _, d := range c.Fields() {
		names := []string{EnvName(prefix, d.Identifier)}
		if d.env != "" {
			names = append([]string{d.env}, names...)
		}
		for _, name := range names {
			value, ok := os.LookupEnv(name)
			if !ok {
				continue
			}
			debugf("env: %s = %s (from %s)", d.Identifier, value, name)
			pairs = append(pairs, KeyValuePair{
				key:    d.Identifier,
				hasKey: true,
				value:  TextValue(value),
			})
			break
		}
	}
	return pairs
}

// WithEnv returns a new ConfigMap with environment values placed
// ahead of the pairs already supplied, so the environment overrides
// them.
func (m ConfigMap) WithEnv(prefix string) ConfigMap {
	return m.withFirst(m.catalog.PairsFromEnv(prefix))
}
