/*
Package configmapper uses reflection to bind loosely typed key/value input
onto configuration structs.

The basic flow starts with Of() (or New[T]()), which walks the struct type and
builds a flat Catalog of every configurable field, keyed by a dotted identifier.
Use With() to supply KeyValuePairs and ApplyTo() to write the coerced values
into an instance of the struct.

	cfg, err := configmapper.Of(&MyConfig{})
	if err != nil {
		return err
	}
	_, err = cfg.With(
		configmapper.Pair("name", "foo"),
		configmapper.Pair("server.port", "8080"),
	).ApplyTo(&target)

Only fields that are tagged are cataloged:

	type MyConfig struct {
		Name    string        `config:",required,position=0" desc:"name of the thing"`
		Retries int           `config:"max_retries"`
		Server  ServerConfig  `config:""`
		Skipped string
	}

A struct that embeds Configurable has all of its exported fields cataloged,
tagged or not.  Exclude a field from either mode by overriding its name to "-".

The general form of the tag is config:"name,flag,key=value".

The name parameter, which is always first, overrides the formatted field name.
Leave it empty to use the field name passed through the FieldNameFormatter
(LowerUnderscore by default, so DefaultField becomes default_field).

	required:   ApplyTo fails if no value for the field was supplied
	position=N: the field may be supplied as the Nth unkeyed value

Fields whose type is a struct (or pointer to a struct) that does not implement
encoding.TextUnmarshaler are descended into.  Their fields appear in the catalog
as "parent.child"; the parent itself never does.  Fields of embedded structs are
promoted into the embedding struct's level, just like Go promotes them.

Unkeyed (positional) values must come before any keyed value.  Unknown keys are
ignored.

Values are coerced to the declared field type.  Strings are parsed with the
standard strconv grammar; slices and arrays are parsed from a comma separated
list where double quotes protect embedded commas:

	foo, "bar,baz", 3

KeyValuePairs can also be produced from configuration files (WithConfigFile,
WithSource), JSON documents (WithJSON), the environment (WithEnv) and command
line style arguments (WithArgs, WithArgLine).  Pairs read from files and the
environment are looked up by catalog identifier and take priority over pairs
supplied earlier.  The environment variable for a field is derived from its
identifier (see EnvName) unless the field has an env tag:

	Token string `config:"" env:"API_TOKEN"`
*/
package configmapper
