package configmapper

import (
	"reflect"
	"strings"

	"github.com/AlekSi/pointer"
	"github.com/muir/reflectutils"
	"github.com/pkg/errors"
)

// Configurable is a marker.  Embed it in a struct to make every exported
// field of that struct configurable, tagged or not.
//
//	type Config struct {
//		configmapper.Configurable
//		Foo int
//		Bar string
//		Baz float64 `config:"-"`
//	}
type Configurable struct{}

var configurableType = reflect.TypeOf(Configurable{})

// DescriptionTag holds the description of a field.  Multiple lines are
// separated by newlines.
const DescriptionTag = "desc"

// EnvTag names an environment variable that PairsFromEnv reads for
// the field in addition to the derived name.
//
//	Home string `config:"home" env:"HOME"`
const EnvTag = "env"

type optionTag struct {
	Name     string `pt:"0"`
	Required bool   `pt:"required"`
	Position *int   `pt:"position"`
}

type envTag struct {
	Variable string `pt:"0"`
}

type fieldOption struct {
	tagged      bool
	ignored     bool
	name        string
	required    bool
	position    int
	description []string
	env         string
}

func parseFieldOption(f reflect.StructField, tagName string) (fieldOption, error) {
	opt := fieldOption{
		position: -1,
	}
	if desc, ok := f.Tag.Lookup(DescriptionTag); ok && desc != "" {
		opt.description = strings.Split(desc, "\n")
	}
	tags := reflectutils.SplitTag(f.Tag).Set()
	var env envTag
	if err := tags.Get(EnvTag).Fill(&env); err != nil {
		return opt, errors.Wrapf(err, "%s tag on %s", EnvTag, f.Name)
	}
	opt.env = strings.TrimSpace(env.Variable)
	if _, ok := f.Tag.Lookup(tagName); !ok {
		return opt, nil
	}
	opt.tagged = true
	var tag optionTag
	err := tags.Get(tagName).Fill(&tag)
	if err != nil {
		return opt, errors.Wrapf(err, "%s tag on %s", tagName, f.Name)
	}
	switch name := strings.TrimSpace(tag.Name); name {
	case "-":
		opt.ignored = true
	default:
		opt.name = name
	}
	opt.required = tag.Required
	if tag.Position != nil {
		opt.position = pointer.GetInt(tag.Position)
		if opt.position < 0 {
			return opt, errors.Errorf("%s tag on %s: position must not be negative, got %d",
				tagName, f.Name, opt.position)
		}
	}
	return opt, nil
}

// hasConfigurableMarker reports if t embeds Configurable, directly or
// promoted through an embedded struct.
func hasConfigurableMarker(t reflect.Type) bool {
	f, ok := t.FieldByName(configurableType.Name())
	return ok && f.Anonymous && f.Type == configurableType
}
