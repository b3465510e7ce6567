package configmapper

import (
	"github.com/muir/nflex"
	"github.com/muir/nject"
)

// DefaultTag is the struct tag consulted unless WithTag says otherwise.
const DefaultTag = "config"

// Validate is a subset of the Validate provided by
// https://github.com/go-playground/validator, allowing
// other implementations to be provided if desired
type Validate interface {
	Struct(s interface{}) error
}

// Applied is what AfterApply chains can receive once a ConfigMap has
// been applied to a target.
type Applied struct {
	Target interface{}
	Values Values
}

type options struct {
	tag         string
	formatter   FieldNameFormatter
	customNames bool
	validator   Validate
	afterApply  []func(Applied) error
	fileOptions []nflex.UnmarshalFileArg
	noCache     bool
	delayedErr  error
}

// Option is a functional argument for Of, New and FromCatalog
type Option func(*options)

func newOptions(opts []Option) *options {
	o := &options{
		tag:       DefaultTag,
		formatter: LowerUnderscore,
	}
	for _, f := range opts {
		f(o)
	}
	return o
}

// WithTag overrides the struct tag that marks configurable
// fields.  The default is "config".
func WithTag(tag string) Option {
	return func(o *options) {
		o.tag = tag
	}
}

// WithFormatter overrides how field names become identifiers
// when the tag does not provide a name.
func WithFormatter(formatter FieldNameFormatter) Option {
	return func(o *options) {
		if formatter == nil {
			return
		}
		o.formatter = formatter
		o.customNames = true
	}
}

// WithValidate runs the validator on each target after it has
// been successfully applied.
func WithValidate(v Validate) Option {
	return func(o *options) {
		o.validator = v
	}
}

// WithFileOptions passes through to
// https://pkg.go.dev/github.com/muir/nflex#UnmarshalFile
// when WithConfigFile loads a file.
func WithFileOptions(opts ...nflex.UnmarshalFileArg) Option {
	return func(o *options) {
		o.fileOptions = opts
	}
}

// WithoutCache forces the catalog to be rebuilt rather than shared
// with other ConfigMaps of the same type.
func WithoutCache() Option {
	return func(o *options) {
		o.noCache = true
	}
}

// AfterApply registers an injection chain that is invoked after
// each successful ApplyTo.  The chain can ask for Applied.  The last
// function in the chain may return nothing, an error, or an
// nject.TerminalError; a non-nil error is returned by ApplyTo.
// Chains from repeated AfterApply options run in the order given and
// stop at the first error.
func AfterApply(chain ...interface{}) Option {
	return func(o *options) {
		var invoke func(Applied) error
		err := nject.Sequence("default-error-responder",
			nject.Provide("default-error", func() nject.TerminalError {
				return nil
			})).Append("after-apply", chain...).Bind(&invoke, nil)
		if err != nil {
			var terminal func(Applied) nject.TerminalError
			if nject.Sequence("after-apply", chain...).Bind(&terminal, nil) != nil {
				o.delayedErr = err
				return
			}
			invoke = func(a Applied) error {
				if err := terminal(a); err != nil {
					return err
				}
				return nil
			}
		}
		o.afterApply = append(o.afterApply, invoke)
	}
}
