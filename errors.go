package configmapper

import (
	"github.com/pkg/errors"
)

// ErrInvalidConfigType is the cause of errors returned when a model
// cannot be cataloged because it is not a struct.
var ErrInvalidConfigType = errors.New("invalid config type")

type configurationError struct {
	cause error
}

// ConfigurationError annotates an error as being a configuration error.
// Every failure returned by this package is a configuration error: bad
// struct definitions, bad input values, and missing required values alike.
func ConfigurationError(err error) error {
	if err == nil {
		return nil
	}
	return configurationError{
		cause: errors.WithStack(err),
	}
}

func (c configurationError) Error() string { return c.cause.Error() }
func (c configurationError) Unwrap() error { return c.cause }
func (c configurationError) Cause() error  { return c.cause }
func (c configurationError) Is(err error) bool {
	_, ok := err.(configurationError)
	return ok
}

// IsConfigurationError reports if err was annotated with ConfigurationError
func IsConfigurationError(err error) bool {
	var c configurationError
	return errors.Is(err, c)
}
