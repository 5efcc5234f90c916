package native

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform is returned by Open where dynamic loading is not available.
	ErrUnsupportedPlatform = errors.New("native: dynamic loading is not supported on this platform")
	// ErrEmbeddedNUL is returned when a value cannot be represented as a C string.
	ErrEmbeddedNUL = errors.New("native: value contains an embedded NUL byte")
)

// LoadError reports that the shared library could not be found, opened or
// linked. Symbol is set when the library opened but an export was missing.
type LoadError struct {
	Path   string
	Symbol string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Symbol != "" {
		return fmt.Sprintf("load %s: symbol %s: %v", e.Path, e.Symbol, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// MarshalError reports a value that could not be converted to a C string.
type MarshalError struct {
	Field  string
	Offset int
}

func (e *MarshalError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v at offset %d", ErrEmbeddedNUL, e.Offset)
	}
	return fmt.Sprintf("%s: %v at offset %d", e.Field, ErrEmbeddedNUL, e.Offset)
}

func (e *MarshalError) Unwrap() error {
	return ErrEmbeddedNUL
}
