package config

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *Error. Configuration problems are fatal.
	ErrConfiguration = errors.New("configuration error")
	// ErrMissing: a required key is absent.
	ErrMissing = errors.New("required key missing")
)

// Error describes why a settings document was rejected.
type Error struct {
	Path string
	Key  string
	Err  error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("configuration %s: %s: %v", e.Path, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == ErrConfiguration }
