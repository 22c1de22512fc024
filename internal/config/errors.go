package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConfiguration is returned by the holder when loading produced no
	// configuration at all (the environment file was not structured data).
	ErrNoConfiguration = errors.New("no configuration loaded")
	// ErrAlreadyInitialized is returned by Configure once the global
	// configuration has been accessed.
	ErrAlreadyInitialized = errors.New("global configuration already initialized")
)

// Kind classifies a configuration file failure.
type Kind int

const (
	// KindRead means the file is missing or unreadable.
	KindRead Kind = iota + 1
	// KindSyntax means the content is not structured data at all.
	KindSyntax
	// KindShape means the content parsed but does not fit the target type.
	KindShape
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "read"
	case KindSyntax:
		return "syntax"
	case KindShape:
		return "shape"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error describes why a configuration file could not be used.
type Error struct {
	Kind   Kind
	Path   string
	Target string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRead:
		return fmt.Sprintf("error loading configuration file %s, please check the configuration: %v", e.Path, e.Err)
	case KindSyntax:
		return fmt.Sprintf("configuration file %s is not valid structured data: %v", e.Path, e.Err)
	case KindShape:
		return fmt.Sprintf("configuration file %s does not match %s: %v", e.Path, e.Target, e.Err)
	default:
		return fmt.Sprintf("configuration file %s: %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is a configuration failure that aborts loading.
// Syntax errors only reach callers under the strict policy.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var cfgErr *Error
	return errors.As(err, &cfgErr) || errors.Is(err, ErrNoConfiguration)
}
