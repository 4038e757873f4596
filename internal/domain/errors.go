package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across layers.
var (
	ErrSourceUnavailable = errors.New("recipe service unavailable")
	ErrEmptyResult       = errors.New("no results")
	ErrStoreUnavailable  = errors.New("remote store unavailable")
	ErrNotAuthenticated  = errors.New("not authenticated")
	ErrNotFound          = errors.New("not found")
	ErrInvalidTransition = errors.New("navigation transition not allowed")
	ErrInvalidInput      = errors.New("invalid input")
)

// ErrorKind is the user-facing failure taxonomy carried by a ViewState.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindSourceUnavailable
	KindEmptyResult
	KindStoreUnavailable
	KindNotAuthenticated
	KindUnknown
)

// String returns a human-readable error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSourceUnavailable:
		return "source_unavailable"
	case KindEmptyResult:
		return "empty_result"
	case KindStoreUnavailable:
		return "store_unavailable"
	case KindNotAuthenticated:
		return "not_authenticated"
	default:
		return "unknown"
	}
}

// KindOf classifies err against the taxonomy.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrEmptyResult):
		return KindEmptyResult
	case errors.Is(err, ErrSourceUnavailable):
		return KindSourceUnavailable
	case errors.Is(err, ErrStoreUnavailable):
		return KindStoreUnavailable
	case errors.Is(err, ErrNotAuthenticated):
		return KindNotAuthenticated
	default:
		return KindUnknown
	}
}

// Failure ties an underlying error to one of the taxonomy sentinels.
// errors.Is matches both the sentinel and the wrapped cause.
type Failure struct {
	Kind error
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("%s: %v", f.Op, f.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", f.Op, f.Kind, f.Err)
}

// Unwrap exposes both the kind and the cause.
func (f *Failure) Unwrap() []error {
	if f.Err == nil {
		return []error{f.Kind}
	}
	return []error{f.Kind, f.Err}
}

// SourceFailure wraps a search service error. Errors already classified are
// returned unchanged.
func SourceFailure(op string, err error) error {
	if err == nil || KindOf(err) != KindUnknown {
		return err
	}
	return &Failure{Kind: ErrSourceUnavailable, Op: op, Err: err}
}

// StoreFailure wraps a remote store error. Errors already classified are
// returned unchanged.
func StoreFailure(op string, err error) error {
	if err == nil || KindOf(err) != KindUnknown {
		return err
	}
	return &Failure{Kind: ErrStoreUnavailable, Op: op, Err: err}
}

// Cause returns the innermost message of a Failure, or err.Error() otherwise.
func Cause(err error) string {
	var f *Failure
	if errors.As(err, &f) && f.Err != nil {
		return f.Err.Error()
	}
	return err.Error()
}
