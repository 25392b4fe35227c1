package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind names a class of failure. The value is what users see as the error kind.
type Kind string

const (
	InvalidConfig     Kind = "InvalidConfigError"
	NotFound          Kind = "NotFoundError"
	UnsupportedFormat Kind = "UnsupportedFormatError"
	IOFailure         Kind = "IoError"
	Internal          Kind = "InternalError"
)

type AppError struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *AppError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(kind Kind, op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Kind: kind,
		Op:   op,
		Path: path,
		Err:  err,
	}
}

// New builds an AppError from a message instead of an underlying error.
func New(kind Kind, op, path, msg string) error {
	return Wrap(kind, op, path, stderrors.New(msg))
}

// KindOf reports the kind of the first AppError in err's chain, or Internal.
func KindOf(err error) Kind {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// Message returns the underlying cause text without the op/path prefix.
func Message(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	return err.Error()
}

func UserMessage(err error) string {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return err.Error()
	}
	switch appErr.Kind {
	case InvalidConfig:
		return fmt.Sprintf("Invalid configuration: %v", appErr.Err)
	case NotFound:
		return fmt.Sprintf("Path not found: %s", appErr.Path)
	case UnsupportedFormat:
		return fmt.Sprintf("Unsupported format: %s", appErr.Path)
	case IOFailure:
		return fmt.Sprintf("I/O error: %s", appErr.Path)
	default:
		return fmt.Sprintf("Unexpected error: %v", appErr.Err)
	}
}
