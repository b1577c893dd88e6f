package olml

import "fmt"

// Error is returned when a value cannot produce its shape, for example
// when a Marshaler implementation fails. The encoder itself never fails.
type Error struct {
	Msg string
	Err error
}

func (e *Error) Error() string {
	return e.Msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates an Error with a formatted message.
// A %w verb in format records the wrapped error as the cause. With
// several %w verbs the cause matches each of them under errors.Is.
func Errorf(format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Msg: err.Error(), Err: cause(err)}
}

func cause(err error) error {
	switch u := err.(type) {
	case interface{ Unwrap() error }:
		return u.Unwrap()
	case interface{ Unwrap() []error }:
		return err
	}
	return nil
}
