package request

import (
	"errors"
	"fmt"
)

// EncodingError reports a descriptor that cannot be turned into a request.
type EncodingError struct {
	Request string
	Reason  string
	Err     error
}

func (e *EncodingError) Error() string {
	msg := "encode request"
	if e.Request != "" {
		msg += " " + e.Request
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// IsEncodingError checks if err is or wraps an EncodingError.
func IsEncodingError(err error) bool {
	var encErr *EncodingError
	return errors.As(err, &encErr)
}
