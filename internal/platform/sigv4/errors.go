package sigv4

import "errors"

// ErrCredentialsUnavailable means no usable credentials could be resolved.
var ErrCredentialsUnavailable = errors.New("credentials unavailable")

// SigningError wraps a failure of the signature computation itself.
type SigningError struct {
	Err error
}

func (e *SigningError) Error() string {
	return "sign request: " + e.Err.Error()
}

func (e *SigningError) Unwrap() error {
	return e.Err
}

// IsSigningError checks if err is a signing or credential failure.
func IsSigningError(err error) bool {
	var sErr *SigningError
	return errors.As(err, &sErr) || errors.Is(err, ErrCredentialsUnavailable)
}
