package quotes

import "errors"

// ErrNotFound is returned when a quote id or number matches nothing.
var ErrNotFound = errors.New("quote request not found")

// ValidationError reports a malformed or missing field on an inbound request.
// Creation never allocates a sequence before validation passes, so a
// ValidationError guarantees no side effects.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reports whether err is a validation failure (caller error)
// as opposed to an allocation or persistence failure (internal error).
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
