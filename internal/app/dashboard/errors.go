package dashboard

import (
	"errors"
	"fmt"
)

// ValidationError reports missing or malformed caller input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AsValidationError attempts to unwrap an error into a ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

const (
	msgSportRequired    = "sport parameter is required"
	msgInvalidDate      = "invalid date format (expected YYYY-MM-DD)"
	msgClientIDRequired = "clientId is required"
)
