package round

import "errors"

var (
	// ErrInvalidContent is returned when the round receives an unexpected content type.
	ErrInvalidContent = errors.New("round: message content is invalid")
	// ErrNilFields is returned when the message content has missing fields.
	ErrNilFields = errors.New("round: message contains nil fields")
)
