package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrEmptySource is returned when neither topic nor text is provided.
	ErrEmptySource = errors.New("generation source cannot be empty")

	// ErrInvalidResponse is returned when the model response cannot be
	// parsed or fails draft validation.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model refuses the content on
	// safety grounds.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might
	// resolve on retry.
	ErrTransientFailure = errors.New("transient error during draft generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
