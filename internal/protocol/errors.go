package protocol

import (
	"errors"
	"fmt"
)

// Valid ranges for command parameters
const (
	MinBrightness = 0
	MaxBrightness = 100

	MinColorTemp = 2000
	MaxColorTemp = 6500

	MinRampUp = 0
	MaxRampUp = 150

	// MaxSettingChannels is the number of brightness slots in a setting frame.
	MaxSettingChannels = 8
)

// ValidationError reports a command parameter outside its accepted range.
// No frame is built and no message ID is consumed when it is returned.
type ValidationError struct {
	Field string
	Value int
	Min   int
	Max   int

	// Name holds the rejected value of an enumerated parameter. Value, Min
	// and Max are unused when it is set.
	Name string
}

func (e *ValidationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid %s: %q", e.Field, e.Name)
	}
	return fmt.Sprintf("invalid %s: %d (must be between %d and %d)", e.Field, e.Value, e.Min, e.Max)
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func checkRange(field string, value, min, max int) error {
	if value < min || value > max {
		return &ValidationError{Field: field, Value: value, Min: min, Max: max}
	}
	return nil
}

func checkBrightness(field string, value int) error {
	return checkRange(field, value, MinBrightness, MaxBrightness)
}
