package device

import (
	"errors"
	"fmt"

	"github.com/vitaminmoo/chihirosctl/internal/protocol"
)

// ErrNotConnected is returned by Execute when no transport is bound.
var ErrNotConnected = errors.New("device not connected")

// UnsupportedOperationError is returned when the fixture model does not
// accept an operation. Nothing is encoded or sent.
type UnsupportedOperationError struct {
	Operation string
	Model     string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("%s does not support %s", e.Model, e.Operation)
}

// IsUnsupported reports whether err wraps an UnsupportedOperationError.
func IsUnsupported(err error) bool {
	var ue *UnsupportedOperationError
	return errors.As(err, &ue)
}

// TransportError wraps a failure to deliver a frame. Frames before Frame
// were delivered; frames after it were not attempted.
type TransportError struct {
	Frame protocol.Frame
	Err   error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send frame %s: %v", e.Frame.ID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
