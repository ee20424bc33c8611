package response

import "errors"

var (
	// ErrTerminated is returned by emitting methods once the exchange is closed.
	ErrTerminated = errors.New("response: exchange already terminated")
	// ErrHeadersSent is returned when a second header emission is attempted.
	ErrHeadersSent = errors.New("response: headers already sent")
)
