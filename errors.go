package st7789

import "errors"

var (
	// ErrHalted is returned by drawing calls after Halt.
	ErrHalted = errors.New("st7789: halted")
	// ErrPortInUse is returned when a second device is built on an already claimed SPI port.
	ErrPortInUse = errors.New("st7789: spi port already in use")
)

// InitError reports a failed bring-up step. Nothing may be drawn on a device
// whose construction failed with an InitError.
type InitError struct {
	Step string
	Err  error
}

func (e *InitError) Error() string {
	return "st7789: init " + e.Step + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error {
	return e.Err
}

// TransportError reports a command or pixel write that failed after
// initialization. The panel state is unknown afterwards.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "st7789: " + e.Op + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports an image asset that did not parse. It is returned
// before any command reaches the panel.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "st7789: decode image: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
