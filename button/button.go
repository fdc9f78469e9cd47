// Package button reads a push button on a GPIO line and debounces it into
// discrete activation events.
//
// The line is polled, never watched for edges: each Poll reads the level
// once and feeds it to a Debouncer.
package button

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Opts is the configuration for a Button.
type Opts struct {
	// Minimum time between activations (default: DefaultInterval)
	Interval time.Duration

	// The button pulls the line high when pressed. By default it is
	// active-low with the internal pull-up enabled.
	ActiveHigh bool

	// Clock used to timestamp readings (default: time.Now)
	Now func() time.Time
}

// Button is a debounced push button.
type Button struct {
	pin      gpio.PinIn
	asserted gpio.Level
	now      func() time.Time
	deb      Debouncer
}

// New configures p as an input and returns a Button reading it.
//
// opts can be nil to use defaults.
func New(p gpio.PinIn, opts *Opts) (*Button, error) {
	if p == nil {
		return nil, errors.New("button: pin is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	pull, asserted := gpio.PullUp, gpio.Low
	if opts.ActiveHigh {
		pull, asserted = gpio.PullDown, gpio.High
	}
	if err := p.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("button: configure %s: %w", p, err)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Button{
		pin:      p,
		asserted: asserted,
		now:      now,
		deb:      Debouncer{Interval: opts.Interval},
	}, nil
}

// Poll reads the line once and reports whether the reading fired an
// activation.
func (b *Button) Poll() bool {
	return b.deb.Update(b.Pressed(), b.now())
}

// Pressed reports the raw, undebounced state of the line.
func (b *Button) Pressed() bool {
	return b.pin.Read() == b.asserted
}

// State returns the debounced state after the last Poll.
func (b *Button) State() State {
	return b.deb.State()
}

func (b *Button) String() string {
	return fmt.Sprintf("button.Button{%s}", b.pin)
}
