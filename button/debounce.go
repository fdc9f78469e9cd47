package button

import "time"

// DefaultInterval is the minimum time between two activations.
const DefaultInterval = 250 * time.Millisecond

// State is the debounced state of an input line.
type State int

const (
	Released State = iota
	Held
)

func (s State) String() string {
	switch s {
	case Released:
		return "Released"
	case Held:
		return "Held"
	default:
		return "State(?)"
	}
}

// Debouncer turns instantaneous line readings into activation events.
//
// An asserted reading moves Released to Held. The move fires an activation
// only when at least Interval has passed since the previous activation;
// inside the interval the line is taken as bounce and held silently. Any
// de-asserted reading returns to Released at once, so a press fires at most
// one event however it chatters.
//
// The zero value is ready to use, with DefaultInterval.
type Debouncer struct {
	Interval time.Duration

	state State
	last  time.Time // last transition into Held
}

// Update applies one reading taken at now and reports whether it fired an
// activation.
func (d *Debouncer) Update(asserted bool, now time.Time) bool {
	if !asserted {
		d.state = Released
		return false
	}
	if d.state == Held {
		return false
	}
	d.state = Held
	if !d.last.IsZero() && now.Sub(d.last) < d.interval() {
		return false
	}
	d.last = now
	return true
}

// State returns the current debounced state.
func (d *Debouncer) State() State {
	return d.state
}

func (d *Debouncer) interval() time.Duration {
	if d.Interval <= 0 {
		return DefaultInterval
	}
	return d.Interval
}
