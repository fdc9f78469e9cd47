// Package cycle shows a table of images on a display, advancing to the next
// image each time a button is pressed.
package cycle

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/flavioheleno/st7789/assets"
	"github.com/rs/zerolog"
)

// DefaultPollInterval is the time between two input readings.
const DefaultPollInterval = time.Millisecond

// Surface draws an encoded image with its top-left corner at origin.
type Surface interface {
	DrawImage(asset []byte, origin image.Point) error
}

// Input reports activation events; Poll is called once per poll interval.
type Input interface {
	Poll() bool
}

// Cycler is a modulo counter over n entries.
type Cycler struct {
	n, i int
}

// NewCycler returns a Cycler over n entries, positioned at 0.
func NewCycler(n int) (*Cycler, error) {
	if n <= 0 {
		return nil, errors.New("cycle: table is empty")
	}
	return &Cycler{n: n}, nil
}

// Index returns the current position, always in [0, n).
func (c *Cycler) Index() int {
	return c.i
}

// Next advances the position by one, wrapping at n, and returns it.
func (c *Cycler) Next() int {
	c.i = (c.i + 1) % c.n
	return c.i
}

// Loop polls Input and redraws Surface with the next image of Images on
// every activation.
type Loop struct {
	Surface      Surface
	Input        Input
	Images       assets.Table
	PollInterval time.Duration
	Log          zerolog.Logger

	cyc *Cycler
}

// Start draws the first image. It is run by Run and only needs calling when
// driving the loop with Step.
func (l *Loop) Start() error {
	if l.Surface == nil || l.Input == nil {
		return errors.New("cycle: surface and input are required")
	}
	c, err := NewCycler(len(l.Images))
	if err != nil {
		return err
	}
	l.cyc = c
	l.draw()
	return nil
}

// Step polls the input once and, on activation, draws the next image.
// It reports whether an activation happened. Before Start it does nothing.
func (l *Loop) Step() bool {
	if l.cyc == nil || !l.Input.Poll() {
		return false
	}
	l.cyc.Next()
	l.draw()
	return true
}

// Index returns the index of the image currently shown.
func (l *Loop) Index() int {
	if l.cyc == nil {
		return 0
	}
	return l.cyc.Index()
}

// Run draws the first image and then polls until ctx is done. A draw in
// progress always completes; cancellation is only observed between polls.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.Start(); err != nil {
		return err
	}
	iv := l.PollInterval
	if iv <= 0 {
		iv = DefaultPollInterval
	}
	ticker := time.NewTicker(iv)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}

func (l *Loop) draw() {
	img := l.Images[l.cyc.Index()]
	start := time.Now()
	if err := l.Surface.DrawImage(img.Data, image.Point{}); err != nil {
		l.Log.Error().Err(err).Int("index", l.cyc.Index()).Str("image", img.Name).Msg("draw image")
		return
	}
	l.Log.Debug().Int("index", l.cyc.Index()).Str("image", img.Name).Dur("took", time.Since(start)).Msg("draw image")
}
