package st7789

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"iter"
	"time"

	"github.com/flavioheleno/st7789/rgb565"
	"golang.org/x/image/bmp"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// Opts is the configuration for the ST7789 display.
type Opts struct {
	// Panel profile (default: ST7789)
	Model Model

	// Addressing mode written with MADCTL during bring-up
	Madctl byte

	// Optional control pins (nil if not wired)
	RST       gpio.PinOut // Hardware reset
	Backlight gpio.PinOut // Driven high once the panel holds a known image

	// SPI clock (default: 24MHz); only used by NewSPI
	Frequency physic.Frequency

	// Delay primitive used for bring-up timing (default: time.Sleep)
	Delay func(time.Duration)

	// Color the panel is cleared to during construction
	Background rgb565.Color
}

// DefaultFrequency is the SPI clock used when Opts.Frequency is zero.
const DefaultFrequency = 24 * physic.MegaHertz

// Dev is the device handle for the ST7789 display.
type Dev struct {
	// Communication
	t    Transport
	port spi.Port // claimed port, nil when built with New

	// Panel
	model  Model
	geom   Geometry
	madctl byte

	// State
	halted bool
}

// NewSPI creates a new ST7789 device connected via SPI.
//
// The SPI port is configured for Mode0, 8-bit transfers at opts.Frequency.
// The dc (Data/Command) GPIO pin must be provided. The port stays claimed
// by the returned device until Halt.
//
// opts can be nil to use defaults (stock 240x320 panel, no reset line).
func NewSPI(p spi.Port, dc gpio.PinOut, opts *Opts) (*Dev, error) {
	if dc == nil {
		return nil, errors.New("st7789: dc pin is required")
	}
	if opts == nil {
		opts = &Opts{}
	}
	f := opts.Frequency
	if f == 0 {
		f = DefaultFrequency
	}

	if err := claim(p); err != nil {
		return nil, err
	}
	c, err := p.Connect(f, spi.Mode0, 8)
	if err != nil {
		release(p)
		return nil, &InitError{Step: "connect", Err: err}
	}

	d, err := New(newSPITransport(c, dc), opts)
	if err != nil {
		release(p)
		return nil, err
	}
	d.port = p
	return d, nil
}

// New creates a device on an already framed transport and runs the
// initialization protocol: controller bring-up, backlight, then a full
// clear to opts.Background.
func New(t Transport, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &Opts{}
	}
	m := opts.Model
	if m == nil {
		m = ST7789
	}
	geom := m.Geometry()
	if err := geom.Validate(); err != nil {
		return nil, &InitError{Step: "geometry", Err: err}
	}

	madctl, err := m.Init(t, opts.Delay, opts.Madctl, opts.RST)
	if err != nil {
		return nil, err
	}

	d := &Dev{
		t:      t,
		model:  m,
		geom:   geom,
		madctl: madctl,
	}

	if err := d.Clear(opts.Background); err != nil {
		return nil, &InitError{Step: "clear", Err: err}
	}
	if opts.Backlight != nil {
		if err := opts.Backlight.Out(gpio.High); err != nil {
			return nil, &InitError{Step: "backlight", Err: err}
		}
	}
	return d, nil
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return rgb565.Model
}

// Bounds returns the visible area of the display.
func (d *Dev) Bounds() image.Rectangle {
	return d.geom.Bounds()
}

// Geometry returns the panel geometry recorded at construction.
func (d *Dev) Geometry() Geometry {
	return d.geom
}

// Madctl returns the addressing mode confirmed during bring-up.
func (d *Dev) Madctl() byte {
	return d.madctl
}

// FillRectangle fills r, clipped to the visible area, with c.
// A rectangle with no visible pixels is a no-op.
func (d *Dev) FillRectangle(r image.Rectangle, c rgb565.Color) error {
	if d.halted {
		return ErrHalted
	}
	r = d.geom.Clip(r)
	if r.Empty() {
		return nil
	}
	if err := d.setWindow(r); err != nil {
		return err
	}
	return d.model.WritePixels(d.t, repeat(c, r.Dx()*r.Dy()))
}

// Clear fills the whole visible area with c.
func (d *Dev) Clear(c rgb565.Color) error {
	return d.FillRectangle(d.geom.Bounds(), c)
}

// DrawImage decodes a BMP asset and draws it with its top-left corner at
// origin. Pixels falling outside the visible area are clipped. A corrupt
// asset is reported as a *DecodeError before anything is sent to the panel.
func (d *Dev) DrawImage(asset []byte, origin image.Point) error {
	if d.halted {
		return ErrHalted
	}
	img, err := bmp.Decode(bytes.NewReader(asset))
	if err != nil {
		return &DecodeError{Err: err}
	}
	b := img.Bounds()
	return d.Draw(b.Sub(b.Min).Add(origin), img, b.Min)
}

// Draw implements display.Drawer.
//
// The dst rectangle is clipped to both the visible area and the extent of
// src, then the remaining pixels are streamed in row-major order.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}

	dst = dst.Canon()
	r := d.geom.Clip(dst)
	r = r.Intersect(src.Bounds().Sub(sp).Add(dst.Min))
	if r.Empty() {
		return nil
	}
	sp = sp.Add(r.Min.Sub(dst.Min))

	if err := d.setWindow(r); err != nil {
		return err
	}
	return d.model.WritePixels(d.t, pixels(src, r.Size(), sp))
}

// Invert switches display inversion on or off.
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return ErrHalted
	}
	cmd := byte(cmdINVOFF)
	if invert {
		cmd = cmdINVON
	}
	if err := d.t.Command(cmd); err != nil {
		return &TransportError{Op: "invert", Err: err}
	}
	return nil
}

// Halt turns the display off and releases the SPI port.
// After calling Halt, drawing calls fail with ErrHalted.
func (d *Dev) Halt() error {
	if d.halted {
		return nil
	}
	d.halted = true
	if d.port != nil {
		defer release(d.port)
	}
	if err := d.t.Command(cmdDISPOFF); err != nil {
		return &TransportError{Op: "display off", Err: err}
	}
	return nil
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("st7789.Dev{%dx%d}", d.geom.Visible.X, d.geom.Visible.Y)
}

// setWindow sets the controller addressing window to r, translated into
// controller RAM, and starts a memory write.
func (d *Dev) setWindow(r image.Rectangle) error {
	n := d.geom.Translate(r)
	x0, y0 := n.Min.X, n.Min.Y
	x1, y1 := n.Max.X-1, n.Max.Y-1

	for _, w := range []struct {
		cmd  byte
		data []byte
	}{
		{cmdCASET, []byte{byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}},
		{cmdRASET, []byte{byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}},
		{cmdRAMWR, nil},
	} {
		if err := d.t.Command(w.cmd); err != nil {
			return &TransportError{Op: "set window", Err: err}
		}
		if len(w.data) > 0 {
			if err := d.t.Data(w.data); err != nil {
				return &TransportError{Op: "set window", Err: err}
			}
		}
	}
	return nil
}

// repeat yields c n times.
func repeat(c rgb565.Color, n int) iter.Seq[rgb565.Color] {
	return func(yield func(rgb565.Color) bool) {
		for range n {
			if !yield(c) {
				return
			}
		}
	}
}

// pixels yields the size.X by size.Y block of src starting at sp, row by row.
func pixels(src image.Image, size, sp image.Point) iter.Seq[rgb565.Color] {
	if img, ok := src.(*rgb565.Image); ok {
		return func(yield func(rgb565.Color) bool) {
			for y := range size.Y {
				for x := range size.X {
					if !yield(img.ColorAt(sp.X+x, sp.Y+y)) {
						return
					}
				}
			}
		}
	}
	return func(yield func(rgb565.Color) bool) {
		for y := range size.Y {
			for x := range size.X {
				if !yield(rgb565.Convert(src.At(sp.X+x, sp.Y+y))) {
					return
				}
			}
		}
	}
}
