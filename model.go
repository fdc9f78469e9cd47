package st7789

import (
	"errors"
	"fmt"
	"image"
	"iter"
	"time"

	"github.com/flavioheleno/st7789/rgb565"
	"periph.io/x/conn/v3/gpio"
)

// Commands (ST7789VW datasheet, section 9.1).
const (
	cmdSWRESET = 0x01 // Software Reset
	cmdSLPOUT  = 0x11 // Sleep Out
	cmdINVOFF  = 0x20 // Display Inversion Off
	cmdINVON   = 0x21 // Display Inversion On
	cmdDISPOFF = 0x28 // Display Off
	cmdDISPON  = 0x29 // Display On
	cmdCASET   = 0x2A // Column Address Set
	cmdRASET   = 0x2B // Row Address Set
	cmdRAMWR   = 0x2C // Memory Write
	cmdMADCTL  = 0x36 // Memory Data Access Control
	cmdCOLMOD  = 0x3A // Interface Pixel Format
)

// COLMOD value: 65K colors, 16 bits per pixel (RGB 5-6-5).
const colmodRGB565 = 0x55

// MADCTL bit fields.
const (
	MadctlMH  byte = 0x04 // Display data latch order, right to left
	MadctlBGR byte = 0x08 // BGR subpixel order
	MadctlML  byte = 0x10 // Line address order, bottom to top
	MadctlMV  byte = 0x20 // Row/column exchange
	MadctlMX  byte = 0x40 // Column address order, right to left
	MadctlMY  byte = 0x80 // Row address order, bottom to top
)

// Bring-up timings. The datasheet minimums are 10µs for the reset pulse,
// 120ms after reset and 5ms after SLPOUT.
const (
	resetPulse  = 10 * time.Millisecond
	resetSettle = 120 * time.Millisecond
)

// chunkBytes is the size of each pixel burst handed to the transport.
const chunkBytes = 512

// Model is a panel controller profile: how to bring the controller up, how
// to stream pixels to it and where the visible panel sits in its RAM.
type Model interface {
	// Init resets the controller and runs its bring-up sequence, returning
	// the addressing mode (MADCTL) byte that was written.
	Init(t Transport, delay func(time.Duration), madctl byte, rst gpio.PinOut) (byte, error)
	// WritePixels streams px as big-endian 5-6-5 data, without buffering
	// the whole sequence.
	WritePixels(t Transport, px iter.Seq[rgb565.Color]) error
	// Geometry returns the fixed panel geometry.
	Geometry() Geometry
}

// Geometry describes where a visible panel sits in the controller RAM.
type Geometry struct {
	Native  image.Point // addressable controller RAM (columns, rows)
	Visible image.Point // visible panel size
	Offset  image.Point // position of the visible area's origin in controller RAM
}

// Bounds returns the visible area in framebuffer coordinates.
func (g Geometry) Bounds() image.Rectangle {
	return image.Rectangle{Max: g.Visible}
}

// Clip returns the part of r inside the visible area.
func (g Geometry) Clip(r image.Rectangle) image.Rectangle {
	return r.Canon().Intersect(g.Bounds())
}

// Translate maps a framebuffer rectangle to controller RAM coordinates.
func (g Geometry) Translate(r image.Rectangle) image.Rectangle {
	return r.Add(g.Offset)
}

// Validate checks that the visible area fits inside controller RAM.
func (g Geometry) Validate() error {
	if g.Visible.X <= 0 || g.Visible.Y <= 0 {
		return errors.New("st7789: visible area must not be empty")
	}
	if g.Offset.X < 0 || g.Offset.Y < 0 ||
		g.Offset.X+g.Visible.X > g.Native.X || g.Offset.Y+g.Visible.Y > g.Native.Y {
		return fmt.Errorf("st7789: visible area %v at offset %v exceeds controller RAM %v", g.Visible, g.Offset, g.Native)
	}
	return nil
}

// Controller implements Model for the ST7789 command set. Panels that share
// this silicon differ only in their Geometry.
type Controller struct {
	Geom Geometry
}

var (
	// ST7789 is the stock 240x320 panel addressed from the RAM origin.
	ST7789 = Controller{Geom: Geometry{
		Native:  image.Pt(240, 320),
		Visible: image.Pt(240, 320),
	}}

	// ST7789_135x240 is the 135x240 panel mounted off-origin on the same controller.
	ST7789_135x240 = Controller{Geom: Geometry{
		Native:  image.Pt(240, 320),
		Visible: image.Pt(135, 240),
		Offset:  image.Pt(52, 40),
	}}
)

// Models maps configuration names to the built-in panel profiles.
var Models = map[string]Model{
	"st7789":         ST7789,
	"st7789-135x240": ST7789_135x240,
}

// Geometry returns the controller's panel geometry.
func (c Controller) Geometry() Geometry {
	return c.Geom
}

type initStep struct {
	name   string
	cmd    byte
	data   []byte
	settle time.Duration
}

// bringUp returns the command sequence shared by every panel on this controller.
func bringUp(madctl byte) []initStep {
	return []initStep{
		{"software reset", cmdSWRESET, nil, 150 * time.Millisecond},
		{"sleep out", cmdSLPOUT, nil, 10 * time.Millisecond},
		{"address mode", cmdMADCTL, []byte{madctl}, 0},
		{"pixel format", cmdCOLMOD, []byte{colmodRGB565}, 10 * time.Millisecond},
		{"display on", cmdDISPON, nil, 10 * time.Millisecond},
	}
}

// Init implements Model.
func (c Controller) Init(t Transport, delay func(time.Duration), madctl byte, rst gpio.PinOut) (byte, error) {
	if delay == nil {
		delay = time.Sleep
	}

	// Hardware reset, when a reset line is wired
	if rst != nil {
		if err := rst.Out(gpio.Low); err != nil {
			return 0, &InitError{Step: "reset low", Err: err}
		}
		delay(resetPulse)
		if err := rst.Out(gpio.High); err != nil {
			return 0, &InitError{Step: "reset high", Err: err}
		}
		delay(resetSettle)
	}

	for _, s := range bringUp(madctl) {
		if err := t.Command(s.cmd); err != nil {
			return 0, &InitError{Step: s.name, Err: err}
		}
		if len(s.data) > 0 {
			if err := t.Data(s.data); err != nil {
				return 0, &InitError{Step: s.name, Err: err}
			}
		}
		if s.settle > 0 {
			delay(s.settle)
		}
	}
	return madctl, nil
}

// WritePixels implements Model.
func (c Controller) WritePixels(t Transport, px iter.Seq[rgb565.Color]) error {
	buf := make([]byte, 0, chunkBytes)
	for p := range px {
		buf = append(buf, byte(p>>8), byte(p))
		if len(buf) == cap(buf) {
			if err := t.Data(buf); err != nil {
				return &TransportError{Op: "write pixels", Err: err}
			}
			buf = buf[:0]
		}
	}
	if len(buf) > 0 {
		if err := t.Data(buf); err != nil {
			return &TransportError{Op: "write pixels", Err: err}
		}
	}
	return nil
}
