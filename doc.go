// Package st7789 controls ST7789 TFT displays via SPI.
//
// The ST7789 is a 16-bit color TFT controller with 240×320 pixels of RAM.
// This driver implements the display.Drawer interface from periph.io.
//
// # Display Characteristics
//
// - 16-bit RGB 5-6-5 color (see package rgb565)
// - 240×320 controller RAM
// - Panels smaller than the RAM are placed at a fixed offset (e.g. 135×240 at 52,40)
// - Pixels are streamed in bursts; the driver keeps no frame buffer
//
// # Hardware Connection
//
// Connect the ST7789 display to your system via SPI:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL/CLK     → SPI Clock (SCLK)
//	SDA/MOSI    → SPI Data (MOSI)
//	DC          → GPIO (any available pin)
//	CS          → SPI Chip Select (or GND if always selected)
//	RES         → Optional: GPIO for hardware reset
//	BLK         → Optional: GPIO for the backlight
//
// # Basic Usage
//
//	package main
//
//	import (
//		"image"
//
//		"github.com/flavioheleno/st7789"
//		"github.com/flavioheleno/st7789/rgb565"
//		"periph.io/x/conn/v3/gpio/gpioreg"
//		"periph.io/x/conn/v3/spi/spireg"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		host.Init()
//
//		spiBus, _ := spireg.Open("")
//		dcPin := gpioreg.ByName("GPIO25")
//
//		dev, _ := st7789.NewSPI(spiBus, dcPin, &st7789.Opts{
//			Model: st7789.ST7789_135x240,
//			RST:   gpioreg.ByName("GPIO24"),
//		})
//		defer dev.Halt()
//
//		dev.FillRectangle(image.Rect(0, 0, 40, 40), rgb565.New(0xFF, 0x69, 0xB4))
//	}
//
// # Initialization
//
// NewSPI (and New, for a custom Transport) runs a fixed bring-up sequence
// identical for every panel model:
//
//	RST low 10ms, RST high, wait 120ms   (only when RST is set)
//	SWRESET, wait 150ms
//	SLPOUT,  wait 10ms
//	MADCTL   <Opts.Madctl>
//	COLMOD   0x55 (16 bits/pixel), wait 10ms
//	DISPON,  wait 10ms
//
// then clears the visible area to Opts.Background and turns the backlight on.
// Any failure is returned as an *InitError and the device is unusable.
//
// # Panel Geometry
//
// A Geometry holds the controller RAM size, the visible size and the offset of
// the visible area. Drawing coordinates are always relative to the visible
// area; the driver clips every rectangle to it and adds the offset before
// sending CASET/RASET. A new panel on the same controller only needs a new
// Geometry:
//
//	panel := st7789.Controller{Geom: st7789.Geometry{
//		Native:  image.Pt(240, 320),
//		Visible: image.Pt(240, 240),
//		Offset:  image.Pt(0, 80),
//	}}
//
// # Errors
//
// - *InitError: bring-up failed; fatal
// - *TransportError: a write failed after bring-up; the panel state is unknown
// - *DecodeError: an image asset is malformed; nothing was sent to the panel
//
// # Datasheet
//
// https://www.rhydolabz.com/documents/33/ST7789.pdf
//
// # Compatibility
//
// Dev implements display.Drawer from periph.io, and Dev.Displayer adapts it
// to the tinygo.org/x/drivers Displayer interface.
package st7789
