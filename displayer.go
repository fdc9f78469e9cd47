package st7789

import (
	"image"
	"image/color"

	"github.com/flavioheleno/st7789/rgb565"
	"tinygo.org/x/drivers"
)

// displayer adapts a Dev to drivers.Displayer. SetPixel writes through to
// the panel; Display reports the first write error since the last call.
type displayer struct {
	d   *Dev
	err error
}

// Displayer returns d as a tinygo.org/x/drivers Displayer, for use with
// libraries written against that interface.
func (d *Dev) Displayer() drivers.Displayer {
	return &displayer{d: d}
}

func (p *displayer) Size() (x, y int16) {
	return int16(p.d.geom.Visible.X), int16(p.d.geom.Visible.Y)
}

func (p *displayer) SetPixel(x, y int16, c color.RGBA) {
	if p.err != nil {
		return
	}
	r := image.Rect(int(x), int(y), int(x)+1, int(y)+1)
	p.err = p.d.FillRectangle(r, rgb565.Convert(c))
}

func (p *displayer) Display() error {
	err := p.err
	p.err = nil
	return err
}
