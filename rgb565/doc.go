// Package rgb565 provides the 16-bit 5-6-5 color format used by ST7789 class TFT controllers.
//
// A Color packs 5 bits of red, 6 bits of green and 5 bits of blue into a uint16,
// red in the most significant bits. On the wire the controller expects each
// pixel big-endian, high byte first:
//
//	Color:  0xF800 (pure red)
//	Bits:   RRRRRGGG GGGBBBBB
//	Bytes:  0xF8 0x00
//
// This package provides:
//
// - Color: a packed 5-6-5 value implementing color.Color
// - Model: a color model for converting standard Go colors to Color
// - Image: an image.Image whose Pix holds big-endian 5-6-5 pixels, ready to stream
//
// Example usage:
//
//	img := rgb565.NewImage(image.Rect(0, 0, 135, 240))
//	img.SetColor(10, 20, rgb565.New(0xFF, 0x69, 0xB4))
//	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
package rgb565
