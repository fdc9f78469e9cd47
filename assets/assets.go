// Package assets holds the bitmaps shown by the image cycle.
//
// Images are embedded at build time from the images directory. Their order
// in a Table is the lexicographic order of their file names, so the index of
// an image is stable across builds.
package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"path"
	"slices"

	"golang.org/x/image/bmp"
)

// DefaultPattern matches the embedded image set.
const DefaultPattern = "images/*.bmp"

//go:embed images/*.bmp
var images embed.FS

// Image is one raw, still encoded bitmap.
type Image struct {
	Name string      // base file name
	Size image.Point // from the bitmap header
	Data []byte
}

// Table is an ordered set of images.
type Table []Image

// Names returns the file names of t in order.
func (t Table) Names() []string {
	out := make([]string, len(t))
	for i, img := range t {
		out[i] = img.Name
	}
	return out
}

// Check verifies that every image in t is exactly size pixels.
func (t Table) Check(size image.Point) error {
	for _, img := range t {
		if img.Size != size {
			return fmt.Errorf("assets: %s is %dx%d, want %dx%d", img.Name, img.Size.X, img.Size.Y, size.X, size.Y)
		}
	}
	return nil
}

// Load reads every file of fsys matching pattern, sorted by name.
//
// Each file must carry a valid bitmap header; an empty match is an error.
func Load(fsys fs.FS, pattern string) (Table, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("assets: no images match " + pattern)
	}
	slices.Sort(names)

	t := make(Table, 0, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, err
		}
		cfg, err := bmp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("assets: %s: %w", name, err)
		}
		t = append(t, Image{
			Name: path.Base(name),
			Size: image.Pt(cfg.Width, cfg.Height),
			Data: data,
		})
	}
	return t, nil
}

// Default returns the embedded image set.
func Default() (Table, error) {
	return Load(images, DefaultPattern)
}
