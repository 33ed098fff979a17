package sixel

import "github.com/pkg/errors"

// grid is the owned pixel grid plus palette a Parser builds up.
type grid struct {
	width, height int
	data          []colorNo

	palette [PaletteMax]uint32
	ncolors int

	usePrivateRegister bool
	paletteModified    bool
}

func newGrid(width, height int, fg, bg uint32, usePrivateRegister bool) *grid {
	img := &grid{
		width:              width,
		height:             height,
		data:               make([]colorNo, width*height),
		ncolors:            2,
		usePrivateRegister: usePrivateRegister,
	}
	img.palette[0] = bg
	if usePrivateRegister {
		img.palette[1] = fg
	}
	return img
}

// resize reallocates the pixel grid to width x height, preserving the
// overlap with the previous grid (top-left aligned) and zero-filling
// anything new. Returns an error only when width or height is not
// positive; the grid's data is then dropped, so later Parse calls fail —
// callers should stop parsing on error, mirroring the wire decoder's
// original contract.
func (img *grid) resize(width, height int) error {
	if width <= 0 || height <= 0 {
		img.data = nil
		return errors.Errorf("sixel: invalid resize target %dx%d", width, height)
	}

	alt := make([]colorNo, width*height)

	minHeight := height
	if img.height < minHeight {
		minHeight = img.height
	}
	minWidth := width
	if img.width < minWidth {
		minWidth = img.width
	}

	for row := 0; row < minHeight; row++ {
		src := img.data[img.width*row : img.width*row+minWidth]
		dst := alt[width*row : width*row+minWidth]
		copy(dst, src)
	}

	img.data = alt
	img.width = width
	img.height = height
	return nil
}

func (img *grid) set(x, y int, c colorNo) {
	img.data[img.width*y+x] = c
}
