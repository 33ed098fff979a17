package sixel

import (
	"image"
	"io"

	"golang.org/x/image/bmp"
)

// Finalize converts the decoded indexed image into a BGRA raster and
// returns the pixel bytes along with the clamped width and height;
// len(pixels) == width*height*4 always holds.
//
// max_x/max_y track the last-painted coordinate inclusively, so they are
// bumped once more before being clamped up to the declared raster extents
// (attributed_ph/attributed_pv). If the grid is larger than the clamped
// extents it is resized down to match. If the decoder was constructed with
// a private color register and at least one sixel was painted with a
// palette index above 2 (ncolors > 2), but no #-command ever
// modified the palette, the built-in default palette is loaded — this
// covers streams that rely on private-register defaults without an
// explicit palette-setup preamble.
func (p *Parser) Finalize() ([]byte, int, int, error) {
	img := p.img

	p.maxX++
	if p.maxX < p.attributedPh {
		p.maxX = p.attributedPh
	}
	p.maxY++
	if p.maxY < p.attributedPv {
		p.maxY = p.attributedPv
	}

	if img.width > p.maxX || img.height > p.maxY {
		if err := img.resize(p.maxX, p.maxY); err != nil {
			return nil, 0, 0, err
		}
	}

	if img.usePrivateRegister && img.ncolors > 2 && !img.paletteModified {
		setDefaultColor(img)
	}

	pixels := make([]byte, img.width*img.height*4)
	dst := 0
	for _, idx := range img.data {
		color := img.palette[idx]
		pixels[dst+0] = byte(color >> 16) // b
		pixels[dst+1] = byte(color >> 8)  // g
		pixels[dst+2] = byte(color)       // r
		pixels[dst+3] = 0xff              // a
		dst += 4
	}

	return pixels, img.width, img.height, nil
}

// EncodePreview re-encodes a finalized BGRA raster (as returned by
// Finalize) as a BMP image, for callers that want a file a human can open
// rather than a raw pixel buffer.
func EncodePreview(w io.Writer, pixels []byte, width, height int) error {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < width*height; i++ {
		b, g, r, a := pixels[i*4], pixels[i*4+1], pixels[i*4+2], pixels[i*4+3]
		img.Pix[i*4+0] = r
		img.Pix[i*4+1] = g
		img.Pix[i*4+2] = b
		img.Pix[i*4+3] = a
	}
	return bmp.Encode(w, img)
}
