package sixel

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, seq string) *Parser {
	t.Helper()
	p := NewParser(0, 0, false)
	require.NoError(t, p.Parse([]byte(seq)))
	return p
}

func TestDegenerateRoundTrip(t *testing.T) {
	p := decode(t, "\x1bPq\x1b\\")
	pixels, w, h, err := p.Finalize()
	require.NoError(t, err)
	require.Equal(t, 1, w)
	require.Equal(t, 1, h)
	require.Len(t, pixels, 4)
}

func TestSinglePixelColumn(t *testing.T) {
	p := decode(t, "\x1bPq#1;2;100;0;0~\x1b\\")
	pixels, w, h, err := p.Finalize()
	require.NoError(t, err)
	require.Equal(t, 1, w)
	require.Equal(t, 6, h)
	for i := 0; i < h; i++ {
		px := pixels[i*4 : i*4+4]
		require.Equal(t, []byte{0, 0, 255, 0xff}, px, "row %d", i)
	}
}

func TestRepeatPaintsBlock(t *testing.T) {
	p := decode(t, "\x1bPq#1;2;100;0;0!5~\x1b\\")
	require.Equal(t, 4, p.maxX)

	pixels, w, h, err := p.Finalize()
	require.NoError(t, err)
	require.Equal(t, 5, w)
	require.Equal(t, 6, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := pixels[(y*w+x)*4 : (y*w+x)*4+4]
			require.Equal(t, []byte{0, 0, 255, 0xff}, px, "x=%d y=%d", x, y)
		}
	}
}

func TestNewlineAdvancesSixRows(t *testing.T) {
	p := decode(t, "\x1bPq#1;2;100;0;0~-~\x1b\\")
	_, _, h, err := p.Finalize()
	require.NoError(t, err)
	require.Equal(t, 12, h)
}

func TestHLSBlueAtHueZero(t *testing.T) {
	got := hlsToRGB(0, 50, 100)
	r := byte(got)
	g := byte(got >> 8)
	b := byte(got >> 16)
	require.Equal(t, byte(0), r)
	require.Equal(t, byte(0), g)
	require.Equal(t, byte(255), b)
}

func TestResizeDoublesUntilItFitsAndPreservesPixels(t *testing.T) {
	p := NewParser(0, 0, false)
	// Paint at column 0 first so we can check it survives subsequent growth.
	require.NoError(t, p.Parse([]byte("\x1bPq#1;2;100;0;0~")))
	// Growing from 1x1 to fit a 1x6 column doubles both dimensions to 8x8.
	require.Equal(t, 8, p.img.width)

	// Force a far-right paint that requires the grid to grow repeatedly.
	require.NoError(t, p.Parse([]byte("!100~")))
	require.GreaterOrEqual(t, p.img.width, 101)

	// Original single painted column (x=0, rows 0..5) must have survived.
	for y := 0; y < 6; y++ {
		require.NotZero(t, p.img.data[p.img.width*y+0])
	}
}

func TestParamClamping(t *testing.T) {
	p := NewParser(0, 0, false)
	require.NoError(t, p.Parse([]byte("\x1bPq#99999999999")))
	require.Equal(t, ParamValueMax, p.param)

	p2 := NewParser(0, 0, false)
	seq := "\x1bPq#"
	for i := 0; i < ParamsMax+5; i++ {
		seq += "1;"
	}
	require.NoError(t, p2.Parse([]byte(seq)))
	require.Equal(t, ParamsMax, p2.nparams)
}

func TestBoundedOutputDimensions(t *testing.T) {
	p := decode(t, "\x1bPq\"1;1;5000;5000#1;2;100;0;0~\x1b\\")
	_, w, h, err := p.Finalize()
	require.NoError(t, err)
	require.LessOrEqual(t, w, WidthMax)
	require.LessOrEqual(t, h, HeightMax)
}

func TestResumableAcrossCallBoundaries(t *testing.T) {
	p := NewParser(0, 0, false)
	seq := []byte("\x1bPq#1;2;100;0;0~\x1b\\")
	for _, b := range seq {
		require.NoError(t, p.Parse([]byte{b}))
	}
	pixels, w, h, err := p.Finalize()
	require.NoError(t, err)
	require.Equal(t, 1, w)
	require.Equal(t, 6, h)
	require.Equal(t, []byte{0, 0, 255, 0xff}, pixels[0:4])
}

func TestDefaultPaletteShape(t *testing.T) {
	pal := DefaultPalette()
	require.Len(t, pal, PaletteMax)
	// Black is DEC default color 1.
	require.Equal(t, uint32(0), pal[1])
	// First entry of the grayscale ramp, not part of the white fill.
	require.NotEqual(t, uint32(0xffffff), pal[233])
}
