package sixel

// xrgb packs three 0..100 percentages into a 24-bit RGB value the same way
// the wire format's color-introducer command specifies colors, rounding to
// nearest instead of truncating.
func xrgb(r, g, b int) uint32 {
	return rgb(palVal(r, 255, 100), palVal(g, 255, 100), palVal(b, 255, 100))
}

// rgb packs three already-0..255 channels, low byte red, matching the
// palette's in-memory packing (R | G<<8 | B<<16) — note this is the
// opposite byte order from the BGRA bytes Finalize emits.
func rgb(r, g, b int) uint32 {
	return uint32(r) | uint32(g)<<8 | uint32(b)<<16
}

// palVal scales n (0..m) to a 0..a value, rounding to nearest.
func palVal(n, a, m int) int {
	return (n*a + m/2) / m
}

// defaultColorTable holds the 16 DEC default colors as 0..100 RGB
// percentages, in palette order starting at index 1 (index 0 is reserved
// for the background color supplied at Init).
var defaultColorTable = [16][3]int{
	{0, 0, 0},    // 1 Black
	{20, 20, 80}, // 2 Blue
	{80, 13, 13}, // 3 Red
	{20, 80, 20}, // 4 Green
	{80, 20, 80}, // 5 Magenta
	{20, 80, 80}, // 6 Cyan
	{80, 80, 20}, // 7 Yellow
	{53, 53, 53}, // 8 Gray 50%
	{26, 26, 26}, // 9 Gray 25%
	{33, 33, 60}, // 10 Blue*
	{60, 26, 26}, // 11 Red*
	{33, 60, 33}, // 12 Green*
	{60, 33, 60}, // 13 Magenta*
	{33, 60, 60}, // 14 Cyan*
	{60, 60, 33}, // 15 Yellow*
	{80, 80, 80}, // 16 Gray 75%
}

// DefaultPalette builds the built-in PaletteMax-entry palette: the 16 DEC default
// colors at indices 1..16, a 6x6x6 RGB cube at 17..232, a 24-step grayscale
// ramp at 233..256, and white for anything left over.
func DefaultPalette() [PaletteMax]uint32 {
	var pal [PaletteMax]uint32

	for i, c := range defaultColorTable {
		pal[i+1] = xrgb(c[0], c[1], c[2])
	}

	n := 17
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				pal[n] = rgb(r*51, g*51, b*51)
				n++
			}
		}
	}

	for i := 0; i < 24; i++ {
		pal[n] = rgb(i*11, i*11, i*11)
		n++
	}

	for ; n < PaletteMax; n++ {
		pal[n] = rgb(255, 255, 255)
	}

	return pal
}

func setDefaultColor(img *grid) {
	pal := DefaultPalette()
	// Index 0 (background) is left untouched; every index from 1 up is
	// overwritten, including a private-register foreground at index 1. This
	// mirrors the wire format's set_default_color, which also starts at
	// index 1.
	copy(img.palette[1:], pal[1:])
}
