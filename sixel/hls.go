package sixel

// hlsToRGB converts a DEC HLS triple (hue 0..360, lum 0..100, sat 0..100)
// to a packed RGB value. DEC's hue ring starts at blue (0 degrees) instead
// of HSL's red, so the hue is rotated -120 degrees before the usual
// 60-degree sextant interpolation.
func hlsToRGB(hue, lum, sat int) uint32 {
	var r, g, b float64

	if sat == 0 {
		r, g, b = float64(lum), float64(lum), float64(lum)
	} else {
		sign := 1.0
		if lum <= 50 {
			sign = -1.0
		}
		k := 100.0 - sign*float64(2*lum-100)
		max := float64(lum) + float64(sat)*k/200.0
		min := float64(lum) - float64(sat)*k/200.0

		h := (hue + 240) % 360
		span := max - min

		switch h / 60 {
		case 0: // 0 <= h < 60
			r = max
			g = min + span*(float64(h)/60.0)
			b = min
		case 1: // 60 <= h < 120
			r = min + span*(float64(120-h)/60.0)
			g = max
			b = min
		case 2: // 120 <= h < 180
			r = min
			g = max
			b = min + span*(float64(h-120)/60.0)
		case 3: // 180 <= h < 240
			r = min
			g = min + span*(float64(240-h)/60.0)
			b = max
		case 4: // 240 <= h < 300
			r = min + span*(float64(h-240)/60.0)
			g = min
			b = max
		default: // 300 <= h < 360
			r = max
			g = min
			b = min + span*(float64(360-h)/60.0)
		}
	}

	return xrgb(int(r), int(g), int(b))
}
