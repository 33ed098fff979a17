package sixel

import "github.com/pkg/errors"

// Parser is a byte-fed DEC SIXEL decoder. It holds no goroutine and
// suspends nothing: Parse consumes every byte handed to it and returns,
// ready for the next call to continue exactly where it left off.
type Parser struct {
	state state

	param   int
	params  [ParamsMax]int
	nparams int

	posX, posY int
	maxX, maxY int

	attributedPan int
	attributedPad int
	attributedPh  int
	attributedPv  int

	repeatCount int
	colorIndex  int

	img *grid

	// OnTruncate, if set, is called the first time a DECGNL (newline)
	// pushes pos_y past the point where painting silently stops. Painting
	// past that point is simply dropped, with no error returned; this hook
	// never affects parse results — it exists purely as an optional
	// diagnostic for callers like cmd/vtcat.
	OnTruncate func()
	truncated  bool
}

// NewParser starts a decoder with the given default foreground/background
// colors (as packed R|G<<8|B<<16 values) and a 1x1 image. If
// usePrivateRegister is set, palette[1] is seeded with fg in addition to
// palette[0] with bg, matching a private (as opposed to shared) color
// register space.
func NewParser(fg, bg uint32, usePrivateRegister bool) *Parser {
	return &Parser{
		state:         stateDCS,
		attributedPan: 2,
		attributedPad: 1,
		repeatCount:   1,
		colorIndex:    16,
		img:           newGrid(1, 1, fg, bg, usePrivateRegister),
	}
}

// UseDefaultColors loads the built-in default palette into the decoder,
// the Go name for the wire format's parser_set_default_color.
func (p *Parser) UseDefaultColors() {
	setDefaultColor(p.img)
}

// Parse advances the state machine over every byte in b. A non-nil error
// means a pixel-grid allocation failed; the parser's internal state is
// then undefined and the caller should stop feeding it further bytes.
// Malformed sixel input is never an error — unrecognized bytes are simply
// consumed, and out-of-range parameters are clamped.
func (p *Parser) Parse(b []byte) error {
	if p.img.data == nil {
		return errNoImage
	}
	i := 0
	for i < len(b) {
		n, err := p.step(b[i:])
		if err != nil {
			return err
		}
		i += n
	}
	return nil
}

// step processes b starting from its first byte and returns how many bytes
// were consumed. The byte that terminates a DECGRA, DECGRI or DECGCI command
// is not consumed (step returns 0 after switching to stateDECSIXEL), so the
// next step call processes it as sixel data or as the next command;
// every other byte is consumed (step returns 1). stateESC consumes exactly
// one byte per call, but Parse's loop immediately calls step again on
// whatever of b remains, so a multi-byte buffer that passes through an ESC
// transition is still fully consumed within a single Parse call — nothing
// about reaching stateESC makes Parse itself return early.
func (p *Parser) step(b []byte) (int, error) {
	switch p.state {
	case stateESC:
		return p.stepESC(b)
	case stateDCS:
		return p.stepDCS(b)
	case stateDECSIXEL:
		return p.stepDECSIXEL(b)
	case stateDECGRA:
		return p.stepDECGRA(b)
	case stateDECGRI:
		return p.stepDECGRI(b)
	case stateDECGCI:
		return p.stepDECGCI(b)
	default:
		return 1, nil
	}
}

func (p *Parser) stepESC(b []byte) (int, error) {
	switch b[0] {
	case '\\', 0x9c:
		// DCS/ST terminator acknowledged; caller sees parse end.
	case 'P':
		p.param = -1
		p.state = stateDCS
	}
	return 1, nil
}

func (p *Parser) pushParam() {
	if p.param < 0 {
		p.param = 0
	}
	if p.nparams < ParamsMax {
		p.params[p.nparams] = p.param
		p.nparams++
	}
	p.param = 0
}

func accumulateDigit(param int, d byte) int {
	v := param*10 + int(d-'0')
	if v > ParamValueMax {
		v = ParamValueMax
	}
	return v
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (p *Parser) stepDCS(b []byte) (int, error) {
	c := b[0]
	switch {
	case c == 0x1b:
		p.state = stateESC
	case isDigit(c):
		if p.param < 0 {
			p.param = 0
		}
		p.param = accumulateDigit(p.param, c)
	case c == ';':
		p.pushParam()
	case c == 'q':
		if p.param >= 0 {
			p.pushParam()
		}
		p.applyDCSParams()
		p.nparams = 0
		p.param = 0
		p.state = stateDECSIXEL
	}
	return 1, nil
}

// attributedPadTable maps DECSIXEL Pn1 (aspect ratio preset) to
// attributed_pad, per the wire format's raster-attribute table.
var attributedPadTable = map[int]int{
	0: 2, 1: 2,
	2: 5,
	3: 4, 4: 4,
	5: 3, 6: 3,
	7: 2, 8: 2,
	9: 1,
}

func (p *Parser) applyDCSParams() {
	if p.nparams == 0 {
		return
	}

	pad, ok := attributedPadTable[p.params[0]]
	if !ok {
		pad = 2
	}
	p.attributedPad = pad

	if p.nparams > 2 {
		pn3 := p.params[2]
		if pn3 == 0 {
			pn3 = 10
		}
		p.attributedPan = p.attributedPan * pn3 / 10
		p.attributedPad = p.attributedPad * pn3 / 10
		if p.attributedPan <= 0 {
			p.attributedPan = 1
		}
		if p.attributedPad <= 0 {
			p.attributedPad = 1
		}
	}
}

func (p *Parser) stepDECSIXEL(b []byte) (int, error) {
	c := b[0]
	switch {
	case c == 0x1b:
		p.state = stateESC
	case c == '"':
		p.param, p.nparams = 0, 0
		p.state = stateDECGRA
	case c == '!':
		p.param, p.nparams = 0, 0
		p.state = stateDECGRI
	case c == '#':
		p.param, p.nparams = 0, 0
		p.state = stateDECGCI
	case c == '$':
		p.posX = 0
	case c == '-':
		p.posX = 0
		if p.posY < HeightMax-11 {
			p.posY += 6
		} else {
			p.posY = HeightMax + 1
			if !p.truncated {
				p.truncated = true
				if p.OnTruncate != nil {
					p.OnTruncate()
				}
			}
		}
	case c >= '?' && c <= '~':
		if err := p.paintSixel(int(c) - '?'); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func (p *Parser) paintSixel(bits int) error {
	img := p.img

	if img.width < p.posX+p.repeatCount || img.height < p.posY+6 {
		if img.width < WidthMax && img.height < HeightMax {
			sx, sy := img.width*2, img.height*2
			for sx < p.posX+p.repeatCount || sy < p.posY+6 {
				sx *= 2
				sy *= 2
			}
			if sx > WidthMax {
				sx = WidthMax
			}
			if sy > HeightMax {
				sy = HeightMax
			}
			if err := img.resize(sx, sy); err != nil {
				return err
			}
		}
	}

	if p.colorIndex > img.ncolors {
		img.ncolors = p.colorIndex
	}

	if p.posX+p.repeatCount > img.width {
		p.repeatCount = img.width - p.posX
	}

	if p.repeatCount > 0 && p.posY-5 < img.height && bits != 0 {
		if p.repeatCount <= 1 {
			mask := 1
			for i := 0; i < 6; i++ {
				if bits&mask != 0 && p.posY+i < img.height {
					img.set(p.posX, p.posY+i, colorNo(p.colorIndex))
					if p.maxX < p.posX {
						p.maxX = p.posX
					}
					if p.maxY < p.posY+i {
						p.maxY = p.posY + i
					}
				}
				mask <<= 1
			}
		} else {
			mask := 1
			for i := 0; i < 6; i++ {
				if bits&mask != 0 {
					runMask := mask << 1
					n := 1
					for i+n < 6 {
						if bits&runMask == 0 {
							break
						}
						runMask <<= 1
						n++
					}
					for y := p.posY + i; y < p.posY+i+n; y++ {
						if y >= img.height {
							break
						}
						for x := p.posX; x < p.posX+p.repeatCount; x++ {
							img.set(x, y, colorNo(p.colorIndex))
						}
					}
					if p.maxX < p.posX+p.repeatCount-1 {
						p.maxX = p.posX + p.repeatCount - 1
					}
					if p.maxY < p.posY+i+n-1 {
						p.maxY = p.posY + i + n - 1
					}
					i += n - 1
					mask <<= n - 1
				}
				mask <<= 1
			}
		}
	}

	if p.repeatCount > 0 {
		p.posX += p.repeatCount
	}
	p.repeatCount = 1
	return nil
}

func (p *Parser) stepDECGRA(b []byte) (int, error) {
	c := b[0]
	switch {
	case c == 0x1b:
		p.state = stateESC
	case isDigit(c):
		p.param = accumulateDigit(p.param, c)
	case c == ';':
		if p.nparams < ParamsMax {
			p.params[p.nparams] = p.param
			p.nparams++
		}
		p.param = 0
	default:
		if p.nparams < ParamsMax {
			p.params[p.nparams] = p.param
			p.nparams++
		}
		if p.nparams > 0 {
			p.attributedPad = p.params[0]
		}
		if p.nparams > 1 {
			p.attributedPan = p.params[1]
		}
		if p.nparams > 2 && p.params[2] > 0 {
			p.attributedPh = p.params[2]
		}
		if p.nparams > 3 && p.params[3] > 0 {
			p.attributedPv = p.params[3]
		}
		if p.attributedPan <= 0 {
			p.attributedPan = 1
		}
		if p.attributedPad <= 0 {
			p.attributedPad = 1
		}

		if p.img.width < p.attributedPh || p.img.height < p.attributedPv {
			sx := p.attributedPh
			if p.img.width > sx {
				sx = p.img.width
			}
			sy := p.attributedPv
			if p.img.height > sy {
				sy = p.img.height
			}
			if sx > WidthMax {
				sx = WidthMax
			}
			if sy > HeightMax {
				sy = HeightMax
			}
			if err := p.img.resize(sx, sy); err != nil {
				return 0, err
			}
		}
		p.state = stateDECSIXEL
		p.param, p.nparams = 0, 0
		return 0, nil
	}
	return 1, nil
}

func (p *Parser) stepDECGRI(b []byte) (int, error) {
	c := b[0]
	switch {
	case c == 0x1b:
		p.state = stateESC
	case isDigit(c):
		p.param = accumulateDigit(p.param, c)
	default:
		p.repeatCount = p.param
		if p.repeatCount == 0 {
			p.repeatCount = 1
		}
		p.state = stateDECSIXEL
		p.param, p.nparams = 0, 0
		return 0, nil
	}
	return 1, nil
}

func (p *Parser) stepDECGCI(b []byte) (int, error) {
	c := b[0]
	switch {
	case c == 0x1b:
		p.state = stateESC
	case isDigit(c):
		p.param = accumulateDigit(p.param, c)
	case c == ';':
		if p.nparams < ParamsMax {
			p.params[p.nparams] = p.param
			p.nparams++
		}
		p.param = 0
	default:
		p.state = stateDECSIXEL
		if p.nparams < ParamsMax {
			p.params[p.nparams] = p.param
			p.nparams++
		}
		p.param = 0

		if p.nparams > 0 {
			idx := 1 + p.params[0]
			if idx < 0 {
				idx = 0
			} else if idx >= PaletteMax {
				idx = PaletteMax - 1
			}
			p.colorIndex = idx
		}

		if p.nparams > 4 {
			p.img.paletteModified = true
			p2, p3, p4 := p.params[2], p.params[3], p.params[4]
			switch p.params[1] {
			case 1: // HLS: p2=hue(0..360) p3=lum(0..100) p4=sat(0..100)
				if p2 > 360 {
					p2 = 360
				}
				if p3 > 100 {
					p3 = 100
				}
				if p4 > 100 {
					p4 = 100
				}
				p.img.palette[p.colorIndex] = hlsToRGB(p2, p3, p4)
			case 2: // RGB percent: p2,p3,p4 each 0..100
				if p2 > 100 {
					p2 = 100
				}
				if p3 > 100 {
					p3 = 100
				}
				if p4 > 100 {
					p4 = 100
				}
				p.img.palette[p.colorIndex] = xrgb(p2, p3, p4)
			}
		}
		return 0, nil
	}
	return 1, nil
}

var errNoImage = errors.New("sixel: parser has no image buffer")
