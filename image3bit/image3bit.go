package image3bit

import (
	"image"
	"image/color"
)

// Color is a 3-bit RGB color code: bit 2 is red, bit 1 green and bit 0 blue.
// Only the lower 3 bits are used. A set bit makes the subpixel reflective,
// so White (all bits set) is the panel's blank state.
type Color uint8

// The eight colors a 3-bit panel can show.
const (
	Black   Color = 0
	Blue    Color = 1
	Green   Color = 2
	Cyan    Color = 3
	Red     Color = 4
	Magenta Color = 5
	Yellow  Color = 6
	White   Color = 7
)

// RGBA implements color.Color.
func (c Color) RGBA() (r, g, b, a uint32) {
	if c&4 != 0 {
		r = 0xFFFF
	}
	if c&2 != 0 {
		g = 0xFFFF
	}
	if c&1 != 0 {
		b = 0xFFFF
	}
	return r, g, b, 0xFFFF
}

func (c Color) String() string {
	switch c & 7 {
	case Black:
		return "Black"
	case Blue:
		return "Blue"
	case Green:
		return "Green"
	case Cyan:
		return "Cyan"
	case Red:
		return "Red"
	case Magenta:
		return "Magenta"
	case Yellow:
		return "Yellow"
	default:
		return "White"
	}
}

// toColor thresholds each channel at half intensity.
func toColor(c color.Color) color.Color {
	if v, ok := c.(Color); ok {
		return v & 7
	}
	r, g, b, _ := c.RGBA()
	var v Color
	if r >= 0x8000 {
		v |= Red
	}
	if g >= 0x8000 {
		v |= Green
	}
	if b >= 0x8000 {
		v |= Blue
	}
	return v
}

// ColorModel converts colors to Color.
var ColorModel = color.ModelFunc(toColor)

// Packed is a 3-bit RGB image where consecutive pixels are packed MSB-first
// without regard to byte boundaries.
type Packed struct {
	Pix    []byte          // Pixel data (8 pixels per 3 bytes)
	Stride int             // Bytes per row
	Rect   image.Rectangle // Image bounds
}

// NewPacked creates a new Packed image with the specified bounds, filled with
// White. The width must be a multiple of 8 so every row is a whole number of
// bytes.
func NewPacked(r image.Rectangle) *Packed {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &Packed{Rect: r}
	}
	if w%8 != 0 {
		panic("image3bit: width must be a multiple of 8")
	}

	stride := w * 3 / 8
	p := &Packed{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
	p.Clear()
	return p
}

// ColorModel returns the color model of the image.
func (p *Packed) ColorModel() color.Model {
	return ColorModel
}

// Bounds returns the image bounds.
func (p *Packed) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *Packed) At(x, y int) color.Color {
	return p.ColorAt(x, y)
}

// ColorAt returns the Color of the pixel at (x, y), or Black outside the
// image bounds.
func (p *Packed) ColorAt(x, y int) Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Black
	}
	i, offset := p.pixOffset(x, y)
	switch offset {
	case 6:
		return Color((p.Pix[i]&0x03)<<1 | p.Pix[i+1]>>7)
	case 7:
		return Color((p.Pix[i]&0x01)<<2 | p.Pix[i+1]>>6)
	default:
		return Color(p.Pix[i]>>(5-offset)) & 7
	}
}

// Set sets the color of the pixel at (x, y).
func (p *Packed) Set(x, y int, c color.Color) {
	p.SetColor(x, y, ColorModel.Convert(c).(Color))
}

// SetColor sets the Color of the pixel at (x, y). Writes outside the image
// bounds are ignored.
func (p *Packed) SetColor(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	i, offset := p.pixOffset(x, y)
	v := byte(c & 7)
	switch offset {
	case 0:
		p.Pix[i] = p.Pix[i]&0b00011111 | v<<5
	case 1:
		p.Pix[i] = p.Pix[i]&0b10001111 | v<<4
	case 2:
		p.Pix[i] = p.Pix[i]&0b11000111 | v<<3
	case 3:
		p.Pix[i] = p.Pix[i]&0b11100011 | v<<2
	case 4:
		p.Pix[i] = p.Pix[i]&0b11110001 | v<<1
	case 5:
		p.Pix[i] = p.Pix[i]&0b11111000 | v
	case 6:
		p.Pix[i] = p.Pix[i]&0b11111100 | v>>1
		p.Pix[i+1] = p.Pix[i+1]&0b01111111 | v<<7
	case 7:
		p.Pix[i] = p.Pix[i]&0b11111110 | v>>2
		p.Pix[i+1] = p.Pix[i+1]&0b00111111 | v<<6
	}
}

// Fill sets every pixel to c.
func (p *Packed) Fill(c Color) {
	// 8 pixels fill exactly 3 bytes.
	pattern := Packed{Pix: make([]byte, 3), Stride: 3, Rect: image.Rect(0, 0, 8, 1)}
	for x := 0; x < 8; x++ {
		pattern.SetColor(x, 0, c)
	}
	for i := range p.Pix {
		p.Pix[i] = pattern.Pix[i%3]
	}
}

// Clear fills the image with White, the cleared pattern (all bits set).
func (p *Packed) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0xFF
	}
}

// Line returns the packed bytes of row y.
func (p *Packed) Line(y int) []byte {
	start := (y - p.Rect.Min.Y) * p.Stride
	return p.Pix[start : start+p.Stride]
}

// pixOffset returns the byte index of the first bit of the pixel at (x, y)
// and the bit offset within that byte, counted from the MSB.
func (p *Packed) pixOffset(x, y int) (index int, offset uint) {
	x -= p.Rect.Min.X
	y -= p.Rect.Min.Y
	index = y*p.Stride + x*3/8
	offset = uint(x*3) % 8
	return
}
