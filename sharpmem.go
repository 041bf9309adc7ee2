// Package sharpmem controls a Sharp 3-bit color memory LCD via SPI.
//
// The 8-color memory-in-pixel panels keep their image without refresh and
// are addressed line by line. Every transfer carries a VCOM bit that must
// alternate to keep DC bias off the liquid crystal.
//
// See the examples for how to use this package.
package sharpmem

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math/bits"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/devices/v3/sharpmem/image3bit"
)

// Command bits, as sent in the first byte of a transfer.
const (
	cmdWrite byte = 0x01
	cmdVCOM  byte = 0x02
	cmdClear byte = 0x04
)

// ErrHalted is returned by bus operations after Halt.
var ErrHalted = errors.New("sharpmem: halted")

// reverse maps a byte to its bit-reversed value. Command and line address
// bytes are defined LSB-first by the panel while pixel data goes MSB-first;
// the whole frame is clocked out MSB-first and the LSB-first bytes are
// passed through this table.
var reverse = func() (t [256]byte) {
	for i := range t {
		t[i] = bits.Reverse8(byte(i))
	}
	return
}()

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}

// Opts is the configuration for the memory LCD.
type Opts struct {
	// Panel dimensions in pixels, unrotated
	W int // Width (default: 128, must be a multiple of 8)
	H int // Height (default: 128, must be ≤255)

	// Rotation applied to pixel coordinates
	Rotation Rotation

	// SPI clock (default: 1MHz, the panel's rated maximum)
	Freq physic.Frequency

	// Optional DISP pin; driven high on init and low on Halt
	DISP gpio.PinOut
}

// DefaultOpts is the configuration of the 1.33" LS013B7DH06 panel.
var DefaultOpts = Opts{
	W:    128,
	H:    128,
	Freq: physic.MegaHertz,
}

// Dev is the device handle for the memory LCD.
type Dev struct {
	// Communication
	c     conn.Conn   // SPI connection
	cs    gpio.PinOut // Chip select, active high
	disp  gpio.PinOut // Display on/off (optional)
	maxTx int         // Largest single Tx the port accepts, 0 if unbounded

	mu sync.Mutex

	// Pixel buffer, in panel orientation
	buffer   *image3bit.Packed
	rotation Rotation

	// Transfer buffers
	frame []byte
	cmd   [2]byte

	// State
	vcom   byte
	halted bool
}

// NewSPI creates a new memory LCD connected via SPI.
//
// The SPI port is configured for Mode0 (CPOL=0, CPHA=0), 8-bit transfers.
// The panel's chip select is active high, so it must be wired to a GPIO and
// passed as cs rather than use the SPI controller's chip enable.
//
// opts can be nil to use DefaultOpts. The panel is cleared before NewSPI
// returns.
func NewSPI(p spi.Port, cs gpio.PinOut, opts *Opts) (*Dev, error) {
	// Apply defaults and validate options
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}

	if cs == nil {
		return nil, errors.New("sharpmem: chip select pin is required")
	}
	if opts.W <= 0 || opts.W%8 != 0 {
		return nil, errors.New("sharpmem: width must be a positive multiple of 8")
	}
	if opts.H <= 0 || opts.H > 255 {
		return nil, errors.New("sharpmem: height must be between 1 and 255")
	}
	if opts.Rotation > Rotate270 {
		return nil, fmt.Errorf("sharpmem: invalid rotation %d", opts.Rotation)
	}
	freq := opts.Freq
	if freq == 0 {
		freq = DefaultOpts.Freq
	}

	// Establish SPI connection
	c, err := p.Connect(freq, spi.Mode0, 8)
	if err != nil {
		return nil, err
	}

	buffer := image3bit.NewPacked(image.Rect(0, 0, opts.W, opts.H))
	d := &Dev{
		c:        c,
		cs:       cs,
		disp:     opts.DISP,
		buffer:   buffer,
		rotation: opts.Rotation,
		// command, then address + line + terminator per line, then trailer
		frame: make([]byte, 0, 1+opts.H*(buffer.Stride+2)+1),
		vcom:  cmdVCOM,
	}
	if l, ok := c.(conn.Limits); ok {
		d.maxTx = l.MaxTxSize()
	}

	if err := d.init(); err != nil {
		return nil, err
	}

	return d, nil
}

// init puts the pins in their idle state and clears the panel.
func (d *Dev) init() error {
	if err := d.cs.Out(gpio.Low); err != nil {
		return fmt.Errorf("sharpmem: failed to pull CS low: %w", err)
	}
	if d.disp != nil {
		if err := d.disp.Out(gpio.High); err != nil {
			return fmt.Errorf("sharpmem: failed to pull DISP high: %w", err)
		}
	}
	return d.ClearDisplay()
}

// ColorModel returns the color model of the display.
func (d *Dev) ColorModel() color.Model {
	return image3bit.ColorModel
}

// Bounds returns the image bounds of the display, taking the rotation into
// account.
func (d *Dev) Bounds() image.Rectangle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bounds()
}

func (d *Dev) bounds() image.Rectangle {
	w, h := d.buffer.Rect.Dx(), d.buffer.Rect.Dy()
	if d.rotation == Rotate90 || d.rotation == Rotate270 {
		w, h = h, w
	}
	return image.Rect(0, 0, w, h)
}

// Rotation returns the active rotation.
func (d *Dev) Rotation() Rotation {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rotation
}

// SetRotation changes the rotation applied to subsequent pixel writes. The
// buffer content is not transformed.
func (d *Dev) SetRotation(rotation Rotation) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rotation = rotation & 3
}

// transform maps rotated coordinates to panel coordinates. It reports false
// for points outside the rotated bounds.
func (d *Dev) transform(x, y int) (int, int, bool) {
	if !(image.Point{X: x, Y: y}.In(d.bounds())) {
		return 0, 0, false
	}
	w, h := d.buffer.Rect.Dx(), d.buffer.Rect.Dy()
	switch d.rotation {
	case Rotate90:
		x, y = w-1-y, x
	case Rotate180:
		x, y = w-1-x, h-1-y
	case Rotate270:
		x, y = y, h-1-x
	}
	return x, y, true
}

// SetPixel sets the pixel at (x, y) to c. Points outside Bounds are ignored.
func (d *Dev) SetPixel(x, y int, c image3bit.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if x, y, ok := d.transform(x, y); ok {
		d.buffer.SetColor(x, y, c)
	}
}

// Set implements draw.Image so the display can be handed to any library
// that renders into one. The color is reduced with image3bit.ColorModel.
func (d *Dev) Set(x, y int, c color.Color) {
	d.SetPixel(x, y, image3bit.ColorModel.Convert(c).(image3bit.Color))
}

// At returns the buffered color at (x, y), or Black outside Bounds.
func (d *Dev) At(x, y int) color.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	if x, y, ok := d.transform(x, y); ok {
		return d.buffer.ColorAt(x, y)
	}
	return image3bit.Black
}

// ClearBuffer resets the buffer to White. The panel is not updated.
func (d *Dev) ClearBuffer() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buffer.Clear()
}

// ClearDisplay resets the buffer and sends the all clear command, which
// blanks the panel faster than refreshing a White frame.
func (d *Dev) ClearDisplay() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	d.buffer.Clear()
	return d.command(cmdClear)
}

// Hold toggles VCOM without touching the panel memory. Memory LCDs need the
// inversion at least once per second; call Hold when there is nothing new to
// Refresh.
func (d *Dev) Hold() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	return d.command(0)
}

// command sends a two byte command transfer with the current VCOM bit.
func (d *Dev) command(flags byte) error {
	d.cmd[0] = reverse[d.vcom|flags]
	d.cmd[1] = 0x00
	d.toggleVCOM()
	return d.transfer(d.cmd[:])
}

// Refresh sends the whole buffer to the panel.
//
// Each line goes out as its 1-based address, the packed pixels and a zero
// terminator, after a single write command. One more zero byte ends the
// frame.
func (d *Dev) Refresh() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return ErrHalted
	}
	return d.refresh()
}

func (d *Dev) refresh() error {
	frame := append(d.frame[:0], reverse[cmdWrite|d.vcom])
	d.toggleVCOM()
	for y := 0; y < d.buffer.Rect.Dy(); y++ {
		frame = append(frame, reverse[byte(y+1)])
		frame = append(frame, d.buffer.Line(y)...)
		frame = append(frame, 0x00)
	}
	frame = append(frame, 0x00)
	d.frame = frame
	return d.transfer(frame)
}

// transfer frames w with chip select. CS is released even if the write
// fails.
func (d *Dev) transfer(w []byte) error {
	if err := d.cs.Out(gpio.High); err != nil {
		return fmt.Errorf("sharpmem: failed to pull CS high: %w", err)
	}
	err := d.send(w)
	if errCS := d.cs.Out(gpio.Low); errCS != nil && err == nil {
		err = fmt.Errorf("sharpmem: failed to pull CS low: %w", errCS)
	}
	return err
}

// send writes w, split into chunks the port can take.
func (d *Dev) send(w []byte) error {
	for len(w) > 0 {
		n := len(w)
		if d.maxTx > 0 && n > d.maxTx {
			n = d.maxTx
		}
		if err := d.c.Tx(w[:n], nil); err != nil {
			return err
		}
		w = w[n:]
	}
	return nil
}

// toggleVCOM flips the VCOM bit. Called once per transfer, failed or not.
func (d *Dev) toggleVCOM() {
	d.vcom ^= cmdVCOM
}

// Draw draws src onto the display and refreshes it.
// The dst rectangle specifies the destination region on the display.
// The src image is positioned at src point sp within the destination.
func (d *Dev) Draw(dst image.Rectangle, src image.Image, sp image.Point) error {
	if d.isHalted() {
		return ErrHalted
	}

	// Clip to display bounds
	dst = dst.Intersect(d.Bounds())
	if !dst.Empty() {
		draw.Draw(d, dst, src, sp, draw.Src)
	}
	return d.Refresh()
}

// Write writes a raw packed frame (see image3bit.Packed) in panel
// orientation and refreshes the display.
// The data must be exactly W * H * 3 / 8 bytes.
func (d *Dev) Write(pixels []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return 0, ErrHalted
	}
	if len(pixels) != len(d.buffer.Pix) {
		return 0, errors.New("sharpmem: invalid buffer size")
	}
	copy(d.buffer.Pix, pixels)
	if err := d.refresh(); err != nil {
		return 0, err
	}
	return len(pixels), nil
}

func (d *Dev) isHalted() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.halted
}

// Halt clears the panel and turns it off through DISP, if wired.
// After calling Halt, the display rejects further bus operations.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.halted {
		return nil
	}
	d.halted = true
	d.buffer.Clear()
	err := d.command(cmdClear)
	if d.disp != nil {
		if errDisp := d.disp.Out(gpio.Low); errDisp != nil && err == nil {
			err = fmt.Errorf("sharpmem: failed to pull DISP low: %w", errDisp)
		}
	}
	return err
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("sharpmem.Dev{%dx%d}", d.buffer.Rect.Dx(), d.buffer.Rect.Dy())
}

var (
	_ display.Drawer = (*Dev)(nil)
	_ draw.Image     = (*Dev)(nil)
)
