package ssd1306

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/flavioheleno/ssd1306/font5x7"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Display geometry.
const (
	Width  = 128
	Height = 64
	Pages  = Height / 8
)

const (
	_CHARGEPUMP          = 0x8D
	_ACTIVATE_SCROLL     = 0x2F
	_COMSCANDEC          = 0xC8
	_DEACTIVATE_SCROLL   = 0x2E
	_DISPLAYALLON_RESUME = 0xA4
	_DISPLAYOFF          = 0xAE
	_DISPLAYON           = 0xAF
	_INVERTDISPLAY       = 0xA7
	_MEMORYMODE          = 0x20
	_NORMALDISPLAY       = 0xA6
	_PAGESTARTADDRESS    = 0xB0
	_SETCOMPINS          = 0xDA
	_SETCONTRAST         = 0x81
	_SETDISPLAYCLOCKDIV  = 0xD5
	_SETDISPLAYOFFSET    = 0xD3
	_SETHIGHCOLUMN       = 0x10
	_SETLOWCOLUMN        = 0x00
	_SETMULTIPLEX        = 0xA8
	_SETPRECHARGE        = 0xD9
	_SETSEGMENTREMAP     = 0xA1
	_SETSTARTLINE        = 0x40
	_SETVCOMDETECT       = 0xDB
)

// initCmds is sent one command byte at a time when the device is created.
//
// Writes rely on horizontal addressing mode (_MEMORYMODE, 0x00): the column
// pointer advances after every data byte and moves to the next page after
// column 127, so a payload is addressed once however it is chunked.
var initCmds = []byte{
	_DISPLAYOFF,               // Display off
	_SETDISPLAYCLOCKDIV, 0x80, // Clock divide ratio and oscillator frequency
	_SETMULTIPLEX, 0x3F, // Multiplex ratio; 64 lines
	_SETDISPLAYOFFSET, 0x00, // Display offset; 0
	_SETSTARTLINE,     // Display start line; 0
	_CHARGEPUMP, 0x14, // Enable charge pump regulator
	_MEMORYMODE, 0x00, // Horizontal addressing mode
	_SETSEGMENTREMAP,  // Segment remap; column 127 is SEG0
	_COMSCANDEC,       // COM output scan direction; remapped
	_SETCOMPINS, 0x12, // COM pins hardware configuration; alternative
	_SETCONTRAST, 0xCF, // Contrast
	_SETPRECHARGE, 0xF1, // Pre-charge period
	_SETVCOMDETECT, 0x40, // Vcomh deselect level
	_DISPLAYALLON_RESUME, // Display follows GDDRAM content
	_NORMALDISPLAY,       // Normal (not inverted) display
	_DISPLAYON,           // Display on
}

var (
	// ErrEmptyPayload is returned when a write carries no bytes.
	ErrEmptyPayload = errors.New("ssd1306: empty payload")
	// ErrHalted is returned by drawing operations after Halt.
	ErrHalted = errors.New("ssd1306: halted")
)

// Opts is the configuration for the display.
type Opts struct {
	// I²C address of the display (default: 0x3C).
	Addr uint16
	// Bus clock; zero leaves the bus speed untouched. The controller
	// supports up to 400kHz.
	Speed physic.Frequency
	// Glyph table used by DrawGlyph and DrawString (default: font5x7.Font).
	Font Font
	// BatchImageRows sends DrawImage one row per page instead of one
	// addressed write per byte; a row crossing column 127 is split in two.
	// The resulting display content is the same.
	BatchImageRows bool
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Addr: 0x3C,
}

// Dev is the device handle for the display.
//
// Dev is not safe for concurrent use. Every operation addresses the
// controller and then streams data, and two such sequences must never
// interleave, so callers sharing a Dev need to serialize access to it.
type Dev struct {
	// Communication
	bus Bus

	// Rendering
	font           Font
	batchImageRows bool

	// State
	halted bool
}

var _ display.Drawer = (*Dev)(nil)

// NewI2C creates a new device connected to b.
//
// opts can be nil to use DefaultOpts.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	// Apply defaults
	if opts == nil {
		opts = &DefaultOpts
	}
	addr := opts.Addr
	if addr == 0 {
		addr = DefaultOpts.Addr
	}
	// Maximum clock speed is 400kHz; leave the bus alone unless asked.
	if opts.Speed != 0 {
		if err := b.SetSpeed(opts.Speed); err != nil {
			return nil, fmt.Errorf("ssd1306: failed to set bus speed: %w", err)
		}
	}
	return New(NewI2CBus(b, addr), opts)
}

// New creates a new device on an already addressed Bus and sends the
// initialization sequence.
//
// opts can be nil to use DefaultOpts; Addr and Speed are ignored.
func New(b Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	d := &Dev{
		bus:            b,
		font:           opts.Font,
		batchImageRows: opts.BatchImageRows,
	}
	if d.font == nil {
		d.font = font5x7.Font
	}

	// Initialize the display
	if err := d.init(); err != nil {
		return nil, err
	}
	return d, nil
}

// init sends the initialization sequence to the display.
func (d *Dev) init() error {
	for _, cmd := range initCmds {
		if err := d.sendCommand(cmd); err != nil {
			return fmt.Errorf("ssd1306: init: %w", err)
		}
	}
	return nil
}

// sendCommand sends a single command byte.
func (d *Dev) sendCommand(cmd byte) error {
	return d.bus.WriteRegister(RegCommand, cmd)
}

// SetPosition moves the GDDRAM pointer to (page, column).
//
// page is masked to 0-7 and column to 0-127; out of range values wrap the
// same way the controller does.
func (d *Dev) SetPosition(page, column int) error {
	if d.halted {
		return ErrHalted
	}
	return d.setPosition(page, column)
}

func (d *Dev) setPosition(page, column int) error {
	p := byte(page) & 0x07
	c := byte(column) & 0x7F
	for _, cmd := range []byte{
		_PAGESTARTADDRESS | p,
		_SETLOWCOLUMN | c&0x0F,
		_SETHIGHCOLUMN | c>>4,
	} {
		if err := d.sendCommand(cmd); err != nil {
			return err
		}
	}
	return nil
}

// Write writes raw GDDRAM bytes starting at (page, column).
//
// Each byte covers 8 vertical pixels, least significant bit on top. Data
// longer than what is left of the page continues on the next page.
func (d *Dev) Write(page, column int, data ...byte) error {
	if d.halted {
		return ErrHalted
	}
	return d.write(page, column, data)
}

// write addresses the controller once and streams data in block writes of
// at most MaxBlockLen bytes.
func (d *Dev) write(page, column int, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyPayload
	}
	if err := d.setPosition(page, column); err != nil {
		return err
	}
	// The column pointer auto-increments, so chunks need no re-addressing.
	for len(data) > 0 {
		n := min(len(data), MaxBlockLen)
		if err := d.bus.WriteBlock(RegData, data[:n]); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}

// Clear turns every pixel off.
func (d *Dev) Clear() error {
	if d.halted {
		return ErrHalted
	}
	zeros := make([]byte, Width)
	for page := 0; page < Pages; page++ {
		if err := d.write(page, 0, zeros); err != nil {
			return err
		}
	}
	return nil
}

// ColorModel implements display.Drawer.
//
// It is a one bit color model, as implemented by image1bit.Bit.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer. Min is guaranteed to be {0, 0}.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// Draw implements display.Drawer.
//
// The device keeps no copy of the display content, so the whole page band
// covering r is rewritten: pixels of those pages that are inside r's
// columns but outside r are turned off.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	if d.halted {
		return ErrHalted
	}
	r = r.Intersect(d.Bounds())
	if r.Empty() {
		return nil
	}
	// Render src into a blank page-ordered frame
	img := image1bit.NewVerticalLSB(d.Bounds())
	draw.Src.Draw(img, r, src, sp)

	// Send the columns of r for every page it touches
	for page := r.Min.Y / 8; page < (r.Max.Y+7)/8; page++ {
		off := page * img.Stride
		if err := d.write(page, r.Min.X, img.Pix[off+r.Min.X:off+r.Max.X]); err != nil {
			return err
		}
	}
	return nil
}

// SetContrast sets the display contrast (0-255).
func (d *Dev) SetContrast(level byte) error {
	if d.halted {
		return ErrHalted
	}
	if err := d.sendCommand(_SETCONTRAST); err != nil {
		return err
	}
	return d.sendCommand(level)
}

// Invert inverts the display colors (black becomes white and vice versa).
func (d *Dev) Invert(invert bool) error {
	if d.halted {
		return ErrHalted
	}
	mode := byte(_NORMALDISPLAY)
	if invert {
		mode = _INVERTDISPLAY
	}
	return d.sendCommand(mode)
}

// Halt turns off the display.
//
// Drawing fails with ErrHalted until Resume is called. GDDRAM content is
// kept.
func (d *Dev) Halt() error {
	if err := d.sendCommand(_DISPLAYOFF); err != nil {
		return err
	}
	d.halted = true
	return nil
}

// Resume turns the display back on after Halt.
func (d *Dev) Resume() error {
	if err := d.sendCommand(_DISPLAYON); err != nil {
		return err
	}
	d.halted = false
	return nil
}

// FrameRate determines scrolling speed.
type FrameRate byte

// Possible frame rates. The value is the number of display refreshes between
// each one column step. The lower the number of frames, the faster the
// scroll.
const (
	FrameRate2   FrameRate = 0x07
	FrameRate3   FrameRate = 0x04
	FrameRate4   FrameRate = 0x05
	FrameRate5   FrameRate = 0x00
	FrameRate25  FrameRate = 0x06
	FrameRate64  FrameRate = 0x01
	FrameRate128 FrameRate = 0x02
	FrameRate256 FrameRate = 0x03
)

// Scroll directions.
const (
	scrollRight byte = 0x26
	scrollLeft  byte = 0x27
)

// ScrollHorizontal starts the controller's horizontal scrolling of pages
// startPage to endPage, both included.
//
// GDDRAM writes while scrolling may be garbled; call StopScroll first.
func (d *Dev) ScrollHorizontal(startPage, endPage byte, rate FrameRate, right bool) error {
	if d.halted {
		return ErrHalted
	}
	if startPage >= Pages || endPage >= Pages {
		return fmt.Errorf("ssd1306: scroll page out of range: %d-%d", startPage, endPage)
	}
	if startPage > endPage {
		return fmt.Errorf("ssd1306: scroll start page %d after end page %d", startPage, endPage)
	}

	// Select scroll direction command
	op := scrollLeft
	if right {
		op = scrollRight
	}

	// Scrolling must be off while it is set up
	cmds := []byte{
		_DEACTIVATE_SCROLL,
		op,
		0x00,       // Dummy byte
		startPage,  // Start page
		byte(rate), // Frame rate
		endPage,    // End page
		0x00, 0xFF, // Dummy bytes
		_ACTIVATE_SCROLL,
	}
	for _, cmd := range cmds {
		if err := d.sendCommand(cmd); err != nil {
			return err
		}
	}
	return nil
}

// StopScroll stops scrolling. Content that was scrolled has to be redrawn.
func (d *Dev) StopScroll() error {
	if d.halted {
		return ErrHalted
	}
	return d.sendCommand(_DEACTIVATE_SCROLL)
}

// String returns a string representation of the device.
func (d *Dev) String() string {
	return fmt.Sprintf("ssd1306.Dev{%v}", d.bus)
}
