package ssd1306

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// Text cell geometry. A 5x7 source glyph is rendered at twice its size into
// a 10x16 cell spanning two pages.
const (
	GlyphWidth   = 10
	GlyphSpacing = 1
	// CellAdvance is how far the column cursor moves after each glyph.
	CellAdvance = GlyphWidth + GlyphSpacing

	// The cursor wraps to the next line once the column goes past wrapColumn
	// and back to the starting page once the page reaches wrapPage.
	wrapColumn = 118
	wrapPage   = 7
)

// ErrInvalidGlyph is returned when a character or number has no glyph.
var ErrInvalidGlyph = errors.New("ssd1306: invalid glyph input")

// Font is a glyph lookup table. Rows returns the source column bytes of the
// glyph with the given code, or nil when there is none.
//
// Only the low nibble (top four pixels) and the high nibble (bottom four
// pixels) of each byte are rendered.
type Font interface {
	Rows(code int) []byte
}

// Glyph selects a glyph either by printable character or by small number.
//
// Characters map to code c-0x20, numbers to code n+0x10, so Index(7) and
// Char('7') render the same digit.
type Glyph struct {
	index bool
	r     rune
	n     int
}

// Char returns the glyph of a printable character.
func Char(r rune) Glyph {
	return Glyph{r: r}
}

// Index returns the glyph of a small non-negative number, typically a
// decimal digit.
func Index(n int) Glyph {
	return Glyph{index: true, n: n}
}

// Code returns the font code of g. It does not check the code against a
// font.
func (g Glyph) Code() int {
	if g.index {
		return g.n + 0x10
	}
	return int(g.r) - 0x20
}

func (g Glyph) String() string {
	if g.index {
		return fmt.Sprintf("Index(%d)", g.n)
	}
	return fmt.Sprintf("Char(%q)", g.r)
}

// rows resolves g against f.
func (g Glyph) rows(f Font) ([]byte, error) {
	if g.index && g.n < 0 || !g.index && (g.r < 0x20 || g.r == utf8.RuneError) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGlyph, g)
	}
	rows := f.Rows(g.Code())
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGlyph, g)
	}
	return rows, nil
}

// Expand scales source glyph rows by two in both directions.
//
// upper holds the top half of the glyph, for the page the glyph is drawn
// on, and lower the bottom half, for the page below. Both are twice as long
// as rows.
func Expand(rows []byte) (upper, lower []byte) {
	upper = make([]byte, 0, 2*len(rows))
	lower = make([]byte, 0, 2*len(rows))
	for _, b := range rows {
		u := expandNibble(b & 0x0F)
		l := expandNibble(b >> 4)
		upper = append(upper, u, u)
		lower = append(lower, l, l)
	}
	return upper, lower
}

// expandNibble doubles each of the four low bits of n: bit i is copied to
// bits 2i and 2i+1.
func expandNibble(n byte) byte {
	var out byte
	for i := 0; i < 4; i++ {
		bit := (n >> i) & 1
		out |= bit<<(2*i) | bit<<(2*i+1)
	}
	return out
}

// Cursor tracks where the next glyph of a string goes.
type Cursor struct {
	Page, Column int

	startPage, startColumn int
}

// NewCursor returns a cursor positioned at (page, column). Wrapped lines
// restart at column and overflowing text restarts at page.
func NewCursor(page, column int) Cursor {
	return Cursor{
		Page:        page,
		Column:      column,
		startPage:   page,
		startColumn: column,
	}
}

// Advance moves the cursor past one glyph cell.
//
// Lines are two pages tall. When the last line is full the cursor goes back
// to the starting page and later glyphs overwrite earlier ones.
func (c *Cursor) Advance() {
	c.Column += CellAdvance
	if c.Column <= wrapColumn {
		return
	}
	c.Column = c.startColumn
	c.Page += 2
	if c.Page >= wrapPage {
		c.Page = c.startPage
	}
}

// DrawGlyph draws a single 10x16 glyph with its top left corner at
// (page, column). It covers pages page and page+1.
func (d *Dev) DrawGlyph(page, column int, g Glyph) error {
	if d.halted {
		return ErrHalted
	}
	rows, err := g.rows(d.font)
	if err != nil {
		return err
	}
	return d.drawRows(page, column, rows)
}

// DrawString draws text one glyph cell at a time starting at
// (page, column), wrapping as described by Cursor.
//
// Every character is checked before anything is sent, so a string holding
// an unsupported character draws nothing.
func (d *Dev) DrawString(page, column int, text string) error {
	if d.halted {
		return ErrHalted
	}
	glyphs := make([][]byte, 0, len(text))
	for _, r := range text {
		rows, err := Char(r).rows(d.font)
		if err != nil {
			return err
		}
		glyphs = append(glyphs, rows)
	}
	c := NewCursor(page, column)
	for _, rows := range glyphs {
		if err := d.drawRows(c.Page, c.Column, rows); err != nil {
			return err
		}
		c.Advance()
	}
	return nil
}

func (d *Dev) drawRows(page, column int, rows []byte) error {
	upper, lower := Expand(rows)
	if err := d.write(page, column, upper); err != nil {
		return err
	}
	return d.write(page+1, column, lower)
}
