// Package ssd1306 controls a 128x64 monochrome SSD1306 OLED display via I²C.
//
// The driver renders text, icons and raster images by addressing the
// controller's display RAM (GDDRAM) directly. There is no frame buffer on the
// host side: every drawing call turns into addressing commands followed by
// raw pixel bytes.
//
// # Display Characteristics
//
// - 128×64 pixels, one bit per pixel
// - GDDRAM organised as 8 pages of 8 pixel rows, 128 columns per page
// - Each data byte covers 8 vertical pixels of one column, LSB on top
// - Horizontal addressing mode: the column pointer advances after every byte
// and moves on to the next page after column 127
// - Adjustable contrast (0-255) and display inversion
//
// # Hardware Connection
//
// Connect the display to your system via I²C:
//
//	Display Pin → System Pin
//	GND         → GND
//	VCC         → 3.3V
//	SCL         → I²C Clock (SCL)
//	SDA         → I²C Data (SDA)
//
// The default device address is 0x3C.
//
// # Basic Usage
//
//	package main
//
//	import (
//		"periph.io/x/conn/v3/i2c/i2creg"
//		"github.com/flavioheleno/ssd1306"
//		"periph.io/x/host/v3"
//	)
//
//	func main() {
//		// Initialize periph.io
//		host.Init()
//
//		// Open I²C bus
//		bus, _ := i2creg.Open("")
//		defer bus.Close()
//
//		// Create device; this sends the initialization sequence
//		dev, _ := ssd1306.NewI2C(bus, nil)
//		defer dev.Halt()
//
//		dev.Clear()
//		dev.DrawString(0, 0, "Hello!")
//	}
//
// # Addressing and Transfers
//
// Every write positions the GDDRAM pointer once with three commands (page,
// low column nibble, high column nibble) and then streams its payload in
// block writes of at most 32 bytes. Pages are masked to 0-7 and columns to
// 0-127, so out of range coordinates wrap instead of failing.
//
// Raw bytes can be written anywhere:
//
//	dev.Write(3, 40, 0xFF, 0x81, 0x81, 0xFF)
//
// # Text
//
// Characters come from a 5×7 font (package font5x7) and are drawn twice
// their size, in a 10×16 cell spanning two pages. Cells are 11 columns apart.
// A line wraps back to the starting column, two pages down, once the column
// goes past 118; past the last line the text starts over at the starting page
// and overwrites what was drawn there.
//
//	dev.DrawString(0, 0, "HELLO WORLD")
//
// Single glyphs can be drawn from a character or a number:
//
//	dev.DrawGlyph(2, 0, ssd1306.Char('A'))
//	dev.DrawGlyph(2, 11, ssd1306.Index(7)) // the digit 7
//
// # Icons and Images
//
// Icons are 16×16 pixels made of four 8×8 tiles; images are 64×48 pixels, six
// pages of 64 column bytes. Both can be built from any image.Image:
//
//	icon := ssd1306.IconFromImage(src)
//	dev.DrawIcon(0, 112, icon)
//
//	img := ssd1306.ImageFromImage(photo)
//	dev.DrawImage(2, 32, img)
//
// # Concurrency
//
// A Dev must not be used from several goroutines at once without external
// locking: interleaving two writes corrupts the addressing sequence.
//
// # Datasheet
//
// https://cdn-shop.adafruit.com/datasheets/SSD1306.pdf
//
// # Compatibility with periph.io
//
// This driver implements the display.Drawer interface from periph.io:
// https://pkg.go.dev/periph.io/x/conn/v3/display
package ssd1306
