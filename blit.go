package ssd1306

import (
	"fmt"
	"image"
	"image/draw"

	"periph.io/x/devices/v3/ssd1306/image1bit"
)

// Icon is a 16x16 picture made of four 8x8 tiles: top left, top right,
// bottom left and bottom right. Each tile byte is one column of 8 pixels,
// least significant bit on top.
type Icon [4][8]byte

// Image geometry.
const (
	ImageWidth  = 64
	ImagePages  = 6
	ImageHeight = ImagePages * 8
)

// Image is a 64x48 picture stored page by page: byte p*64+c holds the 8
// vertical pixels of column c in page p, least significant bit on top.
type Image [ImageWidth * ImagePages]byte

// DrawIcon draws icon with its top left corner at (page, column). It covers
// pages page and page+1 and columns column to column+15.
func (d *Dev) DrawIcon(page, column int, icon Icon) error {
	if d.halted {
		return ErrHalted
	}
	for i, tile := range icon {
		if err := d.write(page+i/2, column+8*(i%2), tile[:]); err != nil {
			return err
		}
	}
	return nil
}

// DrawImage draws img with its top left corner at (page, column). It covers
// six pages and 64 columns. A nil img fails with ErrEmptyPayload.
//
// Every byte is addressed and sent on its own unless Opts.BatchImageRows
// was set, in which case each page row is sent as one write, or two when it
// crosses column 127. Columns wrap to 0 on the same page either way.
func (d *Dev) DrawImage(page, column int, img *Image) error {
	if d.halted {
		return ErrHalted
	}
	if img == nil {
		return fmt.Errorf("%w: nil image", ErrEmptyPayload)
	}
	// Columns left on the page before the pointer would move to the next one.
	c0 := int(byte(column) & 0x7F)
	fit := Width - c0
	for p := 0; p < ImagePages; p++ {
		row := img[p*ImageWidth : (p+1)*ImageWidth]
		if d.batchImageRows {
			if fit >= len(row) {
				if err := d.write(page+p, c0, row); err != nil {
					return err
				}
				continue
			}
			// Split at the end of the page so the tail stays on this page.
			if err := d.write(page+p, c0, row[:fit]); err != nil {
				return err
			}
			if err := d.write(page+p, 0, row[fit:]); err != nil {
				return err
			}
			continue
		}
		for c := range row {
			if err := d.write(page+p, column+c, row[c:c+1]); err != nil {
				return err
			}
		}
	}
	return nil
}

// IconFromImage converts the top left 16x16 pixels of src into an Icon.
// Colors are reduced with image1bit.BitModel.
func IconFromImage(src image.Image) Icon {
	img := paged(src, 16, 16)
	var icon Icon
	for i := range icon {
		copy(icon[i][:], img.Pix[8*i:8*i+8])
	}
	return icon
}

// ImageFromImage converts the top left 64x48 pixels of src into an Image.
// Colors are reduced with image1bit.BitModel.
func ImageFromImage(src image.Image) *Image {
	img := paged(src, ImageWidth, ImageHeight)
	var out Image
	copy(out[:], img.Pix)
	return &out
}

// paged renders src into a w x h page-ordered 1 bit image.
func paged(src image.Image, w, h int) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, w, h))
	draw.Src.Draw(img, img.Rect, src, src.Bounds().Min)
	return img
}
