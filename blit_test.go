package ssd1306

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

func TestDrawIcon(t *testing.T) {
	icon := Icon{
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00},
		{0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA, 0xAA},
		{0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55, 0x55},
	}

	tests := []struct {
		name         string
		page, column int
		want         []position
	}{
		{"origin", 0, 0, []position{{0, 0}, {0, 8}, {1, 0}, {1, 8}}},
		{"offset", 3, 100, []position{{3, 100}, {3, 108}, {4, 100}, {4, 108}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &recordBus{}
			if err := newTestDev(b).DrawIcon(tt.page, tt.column, icon); err != nil {
				t.Fatalf("DrawIcon() error = %v", err)
			}
			ws := b.writes(t)
			if len(ws) != 4 {
				t.Fatalf("DrawIcon() made %d writes, want 4", len(ws))
			}
			for i, w := range ws {
				if w.position != tt.want[i] {
					t.Errorf("tile %d at %+v, want %+v", i, w.position, tt.want[i])
				}
				if !bytes.Equal(w.data, icon[i][:]) {
					t.Errorf("tile %d data = % x, want % x", i, w.data, icon[i])
				}
				if len(w.blocks) != 1 {
					t.Errorf("tile %d sent in %d blocks, want 1", i, len(w.blocks))
				}
			}
		})
	}
}

func TestDrawImage(t *testing.T) {
	var img Image
	for i := range img {
		img[i] = 0xFF
	}

	b := &recordBus{}
	if err := newTestDev(b).DrawImage(1, 10, &img); err != nil {
		t.Fatalf("DrawImage() error = %v", err)
	}
	ws := b.writes(t)
	if len(ws) != 384 {
		t.Fatalf("DrawImage() made %d writes, want 384", len(ws))
	}
	i := 0
	for p := 0; p < 6; p++ {
		for c := 0; c < 64; c++ {
			w := ws[i]
			if w.position != (position{1 + p, 10 + c}) {
				t.Fatalf("write %d at %+v, want {%d %d}", i, w.position, 1+p, 10+c)
			}
			if len(w.data) != 1 || w.data[0] != 0xFF {
				t.Fatalf("write %d data = % x, want ff", i, w.data)
			}
			i++
		}
	}
}

func TestDrawImageBatchedRowsMatch(t *testing.T) {
	var img Image
	for i := range img {
		img[i] = byte(i*7 + i/64 + 1)
	}

	tests := []struct {
		name         string
		page, column int
		wantWrites   int
	}{
		{"inside page", 2, 32, ImagePages},
		{"ends on last column", 0, 64, ImagePages},
		{"crosses column 127", 0, 100, 2 * ImagePages},
		{"starts on last column", 1, 127, 2 * ImagePages},
		{"column masked", 0, 228, 2 * ImagePages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			perByte := &ramBus{}
			if err := newTestDev(perByte).DrawImage(tt.page, tt.column, &img); err != nil {
				t.Fatalf("DrawImage() error = %v", err)
			}

			batched := &ramBus{}
			d := newTestDev(batched)
			d.batchImageRows = true
			if err := d.DrawImage(tt.page, tt.column, &img); err != nil {
				t.Fatalf("DrawImage() batched error = %v", err)
			}

			if perByte.ram != batched.ram {
				diff := 0
				for p := range perByte.ram {
					for c := range perByte.ram[p] {
						if perByte.ram[p][c] != batched.ram[p][c] {
							diff++
						}
					}
				}
				t.Errorf("batched rows differ from per byte writes in %d bytes", diff)
			}

			// Every image byte sits on its own page, columns wrapping to 0.
			for p := 0; p < ImagePages; p++ {
				for c := 0; c < ImageWidth; c++ {
					got := batched.ram[(tt.page+p)%Pages][(tt.column+c)&0x7F]
					if want := img[p*ImageWidth+c]; got != want {
						t.Fatalf("byte (%d, %d) = %#02x, want %#02x", p, c, got, want)
					}
				}
			}
			// Nothing spills onto the page below the image.
			if below := (tt.page + ImagePages) % Pages; batched.ram[below] != ([Width]byte{}) {
				t.Errorf("page %d below the image was written", below)
			}

			rec := &recordBus{}
			d = newTestDev(rec)
			d.batchImageRows = true
			if err := d.DrawImage(tt.page, tt.column, &img); err != nil {
				t.Fatal(err)
			}
			if ws := rec.writes(t); len(ws) != tt.wantWrites {
				t.Errorf("batched DrawImage() made %d writes, want %d", len(ws), tt.wantWrites)
			}
		})
	}
}

func TestDrawImageNil(t *testing.T) {
	for _, batch := range []bool{false, true} {
		b := &recordBus{}
		d := newTestDev(b)
		d.batchImageRows = batch
		if err := d.DrawImage(0, 0, nil); !errors.Is(err, ErrEmptyPayload) {
			t.Errorf("DrawImage(nil) batch=%t error = %v, want %v", batch, err, ErrEmptyPayload)
		}
		if len(b.ops) != 0 {
			t.Errorf("DrawImage(nil) batch=%t sent %d ops, want 0", batch, len(b.ops))
		}
	}
}

func TestDrawImageBusError(t *testing.T) {
	errBus := errors.New("nack")
	b := &recordBus{failAt: 10, err: errBus}
	if err := newTestDev(b).DrawImage(0, 0, &Image{}); !errors.Is(err, errBus) {
		t.Errorf("DrawImage() error = %v, want %v", err, errBus)
	}
	if len(b.ops) != 9 {
		t.Errorf("DrawImage() kept going after the error: %d ops", len(b.ops))
	}
}

func TestIconFromImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 16, 16))
	// Top left quadrant fully on, bottom right quadrant first column on.
	draw.Draw(src, image.Rect(0, 0, 8, 8), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(src, image.Rect(8, 8, 9, 16), image.NewUniform(color.White), image.Point{}, draw.Src)

	icon := IconFromImage(src)
	want := Icon{
		{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
		{},
		{},
		{0xFF},
	}
	if icon != want {
		t.Errorf("IconFromImage() = %x, want %x", icon, want)
	}
}

func TestImageFromImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 64, 48))
	src.SetGray(0, 0, color.Gray{Y: 0xFF})
	src.SetGray(63, 47, color.Gray{Y: 0xFF})
	src.SetGray(5, 9, color.Gray{Y: 0xFF})

	img := ImageFromImage(src)
	if img[0] != 0x01 {
		t.Errorf("img[0] = %#02x, want 0x01", img[0])
	}
	if img[64+5] != 0x02 {
		t.Errorf("img[69] = %#02x, want 0x02", img[64+5])
	}
	if img[383] != 0x80 {
		t.Errorf("img[383] = %#02x, want 0x80", img[383])
	}
}
