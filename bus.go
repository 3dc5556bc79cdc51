package ssd1306

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
)

// Register selectors (control bytes) understood by the controller.
const (
	RegCommand byte = 0x00
	RegData    byte = 0x40
)

// MaxBlockLen is the largest payload a single block write may carry.
const MaxBlockLen = 32

// ErrBlockTooLarge is returned by the I²C bus adapter when a block write
// exceeds MaxBlockLen bytes.
var ErrBlockTooLarge = errors.New("ssd1306: block write exceeds 32 bytes")

// Bus is the register-style transport the display is driven through.
//
// WriteRegister writes one byte to reg. WriteBlock writes up to MaxBlockLen
// bytes to reg in a single transfer.
type Bus interface {
	WriteRegister(reg, value byte) error
	WriteBlock(reg byte, data []byte) error
}

// i2cBus implements Bus on top of a periph connection addressed to the
// display.
type i2cBus struct {
	c conn.Conn
}

// NewI2CBus returns a Bus talking to the device at addr on b.
func NewI2CBus(b i2c.Bus, addr uint16) Bus {
	return &i2cBus{c: &i2c.Dev{Bus: b, Addr: addr}}
}

func (b *i2cBus) WriteRegister(reg, value byte) error {
	return b.c.Tx([]byte{reg, value}, nil)
}

func (b *i2cBus) WriteBlock(reg byte, data []byte) error {
	if len(data) > MaxBlockLen {
		return fmt.Errorf("%w: got %d", ErrBlockTooLarge, len(data))
	}
	w := make([]byte, 0, len(data)+1)
	w = append(w, reg)
	return b.c.Tx(append(w, data...), nil)
}

func (b *i2cBus) String() string {
	return b.c.String()
}
