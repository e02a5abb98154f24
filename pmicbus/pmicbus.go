// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pmicbus provides byte wide register access to a PMIC.
//
// PMIC drivers only need five primitives: bus setup, register read, register
// write and setting or clearing bits in a register. Bus abstracts them so a
// driver doesn't care whether the chip is on I²C or a vendor specific serial
// bus.
package pmicbus

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
)

// Bus is the register transport used by PMIC drivers.
//
// SetBits and ClearBits are read-modify-write operations. Implementations
// must make each call atomic with regard to other calls on the same Bus, since
// several rails share the same enable register.
type Bus interface {
	// Init prepares the transport. It must be called before any other method.
	Init() error
	// Read returns the content of register reg.
	Read(reg uint8) (uint8, error)
	// Write stores val in register reg.
	Write(reg, val uint8) error
	// SetBits sets the bits of mask in register reg.
	SetBits(reg, mask uint8) error
	// ClearBits clears the bits of mask in register reg.
	ClearBits(reg, mask uint8) error
}

// DefaultAddress is the I²C address used by the X-Powers AXP PMICs.
const DefaultAddress uint16 = 0x36

var (
	errNoBus   = errors.New("pmicbus: no I²C bus")
	errBadAddr = errors.New("pmicbus: address is not a 7 bit I²C address")
)

// I2C is a Bus over an I²C connection.
type I2C struct {
	d  *i2c.Dev
	mu sync.Mutex
}

// NewI2C returns a Bus talking to the chip at addr on bus.
func NewI2C(bus i2c.Bus, addr uint16) *I2C {
	return &I2C{d: &i2c.Dev{Bus: bus, Addr: addr}}
}

// Init implements Bus.
//
// The I²C bus is already set up by the host, so only the parameters are
// checked.
func (b *I2C) Init() error {
	if b.d.Bus == nil {
		return errNoBus
	}
	if b.d.Addr == 0 || b.d.Addr > 0x7f {
		return errBadAddr
	}
	return nil
}

// Read implements Bus.
func (b *I2C) Read(reg uint8) (uint8, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.read(reg)
}

// Write implements Bus.
func (b *I2C) Write(reg, val uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.write(reg, val)
}

// SetBits implements Bus.
//
// The register is not written when the bits are already set.
func (b *I2C) SetBits(reg, mask uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, err := b.read(reg)
	if err != nil {
		return err
	}
	if v&mask == mask {
		return nil
	}
	return b.write(reg, v|mask)
}

// ClearBits implements Bus.
//
// The register is not written when the bits are already cleared.
func (b *I2C) ClearBits(reg, mask uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, err := b.read(reg)
	if err != nil {
		return err
	}
	if v&mask == 0 {
		return nil
	}
	return b.write(reg, v&^mask)
}

func (b *I2C) String() string {
	return fmt.Sprintf("%s@%#x", b.d.Bus, b.d.Addr)
}

func (b *I2C) read(reg uint8) (uint8, error) {
	r := make([]byte, 1)
	if err := b.d.Tx([]byte{reg}, r); err != nil {
		return 0, fmt.Errorf("pmicbus: read %#02x: %w", reg, err)
	}
	return r[0], nil
}

func (b *I2C) write(reg, val uint8) error {
	if err := b.d.Tx([]byte{reg, val}, nil); err != nil {
		return fmt.Errorf("pmicbus: write %#02x: %w", reg, err)
	}
	return nil
}

var _ Bus = &I2C{}
