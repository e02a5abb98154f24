// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmicbus

import (
	"testing"

	"periph.io/x/conn/v3/i2c/i2ctest"
)

const addr = DefaultAddress

func TestInit(t *testing.T) {
	if err := NewI2C(nil, addr).Init(); err == nil {
		t.Error("expected error without bus")
	}
	pb := &i2ctest.Playback{}
	if err := NewI2C(pb, 0x80).Init(); err == nil {
		t.Error("expected error with 10 bit address")
	}
	if err := NewI2C(pb, addr).Init(); err != nil {
		t.Error(err)
	}
}

func TestReadWrite(t *testing.T) {
	pb := &i2ctest.Playback{
		Ops: []i2ctest.IO{
			{Addr: addr, W: []byte{0x03}, R: []byte{0x4b}},
			{Addr: addr, W: []byte{0x13, 0x57}},
		},
	}
	b := NewI2C(pb, addr)
	v, err := b.Read(0x03)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x4b {
		t.Errorf("got %#x", v)
	}
	if err := b.Write(0x13, 0x57); err != nil {
		t.Fatal(err)
	}
	if err := pb.Close(); err != nil {
		t.Error(err)
	}
}

func TestSetClearBits(t *testing.T) {
	tests := []struct {
		name string
		set  bool
		mask uint8
		ops  []i2ctest.IO
	}{
		{
			name: "set",
			set:  true,
			mask: 0x04,
			ops: []i2ctest.IO{
				{Addr: addr, W: []byte{0x10}, R: []byte{0x19}},
				{Addr: addr, W: []byte{0x10, 0x1d}},
			},
		},
		{
			name: "set already set",
			set:  true,
			mask: 0x09,
			ops: []i2ctest.IO{
				{Addr: addr, W: []byte{0x10}, R: []byte{0x19}},
			},
		},
		{
			name: "clear",
			mask: 0x10,
			ops: []i2ctest.IO{
				{Addr: addr, W: []byte{0x10}, R: []byte{0x1f}},
				{Addr: addr, W: []byte{0x10, 0x0f}},
			},
		},
		{
			name: "clear already cleared",
			mask: 0x02,
			ops: []i2ctest.IO{
				{Addr: addr, W: []byte{0x10}, R: []byte{0x1d}},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pb := &i2ctest.Playback{Ops: test.ops}
			b := NewI2C(pb, addr)
			var err error
			if test.set {
				err = b.SetBits(0x10, test.mask)
			} else {
				err = b.ClearBits(0x10, test.mask)
			}
			if err != nil {
				t.Fatal(err)
			}
			if err := pb.Close(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	// An empty playback fails every transaction.
	pb := &i2ctest.Playback{DontPanic: true}
	b := NewI2C(pb, addr)
	if _, err := b.Read(0x03); err == nil {
		t.Error("expected read error")
	}
	if err := b.Write(0x13, 1); err == nil {
		t.Error("expected write error")
	}
	if err := b.SetBits(0x10, 1); err == nil {
		t.Error("expected set error")
	}
	if err := b.ClearBits(0x10, 1); err == nil {
		t.Error("expected clear error")
	}

	// The write back fails after a successful read.
	pb = &i2ctest.Playback{
		Ops:       []i2ctest.IO{{Addr: addr, W: []byte{0x10}, R: []byte{0x00}}},
		DontPanic: true,
	}
	if err := NewI2C(pb, addr).SetBits(0x10, 1); err == nil {
		t.Error("expected error on write back")
	}
}
