// Copyright 2017 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package railview prints the state of regulator rails to the terminal
// (stdout) using ANSI color codes.
//
// Each rail gets a line with a colored block, green when the output is
// enabled and dark grey when it is off, followed by its name and programmed
// voltage.
package railview

import (
	"bytes"
	"fmt"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/physic"
)

// Opts represents the options available for the view.
type Opts struct {
	// W defaults to a colorable stdout.
	W       io.Writer
	Palette *ansi256.Palette
	// Plain disables ANSI codes, e.g. when stdout is not a terminal.
	Plain bool

	_ struct{}
}

// Rail is the state of one output.
type Rail struct {
	Name    string
	Enabled bool
	Voltage physic.ElectricPotential
}

var (
	colorOn  = color.NRGBA{0x00, 0xd0, 0x00, 0xff}
	colorOff = color.NRGBA{0x40, 0x40, 0x40, 0xff}
)

// Dev prints rail states to a console.
type Dev struct {
	w       io.Writer
	palette ansi256.Palette
	plain   bool

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	return &Dev{w: w, palette: *p, plain: opts.Plain}
}

func (d *Dev) String() string {
	return "RailView"
}

// Halt implements conn.Resource.
//
// It resets the terminal colors.
func (d *Dev) Halt() error {
	if d.plain {
		return nil
	}
	_, err := d.w.Write([]byte("\033[0m"))
	return err
}

// Show writes one line per rail.
func (d *Dev) Show(rails []Rail) error {
	width := 0
	for _, r := range rails {
		if len(r.Name) > width {
			width = len(r.Name)
		}
	}
	d.buf.Reset()
	for _, r := range rails {
		if d.plain {
			state := "off"
			if r.Enabled {
				state = "on"
			}
			fmt.Fprintf(&d.buf, "%-*s  %-3s  %s\n", width, r.Name, state, r.Voltage)
			continue
		}
		c := colorOff
		if r.Enabled {
			c = colorOn
		}
		_, _ = d.buf.WriteString("\033[0m")
		_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		fmt.Fprintf(&d.buf, "\033[0m %-*s  %s\n", width, r.Name, r.Voltage)
	}
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ fmt.Stringer = &Dev{}
