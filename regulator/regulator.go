// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package regulator converts output voltages to and from the voltage selector
// codes used by PMIC regulators.
//
// Most regulators don't have a single linear selector. The code space is split
// into a few linear segments with different step sizes, e.g. 10mV steps up to
// 1.2V and 100mV steps above 1.6V. A Table describes such a selector as data,
// so one routine handles every rail of every chip.
package regulator

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Segment is one linear stretch of a voltage selector.
type Segment struct {
	// Min and Max bound the voltages covered by the segment, inclusive.
	Min physic.ElectricPotential
	Max physic.ElectricPotential
	// Step is the voltage increment of one code unit.
	Step physic.ElectricPotential
	// Offset is the selector code corresponding to Min.
	Offset uint8
}

// top returns the code corresponding to Max.
func (s *Segment) top() int {
	return int(s.Offset) + int((s.Max-s.Min)/s.Step)
}

func (s *Segment) String() string {
	return fmt.Sprintf("%s-%s/%s@%d", s.Min, s.Max, s.Step, s.Offset)
}

// Table is the voltage selector of a regulator rail.
//
// Segments must be sorted by ascending voltage and must not overlap.
type Table struct {
	Segments []Segment
	// Bits is the width of the selector field in the register.
	Bits uint
}

// Min returns the lowest voltage the rail supports.
func (t *Table) Min() physic.ElectricPotential {
	return t.Segments[0].Min
}

// Max returns the highest voltage the rail supports.
func (t *Table) Max() physic.ElectricPotential {
	return t.Segments[len(t.Segments)-1].Max
}

// Encode returns the selector code for v.
//
// v is clamped to the range supported by the table. The segment is picked by
// checking thresholds from the top: the last segment whose Min is lower or
// equal to v is used, so a voltage sitting on a boundary belongs to the upper
// segment. Within a segment, the code is rounded down.
func (t *Table) Encode(v physic.ElectricPotential) uint8 {
	s := &t.Segments[0]
	for i := len(t.Segments) - 1; i > 0; i-- {
		if v >= t.Segments[i].Min {
			s = &t.Segments[i]
			break
		}
	}
	if v < s.Min {
		v = s.Min
	} else if v > s.Max {
		v = s.Max
	}
	return s.Offset + uint8((v-s.Min)/s.Step)
}

// Decode returns the voltage selected by code.
//
// Codes above the top of the table decode to the maximum voltage, as the
// hardware saturates there.
func (t *Table) Decode(code uint8) physic.ElectricPotential {
	s := &t.Segments[0]
	for i := len(t.Segments) - 1; i > 0; i-- {
		if code >= t.Segments[i].Offset {
			s = &t.Segments[i]
			break
		}
	}
	if code < s.Offset {
		return s.Min
	}
	v := s.Min + physic.ElectricPotential(code-s.Offset)*s.Step
	if v > s.Max {
		v = s.Max
	}
	return v
}

var errEmpty = errors.New("regulator: table has no segment")

// Validate checks that the table is well formed.
func (t *Table) Validate() error {
	if len(t.Segments) == 0 {
		return errEmpty
	}
	if t.Bits == 0 || t.Bits > 8 {
		return fmt.Errorf("regulator: invalid selector width %d", t.Bits)
	}
	for i := range t.Segments {
		s := &t.Segments[i]
		if s.Step <= 0 {
			return fmt.Errorf("regulator: segment %d (%s): step must be positive", i, s)
		}
		if s.Min <= 0 || s.Min > s.Max {
			return fmt.Errorf("regulator: segment %d (%s): invalid range", i, s)
		}
		if (s.Max-s.Min)/s.Step >= 1<<t.Bits {
			return fmt.Errorf("regulator: segment %d (%s): too many steps", i, s)
		}
		if i == 0 {
			continue
		}
		prev := &t.Segments[i-1]
		if s.Min <= prev.Max {
			return fmt.Errorf("regulator: segment %d (%s) overlaps %s", i, s, prev)
		}
		if s.Offset <= prev.Offset || int(s.Offset) < prev.top() {
			return fmt.Errorf("regulator: segment %d (%s): offset below %s", i, s, prev)
		}
	}
	last := &t.Segments[len(t.Segments)-1]
	if last.top() >= 1<<t.Bits {
		return fmt.Errorf("regulator: code %d doesn't fit in %d bits", last.top(), t.Bits)
	}
	return nil
}

func (t *Table) String() string {
	out := ""
	for i := range t.Segments {
		if i != 0 {
			out += ", "
		}
		out += t.Segments[i].String()
	}
	return fmt.Sprintf("%d bits: %s", t.Bits, out)
}
