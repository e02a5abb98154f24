// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axp313

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is returned for a rail, index, variant or voltage the
	// chip doesn't support. No bus transaction is done in that case.
	ErrInvalidArgument = errors.New("axp313: invalid argument")
	// ErrUnrecognizedDevice is returned when the chip version register holds
	// an unexpected value.
	ErrUnrecognizedDevice = errors.New("axp313: unrecognized device")
)

// BusError is a transport failure. The error of the Bus is kept as is and can
// be reached with errors.Is or errors.As.
type BusError struct {
	Op  string
	Reg uint8
	Err error
}

func (e *BusError) Error() string {
	if e.Op == "init" {
		return fmt.Sprintf("axp313: init: %v", e.Err)
	}
	return fmt.Sprintf("axp313: %s %#02x: %v", e.Op, e.Reg, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

// busErr wraps err, if any.
func busErr(op string, reg uint8, err error) error {
	if err == nil {
		return nil
	}
	return &BusError{Op: op, Reg: reg, Err: err}
}
