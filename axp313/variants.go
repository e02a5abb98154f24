// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axp313

import (
	"fmt"
	"strings"

	"github.com/GermanBionicSystems/pmic/regulator"
	"periph.io/x/conn/v3/physic"
)

// Variant is the type denoting a specific variant of the family.
type Variant string

const (
	AXP313  Variant = "AXP313"  // AXP313 with chip version register.
	AXP313A Variant = "AXP313A" // AXP313A without identification register.
)

// ChipID is the content of the chip version register.
type ChipID uint8

const (
	// ChipUnknown is reported by variants without identification register.
	ChipUnknown ChipID = 0
	AXP1530ID   ChipID = 0x48
	AXP313AID   ChipID = 0x4b
	AXP313BID   ChipID = 0x4c
)

func (c ChipID) String() string {
	switch c {
	case ChipUnknown:
		return "unknown"
	case AXP1530ID:
		return "AXP1530"
	case AXP313AID:
		return "AXP313A"
	case AXP313BID:
		return "AXP313B"
	default:
		return fmt.Sprintf("ChipID(%#02x)", uint8(c))
	}
}

// Rail is a regulator output of the PMIC.
type Rail int

const (
	DCDC1 Rail = iota
	DCDC2
	DCDC3
	ALDO1
	DLDO1
	numRails
)

// Rails lists all the outputs in register order.
var Rails = []Rail{DCDC1, DCDC2, DCDC3, ALDO1, DLDO1}

var railNames = [numRails]string{"DCDC1", "DCDC2", "DCDC3", "ALDO1", "DLDO1"}

func (r Rail) String() string {
	if r < 0 || r >= numRails {
		return fmt.Sprintf("Rail(%d)", int(r))
	}
	return railNames[r]
}

// ParseRail returns the Rail named s, e.g. "DCDC1" or "dldo1".
func ParseRail(s string) (Rail, error) {
	for i, n := range railNames {
		if strings.EqualFold(n, s) {
			return Rail(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown rail %q", ErrInvalidArgument, s)
}

// ParseVariant returns the Variant named s.
func ParseVariant(s string) (Variant, error) {
	for v := range variants {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown variant %q", ErrInvalidArgument, s)
}

// Register map, common to both variants.
const (
	regChipVersion uint8 = 0x03
	regOutputCtrl  uint8 = 0x10
	regDCDCPWMCtrl uint8 = 0x12
	regDCDC1Volt   uint8 = 0x13
	regDCDC2Volt   uint8 = 0x14
	regDCDC3Volt   uint8 = 0x15
	regALDO1Volt   uint8 = 0x16
	regDLDO1Volt   uint8 = 0x17
	regShutdown    uint8 = 0x1a

	// Output control bits.
	dcdc1En uint8 = 1 << 0
	dcdc2En uint8 = 1 << 1
	dcdc3En uint8 = 1 << 2
	aldo1En uint8 = 1 << 3
	dldo1En uint8 = 1 << 4

	// DCDC PWM control bits, 0 = auto PFM/PWM, 1 = fixed PWM.
	dcdc1PWM uint8 = 1 << 0
	dcdc2PWM uint8 = 1 << 1
	dcdc3PWM uint8 = 1 << 2

	// Shutdown register command.
	cmdPowerOff uint8 = 1 << 7
)

const mV = physic.MilliVolt

// Voltage selectors. Ranges are inclusive.
var (
	// 0.5-1.2V 10mV/step, 1.22-1.54V 20mV/step, 1.6-3.4V 100mV/step.
	dcdc1Table = regulator.Table{
		Segments: []regulator.Segment{
			{Min: 500 * mV, Max: 1200 * mV, Step: 10 * mV, Offset: 0},
			{Min: 1220 * mV, Max: 1540 * mV, Step: 20 * mV, Offset: 70},
			{Min: 1600 * mV, Max: 3400 * mV, Step: 100 * mV, Offset: 87},
		},
		Bits: 7,
	}
	// 0.5-1.2V 10mV/step, 1.22-1.3V 20mV/step.
	dcdc2Table = regulator.Table{
		Segments: []regulator.Segment{
			{Min: 500 * mV, Max: 1200 * mV, Step: 10 * mV, Offset: 0},
			{Min: 1220 * mV, Max: 1300 * mV, Step: 20 * mV, Offset: 70},
		},
		Bits: 7,
	}
	// Measured on AXP313 silicon: 0.5-1.2V 10mV/step, 1.22-1.84V 20mV/step.
	dcdc3Table = regulator.Table{
		Segments: []regulator.Segment{
			{Min: 500 * mV, Max: 1200 * mV, Step: 10 * mV, Offset: 0},
			{Min: 1220 * mV, Max: 1840 * mV, Step: 20 * mV, Offset: 70},
		},
		Bits: 7,
	}
	// AXP313A: 0.8-1.12V 10mV/step, 1.14-1.84V 20mV/step.
	dcdc3TableA = regulator.Table{
		Segments: []regulator.Segment{
			{Min: 800 * mV, Max: 1120 * mV, Step: 10 * mV, Offset: 0},
			{Min: 1140 * mV, Max: 1840 * mV, Step: 20 * mV, Offset: 32},
		},
		Bits: 7,
	}
	// 0.5-3.5V 100mV/step, used by ALDO1 and DLDO1.
	ldoTable = regulator.Table{
		Segments: []regulator.Segment{
			{Min: 500 * mV, Max: 3500 * mV, Step: 100 * mV, Offset: 0},
		},
		Bits: 5,
	}
)

type rail struct {
	volt   uint8
	enable uint8
	// pwm is the bit in the DCDC PWM control register; 0 for LDOs.
	pwm   uint8
	table *regulator.Table
}

type variant struct {
	// hasID is false when the chip has no identification register.
	hasID bool
	ids   []ChipID
	rails [numRails]rail
}

// isKnownID checks the value read from the chip version register.
func (v *variant) isKnownID(id ChipID) bool {
	for _, known := range v.ids {
		if id == known {
			return true
		}
	}
	return false
}

var variants = map[Variant]*variant{
	AXP313: {
		hasID: true,
		ids:   []ChipID{AXP1530ID, AXP313AID, AXP313BID},
		rails: [numRails]rail{
			DCDC1: {volt: regDCDC1Volt, enable: dcdc1En, pwm: dcdc1PWM, table: &dcdc1Table},
			DCDC2: {volt: regDCDC2Volt, enable: dcdc2En, pwm: dcdc2PWM, table: &dcdc2Table},
			DCDC3: {volt: regDCDC3Volt, enable: dcdc3En, pwm: dcdc3PWM, table: &dcdc3Table},
			ALDO1: {volt: regALDO1Volt, enable: aldo1En, table: &ldoTable},
			DLDO1: {volt: regDLDO1Volt, enable: dldo1En, table: &ldoTable},
		},
	},
	AXP313A: {
		rails: [numRails]rail{
			DCDC1: {volt: regDCDC1Volt, enable: dcdc1En, pwm: dcdc1PWM, table: &dcdc1Table},
			DCDC2: {volt: regDCDC2Volt, enable: dcdc2En, pwm: dcdc2PWM, table: &dcdc2Table},
			DCDC3: {volt: regDCDC3Volt, enable: dcdc3En, pwm: dcdc3PWM, table: &dcdc3TableA},
			ALDO1: {volt: regALDO1Volt, enable: aldo1En, table: &ldoTable},
			DLDO1: {volt: regDLDO1Volt, enable: dldo1En, table: &ldoTable},
		},
	},
}
