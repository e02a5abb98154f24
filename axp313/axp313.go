// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package axp313

import (
	"fmt"
	"time"

	"github.com/GermanBionicSystems/pmic/pmicbus"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Dev is a handle to an AXP313 family PMIC.
//
// Dev holds no lock. Concurrent use is safe as long as the Bus serializes
// its SetBits and ClearBits calls, which pmicbus.I2C does.
type Dev struct {
	bus     pmicbus.Bus
	variant Variant
	v       *variant
	id      ChipID
	// park is called once the power off command is sent.
	park func()
}

// RailState is the programmed state of a rail, as read back from the chip.
type RailState struct {
	Rail    Rail
	Enabled bool
	// Code is the content of the voltage selector register.
	Code    uint8
	Voltage physic.ElectricPotential
	// ForcedPWM is true when a DCDC converter is forced in PWM mode.
	ForcedPWM bool
}

func (s RailState) String() string {
	state := "off"
	if s.Enabled {
		state = "on"
	}
	return fmt.Sprintf("%s: %s %s (%#02x)", s.Rail, state, s.Voltage, s.Code)
}

// New initializes bus and checks that the chip matches variant.
//
// When the variant has an identification register, the chip version is read
// and must be one of the known IDs, else ErrUnrecognizedDevice is returned.
// Variants without identification register are assumed to be present.
func New(bus pmicbus.Bus, variant Variant) (*Dev, error) {
	v, found := variants[variant]
	if !found {
		return nil, fmt.Errorf("%w: unsupported variant %q", ErrInvalidArgument, string(variant))
	}
	if err := bus.Init(); err != nil {
		return nil, busErr("init", 0, err)
	}
	d := &Dev{bus: bus, variant: variant, v: v, park: parkForever}
	if v.hasID {
		b, err := bus.Read(regChipVersion)
		if err != nil {
			return nil, busErr("read", regChipVersion, err)
		}
		id := ChipID(b)
		if !v.isKnownID(id) {
			return nil, fmt.Errorf("%w: chip version %#02x", ErrUnrecognizedDevice, b)
		}
		d.id = id
	}
	return d, nil
}

// NewI2C returns a Dev for the PMIC at addr on an I²C bus. Use
// pmicbus.DefaultAddress unless the board straps the chip differently.
func NewI2C(bus i2c.Bus, addr uint16, variant Variant) (*Dev, error) {
	return New(pmicbus.NewI2C(bus, addr), variant)
}

// ChipID returns the identification read at initialization. It is
// ChipUnknown for variants without identification register.
func (d *Dev) ChipID() ChipID {
	return d.id
}

// Variant returns the variant the device was opened with.
func (d *Dev) Variant() Variant {
	return d.variant
}

// Encode returns the voltage selector code written for v on rail r.
func (d *Dev) Encode(r Rail, v physic.ElectricPotential) (uint8, error) {
	rl, err := d.rail(r)
	if err != nil {
		return 0, err
	}
	return rl.table.Encode(v), nil
}

// Range returns the lowest and highest voltage rail r supports. Requests
// outside of it are clamped.
func (d *Dev) Range(r Rail) (physic.ElectricPotential, physic.ElectricPotential, error) {
	rl, err := d.rail(r)
	if err != nil {
		return 0, 0, err
	}
	return rl.table.Min(), rl.table.Max(), nil
}

// SetRail programs rail r to voltage v and enables it.
//
// A voltage of 0 disables the rail without touching its voltage selector.
// Other voltages are clamped to the range of the rail and rounded down to the
// closest step. If the voltage can't be written, the rail is not enabled.
func (d *Dev) SetRail(r Rail, v physic.ElectricPotential) error {
	rl, err := d.rail(r)
	if err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: negative voltage %s", ErrInvalidArgument, v)
	}
	if v == 0 {
		return busErr("clear bits", regOutputCtrl, d.bus.ClearBits(regOutputCtrl, rl.enable))
	}
	if err := d.bus.Write(rl.volt, rl.table.Encode(v)); err != nil {
		return busErr("write", rl.volt, err)
	}
	return busErr("set bits", regOutputCtrl, d.bus.SetBits(regOutputCtrl, rl.enable))
}

// SetDCDC1 programs the first buck converter. 0 disables it.
func (d *Dev) SetDCDC1(v physic.ElectricPotential) error {
	return d.SetRail(DCDC1, v)
}

// SetDCDC2 programs the second buck converter. 0 disables it.
func (d *Dev) SetDCDC2(v physic.ElectricPotential) error {
	return d.SetRail(DCDC2, v)
}

// SetDCDC3 programs the third buck converter. 0 disables it.
func (d *Dev) SetDCDC3(v physic.ElectricPotential) error {
	return d.SetRail(DCDC3, v)
}

// SetALDO1 programs the analog LDO. 0 disables it.
func (d *Dev) SetALDO1(v physic.ElectricPotential) error {
	return d.SetRail(ALDO1, v)
}

// SetDLDO programs the digital LDO number index. The chip only has DLDO1,
// any other index returns ErrInvalidArgument.
func (d *Dev) SetDLDO(index int, v physic.ElectricPotential) error {
	if index != 1 {
		return fmt.Errorf("%w: no DLDO%d", ErrInvalidArgument, index)
	}
	return d.SetRail(DLDO1, v)
}

// SetForcedPWM forces the DCDC converter r in PWM mode, or lets it switch to
// PFM at light load.
func (d *Dev) SetForcedPWM(r Rail, on bool) error {
	rl, err := d.rail(r)
	if err != nil {
		return err
	}
	if rl.pwm == 0 {
		return fmt.Errorf("%w: %s is not a DCDC converter", ErrInvalidArgument, r)
	}
	if on {
		return busErr("set bits", regDCDCPWMCtrl, d.bus.SetBits(regDCDCPWMCtrl, rl.pwm))
	}
	return busErr("clear bits", regDCDCPWMCtrl, d.bus.ClearBits(regDCDCPWMCtrl, rl.pwm))
}

// Rail reads back the state of rail r.
func (d *Dev) Rail(r Rail) (RailState, error) {
	rl, err := d.rail(r)
	if err != nil {
		return RailState{}, err
	}
	ctrl, err := d.bus.Read(regOutputCtrl)
	if err != nil {
		return RailState{}, busErr("read", regOutputCtrl, err)
	}
	return d.readRail(r, rl, ctrl)
}

// Rails reads back the state of all rails.
func (d *Dev) Rails() ([]RailState, error) {
	ctrl, err := d.bus.Read(regOutputCtrl)
	if err != nil {
		return nil, busErr("read", regOutputCtrl, err)
	}
	out := make([]RailState, 0, len(Rails))
	for _, r := range Rails {
		s, err := d.readRail(r, &d.v.rails[r], ctrl)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// PowerOff cuts all the outputs of the PMIC, including the one powering the
// caller. It only returns when the command can't be sent.
func (d *Dev) PowerOff() error {
	if err := d.bus.Write(regShutdown, cmdPowerOff); err != nil {
		return busErr("write", regShutdown, err)
	}
	d.park()
	return nil
}

// Halt implements conn.Resource.
//
// The rails are left as is since the host most likely runs from them.
func (d *Dev) Halt() error {
	return nil
}

func (d *Dev) String() string {
	if d.id == ChipUnknown {
		return string(d.variant)
	}
	return fmt.Sprintf("%s (%s)", d.variant, d.id)
}

func (d *Dev) rail(r Rail) (*rail, error) {
	if r < 0 || r >= numRails {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, r)
	}
	return &d.v.rails[r], nil
}

func (d *Dev) readRail(r Rail, rl *rail, ctrl uint8) (RailState, error) {
	code, err := d.bus.Read(rl.volt)
	if err != nil {
		return RailState{}, busErr("read", rl.volt, err)
	}
	code &= 1<<rl.table.Bits - 1
	s := RailState{
		Rail:    r,
		Enabled: ctrl&rl.enable != 0,
		Code:    code,
		Voltage: rl.table.Decode(code),
	}
	if rl.pwm != 0 {
		pwm, err := d.bus.Read(regDCDCPWMCtrl)
		if err != nil {
			return RailState{}, busErr("read", regDCDCPWMCtrl, err)
		}
		s.ForcedPWM = pwm&rl.pwm != 0
	}
	return s, nil
}

// parkForever waits for the PMIC to cut the power.
func parkForever() {
	for {
		time.Sleep(time.Hour)
	}
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
