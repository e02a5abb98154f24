// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/GermanBionicSystems/pmic/axp313"
	"gopkg.in/yaml.v3"
	"periph.io/x/conn/v3/physic"
)

// Profile is the board power configuration, e.g.:
//
//	variant: AXP313
//	bus: "1"
//	address: 0x36
//	rails:
//	  dcdc1: 1.8V
//	  dcdc3: 1.1V
//	  dldo1: off
type Profile struct {
	Variant string            `yaml:"variant"`
	Bus     string            `yaml:"bus"`
	Address uint16            `yaml:"address"`
	Rails   map[string]string `yaml:"rails"`
}

// RailSetting is a parsed rail entry of a Profile.
type RailSetting struct {
	Rail    axp313.Rail
	Voltage physic.ElectricPotential
}

// LoadProfile reads and validates the profile at path.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p := &Profile{}
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Validate checks the variant, the address and every rail entry.
func (p *Profile) Validate() error {
	if p.Variant != "" {
		if _, err := axp313.ParseVariant(p.Variant); err != nil {
			return err
		}
	}
	if p.Address > 0x7f {
		return fmt.Errorf("address %#x is not a 7 bit I²C address", p.Address)
	}
	if len(p.Rails) == 0 {
		return errors.New("no rail to program")
	}
	_, err := p.Settings()
	return err
}

// Settings returns the rail entries in register order.
func (p *Profile) Settings() ([]RailSetting, error) {
	seen := map[axp313.Rail]string{}
	out := make([]RailSetting, 0, len(p.Rails))
	for name, value := range p.Rails {
		r, err := axp313.ParseRail(name)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[r]; ok {
			return nil, fmt.Errorf("rail %s is listed twice (%q and %q)", r, prev, name)
		}
		seen[r] = name
		v, err := parseVoltage(value)
		if err != nil {
			return nil, fmt.Errorf("rail %s: %w", r, err)
		}
		out = append(out, RailSetting{Rail: r, Voltage: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rail < out[j].Rail })
	return out, nil
}

// parseVoltage accepts physic notation ("1.8V", "900mV") and "0" or "off"
// to disable a rail.
func parseVoltage(s string) (physic.ElectricPotential, error) {
	s = strings.TrimSpace(s)
	if s == "0" || strings.EqualFold(s, "off") {
		return 0, nil
	}
	var v physic.ElectricPotential
	if err := v.Set(s); err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative voltage %s", v)
	}
	return v, nil
}
