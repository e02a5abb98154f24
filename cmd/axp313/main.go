// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// axp313 programs the regulators of an AXP313 family PMIC.
//
// Examples:
//
//	axp313 info
//	axp313 set dcdc3 1.1V
//	axp313 off dldo1
//	axp313 apply board.yaml
//	axp313 poweroff
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/GermanBionicSystems/pmic/axp313"
	"github.com/GermanBionicSystems/pmic/pmicbus"
	"github.com/GermanBionicSystems/pmic/railview"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

var (
	busName     string
	busAddr     uint16
	variantName string
)

func main() {
	log.SetFlags(0)
	rootCmd := &cobra.Command{
		Use:   "axp313",
		Short: "Program the regulators of an AXP313 family PMIC",
		Long: `axp313 talks to an X-Powers AXP313/AXP313A PMIC over I²C to read back and
program its DCDC and LDO rails.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&busName, "bus", "", "I²C bus to use (default: first bus)")
	rootCmd.PersistentFlags().Uint16Var(&busAddr, "addr", pmicbus.DefaultAddress, "I²C address of the PMIC")
	rootCmd.PersistentFlags().StringVar(&variantName, "variant", string(axp313.AXP313), "chip variant: AXP313 or AXP313A")

	rootCmd.AddCommand(infoCmd())
	rootCmd.AddCommand(setCmd())
	rootCmd.AddCommand(offCmd())
	rootCmd.AddCommand(applyCmd())
	rootCmd.AddCommand(poweroffCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// open initializes periph and the PMIC. The returned func closes the bus.
func open(name string, addr uint16, variant string) (*axp313.Dev, func() error, error) {
	v, err := axp313.ParseVariant(variant)
	if err != nil {
		return nil, nil, err
	}
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open I²C: %w", err)
	}
	d, err := axp313.NewI2C(bus, addr, v)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	return d, bus.Close, nil
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Print the chip identification and the state of every rail",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			d, closeBus, err := open(busName, busAddr, variantName)
			if err != nil {
				return err
			}
			defer closeBus()
			states, err := d.Rails()
			if err != nil {
				return err
			}
			fmt.Println(d)
			rails := make([]railview.Rail, 0, len(states))
			for _, s := range states {
				rails = append(rails, railview.Rail{Name: s.Rail.String(), Enabled: s.Enabled, Voltage: s.Voltage})
			}
			view := railview.New(&railview.Opts{Plain: !isatty.IsTerminal(os.Stdout.Fd())})
			defer view.Halt()
			return view.Show(rails)
		},
	}
}

func setCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <rail> <voltage>",
		Short: "Program a rail voltage and enable it",
		Long: `Program a rail voltage and enable it. The voltage is clamped to the range of
the rail and rounded down to the closest step. A voltage of 0 disables the rail.

Examples:
  axp313 set dcdc1 3.3V
  axp313 set dcdc3 1100mV`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := axp313.ParseRail(args[0])
			if err != nil {
				return err
			}
			v, err := parseVoltage(args[1])
			if err != nil {
				return err
			}
			d, closeBus, err := open(busName, busAddr, variantName)
			if err != nil {
				return err
			}
			defer closeBus()
			return program(d, []RailSetting{{Rail: r, Voltage: v}})
		},
	}
}

func offCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "off <rail>",
		Short: "Disable a rail",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			r, err := axp313.ParseRail(args[0])
			if err != nil {
				return err
			}
			d, closeBus, err := open(busName, busAddr, variantName)
			if err != nil {
				return err
			}
			defer closeBus()
			return program(d, []RailSetting{{Rail: r}})
		},
	}
}

func applyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <profile.yaml>",
		Short: "Program the rails listed in a board profile",
		Long: `Program the rails listed in a board profile. The variant, bus and address of
the profile override the command line flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := LoadProfile(args[0])
			if err != nil {
				return err
			}
			name, addr, variant := busName, busAddr, variantName
			if p.Bus != "" {
				name = p.Bus
			}
			if p.Address != 0 {
				addr = p.Address
			}
			if p.Variant != "" {
				variant = p.Variant
			}
			settings, err := p.Settings()
			if err != nil {
				return err
			}
			d, closeBus, err := open(name, addr, variant)
			if err != nil {
				return err
			}
			defer closeBus()
			return program(d, settings)
		},
	}
}

func poweroffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poweroff",
		Short: "Cut all the PMIC outputs, including the one powering this host",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			d, closeBus, err := open(busName, busAddr, variantName)
			if err != nil {
				return err
			}
			defer closeBus()
			log.Printf("%s: powering off", d)
			return d.PowerOff()
		},
	}
}

// program applies settings in order and stops at the first failure.
func program(d *axp313.Dev, settings []RailSetting) error {
	for _, s := range settings {
		if err := d.SetRail(s.Rail, s.Voltage); err != nil {
			return err
		}
		if s.Voltage == 0 {
			log.Printf("%s: off", s.Rail)
			continue
		}
		code, err := d.Encode(s.Rail, s.Voltage)
		if err != nil {
			return err
		}
		log.Printf("%s: %s (selector %#02x)", s.Rail, s.Voltage, code)
	}
	return nil
}
