// Copyright 2025 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package axp313 provides a driver for the X-Powers AXP313 family of power
// management ICs, found next to Allwinner H616/H618 SoCs.
//
// The chip has three buck converters (DCDC1-3) and two linear regulators
// (ALDO1, DLDO1). Each rail has a voltage selector register and an enable bit
// in the shared output control register.
//
// The following variants are supported:
//
//   - AXP313 - reports its version in register 0x03. AXP1530, AXP313A and
//     AXP313B silicon is accepted.
//   - AXP313A - no identification register.
//
// The datasheet DCDC3 table of the AXP313 doesn't match the silicon; the
// driver uses the measured ranges.
//
// # Datasheet
//
// https://linux-sunxi.org/AXP313
package axp313
