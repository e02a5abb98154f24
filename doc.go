// Copyright 2021 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pmic is a container for power management IC drivers.
//
// The regulator package holds the generic voltage selector encoding, pmicbus
// the register transport, and each chip family lives in its own package.
package pmic
