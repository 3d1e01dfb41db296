// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package main is the entry point of the plweb program.
// See the command package for its sub-commands.
package main

import "github.com/momeni/parking-lot/cmd/plweb/command"

func main() {
	command.Execute()
}
