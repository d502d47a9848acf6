// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/invowk/coil/cmd/coil"

func main() {
	cmd.Execute()
}
