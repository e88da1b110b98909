// SPDX-License-Identifier: MIT
package main

import (
	"fmt"
	"os"

	"github.com/foriequal0/git-trim/cmd/gittrim"
)

// execute is overridable in tests.
var execute = gittrim.Execute

// main maps a panic escaping execute to exit code 101.
func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(os.Stderr, "git-trim: abnormal termination:", r)
			os.Exit(101)
		}
	}()
	execute()
}
