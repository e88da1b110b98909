package gittrim

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	// narrowTableWidth is the terminal width below which printReport drops
	// the UPSTREAM column.
	narrowTableWidth = 100
	// tinyTableWidth is the width below which it also drops FLAGS.
	tinyTableWidth = 80
)

var getTerminalSize = term.GetSize

// tableWidth returns the terminal's column width when cmd's stdout is a
// TTY, so the report table can decide which columns to drop.
func tableWidth(cmd *cobra.Command) (int, bool) {
	if cmd == nil {
		return 0, false
	}
	file, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return 0, false
	}
	fd := int(file.Fd())
	if !isTerminalFD(fd) {
		return 0, false
	}
	width, _, err := getTerminalSize(fd)
	if err != nil || width <= 0 {
		return 0, false
	}
	return width, true
}
