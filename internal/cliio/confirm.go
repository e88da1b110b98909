// Package cliio holds small terminal I/O helpers shared by the command
// tree: the y/N confirmation prompt used before destructive steps.
package cliio

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prints prompt to out and reads a line from in, returning true
// for "y" or "yes" (case-insensitive), false for anything else including
// a blank line.
func Confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	_, _ = fmt.Fprint(out, prompt)
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	choice := strings.ToLower(strings.TrimSpace(line))
	return choice == "y" || choice == "yes", nil
}
