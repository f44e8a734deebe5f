//go:build !windows

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// detectTerminalWidth asks the tty behind stdout for its size, then falls
// back to $COLUMNS. Zero means unknown.
func detectTerminalWidth() int {
	ws, err := unix.IoctlGetWinsize(int(os.Stdout.Fd()), unix.TIOCGWINSZ)
	if err == nil && ws != nil && ws.Col > 0 {
		return int(ws.Col)
	}
	return columnsEnv()
}
