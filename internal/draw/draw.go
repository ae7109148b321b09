// Package draw renders the game onto a terminal: a scaled colour canvas,
// the sprite renderer on top of it, and the ANSI control sequences around them.
package draw

import (
	"fmt"
	"io"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// BlockUpperHalf draws two pixels per cell: foreground on top, background below.
const BlockUpperHalf = '▀'

const resetStyle = "\033[0m"

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, resetStyle+"\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// EnableMouse turns on xterm button and motion reporting in SGR encoding.
func EnableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1003h\033[?1006h")
}

// DisableMouse turns mouse reporting off again.
func DisableMouse(w io.Writer) {
	fmt.Fprint(w, "\033[?1003l\033[?1006l")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
