package draw

import (
	"os"

	"golang.org/x/term"
)

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// Max render resolution. Larger terminals get a centred play field.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 80
)

// ClampTermSize clamps terminal dimensions to the max render resolution and
// computes the centering offset for the render area.
func ClampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > MaxTermWidth {
		renderWidth = MaxTermWidth
	}
	if renderHeight > MaxTermHeight {
		renderHeight = MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}
