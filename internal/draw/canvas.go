package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Canvas is a colour drawing buffer with 2x vertical resolution using
// half-block characters. Game objects draw in logical coordinates which are
// scaled to the terminal pixels. Render only emits cells that changed since
// the previous frame.
type Canvas struct {
	termWidth      int              // Actual terminal columns
	termHeight     int              // Actual terminal rows
	subPixelHeight int              // termHeight * 2
	pixels         []colorful.Color // Flat slice: [y * termWidth + x]
	text           []textCell       // Text overlay, one per terminal cell
	prev           []cellKey        // What each cell showed after the last Render
	forceRedraw    bool

	// Scaling from logical to pixel coordinates
	logicalWidth  float64
	logicalHeight float64
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when the terminal is larger than
	// the max resolution. 0-based terminal offsets.
	offsetCol int
	offsetRow int

	renderBuf strings.Builder
	numBuf    [20]byte
}

// textCell is a character drawn over the pixels of one terminal cell.
type textCell struct {
	r  rune
	fg colorful.Color
}

// cellKey is the rendered identity of a terminal cell.
type cellKey struct {
	top, bottom uint32
	r           rune
	fg          uint32
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 1 {
		termWidth = 1
	}
	if termHeight < 1 {
		termHeight = 1
	}
	if termWidth != c.termWidth || termHeight != c.termHeight {
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = termHeight * 2
		c.pixels = make([]colorful.Color, c.subPixelHeight*termWidth)
		c.text = make([]textCell, termWidth*termHeight)
		c.prev = make([]cellKey, termWidth*termHeight)
		c.forceRedraw = true
	}
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(c.subPixelHeight) / c.logicalHeight
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.forceRedraw = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// ForceRedraw makes the next Render emit every cell.
func (c *Canvas) ForceRedraw() {
	c.forceRedraw = true
}

// Clear fills every pixel with bg and drops the text overlay.
func (c *Canvas) Clear(bg colorful.Color) {
	for i := range c.pixels {
		c.pixels[i] = bg
	}
	clear(c.text)
}

// blendPixel mixes col into the pixel at actual terminal coordinates (no scaling).
func (c *Canvas) blendPixel(x, y int, col colorful.Color, alpha float64) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return
	}
	i := y*c.termWidth + x
	if alpha >= 1 {
		c.pixels[i] = col
		return
	}
	c.pixels[i] = c.pixels[i].BlendRgb(col, alpha)
}

// At returns the pixel at actual pixel coordinates.
func (c *Canvas) At(x, y int) colorful.Color {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return colorful.Color{}
	}
	return c.pixels[y*c.termWidth+x]
}

// FillRect fills a logical rectangle. Anything smaller than a pixel still
// covers one pixel so small objects stay visible.
func (c *Canvas) FillRect(x, y, w, h float64, col colorful.Color, alpha float64) {
	if alpha <= 0 || w <= 0 || h <= 0 {
		return
	}
	x0 := int(math.Floor(x * c.scaleX))
	y0 := int(math.Floor(y * c.scaleY))
	x1 := int(math.Ceil((x + w) * c.scaleX))
	y1 := int(math.Ceil((y + h) * c.scaleY))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > c.termWidth {
		x1 = c.termWidth
	}
	if y1 > c.subPixelHeight {
		y1 = c.subPixelHeight
	}
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			c.blendPixel(px, py, col, alpha)
		}
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels.
func (c *Canvas) DrawLine(p1, p2 Point, col colorful.Color) {
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for {
		c.blendPixel(x1, y1, col, 1)

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// PutText writes s starting at a 1-based canvas cell. Characters outside the
// canvas are dropped.
func (c *Canvas) PutText(col, row int, s string, fg colorful.Color) {
	if row < 1 || row > c.termHeight {
		return
	}
	x := col - 1
	for _, r := range s {
		if x >= 0 && x < c.termWidth {
			c.text[(row-1)*c.termWidth+x] = textCell{r: r, fg: fg}
		}
		x++
	}
}

// TextAt returns the overlay rune at a 1-based canvas cell, or 0.
func (c *Canvas) TextAt(col, row int) rune {
	if col < 1 || col > c.termWidth || row < 1 || row > c.termHeight {
		return 0
	}
	return c.text[(row-1)*c.termWidth+col-1].r
}

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// Matches a typical MTU for smooth SSH transmission.
const maxChunkSize = 1400

// Render outputs the changed cells to the writer using half-block
// characters with 24-bit colours.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()
	lastRow, lastCol := -1, -1
	// Current terminal colours, -1 when unknown.
	fg, bg := int64(-1), int64(-1)

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := (row*2 + 1) * c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			tc := c.text[row*c.termWidth+col]

			key := cellKey{top: pack(top), bottom: pack(bottom), r: tc.r}
			if tc.r != 0 {
				key.fg = pack(tc.fg)
			}
			idx := row*c.termWidth + col
			if !c.forceRedraw && c.prev[idx] == key {
				continue
			}
			c.prev[idx] = key

			if row != lastRow || col != lastCol+1 {
				c.moveCursor(col+1, row+1)
			}
			lastRow, lastCol = row, col

			if tc.r != 0 {
				c.setColors(&fg, &bg, key.fg, pack(top.BlendRgb(bottom, 0.5)))
				c.renderBuf.WriteRune(tc.r)
				continue
			}
			c.setColors(&fg, &bg, key.top, key.bottom)
			c.renderBuf.WriteRune(BlockUpperHalf)
		}
	}
	c.forceRedraw = false
	if c.renderBuf.Len() == 0 {
		return nil
	}
	c.renderBuf.WriteString(resetStyle)

	// Write output in chunks for optimal network flow
	data := c.renderBuf.String()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := io.WriteString(w, chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return nil
}

// moveCursor appends a cursor position sequence for a 1-based canvas cell.
func (c *Canvas) moveCursor(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+c.offsetRow), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+c.offsetCol), 10))
	c.renderBuf.WriteByte('H')
}

// setColors switches the foreground and background to the packed colours,
// skipping sequences for colours that are already active.
func (c *Canvas) setColors(fg, bg *int64, wantFG, wantBG uint32) {
	if *fg != int64(wantFG) {
		c.sgr(38, wantFG)
		*fg = int64(wantFG)
	}
	if *bg != int64(wantBG) {
		c.sgr(48, wantBG)
		*bg = int64(wantBG)
	}
}

// sgr appends a 24-bit foreground (38) or background (48) colour.
func (c *Canvas) sgr(kind int, rgb uint32) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(kind), 10))
	c.renderBuf.WriteString(";2;")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgb>>16&0xff), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgb>>8&0xff), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(rgb&0xff), 10))
	c.renderBuf.WriteByte('m')
}

// pack reduces a colour to its 24-bit value for change detection.
func pack(col colorful.Color) uint32 {
	r, g, b := col.Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// LogicalWidth returns the logical width (target resolution).
func (c *Canvas) LogicalWidth() float64 {
	return c.logicalWidth
}

// LogicalHeight returns the logical height (target resolution).
func (c *Canvas) LogicalHeight() float64 {
	return c.logicalHeight
}

// TerminalWidth returns the canvas column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the canvas row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}

// LogicalToTerminal converts logical coordinates to a 1-based canvas cell (col, row).
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px := int(math.Floor(x * c.scaleX))
	py := int(math.Floor(y * c.scaleY))
	return px + 1, py/2 + 1
}

// TerminalToLogical converts a 1-based terminal position, as reported by the
// mouse, to logical coordinates at the centre of that cell. The canvas
// offset is removed first.
func (c *Canvas) TerminalToLogical(col, row int) (x, y float64) {
	col -= c.offsetCol
	row -= c.offsetRow
	x = (float64(col-1) + 0.5) / c.scaleX
	y = (float64(row-1)*2 + 1) / c.scaleY
	return x, y
}
