package draw

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tomz197/risingtide/internal/physics"
	"github.com/tomz197/risingtide/internal/sprite"
)

// Background is the colour the canvas is cleared to each frame.
const Background = "#0b1d33"

// boundsColor outlines collision boxes in debug mode.
const boundsColor = "#ff00ff"

// Cursor styles reported by the game. A terminal has no pointer shape to
// change, so the renderer only remembers the last request.
const (
	CursorDefault = "default"
	CursorPointer = "pointer"
)

// Renderer paints sprites, rectangles and text in logical game units onto
// a Canvas. Sprite pixels are multiplied by the scale factor.
type Renderer struct {
	canvas *Canvas
	scale  float64
	debug  bool
	cursor string
	colors map[string]colorful.Color
	bg     colorful.Color
}

// NewRenderer wraps a canvas. scale is the number of logical units per
// sprite pixel.
func NewRenderer(c *Canvas, scale float64, debug bool) *Renderer {
	r := &Renderer{
		canvas: c,
		scale:  scale,
		debug:  debug,
		cursor: CursorDefault,
		colors: make(map[string]colorful.Color),
	}
	r.bg, _ = r.color(Background)
	return r
}

// Canvas returns the underlying canvas.
func (r *Renderer) Canvas() *Canvas {
	return r.canvas
}

// color parses and caches a hex colour. Bad colours are reported as not ok
// and the caller skips drawing.
func (r *Renderer) color(hex string) (colorful.Color, bool) {
	if c, ok := r.colors[hex]; ok {
		return c, true
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, false
	}
	r.colors[hex] = c
	return c, true
}

// Clear resets the canvas to the background colour.
func (r *Renderer) Clear() {
	r.canvas.Clear(r.bg)
}

// Width returns the logical width.
func (r *Renderer) Width() float64 {
	return r.canvas.LogicalWidth()
}

// Height returns the logical height.
func (r *Renderer) Height() float64 {
	return r.canvas.LogicalHeight()
}

// CenterX returns the x that centres a sprite w pixels wide.
func (r *Renderer) CenterX(w float64) float64 {
	return r.Width()/2 - w*r.scale/2
}

// CenterY returns the y that centres a sprite h pixels tall.
func (r *Renderer) CenterY(h float64) float64 {
	return r.Height()/2 - h*r.scale/2
}

// Cursor records the requested pointer style.
func (r *Renderer) Cursor(style string) {
	r.cursor = style
}

// CursorStyle returns the last requested pointer style.
func (r *Renderer) CursorStyle() string {
	return r.cursor
}

// FillRect fills a logical rectangle.
func (r *Renderer) FillRect(rect physics.Rect, hex string, alpha float64) {
	c, ok := r.color(hex)
	if !ok {
		return
	}
	r.canvas.FillRect(rect.X, rect.Y, rect.W, rect.H, c, alpha)
}

// Flood covers the whole view.
func (r *Renderer) Flood(hex string, alpha float64) {
	r.FillRect(physics.NewRect(0, 0, r.Width(), r.Height()), hex, alpha)
}

// DrawSprite paints a frame with its top-left corner at (x, y). Frames
// without a mask are solid blocks. Invalid refs draw nothing.
func (r *Renderer) DrawSprite(ref sprite.Ref, x, y, opacity float64) {
	if !ref.Valid() || opacity <= 0 {
		return
	}
	w := float64(ref.W) * r.scale
	h := float64(ref.H) * r.scale

	if len(ref.Mask) == 0 || len(ref.Mask[0]) == 0 {
		r.FillRect(physics.NewRect(x, y, w, h), ref.Color, opacity)
		return
	}

	rows := len(ref.Mask)
	cols := len(ref.Mask[0])
	cellW := w / float64(cols)
	cellH := h / float64(rows)

	for my, line := range ref.Mask {
		for mx := 0; mx < cols && mx < len(line); mx++ {
			ch := line[mx]
			if ch == '.' || ch == ' ' {
				continue
			}
			hex := ref.Color
			if ch != '#' {
				if p, ok := ref.Palette[ch]; ok {
					hex = p
				}
			}
			col := mx
			if ref.Mirror {
				col = cols - 1 - mx
			}
			r.FillRect(physics.NewRect(x+float64(col)*cellW, y+float64(my)*cellH, cellW, cellH), hex, opacity)
		}
	}
}

// DrawBounds outlines a collision box when debug drawing is on.
func (r *Renderer) DrawBounds(rect physics.Rect) {
	if !r.debug {
		return
	}
	c, _ := r.color(boundsColor)
	tl := Point{X: rect.X, Y: rect.Y}
	tr := Point{X: rect.Right(), Y: rect.Y}
	bl := Point{X: rect.X, Y: rect.Bottom()}
	br := Point{X: rect.Right(), Y: rect.Bottom()}
	r.canvas.DrawLine(tl, tr, c)
	r.canvas.DrawLine(tr, br, c)
	r.canvas.DrawLine(br, bl, c)
	r.canvas.DrawLine(bl, tl, c)
}

// Text writes s starting at the terminal cell under (x, y).
func (r *Renderer) Text(x, y float64, s, hex string) {
	c, ok := r.color(hex)
	if !ok {
		return
	}
	col, row := r.canvas.LogicalToTerminal(x, y)
	r.canvas.PutText(col, row, s, c)
}

// TextCentered writes s horizontally centred on the view at height y.
func (r *Renderer) TextCentered(y float64, s, hex string) {
	c, ok := r.color(hex)
	if !ok {
		return
	}
	_, row := r.canvas.LogicalToTerminal(0, y)
	n := len([]rune(s))
	col := (r.canvas.TerminalWidth()-n)/2 + 1
	if col < 1 {
		col = 1
	}
	r.canvas.PutText(col, row, s, c)
}

// ToLogical maps a 1-based terminal pointer position into logical units.
func (r *Renderer) ToLogical(col, row int) (x, y float64) {
	return r.canvas.TerminalToLogical(col, row)
}
