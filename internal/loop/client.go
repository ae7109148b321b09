package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/risingtide/internal/audio"
	"github.com/tomz197/risingtide/internal/config"
	"github.com/tomz197/risingtide/internal/draw"
	"github.com/tomz197/risingtide/internal/input"
	loopconfig "github.com/tomz197/risingtide/internal/loop/config"
	"github.com/tomz197/risingtide/internal/object"
)

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Audio        Audio         // nil plays nothing
	Tuning       config.Tuning // Zero value means the defaults
	Logger       *log.Logger   // nil discards
	Rand         *rand.Rand    // nil seeds from Tuning.Seed or the clock

	// Shutdown, when closed, shows a notice and ends the session after
	// ShutdownGrace.
	Shutdown      <-chan struct{}
	ShutdownGrace time.Duration
}

// Client handles rendering and input for a single terminal.
type Client struct {
	session      *Session
	canvas       *draw.Canvas
	renderer     *draw.Renderer
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
	audio        Audio
	logger       *log.Logger
	music        <-chan error
	musicPath    string

	running       bool
	lastInput     time.Time
	isInactive    bool
	wasInactive   bool
	prevPhase     Phase
	shutdown      <-chan struct{}
	shuttingDown  bool
	shutdownTimer time.Duration
	shutdownGrace time.Duration
}

// NewClient creates a client reading keys from r and drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	tuning := opts.Tuning
	if tuning == (config.Tuning{}) {
		tuning = config.DefaultTuning()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	a := opts.Audio
	if a == nil {
		a = audio.Silent{}
	}
	rng := opts.Rand
	if rng == nil {
		seed := tuning.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}
	grace := opts.ShutdownGrace
	if grace <= 0 {
		grace = time.Duration(loopconfig.ShutdownDisplaySeconds * float64(time.Second))
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, loopconfig.ViewWidth, loopconfig.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		session:       NewSession(tuning, rng, a, logger),
		canvas:        canvas,
		renderer:      draw.NewRenderer(canvas, object.Scale, tuning.Debug),
		writer:        w,
		inputStream:   input.StartStream(r),
		termSizeFunc:  termSizeFunc,
		audio:         a,
		logger:        logger,
		musicPath:     tuning.Music,
		running:       true,
		lastInput:     time.Now(),
		prevPhase:     PhaseCharacterSelect,
		shutdown:      opts.Shutdown,
		shutdownGrace: grace,
	}
}

// Session returns the game the client drives.
func (c *Client) Session() *Session {
	return c.session
}

// Run starts the client loop. Blocks until the player quits, the input ends,
// the context is cancelled or the shutdown notice has been shown.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	draw.EnableMouse(c.writer)
	defer draw.ShowCursor(c.writer)
	defer draw.DisableMouse(c.writer)
	draw.ClearScreen(c.writer)

	if c.musicPath != "" {
		c.music = c.audio.LoadMusic(c.musicPath)
	}

	lastTime := time.Now()

	for c.running {
		if ctx.Err() != nil {
			break
		}
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		in := c.processInput()

		c.pollMusic()
		c.pollShutdown(delta)

		// Handle screen resize
		c.updateScreen()

		if !c.shuttingDown {
			if err := c.session.Update(Frame{Delta: delta, Input: in, Pointer: c.pointer(in.Pointer)}); err != nil {
				return fmt.Errorf("update: %w", err)
			}
		}

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < loopconfig.ClientTargetFrameTime {
			time.Sleep(loopconfig.ClientTargetFrameTime - elapsed)
		}
	}

	c.audio.SetMasterVolume(0)
	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads this frame's input and tracks inactivity.
func (c *Client) processInput() input.Set {
	in, closed := input.ReadInput(c.inputStream)
	if closed {
		c.logger.Debug("input closed")
		c.running = false
	}

	if len(in.Raw) > 0 {
		c.lastInput = time.Now()
		c.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > loopconfig.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive player")
		c.running = false
	} else if time.Since(c.lastInput).Seconds() > loopconfig.InactivityWarnUser {
		c.isInactive = true
	}

	if in.Pressed(input.ActionQuit) {
		c.running = false
	}
	return in
}

// pointer maps the terminal mouse into logical units.
func (c *Client) pointer(p input.Pointer) Pointer {
	if !p.Valid {
		return Pointer{}
	}
	x, y := c.renderer.ToLogical(p.Col, p.Row)
	return Pointer{X: x, Y: y, Valid: true, Down: p.Down}
}

// pollMusic reports the music loader's result once it arrives.
func (c *Client) pollMusic() {
	if c.music == nil {
		return
	}
	select {
	case err, ok := <-c.music:
		c.music = nil
		switch {
		case !ok:
		case errors.Is(err, audio.ErrNoOutput):
			c.logger.Debug("music skipped, no audio output")
		case err != nil:
			c.logger.Warn("music unavailable, using synthesized layers", "err", err)
		default:
			c.logger.Info("music loaded", "path", c.musicPath)
		}
	default:
	}
}

// pollShutdown starts the shutdown countdown once the server asks for it.
func (c *Client) pollShutdown(delta time.Duration) {
	if !c.shuttingDown {
		select {
		case <-c.shutdown:
			c.shuttingDown = true
			c.shutdownTimer = c.shutdownGrace
		default:
		}
		return
	}
	c.shutdownTimer -= delta
	if c.shutdownTimer <= 0 {
		c.running = false
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On phase or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	phase := c.session.Phase
	if phase != c.prevPhase || c.isInactive != c.wasInactive {
		input.ResetKeyInput(c.inputStream)
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
		c.prevPhase = phase
		c.wasInactive = c.isInactive
	}

	c.renderer.Clear()
	if err := c.session.Draw(c.renderer); err != nil {
		return err
	}

	switch {
	case c.shuttingDown:
		c.drawShutdownScreen()
	case c.isInactive:
		c.drawInactivityScreen()
	}

	return c.canvas.Render(c.writer)
}

// drawInactivityScreen draws the inactivity warning.
func (c *Client) drawInactivityScreen() {
	r := c.renderer
	mid := r.Height() / 2
	r.Flood("#000000", 0.6)
	r.TextCentered(mid-20, "INACTIVITY WARNING", "#ffffff")
	left := int(loopconfig.InactivityDisconnectUser - time.Since(c.lastInput).Seconds())
	r.TextCentered(mid, fmt.Sprintf("You will be disconnected in %d seconds.", left), "#ffffff")
	r.TextCentered(mid+20, "Press any key to continue", "#ffffff")
}

// drawShutdownScreen tells the player the server is going away.
func (c *Client) drawShutdownScreen() {
	r := c.renderer
	mid := r.Height() / 2
	r.Flood("#000000", 0.6)
	r.TextCentered(mid-10, "SERVER SHUTTING DOWN", "#ffffff")
	r.TextCentered(mid+10, fmt.Sprintf("Disconnecting in %d seconds.", int(c.shutdownTimer.Seconds())+1), "#ffffff")
}
