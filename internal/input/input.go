// Package input turns a raw terminal byte stream into per-frame action
// snapshots, including xterm SGR mouse reports.
package input

import (
	"bufio"
	"strconv"
	"time"
)

// keyHoldDuration is how long a key is considered "held" after its last press.
// Terminals send no key-up events, so a held key is one whose auto-repeat
// keeps arriving within this window.
const keyHoldDuration = 60 * time.Millisecond

// escapeWait is how long an unfinished escape sequence waits for the rest of
// its bytes. A lone ESC older than this is the Esc key.
const escapeWait = 50 * time.Millisecond

// maxPending bounds a held escape sequence; longer ones are not reports.
const maxPending = 32

// Action is a logical key.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionSpace
	ActionEsc
	ActionMute
	ActionEnter
	ActionQuit
	actionCount
)

// Pointer is the last known mouse position in 1-based terminal cells.
type Pointer struct {
	Col, Row int
	Valid    bool // A report has been received
	Down     bool // Left button pressed this frame
}

// Set is one frame's input snapshot.
type Set struct {
	held    [actionCount]bool
	Number  int // Last digit pressed this frame, -1 if none
	Pointer Pointer
	Raw     []byte // Bytes received this frame
}

// Pressed reports whether the action is currently held. Unknown actions are
// never pressed.
func (s Set) Pressed(a Action) bool {
	if a < 0 || a >= actionCount {
		return false
	}
	return s.held[a]
}

// With returns a copy of the set with the given actions held. Used to build
// synthetic input.
func (s Set) With(actions ...Action) Set {
	for _, a := range actions {
		if a >= 0 && a < actionCount {
			s.held[a] = true
		}
	}
	return s
}

// Empty returns a set with nothing pressed.
func Empty() Set {
	return Set{Number: -1}
}

// Of returns a set with the given actions held.
func Of(actions ...Action) Set {
	return Empty().With(actions...)
}

// Toggle detects the rising edge of an action across frames.
type Toggle struct {
	Action Action
	held   bool
}

// Fire reports true on the first frame the action is held and false while it
// stays held.
func (t *Toggle) Fire(s Set) bool {
	pressed := s.Pressed(t.Action)
	fired := pressed && !t.held
	t.held = pressed
	return fired
}

// keyState tracks the last time each action was seen, plus an escape
// sequence split across reads.
type keyState struct {
	seen      [actionCount]time.Time
	pointer   Pointer
	pending   []byte
	pendingAt time.Time
}

// Stream delivers input bytes via a channel and tracks key state.
type Stream struct {
	ch    chan byte
	state keyState
	now   func() time.Time
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
// The channel is closed when r returns an error.
func StartStream(r *bufio.Reader) *Stream {
	s := newStream()
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

func newStream() *Stream {
	return &Stream{
		ch:  make(chan byte, 256),
		now: time.Now,
	}
}

// ResetKeyInput forgets every held key so a key that triggered a screen
// change does not leak into the next one.
func ResetKeyInput(s *Stream) {
	if s == nil {
		return
	}
	s.state.seen = [actionCount]time.Time{}
	s.state.pointer.Down = false
}

// ReadInput drains all available bytes from the stream without blocking.
// closed is true once the underlying reader has ended.
func ReadInput(s *Stream) (set Set, closed bool) {
	now := s.now()
	var buf []byte

drain:
	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	s.state.pointer.Down = false
	number := parse(&s.state, buf, now)

	set = Set{Number: number, Pointer: s.state.pointer, Raw: buf}
	for a := Action(0); a < actionCount; a++ {
		set.held[a] = !s.state.seen[a].IsZero() && now.Sub(s.state.seen[a]) < keyHoldDuration
	}
	return set, closed
}

// parse updates the key state from the bytes received this frame and returns
// the last digit pressed, or -1.
func parse(state *keyState, buf []byte, now time.Time) int {
	number := -1
	since := now
	if len(state.pending) > 0 {
		since = state.pendingAt
		if len(buf) == 0 {
			if now.Sub(since) < escapeWait {
				return number
			}
			// Nothing completed it: a lone ESC is the key, anything else is dropped.
			if len(state.pending) == 1 {
				state.seen[ActionEsc] = now
			}
			state.pending = nil
			return number
		}
		buf = append(state.pending, buf...)
		state.pending = nil
	}
	hold := func(tail []byte) {
		state.pending = append([]byte(nil), tail...)
		state.pendingAt = since
	}

	for i := 0; i < len(buf); i++ {
		b := buf[i]

		if b == '\x1b' && i+1 == len(buf) {
			hold(buf[i:])
			break
		}
		if b == '\x1b' && buf[i+1] == '[' {
			// CSI sequence: ESC [ <code>
			if i+2 == len(buf) {
				hold(buf[i:])
				break
			}
			switch buf[i+2] {
			case 'A':
				state.seen[ActionUp] = now
				i += 2
				continue
			case 'B':
				state.seen[ActionDown] = now
				i += 2
				continue
			case 'C':
				state.seen[ActionRight] = now
				i += 2
				continue
			case 'D':
				state.seen[ActionLeft] = now
				i += 2
				continue
			case '<':
				n, res := parseMouse(state, buf[i+3:])
				if res == mousePartial && len(buf)-i <= maxPending {
					hold(buf[i:])
					return number
				}
				// A broken report is skipped up to the byte that broke it.
				i += 2 + n
				continue
			}
			// Unknown CSI: swallow the introducer so '[' is not read as a key.
			i++
			continue
		}

		if b >= '0' && b <= '9' {
			number = int(b - '0')
			continue
		}
		if a, ok := keyActions[b]; ok {
			state.seen[a] = now
		}
	}
	return number
}

// mouseResult is the outcome of decoding a mouse report body.
type mouseResult int

const (
	mouseInvalid mouseResult = iota
	mousePartial             // Body ended before the final byte
	mouseComplete
)

// parseMouse decodes the body of an SGR mouse report "b;col;row(M|m)" that
// follows "ESC [ <". It returns the number of bytes consumed; for an invalid
// body that is everything before the offending byte.
func parseMouse(state *keyState, body []byte) (int, mouseResult) {
	var fields [3]int
	field := 0
	start := 0
	for j, c := range body {
		switch {
		case c >= '0' && c <= '9':
			continue
		case c == ';' && field < 2:
			v, err := strconv.Atoi(string(body[start:j]))
			if err != nil {
				return j, mouseInvalid
			}
			fields[field] = v
			field++
			start = j + 1
		case (c == 'M' || c == 'm') && field == 2:
			v, err := strconv.Atoi(string(body[start:j]))
			if err != nil {
				return j, mouseInvalid
			}
			fields[2] = v
			state.pointer.Col = fields[1]
			state.pointer.Row = fields[2]
			state.pointer.Valid = true
			button := fields[0]
			// Press of the left button without the motion flag.
			if c == 'M' && button&3 == 0 && button&32 == 0 {
				state.pointer.Down = true
			}
			return j + 1, mouseComplete
		default:
			return j, mouseInvalid
		}
	}
	return len(body), mousePartial
}

// keyActions maps single bytes to actions. Unmapped bytes are ignored.
var keyActions = map[byte]Action{
	'w': ActionUp, 'W': ActionUp, 'k': ActionUp, 'K': ActionUp,
	's': ActionDown, 'S': ActionDown, 'j': ActionDown, 'J': ActionDown,
	'a': ActionLeft, 'A': ActionLeft, 'h': ActionLeft, 'H': ActionLeft,
	'd': ActionRight, 'D': ActionRight, 'l': ActionRight, 'L': ActionRight,
	' ':    ActionSpace,
	'\x1b': ActionEsc, 'p': ActionEsc, 'P': ActionEsc,
	'm': ActionMute, 'M': ActionMute,
	'\n': ActionEnter, '\r': ActionEnter,
	'q': ActionQuit, 'Q': ActionQuit, '\x03': ActionQuit,
}
