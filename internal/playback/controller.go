// Package playback replays a computed head sequence one step at a time.
//
// Controller is a plain state machine with no locking and no timers of its
// own: auto-advance arrives as Tick calls carrying the Token handed out by
// Play. Pausing, finishing or loading a new sequence retires the token, so a
// tick scheduled before that point is ignored when it lands. Player wraps a
// Controller with a mutex and a real timer for hosts that advance from
// another goroutine.
package playback

// State classifies the controller.
type State int

const (
	Idle State = iota
	Playing
	Paused
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Token identifies one run of auto-advance. The zero Token is never live.
type Token uint64

// Snapshot is a read-only view of the controller.
type Snapshot struct {
	Cursor   int
	Len      int
	Prefix   []int
	Playing  bool
	Finished bool
	State    State
}

// Current returns the most recently revealed head position.
func (s Snapshot) Current() (int, bool) {
	if s.Cursor == 0 {
		return 0, false
	}
	return s.Prefix[s.Cursor-1], true
}

// Controller steps through a sequence. The cursor counts revealed steps and
// always satisfies 0 <= cursor <= len(sequence).
type Controller struct {
	seq     []int
	cursor  int
	playing bool
	live    Token
	issued  Token
}

// New returns an Idle controller over a copy of seq.
func New(seq []int) *Controller {
	c := &Controller{}
	c.Init(seq)
	return c
}

// Init replaces the sequence and returns to Idle. Any outstanding tick token
// is retired.
func (c *Controller) Init(seq []int) {
	c.seq = append([]int(nil), seq...)
	c.cursor = 0
	c.stop()
}

// Reset rewinds to Idle over the current sequence.
func (c *Controller) Reset() {
	c.cursor = 0
	c.stop()
}

// Play starts auto-advance. It reports whether playback started; playing an
// already playing or finished controller does nothing.
func (c *Controller) Play() bool {
	if c.playing || c.cursor >= len(c.seq) {
		return false
	}
	c.playing = true
	c.issued++
	c.live = c.issued
	return true
}

// Pause stops auto-advance and keeps the cursor.
func (c *Controller) Pause() {
	c.stop()
}

// Toggle pauses a playing controller and plays any other.
func (c *Controller) Toggle() bool {
	if c.playing {
		c.Pause()
		return false
	}
	return c.Play()
}

// NextStep reveals one more step. Reaching the end stops auto-advance.
func (c *Controller) NextStep() bool {
	if c.cursor >= len(c.seq) {
		return false
	}
	c.cursor++
	if c.cursor == len(c.seq) {
		c.stop()
	}
	return true
}

// PrevStep hides the last revealed step.
func (c *Controller) PrevStep() bool {
	if c.cursor == 0 {
		return false
	}
	c.cursor--
	return true
}

// Seek moves the cursor to n, clamped into [0, len].
func (c *Controller) Seek(n int) bool {
	if n < 0 {
		n = 0
	}
	if n > len(c.seq) {
		n = len(c.seq)
	}
	if n == c.cursor {
		return false
	}
	c.cursor = n
	if c.cursor == len(c.seq) {
		c.stop()
	}
	return true
}

// Tick is one auto-advance beat. It advances only while playing and only for
// the live token, and reports whether the cursor moved.
func (c *Controller) Tick(tok Token) bool {
	if !c.playing || tok == 0 || tok != c.live {
		return false
	}
	return c.NextStep()
}

// Token returns the live auto-advance token, if playing.
func (c *Controller) Token() (Token, bool) {
	if !c.playing {
		return 0, false
	}
	return c.live, true
}

// Cursor is the number of revealed steps.
func (c *Controller) Cursor() int { return c.cursor }

// Len is the length of the loaded sequence.
func (c *Controller) Len() int { return len(c.seq) }

// Sequence returns a copy of the loaded sequence.
func (c *Controller) Sequence() []int {
	return append([]int(nil), c.seq...)
}

// AnimatedPrefix returns a copy of the revealed steps.
func (c *Controller) AnimatedPrefix() []int {
	return append([]int{}, c.seq[:c.cursor]...)
}

// IsPlaying reports whether auto-advance is active.
func (c *Controller) IsPlaying() bool { return c.playing }

// IsFinished reports whether every step has been revealed.
func (c *Controller) IsFinished() bool {
	return len(c.seq) > 0 && c.cursor == len(c.seq)
}

// State derives the current state.
func (c *Controller) State() State {
	switch {
	case c.IsFinished():
		return Finished
	case c.playing:
		return Playing
	case c.cursor == 0:
		return Idle
	default:
		return Paused
	}
}

// Snapshot captures the controller for rendering.
func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Cursor:   c.cursor,
		Len:      len(c.seq),
		Prefix:   c.AnimatedPrefix(),
		Playing:  c.playing,
		Finished: c.IsFinished(),
		State:    c.State(),
	}
}

func (c *Controller) stop() {
	c.playing = false
	c.live = 0
}
