package playback

import (
	"sync"
	"time"
)

// DefaultInterval is the auto-advance cadence.
const DefaultInterval = 300 * time.Millisecond

// Timer is a pending tick that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// PlayerOption customizes a Player.
type PlayerOption func(*Player)

// WithInterval overrides DefaultInterval. Non-positive values are ignored.
func WithInterval(d time.Duration) PlayerOption {
	return func(p *Player) {
		if d > 0 {
			p.interval = d
		}
	}
}

// WithAfterFunc swaps the timer source, mainly for tests.
func WithAfterFunc(fn AfterFunc) PlayerOption {
	return func(p *Player) {
		if fn != nil {
			p.after = fn
		}
	}
}

// WithOnChange registers a callback invoked after every state change. It
// runs with the player locked and must not call back into the Player.
func WithOnChange(fn func(Snapshot)) PlayerOption {
	return func(p *Player) {
		p.onChange = fn
	}
}

// Player drives a Controller from a one-shot timer re-armed after every
// tick. All methods are safe for concurrent use.
type Player struct {
	mu       sync.Mutex
	ctrl     *Controller
	interval time.Duration
	after    AfterFunc
	timer    Timer
	onChange func(Snapshot)
	done     chan struct{}
	closed   bool
}

// NewPlayer returns an Idle player over seq.
func NewPlayer(seq []int, opts ...PlayerOption) *Player {
	p := &Player{
		ctrl:     New(seq),
		interval: DefaultInterval,
		after:    realAfterFunc,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Interval is the auto-advance cadence.
func (p *Player) Interval() time.Duration {
	return p.interval
}

// Load cancels any pending tick and replaces the sequence. Waiters on the
// previous Done channel are released.
func (p *Player) Load(seq []int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel()
	p.ctrl.Init(seq)
	if !p.closed {
		close(p.done)
	}
	p.done = make(chan struct{})
	p.closed = false
	p.notify()
}

// Play starts auto-advance from the current cursor.
func (p *Player) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ctrl.Play() {
		return
	}
	p.arm()
	p.notify()
}

// Pause cancels the pending tick.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel()
	p.ctrl.Pause()
	p.notify()
}

// NextStep reveals one step.
func (p *Player) NextStep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl.NextStep() {
		p.settle()
	}
}

// PrevStep hides one step.
func (p *Player) PrevStep() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl.PrevStep() {
		p.notify()
	}
}

// Seek moves the cursor to n.
func (p *Player) Seek(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl.Seek(n) {
		p.settle()
	}
}

// Snapshot returns the current controller view.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ctrl.Snapshot()
}

// Done is closed once the loaded sequence has been fully revealed or replaced
// by Load. Each Load starts a fresh channel.
func (p *Player) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.done
}

// Stop pauses playback; it is an alias kept for defer-friendly shutdown.
func (p *Player) Stop() {
	p.Pause()
}

func (p *Player) arm() {
	tok, ok := p.ctrl.Token()
	if !ok {
		return
	}
	p.timer = p.after(p.interval, func() { p.fire(tok) })
}

func (p *Player) fire(tok Token) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.ctrl.Tick(tok) {
		return
	}
	p.timer = nil
	p.arm()
	p.settle()
}

func (p *Player) cancel() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// settle publishes a cursor change and closes done on completion. The final
// notification happens before done is closed, so waiters see every step.
func (p *Player) settle() {
	finished := p.ctrl.IsFinished()
	if finished {
		p.cancel()
	}
	p.notify()
	if finished && !p.closed {
		close(p.done)
		p.closed = true
	}
}

func (p *Player) notify() {
	if p.onChange != nil {
		p.onChange(p.ctrl.Snapshot())
	}
}
