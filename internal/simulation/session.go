// Package simulation is the seam between user input and the scheduling core.
// A Session turns one set of inputs into a Run, keeps the latest successful
// Run, and owns the playback controller that replays it. A failed run leaves
// both untouched.
package simulation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/diskseek/internal/config"
	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/logbook"
	"github.com/kingrea/diskseek/internal/playback"
	"github.com/kingrea/diskseek/internal/requests"
)

// Input describes one simulation. When Requests is nil, Queue is parsed
// instead and the rejected tokens are reported on the Run.
type Input struct {
	Policy    engine.Policy
	Direction engine.Direction
	Head      int
	Previous  int
	NumTracks int
	Queue     string
	Requests  []int
}

// InputFromConfig builds an Input from the configured defaults.
func InputFromConfig(cfg *config.Config) Input {
	sim := cfg.Simulation()
	return Input{
		Policy:    cfg.Policy(),
		Direction: cfg.Direction(),
		Head:      sim.Head,
		Previous:  sim.Previous,
		NumTracks: sim.NumTracks,
		Queue:     sim.Requests,
	}
}

// Run is one computed schedule.
type Run struct {
	ID        uuid.UUID
	Request   engine.Request
	Result    engine.Result
	Rejected  []requests.Rejected
	CreatedAt time.Time
}

// Session holds the latest run and its playback controller. It is not safe
// for concurrent use.
type Session struct {
	book  *logbook.Logbook
	clock func() time.Time
	newID func() uuid.UUID
	last  *Run
	ctrl  *playback.Controller
}

// Option customizes a Session.
type Option func(*Session)

// WithLogbook records every run in the journal.
func WithLogbook(book *logbook.Logbook) Option {
	return func(s *Session) {
		s.book = book
	}
}

// WithClock overrides time.Now for CreatedAt.
func WithClock(clock func() time.Time) Option {
	return func(s *Session) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator overrides uuid.New.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Session) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewSession returns a session with an empty controller.
func NewSession(opts ...Option) *Session {
	s := &Session{
		clock: time.Now,
		newID: uuid.New,
		ctrl:  playback.New(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Request resolves in into a validated engine request.
func (in Input) Request() (engine.Request, []requests.Rejected, error) {
	req := engine.Request{
		Policy:    in.Policy,
		Head:      in.Head,
		Previous:  in.Previous,
		Direction: in.Direction,
		NumTracks: in.NumTracks,
	}
	var rejected []requests.Rejected
	if in.Requests != nil {
		req.Requests = append([]int(nil), in.Requests...)
	} else {
		parsed := requests.Parse(in.Queue, req.Tracks())
		req.Requests = parsed.Requests
		rejected = parsed.Rejected
	}
	if err := req.Validate(); err != nil {
		return engine.Request{}, rejected, err
	}
	return req, rejected, nil
}

// Run computes in and, on success, makes it the session's current run and
// reloads the controller.
func (s *Session) Run(in Input) (*Run, error) {
	req, rejected, err := in.Request()
	if err != nil {
		s.book.Error("Run rejected · %v", err)
		return nil, fmt.Errorf("simulation: %w", err)
	}
	res, err := engine.Compute(req)
	if err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}
	run := &Run{
		ID:        s.newID(),
		Request:   req,
		Result:    res,
		Rejected:  rejected,
		CreatedAt: s.clock(),
	}
	s.last = run
	s.ctrl.Init(res.Sequence)
	if len(rejected) > 0 {
		s.book.Warn("Run %s · dropped %d token(s) from the queue", shortID(run.ID), len(rejected))
	}
	s.book.Info("Run %s · %s %s head=%d · %d step(s) · movement %d",
		shortID(run.ID), req.Policy.Label(), req.Direction, req.Head, res.Steps(), res.TotalMovement)
	return run, nil
}

// Compare runs every policy over in. The session's current run is not
// changed.
func (s *Session) Compare(in Input) ([]engine.Result, []requests.Rejected, error) {
	if in.Policy == "" {
		in.Policy = engine.FCFS
	}
	req, rejected, err := in.Request()
	if err != nil {
		return nil, rejected, fmt.Errorf("simulation: %w", err)
	}
	results, err := engine.Compare(req)
	if err != nil {
		return nil, rejected, fmt.Errorf("simulation: %w", err)
	}
	return results, rejected, nil
}

// Last returns the most recent successful run, or nil.
func (s *Session) Last() *Run {
	return s.last
}

// Controller is the playback controller for the current run.
func (s *Session) Controller() *playback.Controller {
	return s.ctrl
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
