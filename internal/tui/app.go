// internal/tui/app.go
//
// This is the interactive simulator for diskseek. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: the form, the current run and its playback controller
// 2. Update: keys and playback ticks change that state
// 3. View: the state rendered with lipgloss
//
// Auto-advance is a chain of tea.Tick messages. Each tick carries the
// controller token that was live when it was scheduled; pausing, stepping to
// the end or computing a new run retires the token so late ticks fall through.

package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/diskseek/internal/config"
	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/logbook"
	"github.com/kingrea/diskseek/internal/playback"
	"github.com/kingrea/diskseek/internal/simulation"
)

// focusArea is the widget receiving keystrokes.
type focusArea int

const (
	focusPolicies focusArea = iota
	focusQueue
	focusHead
	focusPrevious
	focusCount
)

func (f focusArea) String() string {
	switch f {
	case focusQueue:
		return "requests"
	case focusHead:
		return "head"
	case focusPrevious:
		return "previous"
	default:
		return "policies"
	}
}

// tickMsg is one auto-advance beat.
type tickMsg struct {
	token playback.Token
}

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogbook replaces the journal opened from the config.
func WithLogbook(book *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = book
	}
}

// WithInterval overrides the configured playback interval.
func WithInterval(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.interval = d
		}
	}
}

// WithoutPersistence stops computed inputs from being written back to the
// project config.
func WithoutPersistence() AppOption {
	return func(a *App) {
		a.persist = false
	}
}

// App is the main application model.
type App struct {
	config   *config.Config
	logbook  *logbook.Logbook
	session  *simulation.Session
	interval time.Duration
	persist  bool

	// Form
	policies  list.Model
	queue     textinput.Model
	head      textinput.Model
	previous  textinput.Model
	direction engine.Direction
	numTracks int
	focus     focusArea

	keys      keyMap
	help      help.Model
	statusMsg string
	err       error

	width  int
	height int
}

// policyItem implements list.Item for the policy picker.
type policyItem struct {
	policy engine.Policy
}

func (i policyItem) Title() string       { return i.policy.Label() }
func (i policyItem) Description() string { return i.policy.Description() }
func (i policyItem) FilterValue() string { return string(i.policy) }

// NewApp loads the project config and builds the simulator.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	lb, err := logbook.New(cfg.JournalPath())
	if err != nil {
		lb = nil
	}
	opts = append([]AppOption{WithLogbook(lb)}, opts...)
	return New(cfg, opts...), nil
}

// New builds the simulator over an already loaded config.
func New(cfg *config.Config, opts ...AppOption) *App {
	sim := cfg.Simulation()

	items := make([]list.Item, 0, len(engine.Policies()))
	selected := 0
	for i, p := range engine.Policies() {
		items = append(items, policyItem{policy: p})
		if p == cfg.Policy() {
			selected = i
		}
	}
	policies := list.New(items, list.NewDefaultDelegate(), 0, 0)
	policies.Title = "Policy"
	policies.SetShowStatusBar(false)
	policies.SetFilteringEnabled(false)
	policies.SetShowHelp(false)
	policies.DisableQuitKeybindings()
	policies.Select(selected)

	a := &App{
		config:    cfg,
		interval:  cfg.Interval(),
		persist:   true,
		policies:  policies,
		queue:     newInput("98, 183, 37", sim.Requests, 256),
		head:      newInput("53", strconv.Itoa(sim.Head), 6),
		previous:  newInput("30", strconv.Itoa(sim.Previous), 6),
		direction: cfg.Direction(),
		numTracks: cfg.NumTracks(),
		focus:     focusPolicies,
		keys:      defaultKeyMap(),
		help:      help.New(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	a.session = simulation.NewSession(simulation.WithLogbook(a.logbook))
	a.logbook.Info("Simulator opened · %d tracks", a.numTracks)
	a.statusMsg = "Press enter to compute a schedule."
	return a
}

func newInput(placeholder, value string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.SetValue(value)
	return ti
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.policies.SetSize(max(20, msg.Width/3), max(8, msg.Height-16))
		inputWidth := max(10, msg.Width-a.policies.Width()-20)
		a.queue.Width = inputWidth
		return a, nil

	case tickMsg:
		ctrl := a.session.Controller()
		if !ctrl.Tick(msg.token) {
			return a, nil
		}
		if ctrl.IsFinished() {
			a.statusMsg = "Playback finished."
			return a, nil
		}
		return a, a.scheduleTick(msg.token)

	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}
	}

	var cmd tea.Cmd
	switch a.focus {
	case focusPolicies:
		a.policies, cmd = a.policies.Update(msg)
	case focusQueue:
		a.queue, cmd = a.queue.Update(msg)
	case focusHead:
		a.head, cmd = a.head.Update(msg)
	case focusPrevious:
		a.previous, cmd = a.previous.Update(msg)
	}
	return a, cmd
}

// handleKey applies the global bindings. Text fields keep printable keys,
// so playback bindings only fire while the policy list has focus.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	editing := a.focus != focusPolicies
	switch {
	case msg.String() == "ctrl+c":
		return tea.Quit, true
	case key.Matches(msg, a.keys.Focus):
		a.cycleFocus(msg.String() == "shift+tab")
		return nil, true
	case key.Matches(msg, a.keys.Compute):
		return a.compute(), true
	case key.Matches(msg, a.keys.Back):
		if editing {
			a.setFocus(focusPolicies)
			return nil, true
		}
		return nil, false
	}
	if editing {
		return nil, false
	}
	ctrl := a.session.Controller()
	switch {
	case key.Matches(msg, a.keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, a.keys.Play):
		return a.togglePlayback(), true
	case key.Matches(msg, a.keys.Next):
		ctrl.NextStep()
		return nil, true
	case key.Matches(msg, a.keys.Prev):
		ctrl.PrevStep()
		return nil, true
	case key.Matches(msg, a.keys.Start):
		ctrl.Seek(0)
		return nil, true
	case key.Matches(msg, a.keys.End):
		ctrl.Seek(ctrl.Len())
		return nil, true
	case key.Matches(msg, a.keys.Direction):
		a.direction = a.direction.Opposite()
		a.statusMsg = fmt.Sprintf("Direction: %s (press enter to recompute)", a.direction)
		return nil, true
	}
	return nil, false
}

func (a *App) cycleFocus(reverse bool) {
	next := a.focus + 1
	if reverse {
		next = a.focus + focusCount - 1
	}
	a.setFocus(next % focusCount)
}

func (a *App) setFocus(f focusArea) {
	a.focus = f
	inputs := map[focusArea]*textinput.Model{
		focusQueue:    &a.queue,
		focusHead:     &a.head,
		focusPrevious: &a.previous,
	}
	for area, input := range inputs {
		if area == f {
			input.Focus()
		} else {
			input.Blur()
		}
	}
}

func (a *App) togglePlayback() tea.Cmd {
	ctrl := a.session.Controller()
	if ctrl.IsPlaying() {
		ctrl.Pause()
		a.statusMsg = "Paused."
		return nil
	}
	if ctrl.Len() == 0 {
		a.statusMsg = "Nothing to play. Press enter to compute a schedule."
		return nil
	}
	if ctrl.IsFinished() {
		a.statusMsg = "Finished. Press home to rewind."
		return nil
	}
	if !ctrl.Play() {
		return nil
	}
	tok, _ := ctrl.Token()
	a.statusMsg = "Playing."
	return a.scheduleTick(tok)
}

func (a *App) scheduleTick(tok playback.Token) tea.Cmd {
	return tea.Tick(a.interval, func(time.Time) tea.Msg {
		return tickMsg{token: tok}
	})
}

// compute runs the selected policy over the form. A failed run keeps the
// previous schedule on screen.
func (a *App) compute() tea.Cmd {
	in, err := a.input()
	if err != nil {
		a.err = err
		a.statusMsg = ""
		return nil
	}
	run, err := a.session.Run(in)
	if err != nil {
		a.err = err
		a.statusMsg = ""
		return nil
	}
	a.err = nil
	a.statusMsg = fmt.Sprintf("%s · %d step(s) · movement %d", run.Request.Policy.Label(), run.Result.Steps(), run.Result.TotalMovement)
	if len(run.Rejected) > 0 {
		a.statusMsg += fmt.Sprintf(" · ignored %d token(s)", len(run.Rejected))
	}
	if a.persist {
		sim := a.config.Simulation()
		sim.Policy = string(in.Policy)
		sim.Direction = string(in.Direction)
		sim.Head = in.Head
		sim.Previous = in.Previous
		sim.Requests = strings.TrimSpace(in.Queue)
		if err := a.config.RememberSimulation(sim); err != nil {
			a.logbook.Warn("Could not save simulation defaults: %v", err)
		}
	}
	return nil
}

func (a *App) input() (simulation.Input, error) {
	head, err := parseField("head", a.head.Value())
	if err != nil {
		return simulation.Input{}, err
	}
	previous, err := parseField("previous", a.previous.Value())
	if err != nil {
		return simulation.Input{}, err
	}
	return simulation.Input{
		Policy:    a.selectedPolicy(),
		Direction: a.direction,
		Head:      head,
		Previous:  previous,
		NumTracks: a.numTracks,
		Queue:     a.queue.Value(),
	}, nil
}

func parseField(name, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number, got %q", name, value)
	}
	return n, nil
}

func (a *App) selectedPolicy() engine.Policy {
	if item, ok := a.policies.SelectedItem().(policyItem); ok {
		return item.policy
	}
	return engine.FCFS
}
