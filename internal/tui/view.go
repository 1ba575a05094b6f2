package tui

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/playback"
	"github.com/kingrea/diskseek/internal/report"
)

const (
	logPanelLines  = 6
	minStripWidth  = 20
	defaultViewCol = 80
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B")).MarginBottom(1)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA")).Width(10)
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true).Width(10)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)

	stateStyles = map[playback.State]lipgloss.Style{
		playback.Idle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC")).Bold(true),
		playback.Playing:  lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true),
		playback.Paused:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true),
		playback.Finished: lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF")).Bold(true),
	}
)

// View renders the current state.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = defaultViewCol
	}
	title := titleStyle.Render("⬡ DISKSEEK")

	form := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		headingStyle.Render("Inputs"),
		a.renderField(focusQueue, a.queue.View()),
		a.renderField(focusHead, a.head.View()),
		a.renderField(focusPrevious, a.previous.View()),
		labelStyle.Render("direction")+string(a.direction),
		labelStyle.Render("tracks")+strconv.Itoa(a.numTracks),
	))
	top := lipgloss.JoinHorizontal(lipgloss.Top, boxStyle.Render(a.policies.View()), form)

	sections := []string{title, top, boxStyle.Render(a.renderPlayback(width - 4))}
	if panel := a.renderLogPanel(); panel != "" {
		sections = append(sections, panel)
	}
	if a.err != nil {
		sections = append(sections, errorStyle.Render("⚠ "+a.err.Error()))
	} else if a.statusMsg != "" {
		sections = append(sections, mutedStyle.Render(a.statusMsg))
	}
	sections = append(sections, a.help.View(a.keys))
	return strings.Join(sections, "\n")
}

func (a *App) renderField(area focusArea, view string) string {
	label := labelStyle
	if a.focus == area {
		label = focusStyle
	}
	return label.Render(area.String()) + view
}

func (a *App) renderPlayback(width int) string {
	run := a.session.Last()
	if run == nil {
		return mutedStyle.Render("No schedule yet.")
	}
	snap := a.session.Controller().Snapshot()
	seq := a.session.Controller().Sequence()
	stripWidth := max(minStripWidth, width-4)

	state := stateStyles[snap.State].Render(strings.ToUpper(snap.State.String()))
	header := fmt.Sprintf("%s  %s  step %d/%d", headingStyle.Render(run.Request.Policy.Label()), state, snap.Cursor, snap.Len)
	current := "-"
	if pos, ok := snap.Current(); ok {
		current = strconv.Itoa(pos)
	}
	lines := []string{
		header,
		report.Strip(seq, snap.Cursor, run.Request.Tracks(), stripWidth),
		fmt.Sprintf("head %s · movement so far %d", current, engine.TotalMovement(snap.Prefix)),
		"path " + report.Path(snap.Prefix),
		fmt.Sprintf("total head movement %d", run.Result.TotalMovement),
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := headingStyle.Render(fmt.Sprintf("LOG · %s", fileName))
	body := mutedStyle.Render(strings.Join(lines, "\n"))
	return boxStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}
