// Package report renders schedules for terminals and machines: a labelled
// text summary, a policy comparison table, a one-line track strip and JSON
// documents.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/requests"
)

// Arrow separates head positions in a printed path.
const Arrow = " → "

// Document is the JSON shape of one schedule.
type Document struct {
	ID            string              `json:"id,omitempty"`
	Policy        engine.Policy       `json:"policy"`
	Direction     engine.Direction    `json:"direction,omitempty"`
	Head          int                 `json:"head"`
	Previous      int                 `json:"previous"`
	NumTracks     int                 `json:"num_tracks"`
	Requests      []int               `json:"requests"`
	Sequence      []int               `json:"sequence"`
	TotalMovement int                 `json:"total_movement"`
	Rejected      []requests.Rejected `json:"rejected,omitempty"`
}

// NewDocument assembles a Document. Direction is omitted for policies that
// ignore it.
func NewDocument(id string, req engine.Request, res engine.Result, rejected []requests.Rejected) Document {
	doc := Document{
		ID:            id,
		Policy:        res.Policy,
		Head:          req.Head,
		Previous:      req.Previous,
		NumTracks:     req.Tracks(),
		Requests:      append([]int{}, req.Requests...),
		Sequence:      append([]int{}, res.Sequence...),
		TotalMovement: res.TotalMovement,
		Rejected:      rejected,
	}
	if res.Policy.Directional() {
		doc.Direction = req.Direction
	}
	return doc
}

// Path joins head positions with arrows.
func Path(seq []int) string {
	parts := make([]string, len(seq))
	for i, pos := range seq {
		parts[i] = strconv.Itoa(pos)
	}
	return strings.Join(parts, Arrow)
}

// Text writes the labelled summary of one schedule.
func Text(w io.Writer, req engine.Request, res engine.Result) error {
	direction := "n/a"
	if res.Policy.Directional() {
		direction = string(req.Direction)
	}
	rows := [][2]string{
		{"Policy", res.Policy.Label()},
		{"Direction", direction},
		{"Head", fmt.Sprintf("%d (previous %d)", req.Head, req.Previous)},
		{"Tracks", strconv.Itoa(req.Tracks())},
		{"Requests", requests.Format(req.Requests)},
		{"Sequence", Path(res.Sequence)},
		{"Total movement", strconv.Itoa(res.TotalMovement)},
		{"Steps", strconv.Itoa(res.Steps())},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%-16s %s\n", row[0]+":", row[1]); err != nil {
			return err
		}
	}
	return nil
}

// Comparison writes one row per result. Rows with the least movement are
// starred.
func Comparison(w io.Writer, results []engine.Result) error {
	best := -1
	for _, res := range results {
		if best < 0 || res.TotalMovement < best {
			best = res.TotalMovement
		}
	}
	if _, err := fmt.Fprintf(w, "%-8s %8s %6s\n", "POLICY", "MOVEMENT", "STEPS"); err != nil {
		return err
	}
	for _, res := range results {
		marker := ""
		if res.TotalMovement == best {
			marker = " *"
		}
		if _, err := fmt.Fprintf(w, "%-8s %8d %6d%s\n", res.Policy.Label(), res.TotalMovement, res.Steps(), marker); err != nil {
			return err
		}
	}
	return nil
}

// Strip draws the disk as a row of width cells between two '|' edges.
// Visited positions are 'x', positions still ahead are 'o' and the head,
// seq[cursor-1], is '^'. Nothing is marked as the head while cursor is 0.
func Strip(seq []int, cursor, numTracks, width int) string {
	if width < 2 {
		width = 2
	}
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(seq) {
		cursor = len(seq)
	}
	cells := []rune(strings.Repeat("-", width))
	mark := func(track int, r rune) {
		col := Column(track, numTracks, width)
		if col >= 0 {
			cells[col] = r
		}
	}
	for _, track := range seq[cursor:] {
		mark(track, 'o')
	}
	if cursor > 1 {
		for _, track := range seq[:cursor-1] {
			mark(track, 'x')
		}
	}
	if cursor > 0 {
		mark(seq[cursor-1], '^')
	}
	return "|" + string(cells) + "|"
}

// Column maps a track onto one of width cells, or -1 when it is out of range.
func Column(track, numTracks, width int) int {
	if track < 0 || track >= numTracks || width < 1 {
		return -1
	}
	if numTracks == 1 {
		return 0
	}
	return track * (width - 1) / (numTracks - 1)
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
