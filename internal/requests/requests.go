// Package requests turns a free-text request queue such as
// "98, 183, 37, 122" into the validated track list the engine expects.
package requests

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultQueue is the classic textbook queue used when nothing is configured.
const DefaultQueue = "98, 183, 37, 122, 14, 124, 65, 67"

// Rejected records a token that was dropped and why.
type Rejected struct {
	Token  string `json:"token"`
	Reason string `json:"reason"`
}

func (r Rejected) String() string {
	return fmt.Sprintf("%q (%s)", r.Token, r.Reason)
}

// Parsed is the outcome of Parse. Requests keeps input order and duplicates.
type Parsed struct {
	Requests []int
	Rejected []Rejected
}

// Parse splits text on commas, semicolons and whitespace and keeps the tokens
// that are integers in [0, numTracks).
func Parse(text string, numTracks int) Parsed {
	out := Parsed{Requests: []int{}}
	for _, token := range split(text) {
		value, err := strconv.Atoi(token)
		if err != nil {
			out.Rejected = append(out.Rejected, Rejected{Token: token, Reason: "not an integer"})
			continue
		}
		if value < 0 || value >= numTracks {
			out.Rejected = append(out.Rejected, Rejected{
				Token:  token,
				Reason: fmt.Sprintf("outside [0, %d)", numTracks),
			})
			continue
		}
		out.Requests = append(out.Requests, value)
	}
	return out
}

// Format renders tracks in the canonical "a, b, c" form accepted by Parse.
func Format(tracks []int) string {
	parts := make([]string, len(tracks))
	for i, t := range tracks {
		parts[i] = strconv.Itoa(t)
	}
	return strings.Join(parts, ", ")
}

func split(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case ',', ';', ' ', '\t', '\n', '\r':
			return true
		}
		return false
	})
}
