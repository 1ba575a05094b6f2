package engine

import (
	"fmt"
	"strings"
)

// Policy identifies a scheduling algorithm.
type Policy string

const (
	FCFS  Policy = "FCFS"
	SSTF  Policy = "SSTF"
	SCAN  Policy = "SCAN"
	CSCAN Policy = "CSCAN"
	LOOK  Policy = "LOOK"
	CLOOK Policy = "CLOOK"
)

var policyOrder = []Policy{FCFS, SSTF, SCAN, CSCAN, LOOK, CLOOK}

// Policies returns every supported policy in display order.
func Policies() []Policy {
	out := make([]Policy, len(policyOrder))
	copy(out, policyOrder)
	return out
}

// ParsePolicy resolves a user supplied policy name. Matching ignores case and
// accepts the hyphenated C-SCAN / C-LOOK spellings.
func ParsePolicy(value string) (Policy, error) {
	key := strings.ToUpper(strings.TrimSpace(value))
	key = strings.ReplaceAll(key, "-", "")
	key = strings.ReplaceAll(key, "_", "")
	for _, p := range policyOrder {
		if string(p) == key {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: unknown policy %q", ErrInvalidInput, value)
}

// Valid reports whether p is one of the supported policies.
func (p Policy) Valid() bool {
	for _, candidate := range policyOrder {
		if candidate == p {
			return true
		}
	}
	return false
}

// Label is the human readable name.
func (p Policy) Label() string {
	switch p {
	case CSCAN:
		return "C-SCAN"
	case CLOOK:
		return "C-LOOK"
	default:
		return string(p)
	}
}

// Description is a one line summary used by menus and the policies endpoint.
func (p Policy) Description() string {
	switch p {
	case FCFS:
		return "First come, first served: requests in queue order"
	case SSTF:
		return "Shortest seek first: always the nearest pending request"
	case SCAN:
		return "Elevator: sweep to the disk edge, then reverse"
	case CSCAN:
		return "Circular SCAN: sweep to the edge, wrap to the other edge"
	case LOOK:
		return "SCAN that reverses at the last request instead of the edge"
	case CLOOK:
		return "Circular LOOK: jump back to the furthest pending request"
	default:
		return ""
	}
}

// Directional reports whether the policy consults the sweep direction.
func (p Policy) Directional() bool {
	switch p {
	case SCAN, CSCAN, LOOK, CLOOK:
		return true
	}
	return false
}

// Direction is the initial sweep direction of the head.
type Direction string

const (
	// Up moves towards the highest track.
	Up Direction = "up"
	// Down moves towards track 0.
	Down Direction = "down"
)

// ParseDirection resolves a user supplied direction.
func ParseDirection(value string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "up", "u", "towards-max":
		return Up, nil
	case "down", "d", "towards-0":
		return Down, nil
	}
	return "", fmt.Errorf("%w: unknown direction %q", ErrInvalidInput, value)
}

// Valid reports whether d is Up or Down.
func (d Direction) Valid() bool {
	return d == Up || d == Down
}

// Opposite flips the direction.
func (d Direction) Opposite() Direction {
	if d == Down {
		return Up
	}
	return Down
}
