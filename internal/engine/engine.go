package engine

import "fmt"

// Result is the outcome of one policy run. Sequence[0] is always the starting
// head position.
type Result struct {
	Policy        Policy `json:"policy"`
	Sequence      []int  `json:"sequence"`
	TotalMovement int    `json:"total_movement"`
}

// Steps is the number of seeks in the sequence.
func (r Result) Steps() int {
	if len(r.Sequence) == 0 {
		return 0
	}
	return len(r.Sequence) - 1
}

// Compute validates req and runs the selected policy.
func Compute(req Request) (Result, error) {
	if err := req.Validate(); err != nil {
		return Result{}, err
	}
	return run(req), nil
}

// Compare runs every policy over the same input, in Policies() order. The
// Policy field of req is ignored.
func Compare(req Request) ([]Result, error) {
	results := make([]Result, 0, len(policyOrder))
	for _, p := range policyOrder {
		req.Policy = p
		if req.Direction == "" {
			req.Direction = Up
		}
		res, err := Compute(req)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

func run(req Request) Result {
	switch req.Policy {
	case FCFS:
		return ScheduleFCFS(req.Requests, req.Head)
	case SSTF:
		return ScheduleSSTF(req.Requests, req.Head)
	case SCAN:
		return ScheduleScan(req.Requests, req.Head, req.Direction, req.Tracks())
	case CSCAN:
		return ScheduleCScan(req.Requests, req.Head, req.Direction, req.Tracks())
	case LOOK:
		return ScheduleLook(req.Requests, req.Head, req.Direction)
	case CLOOK:
		return ScheduleCLook(req.Requests, req.Head, req.Direction)
	}
	panic(fmt.Sprintf("engine: unhandled policy %q", req.Policy))
}

// ScheduleFCFS services requests in the order they were queued.
func ScheduleFCFS(requests []int, head int) Result {
	seq := make([]int, 0, len(requests)+1)
	seq = append(seq, head)
	seq = append(seq, requests...)
	return newResult(FCFS, seq)
}

// ScheduleSSTF repeatedly services the pending request closest to the head. Ties go
// to the request queued earliest among those still pending.
func ScheduleSSTF(requests []int, head int) Result {
	pending := make([]int, len(requests))
	copy(pending, requests)
	seq := make([]int, 0, len(requests)+1)
	seq = append(seq, head)
	current := head
	for len(pending) > 0 {
		best := 0
		bestDist := distance(pending[0], current)
		for i := 1; i < len(pending); i++ {
			if d := distance(pending[i], current); d < bestDist {
				best, bestDist = i, d
			}
		}
		current = pending[best]
		seq = append(seq, current)
		pending = append(pending[:best], pending[best+1:]...)
	}
	return newResult(SSTF, seq)
}

// ScheduleScan sweeps in dir, touches the disk edge, then reverses.
func ScheduleScan(requests []int, head int, dir Direction, numTracks int) Result {
	mustTracks(numTracks)
	return newResult(SCAN, sweep(requests, head, dir, numTracks, true, false))
}

// ScheduleCScan sweeps in dir, touches the disk edge, wraps to the opposite edge and
// continues in the same direction.
func ScheduleCScan(requests []int, head int, dir Direction, numTracks int) Result {
	mustTracks(numTracks)
	return newResult(CSCAN, sweep(requests, head, dir, numTracks, true, true))
}

// ScheduleLook sweeps in dir and reverses at the last pending request.
func ScheduleLook(requests []int, head int, dir Direction) Result {
	return newResult(LOOK, sweep(requests, head, dir, 0, false, false))
}

// ScheduleCLook sweeps in dir, then jumps to the furthest pending request on the
// other side and continues in the same direction.
func ScheduleCLook(requests []int, head int, dir Direction) Result {
	return newResult(CLOOK, sweep(requests, head, dir, 0, false, true))
}

// TotalMovement sums the absolute distance between consecutive positions.
func TotalMovement(seq []int) int {
	total := 0
	for i := 1; i < len(seq); i++ {
		total += distance(seq[i], seq[i-1])
	}
	return total
}

func newResult(p Policy, seq []int) Result {
	return Result{Policy: p, Sequence: seq, TotalMovement: TotalMovement(seq)}
}

func mustTracks(numTracks int) {
	if numTracks < 1 {
		panic(fmt.Sprintf("engine: num tracks must be positive, got %d", numTracks))
	}
}

func distance(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
