package engine

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var textbookQueue = []int{98, 183, 37, 122, 14, 124, 65, 67}

func TestComputeTextbookQueue(t *testing.T) {
	tests := []struct {
		policy   Policy
		dir      Direction
		want     []int
		movement int
	}{
		{FCFS, Up, []int{53, 98, 183, 37, 122, 14, 124, 65, 67}, 640},
		{SSTF, Up, []int{53, 65, 67, 37, 14, 98, 122, 124, 183}, 236},
		{SCAN, Up, []int{53, 65, 67, 98, 122, 124, 183, 199, 37, 14}, 331},
		{CSCAN, Up, []int{53, 65, 67, 98, 122, 124, 183, 199, 0, 14, 37}, 382},
		{LOOK, Up, []int{53, 65, 67, 98, 122, 124, 183, 37, 14}, 299},
		{CLOOK, Up, []int{53, 65, 67, 98, 122, 124, 183, 14, 37}, 322},
		{SCAN, Down, []int{53, 37, 14, 0, 65, 67, 98, 122, 124, 183}, 236},
		{CSCAN, Down, []int{53, 37, 14, 0, 199, 183, 124, 122, 98, 67, 65}, 386},
		{LOOK, Down, []int{53, 37, 14, 65, 67, 98, 122, 124, 183}, 208},
		{CLOOK, Down, []int{53, 37, 14, 183, 124, 122, 98, 67, 65}, 326},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy)+"/"+string(tt.dir), func(t *testing.T) {
			res, err := Compute(Request{
				Policy:    tt.policy,
				Requests:  textbookQueue,
				Head:      53,
				Previous:  30,
				Direction: tt.dir,
				NumTracks: 200,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.policy, res.Policy)
			assert.Equal(t, tt.want, res.Sequence)
			assert.Equal(t, tt.movement, res.TotalMovement)
		})
	}
}

func TestEmptyQueueYieldsHeadOnly(t *testing.T) {
	for _, p := range Policies() {
		for _, dir := range []Direction{Up, Down} {
			res, err := Compute(Request{Policy: p, Head: 53, Direction: dir, NumTracks: 200})
			require.NoError(t, err)
			assert.Equal(t, []int{53}, res.Sequence, "%s %s", p, dir)
			assert.Zero(t, res.TotalMovement)
			assert.Zero(t, res.Steps())
		}
	}
}

func TestSSTFBreaksTiesByQueueOrder(t *testing.T) {
	res := ScheduleSSTF([]int{60, 40}, 50)
	assert.Equal(t, []int{50, 60, 40}, res.Sequence)

	res = ScheduleSSTF([]int{40, 60}, 50)
	assert.Equal(t, []int{50, 40, 60}, res.Sequence)
}

func TestSSTFServicesDuplicates(t *testing.T) {
	res := ScheduleSSTF([]int{10, 10, 90, 10}, 50)
	assert.Equal(t, []int{50, 10, 10, 10, 90}, res.Sequence)
	assert.Equal(t, 120, res.TotalMovement)
}

func TestPoliciesDoNotMutateInput(t *testing.T) {
	queue := []int{98, 183, 37, 122}
	snapshot := append([]int(nil), queue...)
	for _, p := range Policies() {
		_, err := Compute(Request{Policy: p, Requests: queue, Head: 53, Direction: Down, NumTracks: 200})
		require.NoError(t, err)
		require.Equal(t, snapshot, queue, "policy %s mutated its input", p)
	}
}

func TestScanSkipsEdgeWithNothingBehind(t *testing.T) {
	res := ScheduleScan([]int{60, 70}, 50, Up, 200)
	assert.Equal(t, []int{50, 60, 70}, res.Sequence)

	res = ScheduleCScan([]int{40, 30}, 50, Down, 200)
	assert.Equal(t, []int{50, 40, 30}, res.Sequence)
}

func TestScanDoesNotRepeatEdgeRequest(t *testing.T) {
	res := ScheduleScan([]int{199, 10}, 50, Up, 200)
	assert.Equal(t, []int{50, 199, 10}, res.Sequence)

	res = ScheduleCScan([]int{0, 120}, 50, Down, 200)
	assert.Equal(t, []int{50, 0, 199, 120}, res.Sequence)
}

func TestSweepTreatsHeadPositionAsAhead(t *testing.T) {
	res := ScheduleLook([]int{53, 20}, 53, Down)
	assert.Equal(t, []int{53, 20, 53}, res.Sequence)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		req   Request
		field string
	}{
		{"head", Request{Policy: FCFS, Head: 200, NumTracks: 200}, "head"},
		{"negative head", Request{Policy: FCFS, Head: -1, NumTracks: 200}, "head"},
		{"previous", Request{Policy: FCFS, Head: 1, Previous: 250, NumTracks: 200}, "previous"},
		{"request", Request{Policy: FCFS, Requests: []int{5, 200}, NumTracks: 200}, "requests[1]"},
		{"tracks", Request{Policy: FCFS, NumTracks: -3}, "num_tracks"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestValidateRejectsUnknownPolicyAndDirection(t *testing.T) {
	_, err := Compute(Request{Policy: "ELEVATOR", NumTracks: 200})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Compute(Request{Policy: SCAN, Direction: "sideways", NumTracks: 200})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Compute(Request{Policy: FCFS, Direction: "", Head: 3, NumTracks: 200})
	assert.NoError(t, err, "non-directional policies ignore direction")
}

func TestDefaultTrackCount(t *testing.T) {
	res, err := Compute(Request{Policy: SCAN, Requests: []int{10, 80}, Head: 50, Direction: Up})
	require.NoError(t, err)
	assert.Equal(t, []int{50, 80, 199, 10}, res.Sequence)
}

func TestScanPanicsWithoutTracks(t *testing.T) {
	assert.Panics(t, func() { ScheduleScan([]int{1}, 0, Up, 0) })
	assert.Panics(t, func() { ScheduleCScan([]int{1}, 0, Up, -1) })
}

func TestCompareRunsEveryPolicy(t *testing.T) {
	results, err := Compare(Request{Requests: textbookQueue, Head: 53, Direction: Up, NumTracks: 200})
	require.NoError(t, err)
	require.Len(t, results, len(Policies()))
	got := map[Policy]int{}
	for i, res := range results {
		assert.Equal(t, Policies()[i], res.Policy)
		got[res.Policy] = res.TotalMovement
	}
	assert.Equal(t, map[Policy]int{FCFS: 640, SSTF: 236, SCAN: 331, CSCAN: 382, LOOK: 299, CLOOK: 322}, got)
}

func TestParsePolicy(t *testing.T) {
	for input, want := range map[string]Policy{
		"fcfs": FCFS, " SSTF ": SSTF, "c-scan": CSCAN, "CSCAN": CSCAN, "c_look": CLOOK, "Look": LOOK,
	} {
		got, err := ParsePolicy(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParsePolicy("noop")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "C-SCAN", CSCAN.Label())
	assert.Equal(t, "SSTF", SSTF.Label())
}

func TestParseDirection(t *testing.T) {
	dir, err := ParseDirection("D")
	require.NoError(t, err)
	assert.Equal(t, Down, dir)
	assert.Equal(t, Up, dir.Opposite())
	_, err = ParseDirection("left")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Randomized invariants: movement is recomputable from the sequence, every
// request is serviced exactly once, only edges are inserted, and repeated
// calls are identical.
func TestScheduleInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const tracks = 64
	for iter := 0; iter < 300; iter++ {
		queue := make([]int, rng.Intn(12))
		for i := range queue {
			queue[i] = rng.Intn(tracks)
		}
		head := rng.Intn(tracks)
		dir := Up
		if rng.Intn(2) == 0 {
			dir = Down
		}
		lengths := map[Policy]int{}
		for _, p := range Policies() {
			req := Request{Policy: p, Requests: queue, Head: head, Direction: dir, NumTracks: tracks}
			res, err := Compute(req)
			require.NoError(t, err)
			again, err := Compute(req)
			require.NoError(t, err)
			require.Equal(t, res, again, "%s not deterministic", p)

			require.Equal(t, head, res.Sequence[0])
			require.Equal(t, TotalMovement(res.Sequence), res.TotalMovement)
			lengths[p] = len(res.Sequence)

			pending := map[int]int{}
			for _, r := range queue {
				pending[r]++
			}
			for _, pos := range res.Sequence[1:] {
				if pending[pos] > 0 {
					pending[pos]--
					continue
				}
				require.True(t, pos == 0 || pos == tracks-1, "%s inserted non-edge %d", p, pos)
				require.True(t, p == SCAN || p == CSCAN, "%s inserted edge %d", p, pos)
			}
			for track, left := range pending {
				require.Zero(t, left, "%s skipped request %d", p, track)
			}
			switch p {
			case FCFS:
				require.Equal(t, queue, res.Sequence[1:])
			case SSTF:
				require.Len(t, res.Sequence, len(queue)+1)
			}
		}
		require.GreaterOrEqual(t, lengths[CSCAN], lengths[SCAN])
		require.GreaterOrEqual(t, lengths[CLOOK], lengths[LOOK])
	}
}
