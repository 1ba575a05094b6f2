package cli

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/diskseek/internal/config"
	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/simulation"
)

// simFlags are the simulation inputs shared by run, compare and play. Flags
// left unset fall back to the project config.
type simFlags struct {
	policy    string
	requests  string
	head      int
	previous  int
	direction string
	tracks    int
}

func addSimFlags(cmd *cobra.Command, f *simFlags, withPolicy bool) {
	flags := cmd.Flags()
	if withPolicy {
		flags.StringVarP(&f.policy, "policy", "p", "", "scheduling policy (fcfs|sstf|scan|cscan|look|clook)")
	}
	flags.StringVarP(&f.requests, "requests", "r", "", `request queue, e.g. "98, 183, 37"`)
	flags.IntVar(&f.head, "head", 0, "starting head position")
	flags.IntVar(&f.previous, "previous", 0, "previous head position")
	flags.StringVarP(&f.direction, "direction", "d", "", "sweep direction (up|down)")
	flags.IntVar(&f.tracks, "tracks", 0, "number of tracks on the disk")
}

// input merges the changed flags over the configured defaults.
func (f *simFlags) input(cmd *cobra.Command, cfg *config.Config) (simulation.Input, error) {
	in := simulation.InputFromConfig(cfg)
	flags := cmd.Flags()
	if flags.Changed("policy") {
		p, err := engine.ParsePolicy(f.policy)
		if err != nil {
			return in, err
		}
		in.Policy = p
	}
	if flags.Changed("direction") {
		d, err := engine.ParseDirection(f.direction)
		if err != nil {
			return in, err
		}
		in.Direction = d
	}
	if flags.Changed("requests") {
		in.Queue = f.requests
	}
	if flags.Changed("head") {
		in.Head = f.head
	}
	if flags.Changed("previous") {
		in.Previous = f.previous
	}
	if flags.Changed("tracks") {
		in.NumTracks = f.tracks
		// The configured previous position belongs to the configured disk.
		if !flags.Changed("previous") {
			in.Previous = in.Head
		}
	}
	return in, nil
}
