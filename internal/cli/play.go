package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/kingrea/diskseek/internal/engine"
	"github.com/kingrea/diskseek/internal/playback"
	"github.com/kingrea/diskseek/internal/report"
	"github.com/kingrea/diskseek/internal/simulation"
)

type playOptions struct {
	sim      simFlags
	interval time.Duration
	width    int
}

// playStep is one line of --format json playback output.
type playStep struct {
	Step     int   `json:"step"`
	Steps    int   `json:"steps"`
	Head     int   `json:"head"`
	Movement int   `json:"movement"`
	Path     []int `json:"path"`
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &playOptions{}
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Animate a schedule in the terminal",
		Long: `Compute one schedule and replay it step by step, printing the track strip
after every head move. Ctrl+C stops playback early.

Legend: ^ head, x visited, o pending, | disk edges.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(rootOpts, opts, cmd)
		},
	}
	addSimFlags(cmd, &opts.sim, true)
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "delay between steps (default from config, 300ms)")
	cmd.Flags().IntVar(&opts.width, "width", 60, "track strip width in cells")
	return cmd
}

func runPlay(rootOpts *RootOptions, opts *playOptions, cmd *cobra.Command) error {
	formatter := rootOpts.formatter(cmd)
	cfg, err := rootOpts.loadConfig()
	if err != nil {
		return formatter.fail(ErrCodeConfig, err)
	}
	in, err := opts.sim.input(cmd, cfg)
	if err != nil {
		return formatter.fail(ErrCodeInvalidInput, err)
	}
	session := simulation.NewSession(simulation.WithLogbook(openJournal(cfg, formatter)))
	run, err := session.Run(in)
	if err != nil {
		return formatter.fail(ErrCodeGeneric, err)
	}
	interval := cfg.Interval()
	if cmd.Flags().Changed("interval") {
		interval = opts.interval
	}
	formatter.VerboseLog("playing %s over %d step(s) every %s", run.Request.Policy.Label(), run.Result.Steps(), interval)

	out := cmd.OutOrStdout()
	seq := run.Result.Sequence
	tracks := run.Request.Tracks()
	printer := stepPrinter(out, formatter.IsJSON(), seq, tracks, opts.width)
	player := playback.NewPlayer(seq,
		playback.WithInterval(interval),
		playback.WithOnChange(printer),
	)
	defer player.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	player.Play()
	select {
	case <-player.Done():
	case <-ctx.Done():
		player.Pause()
		snap := player.Snapshot()
		if !formatter.IsJSON() {
			fmt.Fprintf(out, "stopped at step %d/%d\n", snap.Cursor, snap.Len)
		}
		return nil
	}
	if !formatter.IsJSON() {
		fmt.Fprintf(out, "Total movement: %d\n", run.Result.TotalMovement)
	}
	return nil
}

// stepPrinter renders each newly revealed step once.
func stepPrinter(w io.Writer, asJSON bool, seq []int, tracks, width int) func(playback.Snapshot) {
	last := 0
	enc := json.NewEncoder(w)
	return func(snap playback.Snapshot) {
		if snap.Cursor == last || snap.Cursor == 0 {
			last = snap.Cursor
			return
		}
		last = snap.Cursor
		head, _ := snap.Current()
		moved := engine.TotalMovement(snap.Prefix)
		if asJSON {
			_ = enc.Encode(playStep{Step: snap.Cursor, Steps: snap.Len, Head: head, Movement: moved, Path: snap.Prefix})
			return
		}
		fmt.Fprintf(w, "%3d/%-3d %s head %-4d moved %d\n",
			snap.Cursor, snap.Len, report.Strip(seq, snap.Cursor, tracks, width), head, moved)
	}
}
