package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/diskseek/internal/config"
	"github.com/kingrea/diskseek/internal/logbook"
	"github.com/kingrea/diskseek/internal/report"
	"github.com/kingrea/diskseek/internal/simulation"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &simFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute one schedule",
		Long: `Compute the service order for a request queue under one policy and
print the head path with its total movement.

Unset flags fall back to .diskseek/config.yaml.`,
		Example: `  diskseek run --policy sstf --requests "98, 183, 37, 122" --head 53
  diskseek run -p cscan -d down --tracks 500 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(rootOpts, flags, cmd)
		},
	}
	addSimFlags(cmd, flags, true)
	return cmd
}

func runSchedule(opts *RootOptions, flags *simFlags, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.fail(ErrCodeConfig, err)
	}
	in, err := flags.input(cmd, cfg)
	if err != nil {
		return formatter.fail(ErrCodeInvalidInput, err)
	}
	session := simulation.NewSession(simulation.WithLogbook(openJournal(cfg, formatter)))
	run, err := session.Run(in)
	if err != nil {
		return formatter.fail(ErrCodeGeneric, err)
	}
	for _, r := range run.Rejected {
		formatter.VerboseLog("ignored request %s", r)
	}
	formatter.VerboseLog("run %s", run.ID)

	if formatter.IsJSON() {
		return formatter.Success(report.NewDocument(run.ID.String(), run.Request, run.Result, run.Rejected))
	}
	var buf bytes.Buffer
	if err := report.Text(&buf, run.Request, run.Result); err != nil {
		return formatter.fail(ErrCodeGeneric, err)
	}
	if len(run.Rejected) > 0 {
		fmt.Fprintf(&buf, "%-16s %d token(s)\n", "Ignored:", len(run.Rejected))
	}
	return formatter.Success(buf.String())
}

// openJournal opens the run journal of an initialised project. Projects
// without a .diskseek directory, or a journal that cannot be opened, run
// without one.
func openJournal(cfg *config.Config, formatter *OutputFormatter) *logbook.Logbook {
	if _, err := os.Stat(cfg.StateDir); err != nil {
		return nil
	}
	book, err := logbook.New(cfg.JournalPath())
	if err != nil {
		formatter.VerboseLog("journal disabled: %v", err)
		return nil
	}
	return book
}
