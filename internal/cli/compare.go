package cli

import (
	"bytes"

	"github.com/spf13/cobra"

	"github.com/kingrea/diskseek/internal/report"
	"github.com/kingrea/diskseek/internal/simulation"
)

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &simFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare every policy over the same queue",
		Long: `Run all six policies over one request queue and print their total head
movement side by side. The smallest movement is marked with *.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(rootOpts, flags, cmd)
		},
	}
	addSimFlags(cmd, flags, false)
	return cmd
}

func runCompare(opts *RootOptions, flags *simFlags, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	cfg, err := opts.loadConfig()
	if err != nil {
		return formatter.fail(ErrCodeConfig, err)
	}
	in, err := flags.input(cmd, cfg)
	if err != nil {
		return formatter.fail(ErrCodeInvalidInput, err)
	}
	results, rejected, err := simulation.NewSession().Compare(in)
	if err != nil {
		return formatter.fail(ErrCodeGeneric, err)
	}
	for _, r := range rejected {
		formatter.VerboseLog("ignored request %s", r)
	}
	if formatter.IsJSON() {
		return formatter.Success(results)
	}
	var buf bytes.Buffer
	if err := report.Comparison(&buf, results); err != nil {
		return formatter.fail(ErrCodeGeneric, err)
	}
	return formatter.Success(buf.String())
}
