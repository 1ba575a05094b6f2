package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/diskseek/internal/tui"
)

// NewTUICommand creates the tui command.
func NewTUICommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "tui",
		Short:         "Open the interactive simulator",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			dir, err := rootOpts.projectDir()
			if err != nil {
				return formatter.fail(ErrCodeGeneric, err)
			}
			app, err := tui.NewApp(dir)
			if err != nil {
				return formatter.fail(ErrCodeConfig, err)
			}
			p := tea.NewProgram(
				app,
				tea.WithAltScreen(), // Use alternate screen buffer (like vim does)
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				return WrapExitError(ExitFailure, "running TUI", err)
			}
			return nil
		},
	}
}
