package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/diskseek/internal/config"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .diskseek/config.yaml in the project directory",
		Long: `Create the .diskseek directory with a commented config.yaml and a logs
directory. An existing config is left untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			dir, err := rootOpts.projectDir()
			if err != nil {
				return formatter.fail(ErrCodeGeneric, err)
			}
			if err := config.InitDir(dir); err != nil {
				return formatter.fail(ErrCodeConfig, err)
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return formatter.fail(ErrCodeConfig, err)
			}
			if formatter.IsJSON() {
				return formatter.Success(map[string]string{"config": cfg.ProjectConfigPath()})
			}
			return formatter.Success(fmt.Sprintf("Initialized %s\n", cfg.ProjectConfigPath()))
		},
	}
}
