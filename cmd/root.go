package cmd

import (
	"context"

	"combinepy/pkg/logging"
	"combinepy/pkg/version"

	"github.com/spf13/cobra"
)

const appName = "combinepy"

// NewRootCmd builds the combinepy command tree. Running the root command with
// no arguments combines the working directory.
func NewRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "combinepy concatenates a project's Python files into one file",
		Long: `combinepy walks the current directory, collects every .py file outside the
excluded directories, and writes them in path order to combined_project.py,
each one wrapped in start and end marker comments.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !debug {
				return nil
			}
			return logging.Setup(true, appName, version.Version)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCombine(cmd.Context(), cmd.OutOrStdout(), logging.Logger)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command under ctx and returns its error.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
