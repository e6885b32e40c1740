package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/semconvert/internal/version"
)

func newVersionCommand() *cobra.Command {
	var (
		jsonOutput bool
		short      bool
		constraint string
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display the semconvert version, git commit, build date, Go version, and platform.",
		Args:  usageArgs(cobra.NoArgs),
		// Version needs no config.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()

			if constraint != "" {
				if err := info.Satisfies(constraint); err != nil {
					return &ExitError{Code: ExitFailure, Err: err}
				}
			}

			if short {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return err
			}

			if jsonOutput {
				j, err := info.JSON()
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), j)

				return err
			}

			_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())

			return err
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output version info as JSON")
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")
	cmd.Flags().StringVar(&constraint, "check", "", "fail unless the version satisfies this semver constraint")

	cmd.MarkFlagsMutuallyExclusive("json", "short")

	return cmd
}
