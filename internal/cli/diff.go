package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/semconvert/internal/diff"
)

type diffOptions struct {
	conversionOptions

	// Existing rendered file to diff against.
	existing string

	// Print ANSI colors.
	color bool
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff [input] --existing FILE",
		Short: "Compare a fresh conversion against an existing output file",
		Long: `Diff converts the input with the same flags as convert and prints a
unified diff against the file given by --existing. Use it in CI to check
that committed tables or graphs are up to date.

Exit codes:
  0  No differences
  1  Error
  2  Invalid arguments or configuration
  3  Differences found
  4  Input could not be parsed`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, inputArg(args), opts)
		},
	}

	registerConversionFlags(cmd, &opts.conversionOptions)

	f := cmd.Flags()
	f.StringVar(&opts.existing, "existing", "", "path to the existing output file")
	f.BoolVar(&opts.color, "color", false, "colorize the diff")

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, input string, opts *diffOptions) error {
	if opts.existing == "" {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("--existing flag is required: specify the file to compare against")}
	}

	existing, err := os.ReadFile(opts.existing)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("reading existing file: %w", err)}
	}

	res, err := runPipeline(ctx, input, cmd.InOrStdin(), &opts.conversionOptions)
	if err != nil {
		return err
	}

	diffOpts := diff.DefaultOptions()
	diffOpts.OldLabel = opts.existing
	diffOpts.NewLabel = res.Source

	result, err := diff.Compare(existing, res.Output, diffOpts)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	diff.Write(cmd.OutOrStdout(), result, opts.color)

	if result.HasDifferences {
		return &ExitError{Code: ExitDiffFound, Err: fmt.Errorf("%s differs from conversion: %s", opts.existing, result.Summary())}
	}

	return nil
}
