package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/semconvert/internal/config"
	"github.com/hupe1980/semconvert/internal/logging"
	"github.com/hupe1980/semconvert/internal/output"
	"github.com/hupe1980/semconvert/internal/watch"
)

type watchOptions struct {
	convertOptions

	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <input> -o FILE",
		Short: "Watch an input file and re-convert on change",
		Long: `Watch converts the input once, then re-runs the conversion each time
the input, the rules file or the config file changes. Bursts of file
events are debounced. Each run prints a status line with quad counts and
the change relative to the previous run. Parse errors are reported and
the watcher keeps running.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), cmd, args[0], opts)
		},
	}

	registerConversionFlags(cmd, &opts.conversionOptions)

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file path (required)")
	f.DurationVar(&opts.debounce, "debounce", watch.DefaultOptions().Debounce, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, input string, opts *watchOptions) error {
	if opts.output == "" {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("--output (-o) is required for watch mode")}
	}

	if isStdin(input) {
		return &ExitError{Code: ExitUsage, Err: fmt.Errorf("watch mode needs an input file, not stdin")}
	}

	cfg := config.FromContext(ctx)
	logger := logging.FromContext(ctx)
	writer := output.NewFileWriter(opts.output, output.WithLogger(logger))

	runFn := func(fnCtx context.Context) (*watch.RunResult, error) {
		res, err := runPipeline(fnCtx, input, nil, &opts.conversionOptions)
		if err != nil {
			return nil, err
		}

		if err := writer.Write(res.Output); err != nil {
			return nil, fmt.Errorf("writing output: %w", err)
		}

		return &watch.RunResult{
			Accepted:   res.Accepted,
			Rejected:   res.Rejected,
			Duplicates: res.Duplicates,
			Bytes:      len(res.Output),
			OutputPath: opts.output,
		}, nil
	}

	files := []string{input}

	if cfg.RulesFile != "" {
		files = append(files, cfg.RulesFile)
	}

	if cfg.ConfigFile != "" {
		files = append(files, cfg.ConfigFile)
	}

	watchOpts := watch.Options{
		Files:    files,
		Debounce: opts.debounce,
		Logger:   logger,
		Out:      cmd.ErrOrStderr(),
	}

	if err := watch.Run(ctx, watchOpts, runFn); err != nil {
		return &ExitError{Code: ExitFailure, Err: err}
	}

	return nil
}
