package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/semconvert/internal/config"
	"github.com/hupe1980/semconvert/internal/convert"
	"github.com/hupe1980/semconvert/internal/logging"
	"github.com/hupe1980/semconvert/internal/rdf"
)

// pipelineResult holds the outputs of one conversion run.
type pipelineResult struct {
	*convert.Result

	// Source names the input: a path, or "stdin".
	Source string
	// InputFormat is the resolved input syntax.
	InputFormat string
}

// isStdin reports whether input selects standard input.
func isStdin(input string) bool {
	return input == "" || input == "-"
}

// inputFormat applies the input format precedence: --from, then the file
// extension, then Turtle.
func inputFormat(input, from string) string {
	if from != "" {
		return from
	}

	if !isStdin(input) {
		if f, ok := rdf.FormatFromPath(input); ok {
			return string(f)
		}
	}

	return convert.DefaultInputFormat
}

// conversionFromConfig maps the loaded configuration onto pipeline options.
func conversionFromConfig(cfg *config.Config, opts *conversionOptions) (convert.Options, error) {
	rules, err := cfg.FilterRules()
	if err != nil {
		return convert.Options{}, &ExitError{Code: ExitUsage, Err: err}
	}

	return convert.Options{
		StripURLs:    cfg.StripURLs,
		Squelch:      cfg.Squelch,
		NoPrefix:     cfg.NoPrefix,
		JSONIndent:   cfg.JSONIndent,
		DotHeader:    cfg.DotHeader,
		CSVQuote:     cfg.CSVQuote,
		Rules:        rules,
		OutputFormat: opts.to,
	}, nil
}

// runPipeline reads input (a path, or stdin when empty or "-"), converts it
// and returns the rendered result. This is the shared core of convert,
// diff and watch.
func runPipeline(ctx context.Context, input string, stdin io.Reader, opts *conversionOptions) (*pipelineResult, error) {
	logger := logging.FromContext(ctx)

	convOpts, err := conversionFromConfig(config.FromContext(ctx), opts)
	if err != nil {
		return nil, err
	}

	convOpts.InputFormat = inputFormat(input, opts.from)

	source := input

	r := stdin
	if isStdin(input) {
		source = "stdin"
	} else {
		f, openErr := os.Open(input) //nolint:gosec // path is user-provided input
		if openErr != nil {
			return nil, &ExitError{Code: ExitFailure, Err: fmt.Errorf("opening input: %w", openErr)}
		}
		defer f.Close()

		r = f
	}

	logger = logging.ForInput(logger, source, convOpts.InputFormat)
	convOpts.Logger = logger

	logger.Info("converting", slog.String("to", convOpts.OutputFormat))

	res, err := convert.ConvertReader(ctx, r, convOpts)
	if err != nil {
		return nil, exitError(err)
	}

	logger.Info("conversion complete",
		slog.Int("accepted", res.Accepted),
		slog.Int("rejected", res.Rejected),
		slog.Int("duplicates", res.Duplicates),
	)

	return &pipelineResult{Result: res, Source: source, InputFormat: convOpts.InputFormat}, nil
}

// exitError maps conversion errors onto process exit codes.
func exitError(err error) error {
	var (
		exitErr   *ExitError
		cfgErr    *convert.ConfigError
		parseErr  *convert.ParseError
		errorCode = ExitFailure
	)

	switch {
	case errors.As(err, &exitErr):
		return err
	case errors.As(err, &cfgErr):
		errorCode = ExitUsage
	case errors.As(err, &parseErr):
		errorCode = ExitParseError
	}

	return &ExitError{Code: errorCode, Err: err}
}
