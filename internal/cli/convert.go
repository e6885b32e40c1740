package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/semconvert/internal/logging"
	"github.com/hupe1980/semconvert/internal/output"
)

type convertOptions struct {
	conversionOptions

	output string
}

func newConvertCommand() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [input]",
		Short: "Convert RDF data to a table, chart, graph or RDF serialization",
		Long: `Convert reads RDF data from a file, or from stdin when no input is
given or the input is "-", and renders the quads that pass the filter.

Output formats:
  application/json            chart object {labels, datasets}
  text/csv                    pivoted table, comma separated
  text/tab-separated-values   pivoted table, tab separated
  application/vnd.org-mode    pivoted table, Org-mode
  text/vnd.graphviz           DOT digraph
Any RDF format name (text/turtle, application/n-quads, ...) re-serializes
the filtered quads.

Exit codes:
  0  Success
  1  Error
  2  Invalid arguments or configuration
  4  Input could not be parsed`,
		Example: `  semconvert convert data.ttl --to csv --strip-urls
  cat data.nt | semconvert convert --from ntriples --to dot -o graph.dot
  semconvert convert data.ttl --deny-pred-like 'rdf-syntax-ns#type$' --to org`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd.Context(), cmd, inputArg(args), opts)
		},
	}

	registerConversionFlags(cmd, &opts.conversionOptions)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file path (default: stdout)")

	return cmd
}

// inputArg returns the optional positional input.
func inputArg(args []string) string {
	if len(args) == 0 {
		return ""
	}

	return args[0]
}

func runConvert(ctx context.Context, cmd *cobra.Command, input string, opts *convertOptions) error {
	res, err := runPipeline(ctx, input, cmd.InOrStdin(), &opts.conversionOptions)
	if err != nil {
		return err
	}

	w := output.New(opts.output, cmd.OutOrStdout(), output.WithLogger(logging.FromContext(ctx)))
	if err := w.Write(res.Output); err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("writing output: %w", err)}
	}

	return nil
}
