package cli

import (
	"github.com/spf13/cobra"
)

// conversionOptions holds the command-local conversion flags. Everything
// else on the conversion surface is bound through viper and read from the
// loaded config.
type conversionOptions struct {
	from string
	to   string
}

// registerFormatFlags adds the input and output format flags.
func registerFormatFlags(cmd *cobra.Command, opts *conversionOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.from, "from", "i", "", "input RDF format (default: from file extension, else text/turtle)")
	f.StringVarP(&opts.to, "to", "t", "application/json", "output format (see 'semconvert formats')")
}

// registerRenderFlags adds the flags that shape rendered output.
func registerRenderFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Bool("strip-urls", false, "shorten IRIs to their fragment or last path segment")
	f.Bool("squelch", false, "blank all labels and values in table, chart and graph output")
	f.Bool("noprefix", false, "drop prefix declarations from the input")
	f.Int("json-indent", 0, "indent chart JSON by this many spaces (0-10)")
	f.String("dot-header", "", "extra line emitted into DOT output")
	f.Bool("csv-quote", false, "wrap CSV fields in double quotes")
}

// registerFilterFlags adds the eight rule lists plus rule sources.
func registerFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringArray("deny-subj-like", nil, "drop quads whose subject matches (repeatable)")
	f.StringArray("pass-subj-like", nil, "keep only quads whose subject matches (repeatable)")
	f.StringArray("deny-pred-like", nil, "drop quads whose predicate matches (repeatable)")
	f.StringArray("pass-pred-like", nil, "keep only quads whose predicate matches (repeatable)")
	f.StringArray("deny-obj-like", nil, "drop quads whose object matches (repeatable)")
	f.StringArray("pass-obj-like", nil, "keep only quads whose object matches (repeatable)")
	f.StringArray("deny-entity-like", nil, "drop quads whose subject or object matches (repeatable)")
	f.StringArray("pass-entity-like", nil, "keep only quads whose subject or object matches (repeatable)")
	f.String("rules", "", "YAML rules file merged into the rule lists")
	f.String("profile", "", "apply a named filter profile")
	f.BoolP("verbose", "v", false, "log every accepted and rejected quad")
}

// registerConversionFlags registers every conversion flag shared by
// convert, diff and watch.
func registerConversionFlags(cmd *cobra.Command, opts *conversionOptions) {
	registerFormatFlags(cmd, opts)
	registerRenderFlags(cmd)
	registerFilterFlags(cmd)
	registerFormatCompletions(cmd)
}

// usageArgs turns positional argument errors into usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &ExitError{Code: ExitUsage, Err: err}
		}

		return nil
	}
}
