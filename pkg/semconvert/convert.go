// Package semconvert provides a public Go API for converting RDF documents
// into tables, chart JSON, Graphviz graphs or filtered RDF.
//
// This package exposes the semconvert conversion pipeline as a library,
// allowing programmatic use without the CLI.
//
// Basic usage:
//
//	out, err := semconvert.Convert(ctx, data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(string(out.Output))
//
// With options:
//
//	out, err := semconvert.Convert(ctx, data,
//	    semconvert.WithOutputFormat("text/csv"),
//	    semconvert.WithStripURLs(),
//	    semconvert.WithDenyPredicateLike("type$"),
//	)
package semconvert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/hupe1980/semconvert/internal/convert"
	"github.com/hupe1980/semconvert/internal/filter"
	"github.com/hupe1980/semconvert/internal/logging"
)

// Output format identifiers accepted by WithOutputFormat.
const (
	FormatJSON = "application/json"
	FormatCSV  = "text/csv"
	FormatTSV  = "text/tab-separated-values"
	FormatOrg  = "application/vnd.org-mode"
	FormatDOT  = "text/vnd.graphviz"
)

// ErrParse is matched by errors.Is when the input is not valid RDF.
var ErrParse = errors.New("invalid RDF input")

// ErrConfig is matched by errors.Is when rules, profiles or formats are
// invalid.
var ErrConfig = errors.New("invalid conversion configuration")

// Option configures the conversion pipeline.
// Use the With* functions to create Options.
type Option func(*options)

type options struct {
	inputFormat  string
	outputFormat string

	stripURLs  bool
	squelch    bool
	noPrefix   bool
	jsonIndent int
	dotHeader  string
	csvQuote   bool

	rules        filter.Rules
	rulesData    [][]byte
	profile      string
	profilesData []byte

	logger *slog.Logger
}

// --- Formats ---

// WithInputFormat sets the RDF syntax of the input (default: "text/turtle").
func WithInputFormat(id string) Option { return func(o *options) { o.inputFormat = id } }

// WithOutputFormat sets the output format (default: "application/json").
// RDF media types select filtered passthrough output.
func WithOutputFormat(id string) Option { return func(o *options) { o.outputFormat = id } }

// --- Rendering ---

// WithStripURLs shortens IRIs to their local names.
func WithStripURLs() Option { return func(o *options) { o.stripURLs = true } }

// WithSquelch blanks every label and value.
func WithSquelch() Option { return func(o *options) { o.squelch = true } }

// WithNoPrefix ignores prefix declarations of the input.
func WithNoPrefix() Option { return func(o *options) { o.noPrefix = true } }

// WithJSONIndent indents chart JSON by n spaces.
func WithJSONIndent(n int) Option { return func(o *options) { o.jsonIndent = n } }

// WithDotHeader adds a line to the Graphviz graph body.
func WithDotHeader(line string) Option { return func(o *options) { o.dotHeader = line } }

// WithCSVQuote wraps every CSV field in double quotes.
func WithCSVQuote() Option { return func(o *options) { o.csvQuote = true } }

// --- Filtering ---

// WithDenySubjectLike drops quads whose subject matches any pattern.
func WithDenySubjectLike(patterns ...string) Option {
	return func(o *options) { o.rules.DenySubject = append(o.rules.DenySubject, patterns...) }
}

// WithPassSubjectLike keeps only quads whose subject matches a pattern.
func WithPassSubjectLike(patterns ...string) Option {
	return func(o *options) { o.rules.PassSubject = append(o.rules.PassSubject, patterns...) }
}

// WithDenyPredicateLike drops quads whose predicate matches any pattern.
func WithDenyPredicateLike(patterns ...string) Option {
	return func(o *options) { o.rules.DenyPredicate = append(o.rules.DenyPredicate, patterns...) }
}

// WithPassPredicateLike keeps only quads whose predicate matches a pattern.
func WithPassPredicateLike(patterns ...string) Option {
	return func(o *options) { o.rules.PassPredicate = append(o.rules.PassPredicate, patterns...) }
}

// WithDenyObjectLike drops quads whose object matches any pattern.
func WithDenyObjectLike(patterns ...string) Option {
	return func(o *options) { o.rules.DenyObject = append(o.rules.DenyObject, patterns...) }
}

// WithPassObjectLike keeps only quads whose object matches a pattern.
func WithPassObjectLike(patterns ...string) Option {
	return func(o *options) { o.rules.PassObject = append(o.rules.PassObject, patterns...) }
}

// WithDenyEntityLike drops quads whose subject or object matches any pattern.
func WithDenyEntityLike(patterns ...string) Option {
	return func(o *options) { o.rules.DenyEntity = append(o.rules.DenyEntity, patterns...) }
}

// WithPassEntityLike keeps only quads whose subject or object matches a
// pattern.
func WithPassEntityLike(patterns ...string) Option {
	return func(o *options) { o.rules.PassEntity = append(o.rules.PassEntity, patterns...) }
}

// WithRulesData adds rules from a YAML document using the rules file keys
// (denySubjLike, passPredLike, ...). It may be given more than once.
func WithRulesData(data []byte) Option {
	return func(o *options) { o.rulesData = append(o.rulesData, data) }
}

// WithProfile applies a built-in or custom filter profile.
func WithProfile(name string) Option { return func(o *options) { o.profile = name } }

// WithProfilesData sets raw YAML bytes of a .semconvert.yaml config. Its
// profiles section is available to WithProfile.
func WithProfilesData(data []byte) Option { return func(o *options) { o.profilesData = data } }

// --- Diagnostics ---

// WithLogger receives debug events for every prefix and quad. The default
// discards them.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Result holds the output of a successful conversion.
type Result struct {
	// Output is the rendered document.
	Output []byte

	// Accepted is the number of quads that reached the output.
	Accepted int

	// Rejected is the number of quads dropped by the filter rules.
	Rejected int

	// Duplicates is the number of repeated quads that were ignored.
	Duplicates int

	// Prefixes is the number of prefix declarations in the input.
	Prefixes int
}

// Convert transforms an in-memory RDF document.
//
// Pass no options to convert Turtle into chart JSON:
//
//	out, err := semconvert.Convert(ctx, data)
func Convert(ctx context.Context, input []byte, opts ...Option) (*Result, error) {
	return ConvertReader(ctx, bytes.NewReader(input), opts...)
}

// ConvertReader transforms the RDF document read from r.
func ConvertReader(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	if r == nil {
		return nil, errors.New("input reader must not be nil")
	}

	o := &options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	convOpts, err := o.build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	res, err := convert.ConvertReader(ctx, r, convOpts)
	if err != nil {
		return nil, classify(err)
	}

	return &Result{
		Output:     res.Output,
		Accepted:   res.Accepted,
		Rejected:   res.Rejected,
		Duplicates: res.Duplicates,
		Prefixes:   res.Prefixes,
	}, nil
}

// build resolves the profile and rules documents into conversion options.
func (o *options) build() (convert.Options, error) {
	rules := filter.Rules{}

	if o.profile != "" {
		custom := map[string]filter.ProfileConfig{}

		if len(o.profilesData) > 0 {
			parsed, err := filter.ParseCustomProfiles(o.profilesData)
			if err != nil {
				return convert.Options{}, err
			}

			custom = parsed
		}

		p, err := filter.ResolveProfile(o.profile, custom)
		if err != nil {
			return convert.Options{}, err
		}

		rules = rules.Merge(p.Rules)
	}

	for _, data := range o.rulesData {
		parsed, err := filter.ParseRules(data)
		if err != nil {
			return convert.Options{}, err
		}

		rules = rules.Merge(parsed)
	}

	return convert.Options{
		StripURLs:    o.stripURLs,
		Squelch:      o.squelch,
		NoPrefix:     o.noPrefix,
		JSONIndent:   o.jsonIndent,
		DotHeader:    o.dotHeader,
		CSVQuote:     o.csvQuote,
		Rules:        rules.Merge(o.rules),
		InputFormat:  o.inputFormat,
		OutputFormat: o.outputFormat,
		Logger:       o.logger,
	}, nil
}

func classify(err error) error {
	var parseErr *convert.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	var cfgErr *convert.ConfigError
	if errors.As(err, &cfgErr) {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	return err
}
