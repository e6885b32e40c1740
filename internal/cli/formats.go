package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hupe1980/semconvert/internal/config"
	"github.com/hupe1980/semconvert/internal/filter"
	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/render"
)

type formatEntry struct {
	ID          string   `json:"id"`
	Aliases     []string `json:"aliases,omitempty"`
	Description string   `json:"description"`
}

type profileEntry struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
}

type formatsReport struct {
	Renderers []formatEntry  `json:"renderers"`
	RDF       []formatEntry  `json:"rdf"`
	Profiles  []profileEntry `json:"profiles"`
}

func newFormatsCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "formats",
		Short: "List output formats, RDF syntaxes and filter profiles",
		Long: `Formats lists the renderer output formats with their aliases, the RDF
syntaxes accepted as input and as passthrough output, and the built-in
and custom filter profiles available to --profile.`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := buildFormatsReport(config.FromContext(cmd.Context()))
			if err != nil {
				return &ExitError{Code: ExitUsage, Err: err}
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")

				return enc.Encode(report)
			}

			printFormatsReport(cmd.OutOrStdout(), report)

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	return cmd
}

func buildFormatsReport(cfg *config.Config) (*formatsReport, error) {
	reg := render.DefaultRegistry()
	report := &formatsReport{}

	for _, id := range reg.Formats() {
		report.Renderers = append(report.Renderers, formatEntry{
			ID:          id,
			Aliases:     reg.Aliases(id),
			Description: reg.Description(id),
		})
	}

	for _, info := range rdf.Formats() {
		report.RDF = append(report.RDF, formatEntry{
			ID:          info.MIMEType,
			Aliases:     append([]string{string(info.Name)}, info.Aliases...),
			Description: info.Description,
		})
	}

	for _, name := range filter.BuiltinProfileNames() {
		p, _ := filter.ResolveProfile(name, nil)
		report.Profiles = append(report.Profiles, profileEntry{Name: name, Source: "builtin", Description: p.Description})
	}

	custom, err := cfg.CustomProfiles()
	if err != nil {
		return nil, err
	}

	for _, name := range slices.Sorted(maps.Keys(custom)) {
		report.Profiles = append(report.Profiles, profileEntry{
			Name:        name,
			Source:      "config",
			Description: custom[name].Description,
		})
	}

	return report, nil
}

func printFormatsReport(w io.Writer, report *formatsReport) {
	printFormatTable(w, "Output formats", report.Renderers)
	printFormatTable(w, "RDF formats (input and passthrough output)", report.RDF)

	_, _ = fmt.Fprintf(w, "\n--- Filter profiles (%d) ---\n", len(report.Profiles))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tSOURCE\tDESCRIPTION")

	for _, p := range report.Profiles {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.Source, p.Description)
	}

	_ = tw.Flush()
}

func printFormatTable(w io.Writer, title string, entries []formatEntry) {
	_, _ = fmt.Fprintf(w, "\n--- %s (%d) ---\n", title, len(entries))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FORMAT\tALIASES\tDESCRIPTION")

	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, strings.Join(e.Aliases, ", "), e.Description)
	}

	_ = tw.Flush()
}
