package render

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hupe1980/semconvert/internal/rdf"
)

// Factory creates a Renderer from options.
type Factory func(opts Options) Renderer

// Output format identifiers.
const (
	FormatJSON = "application/json"
	FormatDOT  = "text/vnd.graphviz"
	FormatOrg  = "application/vnd.org-mode"
	FormatCSV  = "text/csv"
	FormatTSV  = "text/tab-separated-values"
)

type entry struct {
	factory     Factory
	description string
}

// Registry maps output format identifiers to renderer factories.
// Identifiers without a registered factory fall through to the
// passthrough serializer.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	aliases map[string]string
}

// NewRegistry creates an empty renderer registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]entry),
		aliases: make(map[string]string),
	}
}

// Register adds a factory under the given identifier. Existing entries
// for the same identifier are overwritten.
func (r *Registry) Register(id, description string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[id] = entry{factory: factory, description: description}
}

// Alias makes alias resolve to the registered identifier target.
func (r *Registry) Alias(alias, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.aliases[alias] = target
}

// Resolve maps an identifier or alias to its registered identifier.
func (r *Registry) Resolve(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id = strings.ToLower(strings.TrimSpace(id))
	if target, ok := r.aliases[id]; ok {
		id = target
	}

	_, ok := r.entries[id]

	return id, ok
}

// Renderer returns the renderer for id. Unknown identifiers are handed to
// the passthrough serializer; an error wrapping ErrUnsupportedFormat is
// returned when it does not know them either.
func (r *Registry) Renderer(id string, opts Options) (Renderer, error) {
	if key, ok := r.Resolve(id); ok {
		r.mu.RLock()
		e := r.entries[key]
		r.mu.RUnlock()

		return e.factory(opts), nil
	}

	format, err := rdf.ResolveFormat(id)
	if err != nil {
		return nil, fmt.Errorf("%w: output %q (available: %s)", ErrUnsupportedFormat, id, r.AvailableFormats())
	}

	return &PassthroughRenderer{Format: format}, nil
}

// Formats returns the sorted list of registered identifiers.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Description returns the description registered for id.
func (r *Registry) Description(id string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.entries[id].description
}

// Aliases returns the sorted aliases of the registered identifier id.
func (r *Registry) Aliases(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []string

	for alias, target := range r.aliases {
		if target == id {
			out = append(out, alias)
		}
	}

	sort.Strings(out)

	return out
}

// AvailableFormats returns a comma-separated string of every identifier
// accepted for output, passthrough formats included.
func (r *Registry) AvailableFormats() string {
	formats := r.Formats()
	for _, info := range rdf.Formats() {
		formats = append(formats, info.MIMEType)
	}

	return strings.Join(formats, ", ")
}

// DefaultRegistry returns a registry pre-populated with the built-in
// renderers and their short aliases.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(FormatJSON, "JSON chart data {labels, datasets}", func(o Options) Renderer {
		return &ChartRenderer{Indent: o.JSONIndent, Discipline: o.discipline(), Squelch: o.Squelch}
	})

	r.Register(FormatDOT, "Graphviz digraph of nodes and edges", func(o Options) Renderer {
		return &DotRenderer{Header: o.DotHeader, Discipline: o.discipline(), Squelch: o.Squelch}
	})

	r.Register(FormatOrg, "Org-mode pipe table", func(o Options) Renderer {
		return &TableRenderer{Style: OrgStyle, Discipline: o.discipline(), Squelch: o.Squelch}
	})

	r.Register(FormatCSV, "comma-separated table", func(o Options) Renderer {
		style := CSVStyle
		if o.CSVQuote {
			style = QuotedCSVStyle
		}

		return &TableRenderer{Style: style, Discipline: o.discipline(), Squelch: o.Squelch}
	})

	r.Register(FormatTSV, "tab-separated table", func(o Options) Renderer {
		return &TableRenderer{Style: TSVStyle, Discipline: o.discipline(), Squelch: o.Squelch}
	})

	r.Alias("json", FormatJSON)
	r.Alias("dot", FormatDOT)
	r.Alias("graphviz", FormatDOT)
	r.Alias("org", FormatOrg)
	r.Alias("csv", FormatCSV)
	r.Alias("tsv", FormatTSV)

	return r
}
