package render

import (
	"context"
	"strings"

	"github.com/hupe1980/semconvert/internal/model"
	"github.com/hupe1980/semconvert/internal/store"
)

var dotEscaper = strings.NewReplacer(
	`\`, `\\`,
	`|`, `\|`,
	`"`, `\"`,
	`{`, `\{`,
	`}`, `\}`,
)

// EscapeDOTLabel escapes the characters that are special inside a quoted
// Graphviz record label.
func EscapeDOTLabel(s string) string {
	return dotEscaper.Replace(s)
}

// DotRenderer writes the graph model as a Graphviz digraph laid out left
// to right.
type DotRenderer struct {
	Header     string
	Discipline model.Discipline
	Squelch    bool
}

// Render implements Renderer.
func (r *DotRenderer) Render(ctx context.Context, s *store.Store) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := model.BuildGraph(s)

	lines := []string{`rankdir="LR";`}
	if r.Header != "" {
		lines = append(lines, r.Header)
	}

	lines = append(lines, "// nodes")

	for _, n := range g.Nodes {
		label := ""
		if !r.Squelch {
			label = EscapeDOTLabel(r.Discipline.Apply(n.Label))
		}

		lines = append(lines, n.Key+`[label="`+label+`"];`)
	}

	lines = append(lines, "// edges")

	for _, e := range g.Edges {
		attr := ""
		if !r.Squelch {
			attr = `label="` + EscapeDOTLabel(r.Discipline.Apply(e.Label)) + `"`
		}

		lines = append(lines, e.From+" -> "+e.To+"["+attr+"];")
	}

	var sb strings.Builder

	sb.WriteString("digraph semconvert {\n")

	for _, l := range lines {
		sb.WriteString("  ")
		sb.WriteString(l)
		sb.WriteByte('\n')
	}

	sb.WriteString("}\n")

	return []byte(sb.String()), nil
}
