package rdf

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// Serialize writes quads in the given format. Prefix declarations are used
// for compaction in Turtle and TriG and ignored by the line-based formats.
// Formats without graph support drop the graph component.
func Serialize(w io.Writer, format Format, prefixes []Prefix, quads []Quad) error {
	var sb strings.Builder

	switch format {
	case FormatNTriples:
		for _, q := range quads {
			sb.WriteString(NewTriple(q.Subject, q.Predicate, q.Object).String())
			sb.WriteByte('\n')
		}
	case FormatNQuads:
		for _, q := range quads {
			sb.WriteString(q.String())
			sb.WriteByte('\n')
		}
	case FormatTurtle, FormatTriG:
		s := newTurtleWriter(&sb, prefixes)
		s.header()

		if format == FormatTurtle {
			s.triples(quads, "")
		} else {
			s.graphs(quads)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing %s: %w", format, err)
	}

	return nil
}

type turtleWriter struct {
	sb       *strings.Builder
	prefixes []Prefix
}

func newTurtleWriter(sb *strings.Builder, prefixes []Prefix) *turtleWriter {
	// Later declarations of the same name win, first position is kept.
	index := make(map[string]int, len(prefixes))

	var unique []Prefix

	for _, p := range prefixes {
		if i, ok := index[p.Name]; ok {
			unique[i].IRI = p.IRI
			continue
		}

		index[p.Name] = len(unique)
		unique = append(unique, p)
	}

	return &turtleWriter{sb: sb, prefixes: unique}
}

func (t *turtleWriter) header() {
	for _, p := range t.prefixes {
		fmt.Fprintf(t.sb, "@prefix %s: <%s> .\n", p.Name, escapeIRI(p.IRI))
	}

	if len(t.prefixes) > 0 {
		t.sb.WriteByte('\n')
	}
}

func (t *turtleWriter) graphs(quads []Quad) {
	var (
		order  []Term
		groups = make(map[Term][]Quad)
	)

	for _, q := range quads {
		if _, ok := groups[q.Graph]; !ok {
			order = append(order, q.Graph)
		}

		groups[q.Graph] = append(groups[q.Graph], q)
	}

	for i, g := range order {
		if i > 0 {
			t.sb.WriteByte('\n')
		}

		if g.IsDefaultGraph() {
			t.triples(groups[g], "")
			continue
		}

		t.sb.WriteString(t.term(g) + " {\n")
		t.triples(groups[g], "  ")
		t.sb.WriteString("}\n")
	}
}

// triples writes statements, folding consecutive quads that share a
// subject into one predicate-object list.
func (t *turtleWriter) triples(quads []Quad, indent string) {
	for i, q := range quads {
		sameSubject := i > 0 && quads[i-1].Subject == q.Subject

		if sameSubject {
			t.sb.WriteString(" ;\n" + indent + "    ")
		} else {
			if i > 0 {
				t.sb.WriteString(" .\n")
			}

			t.sb.WriteString(indent + t.term(q.Subject) + " ")
		}

		t.sb.WriteString(t.predicate(q.Predicate) + " " + t.term(q.Object))
	}

	if len(quads) > 0 {
		t.sb.WriteString(" .\n")
	}
}

func (t *turtleWriter) predicate(p Term) string {
	if p.Kind == KindNamedNode && p.Value == RDFType {
		return "a"
	}

	return t.term(p)
}

func (t *turtleWriter) term(term Term) string {
	switch term.Kind {
	case KindNamedNode:
		return t.iri(term.Value)
	case KindLiteral:
		s := `"` + EscapeLiteral(term.Value) + `"`
		if term.Lang != "" {
			return s + "@" + term.Lang
		}

		if term.Datatype != "" {
			return s + "^^" + t.iri(term.Datatype)
		}

		return s
	default:
		return term.String()
	}
}

// iri compacts an IRI against the longest matching namespace.
func (t *turtleWriter) iri(iri string) string {
	best := -1

	for i, p := range t.prefixes {
		if p.IRI == "" || !strings.HasPrefix(iri, p.IRI) || !isSimpleLocal(iri[len(p.IRI):]) {
			continue
		}

		if best < 0 || len(p.IRI) > len(t.prefixes[best].IRI) {
			best = i
		}
	}

	if best < 0 {
		return "<" + escapeIRI(iri) + ">"
	}

	p := t.prefixes[best]

	return p.Name + ":" + iri[len(p.IRI):]
}

// isSimpleLocal reports whether s can be written as a prefixed-name local
// part without escapes.
func isSimpleLocal(s string) bool {
	if s == "" {
		return true
	}

	if strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") || strings.HasPrefix(s, "-") {
		return false
	}

	for _, r := range s {
		if r == utf8.RuneError || (!isNameRune(r) && r != '.') {
			return false
		}
	}

	return true
}
