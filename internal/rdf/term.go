package rdf

import (
	"strings"
)

// Well-known IRIs used by the parser and serializer.
const (
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"

	RDFType  = RDFNamespace + "type"
	RDFFirst = RDFNamespace + "first"
	RDFRest  = RDFNamespace + "rest"
	RDFNil   = RDFNamespace + "nil"

	XSDString  = XSDNamespace + "string"
	XSDInteger = XSDNamespace + "integer"
	XSDDecimal = XSDNamespace + "decimal"
	XSDDouble  = XSDNamespace + "double"
	XSDBoolean = XSDNamespace + "boolean"
)

// TermKind identifies the kind of an RDF term.
type TermKind uint8

const (
	// KindNamedNode is an IRI.
	KindNamedNode TermKind = iota
	// KindBlankNode is a blank node.
	KindBlankNode
	// KindLiteral is a literal value.
	KindLiteral
	// KindDefaultGraph marks the default graph of a quad.
	KindDefaultGraph
)

// String returns the kind name.
func (k TermKind) String() string {
	switch k {
	case KindNamedNode:
		return "NamedNode"
	case KindBlankNode:
		return "BlankNode"
	case KindLiteral:
		return "Literal"
	case KindDefaultGraph:
		return "DefaultGraph"
	default:
		return "Unknown"
	}
}

// Term is a single RDF term. Terms are plain values and are comparable, so
// they can be used directly as map keys.
type Term struct {
	// Kind tags the term.
	Kind TermKind
	// Value is the IRI, the blank node label, the literal's lexical form,
	// or the empty string for the default graph.
	Value string
	// Datatype is the datatype IRI of a typed literal.
	Datatype string
	// Lang is the language tag of a literal.
	Lang string
}

// NamedNode returns an IRI term.
func NamedNode(iri string) Term { return Term{Kind: KindNamedNode, Value: iri} }

// BlankNode returns a blank node term with the given label.
func BlankNode(label string) Term { return Term{Kind: KindBlankNode, Value: label} }

// Literal returns a simple literal.
func Literal(lexical string) Term { return Term{Kind: KindLiteral, Value: lexical} }

// LangLiteral returns a language-tagged literal.
func LangLiteral(lexical, lang string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Lang: lang}
}

// TypedLiteral returns a literal with an explicit datatype. xsd:string is
// normalised to a simple literal.
func TypedLiteral(lexical, datatype string) Term {
	if datatype == XSDString {
		datatype = ""
	}

	return Term{Kind: KindLiteral, Value: lexical, Datatype: datatype}
}

// DefaultGraph returns the default graph marker.
func DefaultGraph() Term { return Term{Kind: KindDefaultGraph} }

// IsDefaultGraph reports whether t is the default graph marker.
func (t Term) IsDefaultGraph() bool { return t.Kind == KindDefaultGraph }

// String returns the N-Triples form of the term. The default graph renders
// as the empty string.
func (t Term) String() string {
	switch t.Kind {
	case KindNamedNode:
		return "<" + escapeIRI(t.Value) + ">"
	case KindBlankNode:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + EscapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}

		if t.Datatype != "" {
			return s + "^^<" + escapeIRI(t.Datatype) + ">"
		}

		return s
	default:
		return ""
	}
}

// Quad is a subject, predicate, object and graph. Triples carry the
// default graph.
type Quad struct {
	Subject   Term
	Predicate Term
	Object    Term
	Graph     Term
}

// NewTriple returns a quad in the default graph.
func NewTriple(s, p, o Term) Quad {
	return Quad{Subject: s, Predicate: p, Object: o, Graph: DefaultGraph()}
}

// NewQuad returns a quad in graph g.
func NewQuad(s, p, o, g Term) Quad {
	return Quad{Subject: s, Predicate: p, Object: o, Graph: g}
}

// String returns the N-Quads line for q without the trailing newline.
func (q Quad) String() string {
	parts := []string{q.Subject.String(), q.Predicate.String(), q.Object.String()}
	if !q.Graph.IsDefaultGraph() {
		parts = append(parts, q.Graph.String())
	}

	return strings.Join(parts, " ") + " ."
}

// Prefix is a namespace prefix declaration.
type Prefix struct {
	Name string
	IRI  string
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// EscapeLiteral escapes a lexical form for use inside a double-quoted
// N-Triples or Turtle string.
func EscapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}

var iriEscaper = strings.NewReplacer(
	">", `\u003E`,
	"<", `\u003C`,
	" ", `\u0020`,
	`"`, `\u0022`,
)

func escapeIRI(s string) string {
	return iriEscaper.Replace(s)
}
