package rdf

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

type parser struct {
	ctx    context.Context
	lex    *lexer
	format Format
	yield  func(Event) bool

	tok      token
	prefixes map[string]string
	base     *url.URL
	graph    Term
	inBlock  bool
	anonSeq  int

	// Blank node labels are document scoped. labels maps a written label
	// to the label emitted for it; used holds every emitted label.
	labels map[string]string
	used   map[string]bool
}

func newParser(ctx context.Context, src string, format Format, yield func(Event) bool) *parser {
	return &parser{
		ctx:      ctx,
		lex:      newLexer(src, format),
		format:   format,
		yield:    yield,
		prefixes: make(map[string]string),
		graph:    DefaultGraph(),
		labels:   make(map[string]string),
		used:     make(map[string]bool),
	}
}

func (p *parser) parse() error {
	if err := p.advance(); err != nil {
		return err
	}

	for p.tok.kind != tokEOF {
		if err := p.ctx.Err(); err != nil {
			return err
		}

		var err error
		if p.format.lineBased() {
			err = p.lineStatement()
		} else {
			err = p.statement()
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (p *parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}

	p.tok = tok

	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{
		Format: p.format,
		Line:   p.tok.line,
		Col:    p.tok.col,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func (p *parser) expect(kind tokenKind) error {
	if p.tok.kind != kind {
		return p.errorf("expected %s, found %s", kind, p.tok.kind)
	}

	return p.advance()
}

func (p *parser) emit(s, pred, o Term) error {
	if !p.yield(QuadEvent(NewQuad(s, pred, o, p.graph))) {
		return errStopped
	}

	return nil
}

// ----------------------------------------------------------------------------
// N-Triples / N-Quads
// ----------------------------------------------------------------------------

func (p *parser) lineStatement() error {
	s, err := p.lineTerm(false)
	if err != nil {
		return err
	}

	if p.tok.kind != tokIRI {
		return p.errorf("expected predicate IRI, found %s", p.tok.kind)
	}

	pred, err := p.lineTerm(false)
	if err != nil {
		return err
	}

	o, err := p.lineTerm(true)
	if err != nil {
		return err
	}

	p.graph = DefaultGraph()

	if p.format == FormatNQuads && (p.tok.kind == tokIRI || p.tok.kind == tokBlank) {
		if p.graph, err = p.lineTerm(false); err != nil {
			return err
		}
	}

	if err := p.expect(tokDot); err != nil {
		return err
	}

	return p.emit(s, pred, o)
}

func (p *parser) lineTerm(literal bool) (Term, error) {
	switch p.tok.kind {
	case tokIRI:
		iri := p.tok.value
		if u, err := url.Parse(iri); err != nil || !u.IsAbs() {
			return Term{}, p.errorf("relative IRI %q not allowed in %s", iri, p.format)
		}

		return NamedNode(iri), p.advance()
	case tokBlank:
		return p.blank(p.tok.value), p.advance()
	case tokString:
		if literal {
			return p.literal()
		}
	}

	return Term{}, p.errorf("unexpected %s", p.tok.kind)
}

// ----------------------------------------------------------------------------
// Turtle / TriG
// ----------------------------------------------------------------------------

func (p *parser) statement() error {
	switch p.tok.kind {
	case tokAtPrefix, tokPrefix:
		return p.prefixDirective()
	case tokAtBase, tokBase:
		return p.baseDirective()
	case tokGraph:
		if p.format != FormatTriG {
			return p.errorf("GRAPH is only allowed in %s", FormatTriG)
		}

		if err := p.advance(); err != nil {
			return err
		}

		label, err := p.graphLabel()
		if err != nil {
			return err
		}

		return p.block(label)
	case tokLBrace:
		if p.format != FormatTriG {
			return p.errorf("graph blocks are only allowed in %s", FormatTriG)
		}

		return p.block(DefaultGraph())
	}

	block, err := p.triples()
	if err != nil || block {
		return err
	}

	return p.expect(tokDot)
}

func (p *parser) prefixDirective() error {
	sparql := p.tok.kind == tokPrefix

	if err := p.advance(); err != nil {
		return err
	}

	if p.tok.kind != tokPName || p.tok.value != "" {
		return p.errorf("expected prefix name, found %s", p.tok.kind)
	}

	name := p.tok.prefix

	if err := p.advance(); err != nil {
		return err
	}

	if p.tok.kind != tokIRI {
		return p.errorf("expected namespace IRI, found %s", p.tok.kind)
	}

	iri := p.resolve(p.tok.value)
	p.prefixes[name] = iri

	if !p.yield(PrefixEvent(name, iri)) {
		return errStopped
	}

	if err := p.advance(); err != nil {
		return err
	}

	if sparql {
		return nil
	}

	return p.expect(tokDot)
}

func (p *parser) baseDirective() error {
	sparql := p.tok.kind == tokBase

	if err := p.advance(); err != nil {
		return err
	}

	if p.tok.kind != tokIRI {
		return p.errorf("expected base IRI, found %s", p.tok.kind)
	}

	u, err := url.Parse(p.resolve(p.tok.value))
	if err != nil {
		return p.errorf("invalid base IRI %q", p.tok.value)
	}

	p.base = u

	if err := p.advance(); err != nil {
		return err
	}

	if sparql {
		return nil
	}

	return p.expect(tokDot)
}

func (p *parser) resolve(iri string) string {
	if p.base == nil {
		return iri
	}

	u, err := url.Parse(iri)
	if err != nil || u.IsAbs() {
		return iri
	}

	return p.base.ResolveReference(u).String()
}

func (p *parser) graphLabel() (Term, error) {
	switch p.tok.kind {
	case tokIRI, tokPName:
		return p.iri()
	case tokBlank:
		return p.blank(p.tok.value), p.advance()
	case tokLBracket:
		if err := p.advance(); err != nil {
			return Term{}, err
		}

		return p.anon(), p.expect(tokRBracket)
	}

	return Term{}, p.errorf("expected graph name, found %s", p.tok.kind)
}

// block parses a TriG graph block. The current token must be '{'.
func (p *parser) block(graph Term) error {
	if p.inBlock {
		return p.errorf("nested graph blocks are not allowed")
	}

	if err := p.expect(tokLBrace); err != nil {
		return err
	}

	p.inBlock = true
	p.graph = graph

	defer func() {
		p.inBlock = false
		p.graph = DefaultGraph()
	}()

	for p.tok.kind != tokRBrace {
		if err := p.ctx.Err(); err != nil {
			return err
		}

		if _, err := p.triples(); err != nil {
			return err
		}

		switch p.tok.kind {
		case tokDot:
			if err := p.advance(); err != nil {
				return err
			}
		case tokRBrace:
		default:
			return p.errorf("expected '.' or '}', found %s", p.tok.kind)
		}
	}

	return p.advance()
}

// triples parses one subject and its predicate-object list. It reports
// true when the subject turned out to label a TriG graph block.
func (p *parser) triples() (bool, error) {
	switch p.tok.kind {
	case tokLBracket:
		if err := p.advance(); err != nil {
			return false, err
		}

		subj := p.anon()

		if p.tok.kind == tokRBracket {
			if err := p.advance(); err != nil {
				return false, err
			}

			if p.format == FormatTriG && p.tok.kind == tokLBrace && !p.inBlock {
				return true, p.block(subj)
			}

			return false, p.predicateObjectList(subj)
		}

		if err := p.predicateObjectList(subj); err != nil {
			return false, err
		}

		if err := p.expect(tokRBracket); err != nil {
			return false, err
		}

		if p.tok.kind == tokDot || p.tok.kind == tokRBrace {
			return false, nil
		}

		return false, p.predicateObjectList(subj)
	case tokLParen:
		subj, err := p.collection()
		if err != nil {
			return false, err
		}

		return false, p.predicateObjectList(subj)
	}

	subj, err := p.subject()
	if err != nil {
		return false, err
	}

	if p.format == FormatTriG && p.tok.kind == tokLBrace {
		return true, p.block(subj)
	}

	return false, p.predicateObjectList(subj)
}

func (p *parser) subject() (Term, error) {
	switch p.tok.kind {
	case tokIRI, tokPName:
		return p.iri()
	case tokBlank:
		return p.blank(p.tok.value), p.advance()
	}

	return Term{}, p.errorf("expected subject, found %s", p.tok.kind)
}

func (p *parser) iri() (Term, error) {
	switch p.tok.kind {
	case tokIRI:
		t := NamedNode(p.resolve(p.tok.value))
		return t, p.advance()
	case tokPName:
		ns, ok := p.prefixes[p.tok.prefix]
		if !ok {
			return Term{}, p.errorf("undefined prefix %q", p.tok.prefix+":")
		}

		t := NamedNode(ns + p.tok.value)

		return t, p.advance()
	}

	return Term{}, p.errorf("expected IRI, found %s", p.tok.kind)
}

func (p *parser) predicateObjectList(subj Term) error {
	for {
		var (
			pred Term
			err  error
		)

		if p.tok.kind == tokA {
			pred = NamedNode(RDFType)
			err = p.advance()
		} else {
			if p.tok.kind != tokIRI && p.tok.kind != tokPName {
				return p.errorf("expected predicate, found %s", p.tok.kind)
			}

			pred, err = p.iri()
		}

		if err != nil {
			return err
		}

		if err := p.objectList(subj, pred); err != nil {
			return err
		}

		if p.tok.kind != tokSemicolon {
			return nil
		}

		for p.tok.kind == tokSemicolon {
			if err := p.advance(); err != nil {
				return err
			}
		}

		switch p.tok.kind {
		case tokDot, tokRBracket, tokRBrace, tokEOF:
			return nil
		}
	}
}

func (p *parser) objectList(subj, pred Term) error {
	for {
		if err := p.object(subj, pred); err != nil {
			return err
		}

		if p.tok.kind != tokComma {
			return nil
		}

		if err := p.advance(); err != nil {
			return err
		}
	}
}

func (p *parser) object(subj, pred Term) error {
	switch p.tok.kind {
	case tokLBracket:
		if err := p.advance(); err != nil {
			return err
		}

		node := p.anon()

		if err := p.emit(subj, pred, node); err != nil {
			return err
		}

		if p.tok.kind != tokRBracket {
			if err := p.predicateObjectList(node); err != nil {
				return err
			}
		}

		return p.expect(tokRBracket)
	case tokLParen:
		head, err := p.collectionHead()
		if err != nil {
			return err
		}

		if err := p.emit(subj, pred, head); err != nil {
			return err
		}

		return p.collectionItems(head)
	}

	o, err := p.value()
	if err != nil {
		return err
	}

	return p.emit(subj, pred, o)
}

// collection parses a collection in subject position.
func (p *parser) collection() (Term, error) {
	head, err := p.collectionHead()
	if err != nil {
		return Term{}, err
	}

	return head, p.collectionItems(head)
}

// collectionHead consumes '(' and returns the list head node, which is
// rdf:nil for the empty collection.
func (p *parser) collectionHead() (Term, error) {
	if err := p.expect(tokLParen); err != nil {
		return Term{}, err
	}

	if p.tok.kind == tokRParen {
		return NamedNode(RDFNil), nil
	}

	return p.anon(), nil
}

func (p *parser) collectionItems(head Term) error {
	first, rest := NamedNode(RDFFirst), NamedNode(RDFRest)
	node := head

	for p.tok.kind != tokRParen {
		if p.tok.kind == tokEOF {
			return p.errorf("unterminated collection")
		}

		if err := p.object(node, first); err != nil {
			return err
		}

		next := NamedNode(RDFNil)
		if p.tok.kind != tokRParen {
			next = p.anon()
		}

		if err := p.emit(node, rest, next); err != nil {
			return err
		}

		node = next
	}

	return p.advance()
}

func (p *parser) value() (Term, error) {
	switch p.tok.kind {
	case tokIRI, tokPName:
		return p.iri()
	case tokBlank:
		return p.blank(p.tok.value), p.advance()
	case tokString:
		return p.literal()
	case tokInteger:
		return p.typed(XSDInteger)
	case tokDecimal:
		return p.typed(XSDDecimal)
	case tokDouble:
		return p.typed(XSDDouble)
	case tokTrue, tokFalse:
		t := TypedLiteral(strconv.FormatBool(p.tok.kind == tokTrue), XSDBoolean)
		return t, p.advance()
	}

	return Term{}, p.errorf("expected object, found %s", p.tok.kind)
}

func (p *parser) typed(datatype string) (Term, error) {
	t := TypedLiteral(p.tok.value, datatype)
	return t, p.advance()
}

func (p *parser) literal() (Term, error) {
	lexical := p.tok.value

	if err := p.advance(); err != nil {
		return Term{}, err
	}

	switch p.tok.kind {
	case tokLangTag:
		lang := p.tok.value
		return LangLiteral(lexical, lang), p.advance()
	case tokCaret:
		if err := p.advance(); err != nil {
			return Term{}, err
		}

		if p.format.lineBased() {
			dt, err := p.lineTerm(false)
			if err != nil {
				return Term{}, err
			}

			return TypedLiteral(lexical, dt.Value), nil
		}

		dt, err := p.iri()
		if err != nil {
			return Term{}, err
		}

		return TypedLiteral(lexical, dt.Value), nil
	}

	return Literal(lexical), nil
}

// anon allocates a blank node for an anonymous or collection node. The
// label never equals one emitted for a labelled node.
func (p *parser) anon() Term {
	for {
		p.anonSeq++

		label := "genid" + strconv.Itoa(p.anonSeq)
		if !p.used[label] {
			p.used[label] = true
			return BlankNode(label)
		}
	}
}

// blank resolves a written blank node label. Labels keep their spelling
// unless an anonymous node already took it, in which case the written
// label is renamed consistently for the rest of the document.
func (p *parser) blank(label string) Term {
	if out, ok := p.labels[label]; ok {
		return BlankNode(out)
	}

	out := label
	for n := 1; p.used[out]; n++ {
		out = label + "_" + strconv.Itoa(n)
	}

	p.labels[label] = out
	p.used[out] = true

	return BlankNode(out)
}
