package rdf

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIRI
	tokPName
	tokBlank
	tokString
	tokLangTag
	tokCaret
	tokInteger
	tokDecimal
	tokDouble
	tokTrue
	tokFalse
	tokA
	tokAtPrefix
	tokAtBase
	tokPrefix
	tokBase
	tokGraph
	tokDot
	tokComma
	tokSemicolon
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokLBrace
	tokRBrace
)

var tokenNames = map[tokenKind]string{
	tokEOF:       "end of input",
	tokIRI:       "IRI",
	tokPName:     "prefixed name",
	tokBlank:     "blank node",
	tokString:    "string",
	tokLangTag:   "language tag",
	tokCaret:     "'^^'",
	tokInteger:   "integer",
	tokDecimal:   "decimal",
	tokDouble:    "double",
	tokTrue:      "'true'",
	tokFalse:     "'false'",
	tokA:         "'a'",
	tokAtPrefix:  "'@prefix'",
	tokAtBase:    "'@base'",
	tokPrefix:    "'PREFIX'",
	tokBase:      "'BASE'",
	tokGraph:     "'GRAPH'",
	tokDot:       "'.'",
	tokComma:     "','",
	tokSemicolon: "';'",
	tokLBracket:  "'['",
	tokRBracket:  "']'",
	tokLParen:    "'('",
	tokRParen:    "')'",
	tokLBrace:    "'{'",
	tokRBrace:    "'}'",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}

	return "token(" + strconv.Itoa(int(k)) + ")"
}

type token struct {
	kind tokenKind
	// value is the decoded payload: IRI, local name, blank label, string
	// contents, language tag or numeric lexical form.
	value string
	// prefix is the namespace part of a prefixed name.
	prefix string
	line   int
	col    int
}

type lexer struct {
	src    string
	format Format
	pos    int
	line   int
	col    int
}

func newLexer(src string, format Format) *lexer {
	return &lexer{src: src, format: format, line: 1, col: 1}
}

func (l *lexer) errorf(line, col int, format string, args ...any) error {
	return &SyntaxError{Format: l.format, Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peek(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}

	return l.src[l.pos+off]
}

func (l *lexer) peekRune(off int) rune {
	if l.pos+off >= len(l.src) {
		return utf8.RuneError
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.pos+off:])

	return r
}

// advance consumes n bytes and keeps the line/column counters current.
func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		b := l.src[l.pos]
		l.pos++

		switch {
		case b == '\n':
			l.line++
			l.col = 1
		case b&0xC0 != 0x80:
			l.col++
		}
	}
}

func (l *lexer) skipSpace() {
	for !l.eof() {
		switch c := l.src[l.pos]; c {
		case ' ', '\t', '\r', '\n':
			l.advance(1)
		case '#':
			for !l.eof() && l.src[l.pos] != '\n' {
				l.advance(1)
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()

	tok := token{line: l.line, col: l.col}
	if l.eof() {
		tok.kind = tokEOF
		return tok, nil
	}

	c := l.src[l.pos]

	switch {
	case c == '<':
		return l.iri(tok)
	case c == '"' || c == '\'':
		return l.str(tok, c)
	case c == '@':
		return l.at(tok)
	case c == '^':
		if l.peek(1) != '^' {
			return tok, l.errorf(tok.line, tok.col, "unexpected '^'")
		}

		l.advance(2)
		tok.kind = tokCaret

		return tok, nil
	case c == '_' && l.peek(1) == ':':
		return l.blank(tok)
	case isDigit(c), c == '+', c == '-', c == '.' && isDigit(l.peek(1)):
		return l.number(tok)
	}

	if kind, ok := punctuation[c]; ok {
		l.advance(1)
		tok.kind = kind

		return tok, nil
	}

	r := l.peekRune(0)
	if c == ':' || isNameStart(r) {
		return l.name(tok)
	}

	return tok, l.errorf(tok.line, tok.col, "unexpected character %q", r)
}

var punctuation = map[byte]tokenKind{
	'.': tokDot,
	',': tokComma,
	';': tokSemicolon,
	'[': tokLBracket,
	']': tokRBracket,
	'(': tokLParen,
	')': tokRParen,
	'{': tokLBrace,
	'}': tokRBrace,
}

func (l *lexer) iri(tok token) (token, error) {
	l.advance(1)

	var sb strings.Builder

	for {
		if l.eof() {
			return tok, l.errorf(tok.line, tok.col, "unterminated IRI")
		}

		c := l.src[l.pos]

		switch {
		case c == '>':
			l.advance(1)
			tok.kind = tokIRI
			tok.value = sb.String()

			return tok, nil
		case c == '\\':
			r, err := l.uchar()
			if err != nil {
				return tok, err
			}

			sb.WriteRune(r)
		case c <= ' ' || strings.IndexByte(`<"{}|^`+"`", c) >= 0:
			return tok, l.errorf(l.line, l.col, "invalid character %q in IRI", c)
		default:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			sb.WriteRune(r)
			l.advance(size)
		}
	}
}

// uchar decodes a \uXXXX or \UXXXXXXXX escape at the current position.
func (l *lexer) uchar() (rune, error) {
	line, col := l.line, l.col

	var width int

	switch l.peek(1) {
	case 'u':
		width = 4
	case 'U':
		width = 8
	default:
		return 0, l.errorf(line, col, "invalid escape sequence")
	}

	if l.pos+2+width > len(l.src) {
		return 0, l.errorf(line, col, "truncated unicode escape")
	}

	hex := l.src[l.pos+2 : l.pos+2+width]

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, l.errorf(line, col, "invalid unicode escape %q", hex)
	}

	l.advance(2 + width)

	return rune(v), nil
}

var stringEscapes = map[byte]rune{
	't':  '\t',
	'b':  '\b',
	'n':  '\n',
	'r':  '\r',
	'f':  '\f',
	'"':  '"',
	'\'': '\'',
	'\\': '\\',
}

func (l *lexer) str(tok token, quote byte) (token, error) {
	long := l.peek(1) == quote && l.peek(2) == quote
	if long {
		l.advance(3)
	} else {
		l.advance(1)
	}

	var sb strings.Builder

	for {
		if l.eof() {
			return tok, l.errorf(tok.line, tok.col, "unterminated string")
		}

		c := l.src[l.pos]

		switch {
		case c == quote && !long:
			l.advance(1)
			tok.kind = tokString
			tok.value = sb.String()

			return tok, nil
		case c == quote && l.peek(1) == quote && l.peek(2) == quote && l.peek(3) != quote:
			l.advance(3)
			tok.kind = tokString
			tok.value = sb.String()

			return tok, nil
		case (c == '\n' || c == '\r') && !long:
			return tok, l.errorf(l.line, l.col, "line break in string")
		case c == '\\':
			if l.peek(1) == 'u' || l.peek(1) == 'U' {
				r, err := l.uchar()
				if err != nil {
					return tok, err
				}

				sb.WriteRune(r)

				continue
			}

			r, ok := stringEscapes[l.peek(1)]
			if !ok {
				return tok, l.errorf(l.line, l.col, "invalid escape sequence")
			}

			sb.WriteRune(r)
			l.advance(2)
		default:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			sb.WriteRune(r)
			l.advance(size)
		}
	}
}

func (l *lexer) at(tok token) (token, error) {
	l.advance(1)

	start := l.pos
	for !l.eof() && (isAlpha(l.src[l.pos]) || isDigit(l.src[l.pos]) || l.src[l.pos] == '-') {
		l.advance(1)
	}

	word := l.src[start:l.pos]

	switch word {
	case "prefix":
		tok.kind = tokAtPrefix
	case "base":
		tok.kind = tokAtBase
	default:
		if word == "" || !isAlpha(word[0]) || strings.HasSuffix(word, "-") {
			return tok, l.errorf(tok.line, tok.col, "invalid language tag %q", word)
		}

		tok.kind = tokLangTag
		tok.value = word
	}

	return tok, nil
}

func (l *lexer) blank(tok token) (token, error) {
	l.advance(2)

	r := l.peekRune(0)
	if !isNameStart(r) && !unicode.IsDigit(r) {
		return tok, l.errorf(tok.line, tok.col, "invalid blank node label")
	}

	tok.kind = tokBlank
	tok.value = l.scanName(false)

	return tok, nil
}

func (l *lexer) number(tok token) (token, error) {
	start := l.pos
	if c := l.peek(0); c == '+' || c == '-' {
		l.advance(1)
	}

	digits := l.digits()
	kind := tokInteger

	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.advance(1)
		digits += l.digits()
		kind = tokDecimal
	}

	if digits == 0 {
		return tok, l.errorf(tok.line, tok.col, "invalid number")
	}

	if c := l.peek(0); c == 'e' || c == 'E' {
		l.advance(1)

		if c := l.peek(0); c == '+' || c == '-' {
			l.advance(1)
		}

		if l.digits() == 0 {
			return tok, l.errorf(tok.line, tok.col, "invalid exponent")
		}

		kind = tokDouble
	}

	tok.kind = kind
	tok.value = l.src[start:l.pos]

	return tok, nil
}

func (l *lexer) digits() int {
	n := 0
	for !l.eof() && isDigit(l.src[l.pos]) {
		l.advance(1)
		n++
	}

	return n
}

func (l *lexer) name(tok token) (token, error) {
	prefix := ""
	if l.peek(0) != ':' {
		prefix = l.scanName(false)
	}

	if l.peek(0) != ':' {
		switch strings.ToLower(prefix) {
		case "a":
			if prefix == "a" {
				tok.kind = tokA
				return tok, nil
			}
		case "true":
			tok.kind = tokTrue
			return tok, nil
		case "false":
			tok.kind = tokFalse
			return tok, nil
		case "prefix":
			tok.kind = tokPrefix
			return tok, nil
		case "base":
			tok.kind = tokBase
			return tok, nil
		case "graph":
			tok.kind = tokGraph
			return tok, nil
		}

		return tok, l.errorf(tok.line, tok.col, "unexpected word %q", prefix)
	}

	l.advance(1)

	local, err := l.scanLocal()
	if err != nil {
		return tok, err
	}

	tok.kind = tokPName
	tok.prefix = prefix
	tok.value = local

	return tok, nil
}

// scanName consumes name characters. A '.' is only part of the name when
// another name character follows it.
func (l *lexer) scanName(local bool) string {
	start := l.pos

	for !l.eof() {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])

		switch {
		case isNameRune(r):
			l.advance(size)
		case r == '.':
			if next := l.peekRune(1); isNameRune(next) || (local && next == ':') {
				l.advance(1)
				continue
			}

			return l.src[start:l.pos]
		default:
			return l.src[start:l.pos]
		}
	}

	return l.src[start:l.pos]
}

// scanLocal consumes the local part of a prefixed name, decoding
// backslash escapes and keeping percent encodings verbatim.
func (l *lexer) scanLocal() (string, error) {
	var sb strings.Builder

	for !l.eof() {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])

		switch {
		case isNameRune(r) || r == ':':
			sb.WriteRune(r)
			l.advance(size)
		case r == '%':
			if !isHex(l.peek(1)) || !isHex(l.peek(2)) {
				return "", l.errorf(l.line, l.col, "invalid percent encoding")
			}

			sb.WriteString(l.src[l.pos : l.pos+3])
			l.advance(3)
		case r == '\\':
			c := l.peek(1)
			if c == 0 || strings.IndexByte(`_~.-!$&'()*+,;=/?#@%`, c) < 0 {
				return "", l.errorf(l.line, l.col, "invalid escape in local name")
			}

			sb.WriteByte(c)
			l.advance(2)
		case r == '.':
			next := l.peekRune(1)
			if isNameRune(next) || next == ':' || next == '%' || next == '\\' {
				sb.WriteByte('.')
				l.advance(1)

				continue
			}

			return sb.String(), nil
		default:
			return sb.String(), nil
		}
	}

	return sb.String(), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isNameStart(r rune) bool {
	return r == '_' || (r != utf8.RuneError && unicode.IsLetter(r))
}

func isNameRune(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || r == '-' || r == 0xB7
}
