package render

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/semconvert/internal/model"
	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/store"
)

func n(local string) rdf.Term { return rdf.NamedNode("http://example.org/" + local) }

func scenario() *store.Store {
	s := store.New()
	s.AddPrefix("ex", "http://example.org/")
	s.AddQuad(rdf.NewTriple(n("S1"), n("p1"), rdf.Literal("O1")))
	s.AddQuad(rdf.NewTriple(n("S2"), n("p2"), rdf.Literal("O2")))
	s.AddQuad(rdf.NewTriple(n("S3"), n("p3"), rdf.Literal("O3")))

	return s
}

func render(t *testing.T, id string, opts Options, s *store.Store) string {
	t.Helper()

	r, err := DefaultRegistry().Renderer(id, opts)
	require.NoError(t, err)

	out, err := r.Render(context.Background(), s)
	require.NoError(t, err)

	return string(out)
}

var strip = Options{StripURLs: true}

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

func TestTable_CSV(t *testing.T) {
	want := ",p1,p2,p3\n" +
		"S1,O1,,\n" +
		"S2,,O2,\n" +
		"S3,,,O3\n"
	assert.Equal(t, want, render(t, "text/csv", strip, scenario()))
}

func TestTable_QuotedCSV(t *testing.T) {
	want := `"","p1","p2","p3"` + "\n" +
		`"S1","O1","",""` + "\n" +
		`"S2","","O2",""` + "\n" +
		`"S3","","","O3"` + "\n"
	assert.Equal(t, want, render(t, "csv", Options{StripURLs: true, CSVQuote: true}, scenario()))
}

func TestTable_TSV(t *testing.T) {
	want := "\tp1\tp2\tp3\n" +
		"S1\tO1\t\t\n" +
		"S2\t\tO2\t\n" +
		"S3\t\t\tO3\n"
	assert.Equal(t, want, render(t, "text/tab-separated-values", strip, scenario()))
}

func TestTable_Org(t *testing.T) {
	want := "||p1|p2|p3|\n" +
		"|S1|O1|||\n" +
		"|S2||O2||\n" +
		"|S3|||O3|\n"
	assert.Equal(t, want, render(t, "org", strip, scenario()))
}

func TestTable_Empty(t *testing.T) {
	assert.Equal(t, "\n", render(t, "csv", strip, store.New()))
	assert.Equal(t, "||\n", render(t, "org", strip, store.New()))
}

func TestTable_Squelch(t *testing.T) {
	want := ",,,\n" +
		",,,\n" +
		",,,\n" +
		",,,\n"
	assert.Equal(t, want, render(t, "csv", Options{StripURLs: true, Squelch: true}, scenario()))
}

func TestTable_DelimitersAreNotEscaped(t *testing.T) {
	// Known limitation: values containing the delimiter or quote character
	// are written verbatim, so the row gains an extra field.
	s := store.New()
	s.AddQuad(rdf.NewTriple(n("S"), n("p"), rdf.Literal(`a,"b"`)))

	assert.Equal(t, ",p\nS,a,\"b\"\n", render(t, "csv", strip, s))
	assert.Equal(t, "\"\",\"p\"\n\"S\",\"a,\"b\"\"\n", render(t, "csv", Options{StripURLs: true, CSVQuote: true}, s))

	s = store.New()
	s.AddQuad(rdf.NewTriple(n("S"), n("p"), rdf.Literal("x|y")))
	assert.Equal(t, "||p|\n|S|x|y|\n", render(t, "org", strip, s))
}

// ---------------------------------------------------------------------------
// Chart JSON
// ---------------------------------------------------------------------------

func TestChart_Compact(t *testing.T) {
	want := `{"labels":["p1","p2","p3"],"datasets":[` +
		`{"label":"S1","data":["O1",null,null]},` +
		`{"label":"S2","data":[null,"O2",null]},` +
		`{"label":"S3","data":[null,null,"O3"]}]}` + "\n"
	assert.Equal(t, want, render(t, "application/json", strip, scenario()))
}

func TestChart_Indent(t *testing.T) {
	s := store.New()
	s.AddQuad(rdf.NewTriple(n("S"), n("p"), rdf.Literal("<b>&")))

	want := "{\n" +
		"  \"labels\": [\n" +
		"    \"p\"\n" +
		"  ],\n" +
		"  \"datasets\": [\n" +
		"    {\n" +
		"      \"label\": \"S\",\n" +
		"      \"data\": [\n" +
		"        \"<b>&\"\n" +
		"      ]\n" +
		"    }\n" +
		"  ]\n" +
		"}\n"
	assert.Equal(t, want, render(t, "json", Options{StripURLs: true, JSONIndent: 2}, s))
}

func TestChart_IndentIsClamped(t *testing.T) {
	wide := render(t, "json", Options{JSONIndent: 50}, scenario())
	ten := render(t, "json", Options{JSONIndent: 10}, scenario())
	assert.Equal(t, ten, wide)

	negative := render(t, "json", Options{JSONIndent: -3}, scenario())
	assert.Equal(t, render(t, "json", Options{}, scenario()), negative)
}

func TestChart_Squelch(t *testing.T) {
	want := `{"labels":["","",""],"datasets":[` +
		`{"label":"","data":["",null,null]},` +
		`{"label":"","data":[null,"",null]},` +
		`{"label":"","data":[null,null,""]}]}` + "\n"
	assert.Equal(t, want, render(t, "json", Options{StripURLs: true, Squelch: true}, scenario()))
}

// ---------------------------------------------------------------------------
// DOT
// ---------------------------------------------------------------------------

func TestDot(t *testing.T) {
	s := store.New()
	s.AddQuad(rdf.NewTriple(n("S1"), n("knows"), n("S2")))
	s.AddQuad(rdf.NewTriple(n("S2"), n("name"), rdf.Literal(`Say "hi" {x|y}`)))

	k1 := model.NodeKey("http://example.org/S1")
	k2 := model.NodeKey("http://example.org/S2")
	k3 := model.NodeKey(`Say "hi" {x|y}`)

	want := "digraph semconvert {\n" +
		"  rankdir=\"LR\";\n" +
		"  node [shape=box];\n" +
		"  // nodes\n" +
		"  " + k1 + "[label=\"S1\"];\n" +
		"  " + k2 + "[label=\"S2\"];\n" +
		"  " + k3 + "[label=\"Say \\\"hi\\\" \\{x\\|y\\}\"];\n" +
		"  // edges\n" +
		"  " + k1 + " -> " + k2 + "[label=\"knows\"];\n" +
		"  " + k2 + " -> " + k3 + "[label=\"name\"];\n" +
		"}\n"

	assert.Equal(t, want, render(t, "dot", Options{StripURLs: true, DotHeader: "node [shape=box];"}, s))
}

func TestDot_RawLabelsWithoutStrip(t *testing.T) {
	out := render(t, "text/vnd.graphviz", Options{}, scenario())
	assert.Contains(t, out, `[label="http://example.org/S1"];`)
	assert.Contains(t, out, `[label="http://example.org/p1"];`)
}

func TestDot_Squelch(t *testing.T) {
	out := render(t, "dot", Options{StripURLs: true, Squelch: true}, scenario())

	assert.NotContains(t, out, "S1")
	assert.Contains(t, out, `[label=""];`)
	assert.Contains(t, out, "[];")
}

func TestEscapeDOTLabel(t *testing.T) {
	assert.Equal(t, `a\\b\|c\"d\{e\}`, EscapeDOTLabel(`a\b|c"d{e}`))
}

// ---------------------------------------------------------------------------
// Passthrough / registry
// ---------------------------------------------------------------------------

func TestPassthrough(t *testing.T) {
	out := render(t, "text/turtle", Options{}, scenario())
	assert.Equal(t, "@prefix ex: <http://example.org/> .\n\n"+
		"ex:S1 ex:p1 \"O1\" .\n"+
		"ex:S2 ex:p2 \"O2\" .\n"+
		"ex:S3 ex:p3 \"O3\" .\n", out)

	out = render(t, "application/n-triples", Options{StripURLs: true, Squelch: true}, scenario())
	assert.Contains(t, out, "<http://example.org/S1> <http://example.org/p1> \"O1\" .\n")
}

func TestRegistry_UnknownFormat(t *testing.T) {
	_, err := DefaultRegistry().Renderer("application/xml", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.Contains(t, err.Error(), "text/csv")
}

func TestRegistry_Resolve(t *testing.T) {
	r := DefaultRegistry()

	id, ok := r.Resolve("JSON")
	assert.True(t, ok)
	assert.Equal(t, FormatJSON, id)

	_, ok = r.Resolve("text/turtle")
	assert.False(t, ok)

	assert.Equal(t, []string{"dot", "graphviz"}, r.Aliases(FormatDOT))
	assert.NotEmpty(t, r.Description(FormatCSV))
	assert.Equal(t, []string{FormatJSON, FormatOrg, FormatCSV, FormatTSV, FormatDOT}, r.Formats())
}

func TestRegistry_Overwrite(t *testing.T) {
	r := NewRegistry()
	r.Register("x", "first", func(Options) Renderer { return &TableRenderer{Style: CSVStyle} })
	r.Register("x", "second", func(Options) Renderer { return &TableRenderer{Style: TSVStyle} })

	got, err := r.Renderer("x", Options{})
	require.NoError(t, err)
	assert.Equal(t, TSVStyle, got.(*TableRenderer).Style)
	assert.Equal(t, "second", r.Description("x"))
}

func TestRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, id := range []string{"json", "csv", "dot", "text/turtle"} {
		r, err := DefaultRegistry().Renderer(id, Options{})
		require.NoError(t, err)

		_, err = r.Render(ctx, scenario())
		assert.ErrorIs(t, err, context.Canceled, id)
	}
}

func TestRender_Idempotent(t *testing.T) {
	for _, id := range []string{"json", "csv", "org", "tsv", "dot", "text/turtle", "nquads"} {
		a := render(t, id, strip, scenario())
		b := render(t, id, strip, scenario())
		assert.Equal(t, a, b, id)
	}
}
