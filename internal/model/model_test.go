package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/store"
)

func n(local string) rdf.Term { return rdf.NamedNode("http://example.org/" + local) }

func newStore(quads ...rdf.Quad) *store.Store {
	s := store.New()
	for _, q := range quads {
		s.AddQuad(q)
	}

	return s
}

func scenario() *store.Store {
	return newStore(
		rdf.NewTriple(n("S1"), n("p1"), rdf.Literal("O1")),
		rdf.NewTriple(n("S2"), n("p2"), rdf.Literal("O2")),
		rdf.NewTriple(n("S3"), n("p3"), rdf.Literal("O3")),
	)
}

// ---------------------------------------------------------------------------
// StripURL
// ---------------------------------------------------------------------------

func TestStripURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://example.org/S1", "S1"},
		{"http://example.org/ns#p1", "p1"},
		{"http://example.org/a/b#", "b"},
		{"http://example.org/", "example.org"},
		{"http://example.org", "example.org"},
		{"http://example.org:8080/dir/", "example.org"},
		{"http://example.org/a%20b", "a%20b"},
		{"urn:isbn:0451450523", "isbn:0451450523"},
		{"mailto:someone@example.org", "someone@example.org"},
		{"Object1", "Object1"},
		{"", ""},
		{"10:30", "10:30"},
		{"_:b1", "_:b1"},
		{"http://[::1", "http://[::1"},
		{"two words", "two words"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripURL(tt.in))
		})
	}
}

func TestDiscipline(t *testing.T) {
	assert.Equal(t, "http://example.org/S1", Discipline{}.Apply("http://example.org/S1"))
	assert.Equal(t, "S1", Discipline{StripURLs: true}.Apply("http://example.org/S1"))
}

// ---------------------------------------------------------------------------
// NodeKey
// ---------------------------------------------------------------------------

func TestNodeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "h0"},
		{"a", "h97"},
		{"Object1", "h5004466"},
		{"http://example.org/S1", "h1539153119"},
		{"€", "h8364"},
		{"😀", "h1772899"},
		// Folds to the minimum int32.
		{"polygenelubricants", "h2147483648"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NodeKey(tt.in))
		})
	}
}

func TestNodeKey_KnownCollision(t *testing.T) {
	// Distinct values may share a key. The graph keeps a single node.
	assert.Equal(t, NodeKey("Aa"), NodeKey("BB"))

	g := BuildGraph(newStore(rdf.NewTriple(rdf.Literal("Aa"), n("p"), rdf.Literal("BB"))))
	require.Len(t, g.Nodes, 1)
	assert.Equal(t, Node{Key: "h2112", Label: "BB"}, g.Nodes[0])
	assert.Equal(t, g.Edges[0].From, g.Edges[0].To)
}

// ---------------------------------------------------------------------------
// BuildTable
// ---------------------------------------------------------------------------

func TestBuildTable_Scenario(t *testing.T) {
	table := BuildTable(scenario(), Discipline{StripURLs: true})

	assert.Equal(t, []string{"p1", "p2", "p3"}, table.Labels)
	assert.Equal(t, []Row{
		{Label: "S1", Data: []Cell{Value("O1"), {}, {}}},
		{Label: "S2", Data: []Cell{{}, Value("O2"), {}}},
		{Label: "S3", Data: []Cell{{}, {}, Value("O3")}},
	}, table.Rows)

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"labels": ["p1", "p2", "p3"],
		"datasets": [
			{"label": "S1", "data": ["O1", null, null]},
			{"label": "S2", "data": [null, "O2", null]},
			{"label": "S3", "data": [null, null, "O3"]}
		]
	}`, string(data))
}

func TestBuildTable_RawValuesWithoutDiscipline(t *testing.T) {
	table := BuildTable(scenario(), Discipline{})

	assert.Equal(t, "http://example.org/p1", table.Labels[0])
	assert.Equal(t, "http://example.org/S1", table.Rows[0].Label)
}

func TestBuildTable_FirstSeenOrder(t *testing.T) {
	s := newStore(
		rdf.NewTriple(n("Z"), n("zeta"), rdf.Literal("1")),
		rdf.NewTriple(n("A"), n("alpha"), rdf.Literal("2")),
		rdf.NewTriple(n("Z"), n("alpha"), rdf.Literal("3")),
		rdf.NewTriple(n("A"), n("beta"), rdf.Literal("4")),
	)

	table := BuildTable(s, Discipline{StripURLs: true})

	assert.Equal(t, []string{"zeta", "alpha", "beta"}, table.Labels)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Z", table.Rows[0].Label)
	assert.Equal(t, []Cell{Value("1"), Value("3"), {}}, table.Rows[0].Data)
	assert.Equal(t, "A", table.Rows[1].Label)
	assert.Equal(t, []Cell{{}, Value("2"), Value("4")}, table.Rows[1].Data)
}

func TestBuildTable_LastValueWins(t *testing.T) {
	s := newStore(
		rdf.NewTriple(n("S"), n("p"), rdf.Literal("first")),
		rdf.NewTriple(n("S"), n("p"), rdf.Literal("second")),
	)

	table := BuildTable(s, Discipline{})
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []Cell{Value("second")}, table.Rows[0].Data)
}

func TestBuildTable_ShortenedPredicatesShareColumn(t *testing.T) {
	s := newStore(
		rdf.NewTriple(n("S"), rdf.NamedNode("http://a.example/name"), rdf.Literal("a")),
		rdf.NewTriple(n("S"), rdf.NamedNode("http://b.example/name"), rdf.Literal("b")),
	)

	table := BuildTable(s, Discipline{StripURLs: true})
	assert.Equal(t, []string{"name"}, table.Labels)
	assert.Equal(t, []Cell{Value("b")}, table.Rows[0].Data)

	table = BuildTable(s, Discipline{})
	assert.Len(t, table.Labels, 2)
}

func TestBuildTable_SkipsEmptyPlaceholders(t *testing.T) {
	s := newStore(
		rdf.NewTriple(rdf.NamedNode(""), n("p"), rdf.Literal("x")),
		rdf.NewTriple(n("S"), rdf.NamedNode(""), rdf.Literal("y")),
		rdf.NewTriple(n("S"), n("q"), rdf.Literal("z")),
	)

	table := BuildTable(s, Discipline{StripURLs: true})
	assert.Equal(t, []string{"q"}, table.Labels)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "S", table.Rows[0].Label)
}

func TestBuildTable_Empty(t *testing.T) {
	table := BuildTable(store.New(), Discipline{})

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.JSONEq(t, `{"labels": [], "datasets": []}`, string(data))
}

func TestBuildTable_ObjectValuesDisciplined(t *testing.T) {
	s := newStore(rdf.NewTriple(n("S"), n("knows"), n("T")))

	assert.Equal(t, []Cell{Value("T")}, BuildTable(s, Discipline{StripURLs: true}).Rows[0].Data)
	assert.Equal(t, []Cell{Value("http://example.org/T")}, BuildTable(s, Discipline{}).Rows[0].Data)
}

// ---------------------------------------------------------------------------
// BuildGraph
// ---------------------------------------------------------------------------

func TestBuildGraph(t *testing.T) {
	s := newStore(
		rdf.NewTriple(n("S1"), n("knows"), n("S2")),
		rdf.NewTriple(n("S2"), n("knows"), n("S1")),
		rdf.NewTriple(n("S1"), n("name"), rdf.Literal("One")),
	)

	g := BuildGraph(s)

	assert.Equal(t, []Node{
		{Key: NodeKey(ex("S1")), Label: ex("S1")},
		{Key: NodeKey(ex("S2")), Label: ex("S2")},
		{Key: NodeKey("One"), Label: "One"},
	}, g.Nodes)

	assert.Equal(t, []Edge{
		{From: NodeKey(ex("S1")), To: NodeKey(ex("S2")), Label: ex("knows")},
		{From: NodeKey(ex("S2")), To: NodeKey(ex("S1")), Label: ex("knows")},
		{From: NodeKey(ex("S1")), To: NodeKey("One"), Label: ex("name")},
	}, g.Edges)
}

func TestBuildGraph_EmptyPredicateHasNoEdge(t *testing.T) {
	s := newStore(
		rdf.NewTriple(n("S"), rdf.NamedNode(""), n("O")),
		rdf.NewTriple(n("S"), n("p"), n("T")),
	)

	g := BuildGraph(s)

	// Both endpoints of the predicate-less quad still become nodes.
	assert.Len(t, g.Nodes, 3)
	require.Len(t, g.Edges, 1)
	assert.Equal(t, NodeKey(ex("T")), g.Edges[0].To)
}

func TestBuildGraph_NodeCountIsDistinctValues(t *testing.T) {
	// A literal and an IRI with the same value are one node.
	s := newStore(
		rdf.NewTriple(n("S"), n("p"), rdf.Literal("http://example.org/S")),
		rdf.NewTriple(n("S"), n("p"), n("S")),
	)

	g := BuildGraph(s)
	assert.Len(t, g.Nodes, 1)
	assert.Len(t, g.Edges, 2)
}

func ex(local string) string { return "http://example.org/" + local }
