package render

import (
	"context"
	"strings"

	"github.com/hupe1980/semconvert/internal/model"
	"github.com/hupe1980/semconvert/internal/store"
)

// Style describes the punctuation of a delimited table.
type Style struct {
	LinePrefix  string
	LinePostfix string
	ColDelim    string
	ColPrefix   string
	ColPostfix  string
}

// Built-in table styles.
var (
	OrgStyle       = Style{LinePrefix: "|", LinePostfix: "|", ColDelim: "|"}
	TSVStyle       = Style{ColDelim: "\t"}
	CSVStyle       = Style{ColDelim: ","}
	QuotedCSVStyle = Style{ColDelim: ",", ColPrefix: `"`, ColPostfix: `"`}
)

// line joins one table line. Values are written as is; delimiter and
// quote characters inside values are not escaped.
func (s Style) line(sb *strings.Builder, vals []string) {
	sb.WriteString(s.LinePrefix)

	if len(vals) > 0 {
		sb.WriteString(s.ColPrefix)
		sb.WriteString(strings.Join(vals, s.ColPostfix+s.ColDelim+s.ColPrefix))
		sb.WriteString(s.ColPostfix)
	}

	sb.WriteString(s.LinePostfix)
	sb.WriteByte('\n')
}

// TableRenderer writes the pivoted table as delimited text. The header
// line is an empty corner cell followed by the column labels.
type TableRenderer struct {
	Style      Style
	Discipline model.Discipline
	Squelch    bool
}

// Render implements Renderer.
func (r *TableRenderer) Render(ctx context.Context, s *store.Store) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := model.BuildTable(s, r.Discipline)
	if r.Squelch {
		squelchTable(t)
	}

	var sb strings.Builder

	r.Style.line(&sb, append([]string{""}, t.Labels...))

	for _, row := range t.Rows {
		vals := make([]string, 0, len(row.Data)+1)
		vals = append(vals, row.Label)

		for _, c := range row.Data {
			vals = append(vals, c.Value)
		}

		r.Style.line(&sb, vals)
	}

	return []byte(sb.String()), nil
}

// squelchTable blanks labels and set cell values in place. Unset cells
// stay unset.
func squelchTable(t *model.Table) {
	for i := range t.Labels {
		t.Labels[i] = ""
	}

	for i := range t.Rows {
		t.Rows[i].Label = ""

		for j := range t.Rows[i].Data {
			t.Rows[i].Data[j].Value = ""
		}
	}
}
