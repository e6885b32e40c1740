package model

import (
	"bytes"
	"encoding/json"

	"github.com/hupe1980/semconvert/internal/store"
)

// Cell is one table cell. An unset cell has no surviving quad for its
// subject and predicate.
type Cell struct {
	Value string
	Set   bool
}

// Value returns a set cell holding v.
func Value(v string) Cell { return Cell{Value: v, Set: true} }

// MarshalJSON encodes unset cells as null. HTML characters are kept
// verbatim.
func (c Cell) MarshalJSON() ([]byte, error) {
	if !c.Set {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(c.Value); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Row is one subject of the table.
type Row struct {
	Label string `json:"label"`
	Data  []Cell `json:"data"`
}

// Table is the pivoted form of a store: one column per distinct predicate
// label and one row per distinct subject.
type Table struct {
	Labels []string `json:"labels"`
	Rows   []Row    `json:"datasets"`
}

// BuildTable pivots the store into a table. Columns are assigned to
// display labels in first-seen order, so predicates that shorten to the
// same label share a column. When several quads share a subject and
// predicate the last one wins. Rows come from the store's subjects, so a
// subject whose quads were all rejected by the filter has no row.
func BuildTable(s *store.Store, d Discipline) *Table {
	t := &Table{Labels: []string{}, Rows: []Row{}}
	columns := make(map[string]int)

	for _, subj := range s.Subjects() {
		if subj.Value == "" {
			continue
		}

		row := Row{Label: d.Apply(subj.Value)}

		for _, pred := range s.Predicates(subj) {
			if pred.Value == "" {
				continue
			}

			label := d.Apply(pred.Value)

			col, ok := columns[label]
			if !ok {
				col = len(t.Labels)
				columns[label] = col
				t.Labels = append(t.Labels, label)
			}

			for _, q := range s.Match(subj, pred) {
				for len(row.Data) <= col {
					row.Data = append(row.Data, Cell{})
				}

				row.Data[col] = Value(d.Apply(q.Object.Value))
			}
		}

		t.Rows = append(t.Rows, row)
	}

	for i := range t.Rows {
		for len(t.Rows[i].Data) < len(t.Labels) {
			t.Rows[i].Data = append(t.Rows[i].Data, Cell{})
		}
	}

	return t
}
