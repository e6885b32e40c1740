package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/semconvert/internal/model"
	"github.com/hupe1980/semconvert/internal/store"
)

// maxJSONIndent caps the indentation width.
const maxJSONIndent = 10

// ChartRenderer writes the table as a JSON object with "labels" and
// "datasets" keys. Unset cells are null.
type ChartRenderer struct {
	Indent     int
	Discipline model.Discipline
	Squelch    bool
}

// Render implements Renderer.
func (r *ChartRenderer) Render(ctx context.Context, s *store.Store) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := model.BuildTable(s, r.Discipline)
	if r.Squelch {
		squelchTable(t)
	}

	indent := min(max(r.Indent, 0), maxJSONIndent)

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent > 0 {
		enc.SetIndent("", strings.Repeat(" ", indent))
	}

	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("encoding chart: %w", err)
	}

	return buf.Bytes(), nil
}
