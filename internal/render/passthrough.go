package render

import (
	"bytes"
	"context"

	"github.com/hupe1980/semconvert/internal/rdf"
	"github.com/hupe1980/semconvert/internal/store"
)

// PassthroughRenderer serializes the stored quads back to RDF text,
// bypassing the table and graph models.
type PassthroughRenderer struct {
	Format rdf.Format
}

// Render implements Renderer.
func (r *PassthroughRenderer) Render(ctx context.Context, s *store.Store) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := rdf.Serialize(&buf, r.Format, s.Prefixes(), s.Quads()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
