package rdf

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned when a format identifier does not name a
// known RDF serialization.
var ErrUnsupportedFormat = errors.New("unsupported RDF format")

// Format identifies an RDF text serialization.
type Format string

// Supported formats.
const (
	FormatTurtle   Format = "turtle"
	FormatTriG     Format = "trig"
	FormatNTriples Format = "ntriples"
	FormatNQuads   Format = "nquads"
)

// FormatInfo describes a supported format.
type FormatInfo struct {
	// Name is the canonical format name.
	Name Format
	// MIMEType is the registered media type.
	MIMEType string
	// Extensions are the file extensions mapped to the format.
	Extensions []string
	// Aliases are additional names accepted by ResolveFormat.
	Aliases []string
	// Description is a short human readable summary.
	Description string
}

var formatInfos = []FormatInfo{
	{
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extensions:  []string{".ttl"},
		Aliases:     []string{"ttl"},
		Description: "Turtle - Terse RDF Triple Language",
	},
	{
		Name:        FormatTriG,
		MIMEType:    "application/trig",
		Extensions:  []string{".trig"},
		Description: "TriG - Turtle with named graphs",
	},
	{
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extensions:  []string{".nt"},
		Aliases:     []string{"nt", "n-triples"},
		Description: "N-Triples - line-based triples",
	},
	{
		Name:        FormatNQuads,
		MIMEType:    "application/n-quads",
		Extensions:  []string{".nq"},
		Aliases:     []string{"nq", "n-quads"},
		Description: "N-Quads - line-based quads",
	},
}

// Formats returns metadata for all supported formats.
func Formats() []FormatInfo {
	out := make([]FormatInfo, len(formatInfos))
	copy(out, formatInfos)

	return out
}

// Info returns the metadata of f.
func (f Format) Info() (FormatInfo, bool) {
	for _, info := range formatInfos {
		if info.Name == f {
			return info, true
		}
	}

	return FormatInfo{}, false
}

// HasGraphs reports whether the format can carry named graphs.
func (f Format) HasGraphs() bool {
	return f == FormatTriG || f == FormatNQuads
}

// lineBased reports whether the format is one of the N-Triples family.
func (f Format) lineBased() bool {
	return f == FormatNTriples || f == FormatNQuads
}

// ResolveFormat maps a format name, alias or media type to a Format.
// Media type parameters (e.g. "; charset=utf-8") are ignored.
func ResolveFormat(id string) (Format, error) {
	id = strings.ToLower(strings.TrimSpace(strings.Split(id, ";")[0]))

	for _, info := range formatInfos {
		if id == string(info.Name) || id == info.MIMEType {
			return info.Name, nil
		}

		for _, alias := range info.Aliases {
			if id == alias {
				return info.Name, nil
			}
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, id)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}

	for _, info := range formatInfos {
		for _, e := range info.Extensions {
			if e == ext {
				return info.Name, true
			}
		}
	}

	return "", false
}
