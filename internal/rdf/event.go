package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
)

// EventKind tags a parse event.
type EventKind uint8

const (
	// EventPrefix carries a namespace prefix declaration.
	EventPrefix EventKind = iota
	// EventQuad carries one parsed quad.
	EventQuad
	// EventEnd signals that the input was consumed without error.
	EventEnd
	// EventError carries a parse failure. No events follow it.
	EventError
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventPrefix:
		return "prefix"
	case EventQuad:
		return "quad"
	case EventEnd:
		return "end"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is a single item of a parse event stream.
type Event struct {
	Kind EventKind

	// Prefix and IRI are set for EventPrefix.
	Prefix string
	IRI    string

	// Quad is set for EventQuad.
	Quad Quad

	// Err is set for EventError.
	Err error
}

// PrefixEvent returns a prefix declaration event.
func PrefixEvent(name, iri string) Event {
	return Event{Kind: EventPrefix, Prefix: name, IRI: iri}
}

// QuadEvent returns a quad event.
func QuadEvent(q Quad) Event {
	return Event{Kind: EventQuad, Quad: q}
}

// EndEvent returns the end-of-stream event.
func EndEvent() Event {
	return Event{Kind: EventEnd}
}

// ErrorEvent returns an error event.
func ErrorEvent(err error) Event {
	return Event{Kind: EventError, Err: err}
}

// errStopped aborts parsing when the consumer stops iterating.
var errStopped = errors.New("rdf: consumer stopped")

// Parse returns the event sequence for the document read from r. The whole
// input is buffered before parsing starts. The sequence always ends with
// exactly one EventEnd or EventError, unless the consumer stops early.
func Parse(ctx context.Context, r io.Reader, format Format) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		if _, ok := format.Info(); !ok {
			yield(ErrorEvent(fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)))
			return
		}

		data, err := io.ReadAll(r)
		if err != nil {
			yield(ErrorEvent(fmt.Errorf("reading input: %w", err)))
			return
		}

		p := newParser(ctx, string(data), format, yield)

		if err := p.parse(); err != nil {
			if errors.Is(err, errStopped) {
				return
			}

			yield(ErrorEvent(err))

			return
		}

		yield(EndEvent())
	}
}

// Collect drains an event sequence into its prefixes and quads. It returns
// the error carried by an EventError, or an error when the sequence ends
// without an end marker.
func Collect(events iter.Seq[Event]) ([]Prefix, []Quad, error) {
	var (
		prefixes []Prefix
		quads    []Quad
	)

	for ev := range events {
		switch ev.Kind {
		case EventPrefix:
			prefixes = append(prefixes, Prefix{Name: ev.Prefix, IRI: ev.IRI})
		case EventQuad:
			quads = append(quads, ev.Quad)
		case EventError:
			return nil, nil, ev.Err
		case EventEnd:
			return prefixes, quads, nil
		}
	}

	return nil, nil, errors.New("event stream ended without end marker")
}
