// Package rdf provides the small RDF term model semconvert works on, a
// streaming parser that turns Turtle, TriG, N-Triples and N-Quads text into
// a finite sequence of parse events, and a serializer for the same formats.
//
// The parser is the input boundary of the conversion pipeline: it delivers
// prefix declarations and quads in document order and terminates every
// sequence with exactly one end-of-stream or error event:
//
//	for ev := range rdf.Parse(ctx, strings.NewReader(input), rdf.FormatTurtle) {
//	    switch ev.Kind {
//	    case rdf.EventPrefix:
//	        // ev.Prefix, ev.IRI
//	    case rdf.EventQuad:
//	        // ev.Quad
//	    case rdf.EventError:
//	        // ev.Err, no further events follow
//	    case rdf.EventEnd:
//	        // input exhausted
//	    }
//	}
package rdf
