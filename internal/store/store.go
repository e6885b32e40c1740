// Package store holds the quads and prefix declarations accepted during one
// conversion. The store is append-only and every ordering it exposes is
// the order in which values were first added.
package store

import (
	"github.com/hupe1980/semconvert/internal/rdf"
)

type pair struct {
	subject   rdf.Term
	predicate rdf.Term
}

// Store is an append-only, deduplicating quad container. It is not safe
// for concurrent use.
type Store struct {
	quads []rdf.Quad
	seen  map[rdf.Quad]struct{}

	subjects   []rdf.Term
	subjectSet map[rdf.Term]struct{}
	objects    []rdf.Term
	objectSet  map[rdf.Term]struct{}

	// predicates lists each subject's predicates in first-seen order.
	predicates map[rdf.Term][]rdf.Term
	byPair     map[pair][]int

	prefixes     []rdf.Prefix
	prefixByName map[string]int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		seen:         make(map[rdf.Quad]struct{}),
		subjectSet:   make(map[rdf.Term]struct{}),
		objectSet:    make(map[rdf.Term]struct{}),
		predicates:   make(map[rdf.Term][]rdf.Term),
		byPair:       make(map[pair][]int),
		prefixByName: make(map[string]int),
	}
}

// AddQuad appends q. It returns false when an identical quad is already
// stored.
func (s *Store) AddQuad(q rdf.Quad) bool {
	if _, dup := s.seen[q]; dup {
		return false
	}

	s.seen[q] = struct{}{}
	s.quads = append(s.quads, q)

	if _, ok := s.subjectSet[q.Subject]; !ok {
		s.subjectSet[q.Subject] = struct{}{}
		s.subjects = append(s.subjects, q.Subject)
	}

	if _, ok := s.objectSet[q.Object]; !ok {
		s.objectSet[q.Object] = struct{}{}
		s.objects = append(s.objects, q.Object)
	}

	key := pair{subject: q.Subject, predicate: q.Predicate}
	if _, ok := s.byPair[key]; !ok {
		s.predicates[q.Subject] = append(s.predicates[q.Subject], q.Predicate)
	}

	s.byPair[key] = append(s.byPair[key], len(s.quads)-1)

	return true
}

// AddPrefix records a namespace declaration. Redeclaring a name replaces
// its IRI and keeps its original position.
func (s *Store) AddPrefix(name, iri string) {
	if i, ok := s.prefixByName[name]; ok {
		s.prefixes[i].IRI = iri
		return
	}

	s.prefixByName[name] = len(s.prefixes)
	s.prefixes = append(s.prefixes, rdf.Prefix{Name: name, IRI: iri})
}

// Prefixes returns the declared prefixes in declaration order.
func (s *Store) Prefixes() []rdf.Prefix {
	return append([]rdf.Prefix(nil), s.prefixes...)
}

// Quads returns all stored quads in insertion order.
func (s *Store) Quads() []rdf.Quad {
	return append([]rdf.Quad(nil), s.quads...)
}

// Subjects returns the distinct subjects in first-seen order.
func (s *Store) Subjects() []rdf.Term {
	return append([]rdf.Term(nil), s.subjects...)
}

// Objects returns the distinct objects in first-seen order.
func (s *Store) Objects() []rdf.Term {
	return append([]rdf.Term(nil), s.objects...)
}

// Predicates returns the distinct predicates of subject in first-seen
// order.
func (s *Store) Predicates(subject rdf.Term) []rdf.Term {
	return append([]rdf.Term(nil), s.predicates[subject]...)
}

// Match returns the quads with the given subject and predicate in
// insertion order.
func (s *Store) Match(subject, predicate rdf.Term) []rdf.Quad {
	idx := s.byPair[pair{subject: subject, predicate: predicate}]
	out := make([]rdf.Quad, 0, len(idx))

	for _, i := range idx {
		out = append(out, s.quads[i])
	}

	return out
}

// Len returns the number of stored quads.
func (s *Store) Len() int { return len(s.quads) }
