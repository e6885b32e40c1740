// Package model turns the contents of a [store.Store] into the two
// structures semconvert renders: a [Table] that pivots subjects into rows
// and predicates into columns, and a [Graph] of hashed nodes and labeled
// edges.
//
// Both builders are deterministic. Row, column and node order follow the
// order in which the store first saw each value, never a sort.
package model
