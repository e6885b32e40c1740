// Package filter implements the quad filter of semconvert's conversion
// pipeline. A [Rules] value holds eight optional lists of regular
// expressions, {deny, pass} x {subject, predicate, object, entity}, where
// entity lists test the subject or the object of a quad.
//
// [Compile] turns rules into an immutable [RuleSet] once per conversion;
// [RuleSet.Permit] then decides each quad. Deny lists are evaluated first
// and any match rejects. Every non-empty pass list must then match.
// Named rule profiles bundle common rule sets and can be extended from the
// configuration file.
package filter
