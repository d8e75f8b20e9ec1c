// Package predicate compiles expression strings into element predicates.
//
// Predicates are expr-lang expressions evaluated against a single variable
// v, the element under test:
//
//	p, err := predicate.Compile("v == 3 || v == 2")
//	removed := vec.Remove(p.Match)
//
// Compiled programs are cached by source, so repeated use of the same
// expression (scenario steps, CLI filters) compiles once.
package predicate
