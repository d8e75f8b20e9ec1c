// Package scenario loads and runs YAML-described operation scripts against
// a copy-on-write vector.
//
// A scenario is a named list of steps: mutations (push_back, push_front,
// emplace_back, remove, remove_first, remove_last, clear), snapshot capture,
// and expectations over the live vector or a previously captured snapshot.
// Predicates are expr-lang expressions over the element variable v.
//
// Scenarios exist to demonstrate and exercise the container end to end;
// the CLI's run command and the e2e suite are built on this package.
package scenario
