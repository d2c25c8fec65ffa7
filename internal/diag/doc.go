// Package diag defines the diagnostic model shared by all DDL phases.
//
// Every phase (tokenizer, parser, name linking, cycle checks, evaluation)
// reports into one capped Bag through a Reporter. The Bag keeps at most Cap
// diagnostics; further reports are dropped silently, but the Bag remembers
// that it overflowed (TooMany) and still answers HasErrors. Phases never stop
// on the first problem: they finish their pass so that one run shows as many
// diagnostics as the cap allows.
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning, Error.
//   - Code – numeric identifier grouped by phase (see codes.go).
//   - Message – short human text, e.g. "cyclic type definition: A".
//   - Primary – the source.Span of the problem, unless Global is set.
//   - Notes – secondary spans ("previous declaration is here").
//
// Rendering lives in internal/diagfmt.
package diag
