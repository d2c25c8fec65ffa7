// Package token defines the lexical token classes of DDL.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Start..End).
//   - Spaces and comments are ordinary tokens; the parser skips them.
//   - Keywords and built-in type names are Word tokens. LookupKeyword
//     classifies them for the parser; the tokenizer never does.
package token
