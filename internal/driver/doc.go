// Package driver runs units through the whole pipeline: loading, parsing with
// includes, semantic completion and evaluation.
//
// TextEngine processes text held in memory. FileEngine loads files and
// resolves include directives under the file and include limits.
// ProcessFiles evaluates many independent units in parallel and can consult
// a snapshot cache keyed by content digest.
package driver
