// Package stepeval is a single-threaded scheduler of dependent steps.
//
// A step may name one dependency: a step that must run after it. Creating
// the step locks the dependency; running it unlocks the dependency again.
// Ready steps run newest first. A Gate holds steps back until its trigger
// step opens it.
//
// When nothing is ready any more, Run calls Final on every step that never
// ran: first those still held by unopened gates, then those still locked.
// A cycle of dependencies therefore ends in Final calls instead of a hang.
package stepeval
