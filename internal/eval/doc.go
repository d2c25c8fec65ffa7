// Package eval computes the values of constants and array lengths of a
// completed unit.
//
// Every constant and every length is a record with its own gate in a
// stepeval scheduler. A record that needs the value of an unfinished record
// parks a retry on that record's gate and is evaluated again once the gate
// opens. Records left waiting when the scheduler drains are finalized; the
// ones that wait on themselves are reported as recursive.
//
// Integer arithmetic happens in the kind of the destination and never wraps:
// overflow, division by zero and out of range casts are errors. Pointers
// designate a constant and a path of field and element indices inside its
// value.
package eval
