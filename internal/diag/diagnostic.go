package diag

import (
	"ddl/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Global   bool // not tied to a source location
	Notes    []Note
}

// Line renders the diagnostic as one line without resolving positions.
func (d Diagnostic) Line() string {
	return d.Severity.String() + " " + d.Code.ID() + ": " + d.Message
}
