package diag

import (
	"fmt"
	"strings"

	"ddl/internal/source"
)

// FormatGolden renders diagnostics one per line in report order:
//
//	error NAM3006 path:line:col message
//
// Global diagnostics print "-" instead of a location. Notes follow their
// diagnostic when includeNotes is set.
func FormatGolden(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	var b strings.Builder
	for i, d := range diags {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity, d.Code.ID(), location(fs, d.Primary, d.Global), sanitizeMessage(d.Message))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(&b, "\nnote %s %s %s", d.Code.ID(), location(fs, n.Span, false), sanitizeMessage(n.Msg))
		}
	}
	return b.String()
}

func location(fs *source.FileSet, span source.Span, global bool) string {
	if global || fs == nil || int(span.File) >= fs.Len() {
		return "-"
	}
	f := fs.Get(span.File)
	pos := f.Pos(span.Start)
	return fmt.Sprintf("%s:%d:%d", f.Path, pos.Line, pos.Col)
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
