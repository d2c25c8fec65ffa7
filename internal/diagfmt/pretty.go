package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"ddl/internal/diag"
	"ddl/internal/source"
)

type palette struct {
	err, warn, info, code, path, caret, gutter, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		path:   color.New(color.FgWhite, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue),
		note:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.caret, p.gutter, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
// Глобальные диагностики печатаются без местоположения.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	bw := bufio.NewWriter(w)
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := pal.severity(d.Severity).Sprint(strings.ToUpper(d.Severity.String()))
		code := pal.code.Sprint(d.Code.ID())
		if d.Global || fs == nil {
			fmt.Fprintf(bw, "%s %s: %s\n", sev, code, d.Message)
			continue
		}
		fmt.Fprintf(bw, "%s: %s %s: %s\n", pal.path.Sprint(location(fs, d.Primary, opts)), sev, code, d.Message)
		writeSnippet(bw, fs, d.Primary, opts, pal)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(bw, "  %s %s: %s\n", pal.note.Sprint("note:"), location(fs, n.Span, opts), n.Msg)
		}
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(bw, "%s: %d more diagnostics were dropped\n", pal.warn.Sprint("too many errors"), n)
	}
	return bw.Flush()
}

func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs.Get(sp.File), opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// writeSnippet prints the lines around sp with a caret line under the first one.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, opts PrettyOpts, pal palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	ctx := uint32(max(opts.Context, 0)) // #nosec G115 -- non-negative int8
	first := max(start.Line, ctx+1) - ctx
	last := min(start.Line+ctx, uint32(len(f.LineStarts))) // #nosec G115 -- line count fits in uint32
	gutter := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		line := f.GetLine(n)
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutter, n), line)
		if n != start.Line {
			continue
		}
		from := int(start.Col - 1)
		to := len(line)
		if end.Line == start.Line {
			to = min(int(end.Col-1), len(line))
		}
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutter, ""), indent(line[:min(from, len(line))]), pal.caret.Sprint(underline(line, from, to)))
	}
}

// indent keeps tabs and turns every other rune into spaces of its display width.
func indent(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return sb.String()
}

func underline(line string, from, to int) string {
	width := 0
	if from < to {
		width = runewidth.StringWidth(line[from:to])
	}
	return "^" + strings.Repeat("~", max(width-1, 0))
}
