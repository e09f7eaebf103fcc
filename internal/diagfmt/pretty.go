package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"basil/internal/diag"
	"basil/internal/source"
)

const tabWidth = 4

type palette struct {
	err     *color.Color
	warning *color.Color
	info    *color.Color
	path    *color.Color
	gutter  *color.Color
	caret   *color.Color
	note    *color.Color
	added   *color.Color
	removed *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		path:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		note:    color.New(color.FgCyan),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warning, p.info, p.path, p.gutter, p.caret, p.note, p.added, p.removed} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warning
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	pal := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		if i > 0 {
			fmt.Fprintln(w)
		}
		prettyOne(w, &items[i], fs, opts, pal)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		pal.path.Sprintf("%s:%d:%d", formatPath(f, fs, opts.PathMode), start.Line, start.Col),
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.severity(d.Severity).Sprint(d.Code.ID()),
		d.Message,
	)
	if f != nil && len(f.Content) > 0 {
		writeSnippet(w, f, fs, d.Primary, opts, pal)
	}

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nf := fs.Get(note.Span.File)
			nstart, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), formatPath(nf, fs, opts.PathMode), nstart.Line, nstart.Col, note.Msg)
		}
	}

	if opts.ShowFixes {
		ctx := diag.FixBuildContext{FileSet: fs}
		for _, fix := range d.Fixes {
			resolved, err := fix.Resolve(ctx)
			if err != nil {
				fmt.Fprintf(w, "  %s %s (unavailable: %v)\n", pal.note.Sprint("fix:"), fix.Title, err)
				continue
			}
			fmt.Fprintf(w, "  %s %s [%s]\n", pal.note.Sprint("fix:"), resolved.Title, resolved.Applicability)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range resolved.Edits {
				preview, err := buildFixEditPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s\n", pal.removed.Sprint("- "+expandTabs(line)))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s\n", pal.added.Sprint("+ "+expandTabs(line)))
				}
			}
		}
	}
}

// writeSnippet prints the primary line with up to opts.Context lines before it
// and a caret underline under the span.
func writeSnippet(w io.Writer, f *source.File, fs *source.FileSet, span source.Span, opts PrettyOpts, pal palette) {
	start, end := fs.Resolve(span)
	first := uint32(1)
	if ctxLines := uint32(max(opts.Context, 0)); start.Line > ctxLines { // #nosec G115 -- неотрицательно
		first = start.Line - ctxLines
	}
	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))

	for ln := first; ln <= start.Line; ln++ {
		text := expandTabs(f.GetLine(ln))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "...")
		}
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), text)
	}

	line := f.GetLine(start.Line)
	prefix := prefixByColumn(line, start.Col)
	pad := runewidth.StringWidth(expandTabs(prefix))

	var marked string
	if end.Line == start.Line && end.Col > start.Col {
		marked = line[len(prefix):min(len(line), len(prefixByColumn(line, end.Col)))]
	} else if end.Line > start.Line {
		marked = line[len(prefix):]
	}
	width := max(runewidth.StringWidth(expandTabs(marked)), 1)
	if opts.Width > 0 && pad+width > int(opts.Width) {
		width = max(int(opts.Width)-pad, 1)
	}
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(underline))
}

// prefixByColumn returns the bytes of line before the 1-based byte column col.
func prefixByColumn(line string, col uint32) string {
	if col <= 1 {
		return ""
	}
	idx := int(col - 1)
	if idx > len(line) {
		return line
	}
	return line[:idx]
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	colN := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - colN%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			colN += n
			continue
		}
		b.WriteRune(r)
		colN += runewidth.RuneWidth(r)
	}
	return b.String()
}
