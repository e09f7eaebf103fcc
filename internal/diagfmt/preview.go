package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"basil/internal/diag"
	"basil/internal/source"
)

// fixEditPreview holds the whole lines an edit touches, before and after it
// is applied. Line terminators (CRLF included) are stripped.
type fixEditPreview struct {
	before []string
	after  []string
}

func buildFixEditPreview(fs *source.FileSet, edit diag.TextEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, errors.New("nil FileSet")
	}
	f := fs.Get(edit.Span.File)
	if f == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	size := len(f.Content)
	if edit.Span.End < edit.Span.Start || int(edit.Span.End) > size {
		return fixEditPreview{}, fmt.Errorf("edit span %d-%d outside of %s", edit.Span.Start, edit.Span.End, f.Path)
	}

	// строки, которые задевает правка, целиком
	lo := f.LineStart(f.Position(edit.Span.Start).Line)
	hi := f.LineStart(f.Position(edit.Span.End).Line + 1)
	block := string(f.Content[lo:hi])

	head := block[:edit.Span.Start-lo]
	tail := block[edit.Span.End-lo:]
	return fixEditPreview{
		before: previewLines(block),
		after:  previewLines(head + edit.NewText + tail),
	}, nil
}

func previewLines(text string) []string {
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
