package lsp

import (
	"strings"
	"unicode/utf8"

	"basil/internal/source"
)

// applyChanges replays didChange events in order. An event without a range
// replaces the whole document.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, ch := range changes {
		if ch.Range == nil {
			text = ch.Text
			continue
		}
		start := offsetForPosition(text, ch.Range.Start)
		end := max(offsetForPosition(text, ch.Range.End), start)
		text = text[:start] + ch.Text + text[end:]
	}
	return text
}

// offsetForPosition maps an editor position (UTF-16 columns) to a byte
// offset. Columns past the end of the line clamp to the line end, which
// excludes a CRLF terminator; lines past the end clamp to len(text).
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	lineStart := 0
	for range pos.Line {
		nl := strings.IndexByte(text[lineStart:], '\n')
		if nl < 0 {
			return len(text)
		}
		lineStart += nl + 1
	}

	line := text[lineStart:]
	if nl := strings.IndexByte(line, '\n'); nl >= 0 {
		line = strings.TrimSuffix(line[:nl], "\r")
	}
	units := 0
	for i, r := range line {
		if units >= pos.Character {
			return lineStart + i
		}
		if r >= 0x10000 && r != utf8.RuneError {
			units += 2
		} else {
			units++
		}
		if units > pos.Character {
			// середина суррогатной пары
			return lineStart + i
		}
	}
	return lineStart + len(line)
}

func toLSPRange(r source.Range) lspRange {
	return lspRange{
		Start: position(r.Start),
		End:   position(r.End),
	}
}

func fromLSPRange(r lspRange) source.Range {
	return source.Range{
		Start: source.Position(r.Start),
		End:   source.Position(r.End),
	}
}
