package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"basil/internal/cache"
)

// SymbolJSON is one outline entry.
type SymbolJSON struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Container string `json:"container,omitempty"`
	Line      int    `json:"line"` // 1-based
	Character int    `json:"character"`
}

// OutlineJSON is the outline of one file.
type OutlineJSON struct {
	Path        string       `json:"path"`
	Module      string       `json:"module"`
	ParseErrors int          `json:"parse_errors,omitempty"`
	Symbols     []SymbolJSON `json:"symbols"`
}

// FormatOutlinesPretty prints one block per file:
//
//	Ledger.cls (Ledger)
//	  2:8  method   Post
func FormatOutlinesPretty(w io.Writer, outlines []*cache.Outline) error {
	for i, o := range outlines {
		if o == nil {
			continue
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		header := fmt.Sprintf("%s (%s)", o.Path, o.Module)
		if o.ParseErrors > 0 {
			header += fmt.Sprintf(" [%d parse errors]", o.ParseErrors)
		}
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}
		for _, s := range o.Symbols {
			name := s.Name
			if s.ContainerName != "" {
				name = s.ContainerName + "." + s.Name
			}
			pos := fmt.Sprintf("%d:%d", s.SelectionRange.Start.Line+1, s.SelectionRange.Start.Character+1)
			if _, err := fmt.Fprintf(w, "  %-7s %-11s %s\n", pos, s.Kind, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// FormatOutlinesJSON encodes outlines as a JSON array.
func FormatOutlinesJSON(w io.Writer, outlines []*cache.Outline) error {
	out := make([]OutlineJSON, 0, len(outlines))
	for _, o := range outlines {
		if o == nil {
			continue
		}
		entry := OutlineJSON{Path: o.Path, Module: o.Module, ParseErrors: o.ParseErrors, Symbols: make([]SymbolJSON, 0, len(o.Symbols))}
		for _, s := range o.Symbols {
			entry.Symbols = append(entry.Symbols, SymbolJSON{
				Name:      s.Name,
				Kind:      s.Kind.String(),
				Container: s.ContainerName,
				Line:      s.SelectionRange.Start.Line + 1,
				Character: s.SelectionRange.Start.Character + 1,
			})
		}
		out = append(out, entry)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
