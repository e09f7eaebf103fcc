package driver

import (
	"fortio.org/safecast"

	"basil/internal/diag"
	"basil/internal/parser"
	"basil/internal/source"
	"basil/internal/syntax"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tree    *syntax.Tree
	Bag     *diag.Bag
}

// Parse builds the parse tree of one file without binding it.
func Parse(filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	var maxErrors uint
	if maxDiagnostics > 0 {
		maxErrors, err = safecast.Conv[uint](maxDiagnostics)
		if err != nil {
			return nil, err
		}
	}
	tree := parser.Parse(file, parser.Options{MaxErrors: maxErrors})

	bag := diag.NewBag(maxDiagnostics)
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: bag})
	for _, e := range tree.Errors {
		msg := e.Msg
		if e.Text != "" {
			msg += ": '" + e.Text + "'"
		}
		diag.ReportError(rep, diag.SynParseError, e.Span, msg).Emit()
	}

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Tree:    tree,
		Bag:     bag,
	}, nil
}
