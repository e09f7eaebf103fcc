package driver

import (
	"basil/internal/diag"
	"basil/internal/lexer"
	"basil/internal/source"
	"basil/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// lexReporter превращает ошибки лексера в SynParseError.
type lexReporter struct{ out diag.Reporter }

func (r lexReporter) Report(span source.Span, msg string) {
	diag.ReportError(r.out, diag.SynParseError, span, msg).Emit()
}

// Tokenize lexes one file; lexical errors go to the bag, never to err.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(path)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	lx := lexer.New(file, lexer.Options{Reporter: lexReporter{out: diag.BagReporter{Bag: bag}}})

	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  lx.All(),
		Bag:     bag,
	}, nil
}
