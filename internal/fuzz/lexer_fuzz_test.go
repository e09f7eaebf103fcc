package fuzztests

import (
	"testing"

	"basil/internal/lexer"
	"basil/internal/source"
	"basil/internal/token"
)

type countingReporter struct{ n int }

func (r *countingReporter) Report(source.Span, string) { r.n++ }

func FuzzLexerTokens(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.bas", input)
		file := fs.Get(fileID)

		rep := &countingReporter{}
		lx := lexer.New(file, lexer.Options{Reporter: rep})
		// каждый токен занимает байты или это EOF, иначе лексер зациклится
		for steps := 0; ; steps++ {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
			if steps > 2*len(input)+2 {
				t.Fatalf("lexer did not reach EOF after %d tokens", steps)
			}
		}
	})
}
