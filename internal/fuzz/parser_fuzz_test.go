package fuzztests

import (
	"context"
	"testing"
	"time"

	"basil/internal/parser"
	"basil/internal/source"
	"basil/internal/testkit"
	"basil/internal/workspace"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func FuzzParserBuildsTree(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		fileID := fs.AddVirtual("fuzz.bas", input)
		tree := parser.Parse(fs.Get(fileID), parser.Options{MaxErrors: 128})
		if err := testkit.CheckTreeInvariants(tree); err != nil {
			t.Fatalf("tree invariant: %v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)

	// Конструкции, на которых восстановление после ошибок легко зациклить
	f.Add([]byte("If x Then\nElse\nElse\nEnd If\n"))
	f.Add([]byte("Sub A()\nSub B()\nEnd Sub\n"))
	f.Add([]byte("Select Case\nCase\nEnd Select\n"))
	f.Add([]byte("x = ((((((((((1\n"))
	f.Add([]byte("Do\nLoop Until\nLoop\n"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		done := make(chan struct{})
		go func() {
			defer close(done)
			fs := source.NewFileSet()
			fileID := fs.AddVirtual("fuzz.bas", input)
			_ = parser.Parse(fs.Get(fileID), parser.Options{MaxErrors: 128})
		}()

		select {
		case <-done:
		case <-time.After(parseTimeout):
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzWorkspaceUpdate runs the whole per-document analysis: binding,
// scope resolution, diagnostics, symbols, folding and semantic tokens.
func FuzzWorkspaceUpdate(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()
		ws := workspace.New(workspace.Options{})
		snap, err := ws.Update(ctx, "file:///fuzz/Module1.bas", 1, input)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("analysis hang detected\ninput: %q", truncateForLog(input, 200))
			}
			t.Fatalf("update: %v", err)
		}
		if snap.Skipped {
			return
		}
		for _, d := range snap.Diagnostics() {
			_ = snap.DiagnosticAction(&d)
		}
		_ = snap.Symbols()
		_ = snap.FoldRanges()
		if data := snap.SemanticTokens(nil); len(data)%5 != 0 {
			t.Fatalf("semantic token data length %d is not a multiple of 5", len(data))
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
