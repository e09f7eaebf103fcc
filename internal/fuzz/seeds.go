package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"basil/internal/project"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
	maxFuzzInput = 1 << 16 // 64 KiB
)

// languageSeeds покрывают основные конструкции модуля.
var languageSeeds = []string{
	"",
	"Option Explicit\n",
	"Sub Main()\nEnd Sub\n",
	"Option Explicit\nPublic Function Add(ByVal a As Long, Optional b As Long = 1) As Long\n    Add = a + b\nEnd Function\n",
	"Sub Loops()\n    Dim i As Integer\n    For i = 1 To 10 Step 2\n        Do While i < 5\n            i = i + 1\n        Loop\n    Next i\nEnd Sub\n",
	"Sub S(x)\n    Select Case x\n        Case 1, 2 To 4\n            Debug.Print \"low\"\n        Case Is > 10\n        Case Else\n    End Select\nEnd Sub\n",
	"Private Type Point\n    X As Double\n    Y As Double\nEnd Type\nPublic Enum Color\n    Red = 1\n    Green\nEnd Enum\n",
	"Private Declare PtrSafe Function GetTickCount Lib \"kernel32\" () As Long\n",
	"VERSION 1.0 CLASS\nBEGIN\n  MultiUse = -1\nEND\nAttribute VB_Name = \"Ledger\"\nPrivate m_total As Currency\nPublic Property Get Total() As Currency\n    Total = m_total\nEnd Property\nPublic Property Let Total(ByVal v As Currency)\n    m_total = v\nEnd Property\n",
	"Sub W()\n    With ActiveSheet\n        .Range(\"A1\").Value = 1 ' comment\n    End With\n    If x Then y = 1 Else y = 2\nEnd Sub\n",
	"Sub Cont()\n    total = 1 + _\n        2\n    s = \"unterminated\nEnd Sub\n",
	"Sub Broken(\n    x = = 2\n    For i = 1 To\nEnd Function\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все модули VBA
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !project.HasExtension(path, project.DefaultExtensions) {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
