package fix

import (
	"fmt"
	"strings"

	"basil/internal/diag"
)

// DeclareName — fix-it для SemaUndeclaredName: добавляет `Dim <name>`
// отдельной строкой над Anchor (первый оператор процедуры либо сам оператор).
// ID одинаков для всех ссылок на имя с общим якорем, так что `basil fix --all`
// вставит объявление один раз.
func DeclareName(ctx diag.FixBuildContext, d *diag.Diagnostic) *diag.Fix {
	if ctx.FileSet == nil || d == nil {
		return nil
	}
	file := ctx.FileSet.Get(d.Primary.File)
	if file == nil {
		return nil
	}
	name := strings.TrimRight(file.Text(d.Primary), "$%&!#@^")
	if name == "" {
		return nil
	}
	anchor := d.Anchor
	if anchor.File != d.Primary.File || anchor.Start > d.Primary.Start {
		anchor = d.Primary
	}
	id := fmt.Sprintf("declare:%d:%d:%s", file.ID, anchor.Start, strings.ToLower(name))
	f := InsertLineBefore(fmt.Sprintf("Declare '%s'", name), file, anchor, "Dim "+name, Preferred(), WithID(id))
	return &f
}

// AddOptionExplicit — fix-it для SemaMissingOptionExplicit: вставляет
// `Option Explicit` в точку Anchor (после заголовка и атрибутов модуля).
func AddOptionExplicit(ctx diag.FixBuildContext, d *diag.Diagnostic) *diag.Fix {
	if ctx.FileSet == nil || d == nil {
		return nil
	}
	file := ctx.FileSet.Get(d.Anchor.File)
	if file == nil {
		return nil
	}
	text := "Option Explicit\n"
	// вставка в конец файла без перевода строки
	if n := len(file.Content); int(d.Anchor.Start) >= n && n > 0 && file.Content[n-1] != '\n' {
		text = "\n" + text
	}
	f := InsertText("Add Option Explicit", d.Anchor, text, "", WithKind(diag.FixKindSourceAction))
	return &f
}
