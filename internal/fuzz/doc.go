// Package fuzztests houses Go fuzz harnesses that exercise the analysis
// pipeline (source -> lexer -> parser -> workspace). Its goal is to smoke
// test robustness and guard against panics or hangs on arbitrary inputs.
//
// Назначение: запускать fuzz-обработчики, которые загружают байты в FileSet и
// прогоняют их через лексер, парсер и полный анализ документа.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/source, internal/lexer, internal/parser,
// internal/testkit, internal/workspace.

package fuzztests
