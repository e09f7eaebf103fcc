package fix

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"basil/internal/diag"
	"basil/internal/source"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// fileBuffer is the edited text of one module. applied holds the edits
// already in text, in original-file offsets, sorted by position.
type fileBuffer struct {
	file    *source.File
	text    []byte
	applied []diag.TextEdit
	edits   int
}

func newFileBuffer(f *source.File) *fileBuffer {
	return &fileBuffer{file: f, text: slices.Clone(f.Content)}
}

// stage applies edits to a copy of the buffer. On failure it returns a
// reason and leaves b untouched.
func (b *fileBuffer) stage(edits []diag.TextEdit) (text []byte, applied []diag.TextEdit, reason string) {
	for _, prev := range b.applied {
		for _, e := range edits {
			if editsOverlap(prev.Span, e.Span) {
				return nil, nil, "conflicts with previously applied edits in " + filepath.Base(b.file.Path)
			}
		}
	}

	// с конца, чтобы ранние правки того же fix не сдвигали поздние
	edits = slices.Clone(edits)
	slices.SortStableFunc(edits, func(x, y diag.TextEdit) int {
		return cmp.Or(cmp.Compare(y.Span.Start, x.Span.Start), cmp.Compare(y.Span.End, x.Span.End))
	})

	text = slices.Clone(b.text)
	applied = slices.Clone(b.applied)
	for _, e := range edits {
		start := int(e.Span.Start) + shiftAt(applied, e.Span.Start)
		end := int(e.Span.End) + shiftAt(applied, e.Span.End)
		if start < 0 || end < start || end > len(text) {
			return nil, nil, "edit span out of range"
		}
		if e.OldText != "" && string(text[start:end]) != e.OldText {
			return nil, nil, "existing text does not match expected content"
		}
		text = slices.Concat(text[:start], []byte(e.NewText), text[end:])
		applied = insertByPosition(applied, e)
	}
	return text, applied, ""
}

// shiftAt is how far an original offset moved after the applied edits.
func shiftAt(applied []diag.TextEdit, pos uint32) int {
	delta := 0
	for _, e := range applied {
		if e.Span.Start > pos {
			break
		}
		if e.Span.End <= pos {
			delta += len(e.NewText) - int(e.Span.End-e.Span.Start)
		}
	}
	return delta
}

func insertByPosition(edits []diag.TextEdit, e diag.TextEdit) []diag.TextEdit {
	i, _ := slices.BinarySearchFunc(edits, e, func(x, t diag.TextEdit) int {
		return cmp.Or(cmp.Compare(x.Span.Start, t.Span.Start), cmp.Compare(x.Span.End, t.Span.End))
	})
	return slices.Insert(edits, i, e)
}

// editsOverlap treats spans as half-open. Two insertions never overlap; an
// insertion overlaps a range that strictly contains its point or starts at it.
func editsOverlap(a, b source.Span) bool {
	switch {
	case a.Start == a.End && b.Start == b.End:
		return false
	case a.Start == a.End:
		return b.Start <= a.Start && a.Start < b.End
	case b.Start == b.End:
		return a.Start <= b.Start && b.Start < a.End
	}
	return a.Start < b.End && b.Start < a.End
}

// commit stages each chosen fix as a unit and writes every touched module.
func commit(fs *source.FileSet, chosen []candidate, res *ApplyResult) error {
	buffers := make(map[source.FileID]*fileBuffer)
	var touched []source.FileID

	for _, c := range chosen {
		var fileOrder []source.FileID
		byFile := make(map[source.FileID][]diag.TextEdit)
		for _, e := range c.fix.Edits {
			if _, ok := byFile[e.Span.File]; !ok {
				fileOrder = append(fileOrder, e.Span.File)
			}
			byFile[e.Span.File] = append(byFile[e.Span.File], e)
		}

		type staged struct {
			text    []byte
			applied []diag.TextEdit
		}
		pending := make(map[source.FileID]staged, len(fileOrder))
		reason := ""
		for _, id := range fileOrder {
			f := fs.Get(id)
			switch {
			case f == nil:
				reason = "unknown target file"
			case f.Flags&source.FileVirtual != 0:
				reason = "target file is virtual"
			}
			if reason != "" {
				break
			}
			buf := buffers[id]
			if buf == nil {
				buf = newFileBuffer(f)
			}
			text, applied, why := buf.stage(byFile[id])
			if why != "" {
				reason = why
				break
			}
			pending[id] = staged{text: text, applied: applied}
		}
		if reason != "" {
			res.skip(c.fix, reason)
			continue
		}

		for _, id := range fileOrder {
			buf := buffers[id]
			if buf == nil {
				buf = newFileBuffer(fs.Get(id))
				buffers[id] = buf
				touched = append(touched, id)
			}
			buf.text, buf.applied = pending[id].text, pending[id].applied
			buf.edits += len(byFile[id])
		}
		res.Applied = append(res.Applied, AppliedFix{
			ID:            c.fix.ID,
			Title:         c.fix.Title,
			Code:          c.diag.Code,
			Message:       c.diag.Message,
			Applicability: c.fix.Applicability,
			PrimaryPath:   primaryPath(fs, c.diag.Primary.File),
			EditCount:     len(c.fix.Edits),
		})
	}

	for _, id := range touched {
		buf := buffers[id]
		if err := writeFileAtomic(buf.file.Path, encodeForDisk(buf.file, buf.text)); err != nil {
			return fmt.Errorf("write %s: %w", buf.file.Path, err)
		}
		res.FileChanges = append(res.FileChanges, FileChange{
			Path:      displayPath(buf.file.Path, fs.BaseDir()),
			EditCount: buf.edits,
		})
	}
	slices.SortStableFunc(res.FileChanges, func(a, b FileChange) int { return cmp.Compare(a.Path, b.Path) })
	return nil
}

// encodeForDisk restores what AddNormalized stripped on load.
func encodeForDisk(f *source.File, text []byte) []byte {
	if f.Flags&source.FileNormalizedCRLF != 0 {
		text = bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))
		text = bytes.ReplaceAll(text, []byte("\n"), []byte("\r\n"))
	}
	if f.Flags&source.FileHadBOM != 0 {
		text = slices.Concat(utf8BOM, text)
	}
	return text
}

func primaryPath(fs *source.FileSet, id source.FileID) string {
	if f := fs.Get(id); f != nil {
		return displayPath(f.Path, fs.BaseDir())
	}
	return ""
}

func displayPath(path, baseDir string) string {
	if rel, err := source.RelativePath(path, baseDir); err == nil {
		return rel
	}
	return path
}

// writeFileAtomic пишет во временный файл рядом и переименовывает его поверх,
// сохраняя права исходного файла.
func writeFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".basil-fix-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return err
	}
	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return err
	}
	return os.Rename(name, path)
}
