package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"sort"
	"sync"
	"unicode/utf8"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and provides offset resolution.
// It is safe for concurrent use: the LSP analysis goroutine adds files while
// request handlers resolve positions.
type FileSet struct {
	mu      sync.RWMutex
	files   []*File
	index   map[string]FileID // path -> latest id
	baseDir string            // базовая директория для относительных путей
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]*File, 0),
		index: make(map[string]FileID),
	}
}

// NewFileSetWithBase создаёт FileSet с заданной базовой директорией.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// SetBaseDir устанавливает базовую директорию для относительных путей.
func (fileSet *FileSet) SetBaseDir(dir string) {
	fileSet.mu.Lock()
	fileSet.baseDir = dir
	fileSet.mu.Unlock()
}

// BaseDir возвращает текущую базовую директорию.
func (fileSet *FileSet) BaseDir() string {
	fileSet.mu.RLock()
	dir := fileSet.baseDir
	fileSet.mu.RUnlock()
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return dir
}

// Add stores a file from normalized bytes, computes LineIdx and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	f := newFile(path, content, flags)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	return fileSet.appendLocked(f)
}

// Replace stores a new version of path in the slot of its latest version,
// so a buffer edited many times occupies one FileID. Content is normalized
// as in AddNormalized. *File values handed out before stay unchanged.
func (fileSet *FileSet) Replace(path string, content []byte, flags FileFlags) FileID {
	content, flags = normalize(content, flags)
	f := newFile(path, content, flags)

	fileSet.mu.Lock()
	defer fileSet.mu.Unlock()
	id, ok := fileSet.index[f.Path]
	if !ok {
		return fileSet.appendLocked(f)
	}
	f.ID = id
	fileSet.files[id] = f
	return id
}

// Len returns the number of stored file versions.
func (fileSet *FileSet) Len() int {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	return len(fileSet.files)
}

func newFile(path string, content []byte, flags FileFlags) *File {
	return &File{
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

func (fileSet *FileSet) appendLocked(f *File) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	f.ID = FileID(lenFiles)
	fileSet.files = append(fileSet.files, f)
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[f.Path] = f.ID
	return f.ID
}

// Load reads a file from disk, normalizes CRLF/BOM, and calls Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return fileSet.AddNormalized(path, content, 0), nil
}

// AddNormalized strips a BOM and CRLF line endings before adding content.
// VBA exports are usually CRLF; offsets are always computed on the LF form.
func (fileSet *FileSet) AddNormalized(path string, content []byte, flags FileFlags) FileID {
	content, flags = normalize(content, flags)
	return fileSet.Add(path, content, flags)
}

func normalize(content []byte, flags FileFlags) ([]byte, FileFlags) {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags
}

// AddVirtual adds a virtual file (editor buffer, stdin, test) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.AddNormalized(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID or nil when the ID is unknown.
func (fileSet *FileSet) Get(id FileID) *File {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	if int(id) >= len(fileSet.files) {
		return nil
	}
	return fileSet.files[id]
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	fileSet.mu.RLock()
	defer fileSet.mu.RUnlock()
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Resolve converts a span into 1-based line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.Get(span.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// LineCount returns the number of lines in the file (a trailing newline opens an empty last line).
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// LineStart returns the byte offset of the 0-based line.
func (f *File) LineStart(line int) uint32 {
	if line <= 0 {
		return 0
	}
	if line > len(f.LineIdx) {
		return f.contentLen()
	}
	return f.LineIdx[line-1] + 1
}

// GetLine возвращает строку с заданным номером (1-based) из файла.
// Если строка не существует, возвращает пустую строку.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > f.LineCount() {
		return ""
	}
	start := f.LineStart(int(lineNum - 1))
	end := f.contentLen()
	if int(lineNum-1) < len(f.LineIdx) {
		end = f.LineIdx[lineNum-1]
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// Text returns the content covered by span; out-of-range spans are clamped.
func (f *File) Text(span Span) string {
	n := f.contentLen()
	start, end := span.Start, span.End
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	if end < start {
		end = start
	}
	return string(f.Content[start:end])
}

// Position converts a byte offset into an editor position (UTF-16 columns).
func (f *File) Position(offset uint32) Position {
	n := f.contentLen()
	if offset > n {
		offset = n
	}
	idx := sort.Search(len(f.LineIdx), func(i int) bool { return f.LineIdx[i] >= offset })
	lineStart := f.LineStart(idx)
	if lineStart > offset {
		lineStart = offset
	}
	units := 0
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRune(f.Content[off:offset])
		if r == utf8.RuneError && size <= 1 {
			size = 1
		}
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
		off += uint32(size) // #nosec G115 -- rune size is at most 4
	}
	return Position{Line: idx, Character: units}
}

// Offset converts an editor position back into a byte offset, clamping to the line end.
func (f *File) Offset(pos Position) uint32 {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	if pos.Line >= f.LineCount() {
		return f.contentLen()
	}
	off := f.LineStart(pos.Line)
	lineEnd := f.contentLen()
	if pos.Line < len(f.LineIdx) {
		lineEnd = f.LineIdx[pos.Line]
	}
	units := 0
	for off < lineEnd && units < pos.Character {
		r, size := utf8.DecodeRune(f.Content[off:lineEnd])
		if r == utf8.RuneError && size <= 1 {
			size = 1
		}
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		off += uint32(size) // #nosec G115 -- rune size is at most 4
	}
	return off
}

// Range converts a span of this file into an editor range.
func (f *File) Range(span Span) Range {
	start := f.Position(span.Start)
	end := start
	if span.End > span.Start {
		end = f.Position(span.End)
	}
	return Range{Start: start, End: end}
}

func (f *File) contentLen() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	return n
}
