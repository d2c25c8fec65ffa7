package source

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
)

// ErrFileTooLong is returned by Load when a file exceeds the configured length cap.
var ErrFileTooLong = errors.New("file is too long")

// FileSet manages the source files of one compilation unit.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0),
		index: make(map[string]FileID),
	}
}

// Add stores a file, computes LineStarts and Hash, and returns a new FileID.
// It always creates a new FileID even if a file with the same path already exists.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s: content length overflow: %w", path, err))
	}
	lenFiles, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("len files overflow: %w", err))
	}
	normalizedPath := normalizePath(path)
	id := FileID(lenFiles)
	fileSet.files = append(fileSet.files, File{
		ID:         id,
		Path:       normalizedPath,
		Content:    content,
		LineStarts: buildLineStarts(content),
		Hash:       sha256.Sum256(content),
		Flags:      flags,
	})
	// Всегда обновляем индекс на последнюю версию файла
	fileSet.index[normalizedPath] = id
	return id
}

// Load reads a file from disk, strips a BOM and calls Add.
// maxLen == 0 means no length cap.
func (fileSet *FileSet) Load(path string, maxLen uint64) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxLen > 0 {
		r = io.LimitReader(f, int64(min(maxLen, 1<<62))+1) // #nosec G115 -- clamped above
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if maxLen > 0 && uint64(len(content)) > maxLen {
		return 0, fmt.Errorf("%s: %w", path, ErrFileTooLong)
	}

	content, hadBOM := removeBOM(content)
	flags := FileFlags(0)
	if hadBOM {
		flags |= FileHadBOM
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds a file held in memory with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Len reports the number of files added so far.
func (fileSet *FileSet) Len() int {
	return len(fileSet.files)
}

// GetByPath returns the latest file loaded under path.
func (fileSet *FileSet) GetByPath(path string) (*File, bool) {
	if id, ok := fileSet.index[normalizePath(path)]; ok {
		return &fileSet.files[id], true
	}
	return nil, false
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end TextPos) {
	f := &fileSet.files[span.File]
	return toTextPos(f.LineStarts, span.Start), toTextPos(f.LineStarts, span.End)
}

// Pos returns the position of a byte offset.
func (f *File) Pos(off uint32) TextPos {
	return toTextPos(f.LineStarts, off)
}

// GetLine returns the text of a 1-based line without its line break.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > len(f.LineStarts) {
		return ""
	}
	start := f.LineStarts[lineNum-1]
	end := uint32(len(f.Content)) // #nosec G115 -- checked in Add
	if int(lineNum) < len(f.LineStarts) {
		end = f.LineStarts[lineNum]
	}
	for end > start && (f.Content[end-1] == '\n' || f.Content[end-1] == '\r') {
		end--
	}
	return string(f.Content[start:end])
}
