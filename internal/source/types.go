package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (pretext, test, generated text).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
)

// File captures metadata and content for a single source file.
type File struct {
	ID         FileID
	Path       string
	Content    []byte
	LineStarts []uint32 // byte offset of every line start, LineStarts[0] == 0
	Hash       [32]byte
	Flags      FileFlags
}

// TextPos is a human-readable position: 1-based line and column.
type TextPos struct {
	Line uint32
	Col  uint32
}

// Dir returns the directory of the file path, used to resolve includes.
func (f *File) Dir() string {
	return dirOf(f.Path)
}
