package driver

import (
	"context"
	"errors"
	"strings"

	"ddl/internal/diag"
	"ddl/internal/parser"
	"ddl/internal/source"
)

// FileEngine processes units read from disk. Loaded files stay in the
// engine between units until Purge, and count against MaxFiles.
// A FileEngine is not safe for concurrent use.
type FileEngine struct {
	opts  Options
	fs    *source.FileSet
	files map[string]source.FileID // normalized path -> file
}

func NewFileEngine(opts Options) *FileEngine {
	e := &FileEngine{opts: opts.withDefaults()}
	e.Purge()
	return e
}

// Purge forgets every loaded file.
func (e *FileEngine) Purge() {
	e.fs = source.NewFileSet()
	e.files = make(map[string]source.FileID)
}

// unitState counts the includes of one unit.
type unitState struct {
	rep      diag.Reporter
	includes int
	seen     map[source.FileID]bool
	files    []*source.File
}

// Process evaluates the unit rooted at path. Pretext, if not empty, is
// parsed before the file into the same root scope.
func (e *FileEngine) Process(ctx context.Context, path, pretext string) *Result {
	res := &Result{Path: path, FileSet: e.fs, Bag: diag.NewBag(e.opts.ErrorCap)}
	st := &unitState{rep: diag.BagReporter{Bag: res.Bag}, seen: make(map[source.FileID]bool)}

	var files []*source.File
	if pretext != "" {
		files = append(files, e.fs.Get(e.fs.AddVirtual(pretextName, []byte(pretext))))
	}
	name := source.JoinInclude("", path)
	if name == "" {
		st.rep.Report(diag.NewGlobal(diag.EngBadFileName, "bad file name \""+path+"\""))
		return res
	}
	f := e.open(name, st.rep, source.Span{}, true)
	if f == nil {
		return res
	}
	st.seen[f.ID] = true
	files = append(files, f)
	st.files = files

	run(ctx, files, e.include(st), e.opts, res)
	res.Files = st.files
	return res
}

func (e *FileEngine) include(st *unitState) parser.IncludeFunc {
	return func(from *source.File, name string, at source.Span) *source.File {
		if st.includes >= e.opts.MaxIncludes {
			diag.Errorf(st.rep, diag.EngTooManyIncludes, at, "too many included files")
			return nil
		}
		st.includes++

		path := source.JoinInclude(from.Dir(), name)
		if path == "" || strings.ContainsRune(name, 0) {
			diag.Errorf(st.rep, diag.EngBadFileName, at, "bad include file name %q", name)
			return nil
		}
		f := e.open(path, st.rep, at, false)
		if f == nil || st.seen[f.ID] {
			return nil
		}
		st.seen[f.ID] = true
		st.files = append(st.files, f)
		return f
	}
}

// open returns the file loaded under path, loading it if needed.
func (e *FileEngine) open(path string, rep diag.Reporter, at source.Span, global bool) *source.File {
	if id, ok := e.files[path]; ok {
		return e.fs.Get(id)
	}
	fail := func(code diag.Code, msg string) {
		if global {
			rep.Report(diag.NewGlobal(code, msg))
		} else {
			rep.Report(diag.NewError(code, at, msg))
		}
	}
	if len(e.files) >= e.opts.MaxFiles {
		fail(diag.EngTooManyFiles, "too many open files")
		return nil
	}
	id, err := e.fs.Load(path, e.opts.MaxFileLen)
	switch {
	case errors.Is(err, source.ErrFileTooLong):
		fail(diag.EngFileTooLong, "file is too long: "+path)
		return nil
	case err != nil:
		fail(diag.EngFileRead, "cannot read file: "+err.Error())
		return nil
	}
	e.files[path] = id
	return e.fs.Get(id)
}
