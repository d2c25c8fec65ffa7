package driver

import (
	"ddl/internal/diag"
	"ddl/internal/lexer"
	"ddl/internal/source"
	"ddl/internal/token"
)

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize loads one file and splits it into tokens. Includes are not
// followed.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	opts = opts.withDefaults()
	fs := source.NewFileSet()
	fileID, err := fs.Load(path, opts.MaxFileLen)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)
	bag := diag.NewBag(opts.ErrorCap)
	tokens := lexer.Tokens(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	return &TokenizeResult{
		FileSet: fs,
		File:    file,
		Tokens:  tokens,
		Bag:     bag,
	}, nil
}
