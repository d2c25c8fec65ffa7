package lexer

import (
	"ddl/internal/diag"
	"ddl/internal/source"
)

type Options struct {
	Reporter diag.Reporter // nil: ошибки игнорируем, но продолжаем лексить
}

func (lx *Lexer) errorf(code diag.Code, sp source.Span, format string, args ...any) {
	if lx.opts.Reporter != nil {
		diag.Errorf(lx.opts.Reporter, code, sp, format, args...)
	}
}
