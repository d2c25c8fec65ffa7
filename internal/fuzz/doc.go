// Package fuzztests houses Go fuzz harnesses for the DDL front end
// (source -> lexer -> parser -> complete -> eval). They smoke test
// robustness against panics, hangs and runaway allocation on arbitrary
// input.
//
// Не делает: генерацию корпусов и запись файлов.
package fuzztests
