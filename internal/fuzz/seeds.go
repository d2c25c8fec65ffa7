package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const maxSeedBytes = 64 << 10 // ограничение для тестового корпуса

const maxFuzzInput = 1 << 16 // 64 KiB

var builtinSeeds = []string{
	"",
	"int a = 1;",
	"type T = uint8; T x = 0FFh;",
	"int b = a + 3; int a = 2;",
	`text t = "a" + 'b' + 12; ip h = 10.0.0.1;`,
	"int[3] a = {1, 2, 3}; int* p = &a[0] + 2; int x = *p;",
	"int[] u = {1, 2}; ulen n = u.len;",
	"struct N { N* next; int v = 1; }; N na = { &nb, 1 }; N nb = { &na };",
	"struct S { int v = ?k + 1; }; scope A { int k = 4; S s; }",
	"scope A { scope B { int x = ..#y; } int y = 1; } int z = #A#B#x;",
	"{ sint, text } * poly = null;",
	"int a = b; int b = a;",
	"sint8 a = -(-128);",
	"include <x.ddl>",
	"scope { int",
	`text s = "unterminated`,
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.ddl файлы
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() || filepath.Ext(path) != ".ddl" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}
