package driver

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ddl/internal/version"
)

func TestProcessDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.ddl", "sint8 x = 300;\n")
	writeFile(t, dir, "a.ddl", "int x = 1;\n")
	writeFile(t, dir, "nested/c.ddl", "text s = \"c\";\n")
	writeFile(t, dir, "notes.txt", "not a unit")

	results, err := ProcessDir(context.Background(), dir, Batch{Jobs: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, want := range []struct {
		base string
		ok   bool
	}{
		{"a.ddl", true},
		{"b.ddl", false},
		{"c.ddl", true},
	} {
		if got := filepath.Base(results[i].Path); got != want.base || results[i].OK() != want.ok {
			t.Errorf("result %d = %s ok=%v, want %s ok=%v", i, got, results[i].OK(), want.base, want.ok)
		}
	}
	if results[2].Printed != "text #s = (text) \"c\"\n" {
		t.Errorf("Printed = %q", results[2].Printed)
	}
}

func TestProcessFilesUsesCache(t *testing.T) {
	dir := t.TempDir()
	main := writeFile(t, dir, "main.ddl", "include <defs.ddl>\nint b = a * 2;\n")
	writeFile(t, dir, "defs.ddl", "int a = 21;\n")
	bad := writeFile(t, dir, "bad.ddl", "int c = 1 / 0;\n")
	cache := NewMemCache(4)
	batch := Batch{Cache: cache}

	first, err := ProcessFiles(context.Background(), []string{main, bad}, batch)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !first[0].OK() || first[1].OK() {
		t.Fatalf("first run: cached=%v ok=%v/%v", first[0].Cached, first[0].OK(), first[1].OK())
	}
	if cache.Len() != 1 {
		t.Errorf("cache holds %d units, want 1", cache.Len())
	}

	second, err := ProcessFiles(context.Background(), []string{main, bad}, batch)
	if err != nil {
		t.Fatal(err)
	}
	if !second[0].Cached || second[0].Printed != first[0].Printed {
		t.Errorf("second run: cached=%v printed=%q", second[0].Cached, second[0].Printed)
	}
	if second[1].Cached || second[1].OK() {
		t.Error("a failed unit came from the cache")
	}

	writeFile(t, dir, "defs.ddl", "int a = 5;\n")
	third, err := ProcessFiles(context.Background(), []string{main}, batch)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached || third[0].Printed != "sint #a = (sint) 5\nsint #b = (sint) 10\n" {
		t.Errorf("changed include: cached=%v printed=%q", third[0].Cached, third[0].Printed)
	}
}

func TestDiskCache(t *testing.T) {
	cache, err := OpenDiskCache(filepath.Join(t.TempDir(), "cache"), "ddl")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	main := writeFile(t, dir, "main.ddl", "ip h = 192.168.0.1;\n")

	for i := range 2 {
		results, err := ProcessFiles(context.Background(), []string{main}, Batch{Cache: cache, Pretext: "int p = 1;"})
		if err != nil {
			t.Fatal(err)
		}
		if got := results[0]; !got.OK() || got.Cached != (i == 1) {
			t.Fatalf("run %d: ok=%v cached=%v", i, got.OK(), got.Cached)
		}
	}

	var s Snapshot
	key := UnitKey([]byte("ip h = 192.168.0.1;\n"), "int p = 1;", Options{})
	if ok, err := cache.Get(key, &s); err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if s.Consts != 2 || len(s.FilePaths) != 1 || s.Printed != "sint #p = (sint) 1\nip #h = (ip) 192.168.0.1\n" {
		t.Errorf("snapshot = %+v", s)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, err := cache.Get(key, &s); err != nil || ok {
		t.Errorf("Get after DropAll = %v, %v", ok, err)
	}
}

func TestUnitKey(t *testing.T) {
	base := UnitKey([]byte("int a;"), "", Options{})
	if base != UnitKey([]byte("int a;"), "", Options{MemCap: 1_000_000}) {
		t.Error("default options change the key")
	}
	for name, other := range map[string]Digest{
		"content": UnitKey([]byte("int b;"), "", Options{}),
		"pretext": UnitKey([]byte("int a;"), "int p;", Options{}),
		"mem cap": UnitKey([]byte("int a;"), "", Options{MemCap: 10}),
	} {
		if other == base {
			t.Errorf("%s does not change the key", name)
		}
	}

	orig := version.Version
	defer func() { version.Version = orig }()
	version.Version = orig + "+next"
	if UnitKey([]byte("int a;"), "", Options{}) == base {
		t.Error("version does not change the key")
	}
}

func TestProcessFilesCancelled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.ddl", "int a = 1;\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ProcessFiles(ctx, []string{path, path}, Batch{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
