package diagfmt

import (
	"path/filepath"
	"strings"

	"ddl/internal/source"
)

const autoPathLimit = 40

func formatPath(f *source.File, mode PathMode, base string) string {
	p := f.Path
	switch mode {
	case PathModeAbsolute:
		if f.Flags&source.FileVirtual == 0 {
			if abs, err := filepath.Abs(filepath.FromSlash(p)); err == nil {
				return filepath.ToSlash(abs)
			}
		}
		return p
	case PathModeRelative:
		if base == "" {
			return p
		}
		rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(p))
		if err != nil || strings.HasPrefix(rel, "..") {
			return p
		}
		return filepath.ToSlash(rel)
	case PathModeBasename:
		return filepath.Base(p)
	}
	if filepath.IsAbs(filepath.FromSlash(p)) && len(p) > autoPathLimit {
		return filepath.Base(p)
	}
	return p
}
