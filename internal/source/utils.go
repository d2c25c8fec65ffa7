package source

import (
	"path/filepath"
)

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

// buildLineStarts records the offset of every line start.
// \r, \n and \r\n each count as one line break.
func buildLineStarts(content []byte) []uint32 {
	out := make([]uint32, 1, len(content)/32+1)
	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '\r':
			if i+1 < len(content) && content[i+1] == '\n' {
				i++
			}
			out = append(out, uint32(i+1)) // #nosec G115 -- length checked by FileSet.Add
		case '\n':
			out = append(out, uint32(i+1)) // #nosec G115 -- length checked by FileSet.Add
		}
	}
	return out
}

func toTextPos(lineStarts []uint32, off uint32) TextPos {
	if len(lineStarts) == 0 {
		return TextPos{Line: 1, Col: off + 1}
	}

	// бинпоиск: наибольший lineStarts[i] <= off
	lo, hi := 0, len(lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) >> 1
		if lineStarts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return TextPos{Line: uint32(lo + 1), Col: off - lineStarts[lo] + 1} // #nosec G115 -- bounded by line count
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

func dirOf(p string) string {
	d := filepath.Dir(filepath.FromSlash(p))
	if d == "." {
		return ""
	}
	return filepath.ToSlash(d)
}

// JoinInclude resolves an include name against the including file's directory.
// Absolute include names are kept as is.
func JoinInclude(dir, name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) || dir == "" {
		return normalizePath(name)
	}
	return normalizePath(filepath.Join(dir, name))
}
