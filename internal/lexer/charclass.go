package lexer

// CharClass is the tokenizer's first-character dispatch class.
type CharClass uint8

const (
	ClassOther CharClass = iota
	ClassDigit
	ClassLetter
	ClassQMark
	ClassPunct
	ClassSpace
)

var charClass = func() (t [256]CharClass) {
	for c := '0'; c <= '9'; c++ {
		t[c] = ClassDigit
	}
	for c := 'a'; c <= 'z'; c++ {
		t[c] = ClassLetter
		t[c-'a'+'A'] = ClassLetter
	}
	t['_'] = ClassLetter
	t['?'] = ClassQMark
	for _, c := range "!#$%&()*+,-./:;=>@[\\]^`{|}~" {
		t[c] = ClassPunct
	}
	for _, c := range " \t\r\n\v\f" {
		t[c] = ClassSpace
	}
	return t
}()

// ClassOf returns the dispatch class of b. Quotes and '<' are ClassOther.
func ClassOf(b byte) CharClass {
	return charClass[b]
}

func isLetterDigit(b byte) bool {
	c := charClass[b]
	return c == ClassLetter || c == ClassDigit
}

func isSpace(b byte) bool { return charClass[b] == ClassSpace }

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isBin(b byte) bool { return b == '0' || b == '1' }

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}

// isVisible reports printable bytes; bytes of multi-byte UTF-8 sequences count as printable.
func isVisible(b byte) bool {
	return b >= 0x20 && b != 0x7F
}

func isEOL(b byte) bool { return b == '\r' || b == '\n' }

func all(s string, pred func(byte) bool) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !pred(s[i]) {
			return false
		}
	}
	return true
}

// hexWord reports a letter-led run that reads as a hex literal: an all-hex
// body followed by an h/H suffix.
func hexWord(s string) bool {
	if len(s) < 2 {
		return false
	}
	if last := s[len(s)-1]; last != 'h' && last != 'H' {
		return false
	}
	return all(s[:len(s)-1], isHex)
}
