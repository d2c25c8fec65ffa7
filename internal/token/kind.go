package token

// Kind represents the class of a source token.
type Kind uint8

const (
	// Other marks a lexical error; the text covers what was consumed.
	Other Kind = iota
	// EOF marks the end of the source input.
	EOF

	Dec // 123
	Bin // 101b
	Hex // 0FFh

	Word  // name
	QWord // ?name

	Punct // one-character symbol
	Arrow // ->
	Dots  // . .. ...

	BString // <file>
	SString // 'text'
	DString // "text"

	Space
	ShortComment // // ...
	LongComment  // /* ... */
)

var kindNames = [...]string{
	Other:        "other",
	EOF:          "end-of-file",
	Dec:          "dec-number",
	Bin:          "bin-number",
	Hex:          "hex-number",
	Word:         "word",
	QWord:        "qword",
	Punct:        "punct-symbol",
	Arrow:        "punct-arrow",
	Dots:         "punct-dots",
	BString:      "b-string",
	SString:      "s-string",
	DString:      "d-string",
	Space:        "space",
	ShortComment: "short comment",
	LongComment:  "long comment",
}

// String returns the descriptive name of the class.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsNumber reports whether the class is one of the numerals.
func (k Kind) IsNumber() bool {
	return k == Dec || k == Bin || k == Hex
}

// IsString reports whether the class is one of the quoted literals.
func (k Kind) IsString() bool {
	return k == BString || k == SString || k == DString
}

// IsTrivia reports whether the parser skips tokens of this class.
func (k Kind) IsTrivia() bool {
	return k == Space || k == ShortComment || k == LongComment
}
