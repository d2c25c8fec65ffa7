package token

// Keyword identifies a reserved word of the DDL grammar.
type Keyword uint8

const (
	KwNone Keyword = iota

	KwType
	KwStruct
	KwScope
	KwInclude
	KwNull

	// built-in types
	KwInt
	KwSint
	KwUint
	KwUlen
	KwSint8
	KwUint8
	KwSint16
	KwUint16
	KwSint32
	KwUint32
	KwSint64
	KwUint64
	KwText
	KwIP
)

var keywords = map[string]Keyword{
	"type":    KwType,
	"struct":  KwStruct,
	"scope":   KwScope,
	"include": KwInclude,
	"null":    KwNull,
	"int":     KwInt,
	"sint":    KwSint,
	"uint":    KwUint,
	"ulen":    KwUlen,
	"sint8":   KwSint8,
	"uint8":   KwUint8,
	"sint16":  KwSint16,
	"uint16":  KwUint16,
	"sint32":  KwSint32,
	"uint32":  KwUint32,
	"sint64":  KwSint64,
	"uint64":  KwUint64,
	"text":    KwText,
	"ip":      KwIP,
}

// LookupKeyword возвращает ключевое слово и bool, если это ключевое слово.
// Регистр важен.
func LookupKeyword(word string) (Keyword, bool) {
	k, ok := keywords[word]
	return k, ok
}

// IsBaseType reports whether the keyword names a built-in type.
func (k Keyword) IsBaseType() bool {
	return k >= KwInt && k <= KwIP
}
