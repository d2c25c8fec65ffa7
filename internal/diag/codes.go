package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo            Code = 1000
	LexIllegalChar     Code = 1001
	LexBrokenNumber    Code = 1002
	LexHexWord         Code = 1003
	LexSingleQMark     Code = 1004
	LexUnclosedComment Code = 1005
	LexBrokenString    Code = 1006

	// Парсерные
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynExpectSemicolon Code = 2002
	SynExpectName      Code = 2003
	SynExpectType      Code = 2004
	SynExpectExpr      Code = 2005
	SynUnclosedBrace   Code = 2006
	SynBadLiteral      Code = 2007
	SynBadInclude      Code = 2008

	// Имена и области видимости
	NamInfo            Code = 3000
	NamTypeDup         Code = 3001
	NamConstDup        Code = 3002
	NamStructDup       Code = 3003
	NamFieldDup        Code = 3004
	NamKindConflict    Code = 3005
	NamUndefinedName   Code = 3006
	NamUndefinedScope  Code = 3007
	NamTooManyDots     Code = 3008
	NamQNameNotAllowed Code = 3009
	NamLinkFailed      Code = 3010

	// Типы
	TypInfo         Code = 4000
	TypCyclicType   Code = 4001
	TypCyclicStruct Code = 4002
	TypBadDomain    Code = 4003

	// Вычисление
	EvlInfo           Code = 5000
	EvlOverflow       Code = 5001
	EvlDivByZero      Code = 5002
	EvlRange          Code = 5003
	EvlTypeMismatch   Code = 5004
	EvlPtrType        Code = 5005
	EvlNullPtr        Code = 5006
	EvlPtrArith       Code = 5007
	EvlPtrDiff        Code = 5008
	EvlBadIndex       Code = 5009
	EvlNotAddressable Code = 5010
	EvlTooManyElems   Code = 5011
	EvlUnknownField   Code = 5012
	EvlMemGuard       Code = 5013
	EvlRecursive      Code = 5014
	EvlUndefinedQName Code = 5015
	EvlBadDeref       Code = 5016

	// Движок и файлы
	EngInfo            Code = 6000
	EngTooManyFiles    Code = 6001
	EngTooManyIncludes Code = 6002
	EngBadFileName     Code = 6003
	EngFileRead        Code = 6004
	EngFileTooLong     Code = 6005
)

var codeDescription = map[Code]string{
	UnknownCode:        "Unknown error",
	LexInfo:            "Lexical information",
	LexIllegalChar:     "Illegal character",
	LexBrokenNumber:    "Malformed number",
	LexHexWord:         "Word is spelled as a hex number",
	LexSingleQMark:     "Single question mark",
	LexUnclosedComment: "Long comment is not closed",
	LexBrokenString:    "Malformed string literal",
	SynInfo:            "Syntax information",
	SynUnexpectedToken: "Unexpected token",
	SynExpectSemicolon: "Expected ';'",
	SynExpectName:      "Expected a name",
	SynExpectType:      "Expected a type",
	SynExpectExpr:      "Expected an expression",
	SynUnclosedBrace:   "Unclosed brace",
	SynBadLiteral:      "Malformed literal",
	SynBadInclude:      "Malformed include",
	NamInfo:            "Name information",
	NamTypeDup:         "Type name duplication",
	NamConstDup:        "Constant name duplication",
	NamStructDup:       "Structure name duplication",
	NamFieldDup:        "Field name duplication",
	NamKindConflict:    "Same name of different kind",
	NamUndefinedName:   "Undefined name",
	NamUndefinedScope:  "Undefined scope",
	NamTooManyDots:     "Too many dots",
	NamQNameNotAllowed: "QName is not allowed here",
	NamLinkFailed:      "Name link error",
	TypInfo:            "Type information",
	TypCyclicType:      "Cyclic type definition",
	TypCyclicStruct:    "Cyclic struct definition",
	TypBadDomain:       "Bad domain type",
	EvlInfo:            "Evaluation information",
	EvlOverflow:        "Integer overflow",
	EvlDivByZero:       "Division by zero",
	EvlRange:           "Value out of range",
	EvlTypeMismatch:    "Type mismatch",
	EvlPtrType:         "Pointer type mismatch",
	EvlNullPtr:         "Null pointer",
	EvlPtrArith:        "Bad pointer arithmetic",
	EvlPtrDiff:         "Bad pointer difference",
	EvlBadIndex:        "Index out of range",
	EvlNotAddressable:  "Expression is not addressable",
	EvlTooManyElems:    "Too many initializers",
	EvlUnknownField:    "Unknown field",
	EvlMemGuard:        "Memory guard exceeded",
	EvlRecursive:       "Recursive constant",
	EvlUndefinedQName:  "Undefined late-bound name",
	EvlBadDeref:        "Bad dereference",
	EngInfo:            "Engine information",
	EngTooManyFiles:    "Too many open files",
	EngTooManyIncludes: "Too many included files",
	EngBadFileName:     "Bad file name",
	EngFileRead:        "File read error",
	EngFileTooLong:     "File is too long",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("NAM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("TYP%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("EVL%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("ENG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
