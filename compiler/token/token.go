package token

import (
	"fmt"
	"sort"
)

// Kind はトークンの種類を表す
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	IDENT
	INT
	FLOAT
	CHAR

	// 区切り子
	LPAREN   // (
	RPAREN   // )
	COMMA    // ,
	QUESTION // ?
	COLON    // :

	ADD // +
	SUB // -
	MUL // *
	QUO // /
	REM // %

	AND     // &
	OR      // |
	XOR     // ^
	SHL     // <<
	SHR     // >>
	TILDE   // ~
	NOT     // !
	LAND    // &&
	LOR     // ||
	INC     // ++
	DEC     // --
	EQL     // ==
	NEQ     // !=
	LSS     // <
	GTR     // >
	LEQ     // <=
	GEQ     // >=
	ASSIGN  // =
	ADD_ASSIGN
	SUB_ASSIGN
	MUL_ASSIGN
	QUO_ASSIGN
	REM_ASSIGN
	AND_ASSIGN
	OR_ASSIGN
	XOR_ASSIGN
	SHL_ASSIGN
	SHR_ASSIGN

	keywordBeg
	VOID
	BOOL
	CHAR_KW
	SHORT
	INT_KW
	LONG
	FLOAT_KW
	DOUBLE
	SIGNED
	UNSIGNED
	CONST
	VOLATILE
	SIZEOF
	ALIGNOF
	keywordEnd
)

var kindStrings = map[Kind]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "end of input",
	IDENT:   "identifier",
	INT:     "integer constant",
	FLOAT:   "floating constant",
	CHAR:    "character constant",

	LPAREN:   "(",
	RPAREN:   ")",
	COMMA:    ",",
	QUESTION: "?",
	COLON:    ":",

	ADD: "+",
	SUB: "-",
	MUL: "*",
	QUO: "/",
	REM: "%",

	AND:        "&",
	OR:         "|",
	XOR:        "^",
	SHL:        "<<",
	SHR:        ">>",
	TILDE:      "~",
	NOT:        "!",
	LAND:       "&&",
	LOR:        "||",
	INC:        "++",
	DEC:        "--",
	EQL:        "==",
	NEQ:        "!=",
	LSS:        "<",
	GTR:        ">",
	LEQ:        "<=",
	GEQ:        ">=",
	ASSIGN:     "=",
	ADD_ASSIGN: "+=",
	SUB_ASSIGN: "-=",
	MUL_ASSIGN: "*=",
	QUO_ASSIGN: "/=",
	REM_ASSIGN: "%=",
	AND_ASSIGN: "&=",
	OR_ASSIGN:  "|=",
	XOR_ASSIGN: "^=",
	SHL_ASSIGN: "<<=",
	SHR_ASSIGN: ">>=",

	VOID:     "void",
	BOOL:     "_Bool",
	CHAR_KW:  "char",
	SHORT:    "short",
	INT_KW:   "int",
	LONG:     "long",
	FLOAT_KW: "float",
	DOUBLE:   "double",
	SIGNED:   "signed",
	UNSIGNED: "unsigned",
	CONST:    "const",
	VOLATILE: "volatile",
	SIZEOF:   "sizeof",
	ALIGNOF:  "_Alignof",
}

func (k Kind) String() string {
	if s, ok := kindStrings[k]; ok {
		return s
	}
	return fmt.Sprintf("token(%d)", int(k))
}

var keywords map[string]Kind

func init() {
	keywords = make(map[string]Kind, keywordEnd-keywordBeg)
	for k := keywordBeg + 1; k < keywordEnd; k++ {
		keywords[kindStrings[k]] = k
	}
	keywords["signed"] = SIGNED
	keywords["__signed__"] = SIGNED
	keywords["__const"] = CONST
	keywords["__volatile__"] = VOLATILE
	keywords["__alignof__"] = ALIGNOF
}

// Lookup は識別子がキーワードであればそのKindを、そうでなければIDENTを返す
func Lookup(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return IDENT
}

// Keywords はキーワードの綴りを辞書順に返す
func Keywords() []string {
	words := make([]string, 0, len(keywords))
	for word := range keywords {
		words = append(words, word)
	}
	sort.Strings(words)
	return words
}

// IsKeyword はKindがキーワードかどうかを判定する
func (k Kind) IsKeyword() bool {
	return keywordBeg < k && k < keywordEnd
}

// IsAssign は代入演算子かどうかを判定する
func (k Kind) IsAssign() bool {
	return k >= ASSIGN && k <= SHR_ASSIGN
}

// IsTypeSpecifier は型名を構成しうるキーワードかどうかを判定する
func (k Kind) IsTypeSpecifier() bool {
	switch k {
	case VOID, BOOL, CHAR_KW, SHORT, INT_KW, LONG, FLOAT_KW, DOUBLE, SIGNED, UNSIGNED, CONST, VOLATILE:
		return true
	}
	return false
}

// Location はソース上の位置を表す。LineとColumnは1始まり
type Location struct {
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Token は字句解析の結果の1トークンを表す
type Token struct {
	Kind Kind
	Text string
	Loc  Location
}

func (t Token) String() string {
	switch t.Kind {
	case IDENT, INT, FLOAT, CHAR:
		return fmt.Sprintf("'%s'", t.Text)
	case EOF:
		return t.Kind.String()
	}
	return fmt.Sprintf("'%s'", t.Kind.String())
}
