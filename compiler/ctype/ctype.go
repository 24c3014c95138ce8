// Package ctype はCの型とLP64での大きさ、暗黙の型変換の規則を定義する
package ctype

import (
	"fmt"
	"strings"
)

// Kind は型の種類を表す。評価結果のデコード方法はこの種類と符号の有無で決まる
type Kind int

const (
	Void Kind = iota
	Bool
	Char
	Short
	Int
	Long
	LongLong
	Float
	Double
	Pointer
	Array
	Function
)

// Kinds は全ての型の種類を宣言順に並べたもの
var Kinds = []Kind{Void, Bool, Char, Short, Int, Long, LongLong, Float, Double, Pointer, Array, Function}

func (k Kind) String() string {
	switch k {
	case Void:
		return "void"
	case Bool:
		return "_Bool"
	case Char:
		return "char"
	case Short:
		return "short"
	case Int:
		return "int"
	case Long:
		return "long"
	case LongLong:
		return "long long"
	case Float:
		return "float"
	case Double:
		return "double"
	case Pointer:
		return "pointer"
	case Array:
		return "array"
	case Function:
		return "function"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Type はCの型を表す。
// Unsignedは整数型にのみ意味を持つ。ElemはPointerとArrayの要素型、LenはArrayの長さ
type Type struct {
	Kind     Kind
	Unsigned bool
	Elem     *Type
	Len      int
	Func     *FuncType
}

// FuncType は関数型の戻り値と引数を表す
type FuncType struct {
	Return   Type
	Params   []Type
	Variadic bool
}

var (
	VoidType      = Type{Kind: Void}
	BoolType      = Type{Kind: Bool, Unsigned: true}
	CharType      = Type{Kind: Char}
	UCharType     = Type{Kind: Char, Unsigned: true}
	ShortType     = Type{Kind: Short}
	UShortType    = Type{Kind: Short, Unsigned: true}
	IntType       = Type{Kind: Int}
	UIntType      = Type{Kind: Int, Unsigned: true}
	LongType      = Type{Kind: Long}
	ULongType     = Type{Kind: Long, Unsigned: true}
	LongLongType  = Type{Kind: LongLong}
	ULongLongType = Type{Kind: LongLong, Unsigned: true}
	FloatType     = Type{Kind: Float}
	DoubleType    = Type{Kind: Double}
)

// PointerTo はelemを指すポインタ型を返す
func PointerTo(elem Type) Type {
	return Type{Kind: Pointer, Unsigned: true, Elem: &elem}
}

// FunctionOf は関数型を返す
func FunctionOf(ret Type, params []Type, variadic bool) Type {
	return Type{Kind: Function, Func: &FuncType{Return: ret, Params: params, Variadic: variadic}}
}

// IsInteger は整数型(_Boolを含む)かどうかを判定する
func (t Type) IsInteger() bool {
	switch t.Kind {
	case Bool, Char, Short, Int, Long, LongLong:
		return true
	}
	return false
}

// IsFloating は浮動小数点型かどうかを判定する
func (t Type) IsFloating() bool {
	return t.Kind == Float || t.Kind == Double
}

// IsArithmetic は算術型かどうかを判定する
func (t Type) IsArithmetic() bool {
	return t.IsInteger() || t.IsFloating()
}

// IsScalar はスカラ型(算術型とポインタ)かどうかを判定する
func (t Type) IsScalar() bool {
	return t.IsArithmetic() || t.Kind == Pointer
}

// IsSigned は符号付き整数型かどうかを判定する
func (t Type) IsSigned() bool {
	return t.IsInteger() && !t.Unsigned
}

// Size はバイト単位の大きさを返す。不完全型は0
func (t Type) Size() int {
	switch t.Kind {
	case Bool, Char:
		return 1
	case Short:
		return 2
	case Int, Float:
		return 4
	case Long, LongLong, Double, Pointer:
		return 8
	case Array:
		return t.Len * t.Elem.Size()
	}
	return 0
}

// Align はバイト単位のアラインメントを返す
func (t Type) Align() int {
	if t.Kind == Array {
		return t.Elem.Align()
	}
	return t.Size()
}

// Width はビット幅を返す
func (t Type) Width() int {
	return t.Size() * 8
}

// Equal は2つの型が同一かどうかを判定する
func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind || t.Unsigned != o.Unsigned || t.Len != o.Len {
		return false
	}
	if (t.Elem == nil) != (o.Elem == nil) || (t.Elem != nil && !t.Elem.Equal(*o.Elem)) {
		return false
	}
	if (t.Func == nil) != (o.Func == nil) {
		return false
	}
	if t.Func != nil {
		if !t.Func.Return.Equal(o.Func.Return) || t.Func.Variadic != o.Func.Variadic || len(t.Func.Params) != len(o.Func.Params) {
			return false
		}
		for i := range t.Func.Params {
			if !t.Func.Params[i].Equal(o.Func.Params[i]) {
				return false
			}
		}
	}
	return true
}

// String はCの表記で型を返す
func (t Type) String() string {
	switch t.Kind {
	case Bool, Void, Float, Double:
		return t.Kind.String()
	case Char, Short, Int, Long, LongLong:
		if t.Unsigned {
			return "unsigned " + t.Kind.String()
		}
		return t.Kind.String()
	case Pointer:
		elem := t.Elem.String()
		if t.Elem.Kind == Pointer {
			return elem + "*"
		}
		return elem + " *"
	case Array:
		return fmt.Sprintf("%s [%d]", t.Elem, t.Len)
	case Function:
		params := make([]string, 0, len(t.Func.Params)+1)
		for _, param := range t.Func.Params {
			params = append(params, param.String())
		}
		if t.Func.Variadic {
			params = append(params, "...")
		}
		if len(params) == 0 {
			params = append(params, "void")
		}
		return fmt.Sprintf("%s (%s)", t.Func.Return, strings.Join(params, ", "))
	}
	return t.Kind.String()
}

func (t Type) rank() int {
	switch t.Kind {
	case Bool:
		return 1
	case Char:
		return 2
	case Short:
		return 3
	case Int:
		return 4
	case Long:
		return 5
	case LongLong:
		return 6
	}
	return 0
}

// Promote は整数拡張を行う。intより小さい整数型はintになる
func Promote(t Type) Type {
	if t.IsInteger() && t.rank() < IntType.rank() {
		return IntType
	}
	return t
}

// UsualArithmetic は二項演算の両辺に適用される通常の算術型変換の結果の型を返す
func UsualArithmetic(a, b Type) Type {
	if a.Kind == Double || b.Kind == Double {
		return DoubleType
	}
	if a.Kind == Float || b.Kind == Float {
		return FloatType
	}
	a, b = Promote(a), Promote(b)
	if a.Equal(b) {
		return a
	}
	if a.Unsigned == b.Unsigned {
		if a.rank() >= b.rank() {
			return a
		}
		return b
	}
	signed, unsigned := a, b
	if a.Unsigned {
		signed, unsigned = b, a
	}
	if unsigned.rank() >= signed.rank() {
		return unsigned
	}
	if signed.Size() > unsigned.Size() {
		return signed
	}
	signed.Unsigned = true
	return signed
}
