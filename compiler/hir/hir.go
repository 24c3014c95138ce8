// Package hir は意味解析済みの型付きの木と宣言を定義する
package hir

import (
	"fmt"

	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
)

// ExprKind は型付きの式ノードの種類を表す
type ExprKind int

const (
	// Literal は定数。値はValueに入る
	Literal ExprKind = iota
	// Cast はXをTypeへ変換する。暗黙の変換もこれで表す
	Cast
	// Unary はOpをXに適用する(-, ~, !)
	Unary
	// Binary はOpをXとYに適用する。両辺は変換済み
	Binary
	// Logical は短絡評価する && と ||
	Logical
	// Cond は C ? X : Y
	Cond
	// Comma は X を評価して捨て、Y の値を返す
	Comma
)

// Value は畳み込まれた定数値。
// 整数とポインタはBitsに型の幅で符号拡張またはゼロ拡張した値を、浮動小数点はFloatに持つ
type Value struct {
	Bits  uint64
	Float float64
}

// Int は符号付きとして解釈した値を返す
func (v Value) Int() int64 {
	return int64(v.Bits)
}

// Expr は型付きの式
type Expr struct {
	Kind ExprKind
	Op   token.Kind
	Type ctype.Type
	Loc  token.Location

	X, Y, C *Expr

	// Value はこの式の定数値。評価されない位置にある式では意味を持たない
	Value Value
}

// StorageClass は記憶域クラスを表す
type StorageClass int

const (
	Auto StorageClass = iota
	Static
	Extern
)

func (s StorageClass) String() string {
	switch s {
	case Static:
		return "static"
	case Extern:
		return "extern"
	}
	return "auto"
}

// Symbol は名前の付いた変数や関数
type Symbol struct {
	Name    string
	Type    ctype.Type
	Storage StorageClass
	Loc     token.Location
}

// StmtKind は文の種類を表す
type StmtKind int

const (
	Return StmtKind = iota
)

// Stmt は関数本体の文
type Stmt struct {
	Kind StmtKind
	Expr *Expr
	Loc  token.Location
}

// Declaration はシンボルの宣言。Bodyがnilでなければ関数定義
type Declaration struct {
	Symbol *Symbol
	Body   []Stmt
	Loc    token.Location
}

// SymbolTable は翻訳単位内で宣言されたシンボルを管理する
type SymbolTable struct {
	symbols map[string]*Symbol
	order   []string
}

// NewSymbolTable はSymbolTableのインスタンスを生成する
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		symbols: map[string]*Symbol{},
	}
}

// Declare はシンボルを登録する。同名のシンボルが既にあればCompileErrorを返す
func (st *SymbolTable) Declare(sym *Symbol) error {
	if prev, ok := st.symbols[sym.Name]; ok {
		return errs.NewCompileError(fmt.Sprintf("redefinition of '%s'", sym.Name)).
			Wrap(fmt.Errorf("previous definition at %s", prev.Loc))
	}
	st.symbols[sym.Name] = sym
	st.order = append(st.order, sym.Name)
	return nil
}

// Lookup は名前からシンボルを探す
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Symbols は登録順にシンボルを返す
func (st *SymbolTable) Symbols() []*Symbol {
	syms := make([]*Symbol, 0, len(st.order))
	for _, name := range st.order {
		syms = append(syms, st.symbols[name])
	}
	return syms
}
