// Package ast は構文解析直後の型の付いていない式の木を定義する
package ast

import (
	"github.com/kakkky/csole/compiler/token"
)

// Expr は全ての式ノードが実装する
type Expr interface {
	Pos() token.Location
	exprNode()
}

type (
	// IntLit は整数定数
	IntLit struct {
		Loc  token.Location
		Text string
	}

	// FloatLit は浮動小数点定数
	FloatLit struct {
		Loc  token.Location
		Text string
	}

	// CharLit は文字定数。Textは囲みの'を含む
	CharLit struct {
		Loc  token.Location
		Text string
	}

	// Ident は識別子
	Ident struct {
		Loc  token.Location
		Name string
	}

	// Paren は括弧で囲まれた式
	Paren struct {
		Loc token.Location
		X   Expr
	}

	// Unary は前置の単項演算
	Unary struct {
		Loc token.Location
		Op  token.Kind
		X   Expr
	}

	// Postfix は後置の++と--
	Postfix struct {
		Loc token.Location
		Op  token.Kind
		X   Expr
	}

	// Binary は二項演算。カンマ演算子もここに含む
	Binary struct {
		Loc token.Location
		Op  token.Kind
		X   Expr
		Y   Expr
	}

	// Assign は単純代入と複合代入
	Assign struct {
		Loc token.Location
		Op  token.Kind
		X   Expr
		Y   Expr
	}

	// Cond は条件演算子 c ? x : y
	Cond struct {
		Loc  token.Location
		C    Expr
		Then Expr
		Else Expr
	}

	// Cast は (型名) 式
	Cast struct {
		Loc  token.Location
		Type *TypeName
		X    Expr
	}

	// SizeofExpr は sizeof 式 と _Alignof 式
	SizeofExpr struct {
		Loc     token.Location
		Alignof bool
		X       Expr
	}

	// SizeofType は sizeof(型名) と _Alignof(型名)
	SizeofType struct {
		Loc     token.Location
		Alignof bool
		Type    *TypeName
	}

	// Call は関数呼び出し
	Call struct {
		Loc  token.Location
		Fun  Expr
		Args []Expr
	}
)

// TypeName はキャストやsizeofに現れる型名。
// Specifiersは出現順の型指定子・型修飾子、Pointersは*の数
type TypeName struct {
	Loc        token.Location
	Specifiers []token.Kind
	Pointers   int
}

func (e *IntLit) Pos() token.Location     { return e.Loc }
func (e *FloatLit) Pos() token.Location   { return e.Loc }
func (e *CharLit) Pos() token.Location    { return e.Loc }
func (e *Ident) Pos() token.Location      { return e.Loc }
func (e *Paren) Pos() token.Location      { return e.Loc }
func (e *Unary) Pos() token.Location      { return e.Loc }
func (e *Postfix) Pos() token.Location    { return e.Loc }
func (e *Binary) Pos() token.Location     { return e.Loc }
func (e *Assign) Pos() token.Location     { return e.Loc }
func (e *Cond) Pos() token.Location       { return e.Loc }
func (e *Cast) Pos() token.Location       { return e.Loc }
func (e *SizeofExpr) Pos() token.Location { return e.Loc }
func (e *SizeofType) Pos() token.Location { return e.Loc }
func (e *Call) Pos() token.Location       { return e.Loc }

func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*CharLit) exprNode()    {}
func (*Ident) exprNode()      {}
func (*Paren) exprNode()      {}
func (*Unary) exprNode()      {}
func (*Postfix) exprNode()    {}
func (*Binary) exprNode()     {}
func (*Assign) exprNode()     {}
func (*Cond) exprNode()       {}
func (*Cast) exprNode()       {}
func (*SizeofExpr) exprNode() {}
func (*SizeofType) exprNode() {}
func (*Call) exprNode()       {}
