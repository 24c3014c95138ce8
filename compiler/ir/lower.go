package ir

import (
	"fmt"
	"math"

	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
)

// Compile は関数定義の並びをモジュールに変換する。本体を持たない宣言は命令を生成しない
func Compile(decls []*hir.Declaration) (*Module, error) {
	unit := hir.NewSymbolTable()
	module := &Module{}
	for _, decl := range decls {
		if err := unit.Declare(decl.Symbol); err != nil {
			return nil, err
		}
		if decl.Body == nil {
			continue
		}
		fn, err := lowerFunction(decl)
		if err != nil {
			return nil, errs.NewCompileError(fmt.Sprintf("cannot compile '%s'", decl.Symbol.Name)).Wrap(err)
		}
		module.Functions = append(module.Functions, fn)
	}
	return module, nil
}

type lowerer struct {
	fn    *Function
	depth int
}

func lowerFunction(decl *hir.Declaration) (*Function, error) {
	sym := decl.Symbol
	if sym.Type.Kind != ctype.Function {
		return nil, fmt.Errorf("'%s' is not a function", sym.Name)
	}
	if len(sym.Type.Func.Params) != 0 || sym.Type.Func.Variadic {
		return nil, fmt.Errorf("functions with parameters are not supported")
	}
	if len(decl.Body) != 1 || decl.Body[0].Kind != hir.Return {
		return nil, fmt.Errorf("function body must be a single return statement")
	}

	l := &lowerer{fn: &Function{Name: sym.Name, Type: sym.Type}}
	ret := sym.Type.Func.Return
	e := decl.Body[0].Expr
	if ret.Kind == ctype.Void {
		if e != nil {
			l.discard(e)
		}
		l.emit(Instr{Op: OpRetVoid})
		return l.fn, nil
	}
	if e == nil {
		return nil, fmt.Errorf("non-void function '%s' must return a value", sym.Name)
	}
	if !e.Type.Equal(ret) {
		return nil, fmt.Errorf("returning '%s' from a function with result type '%s'", e.Type, ret)
	}
	l.expr(e)
	l.emit(Instr{Op: OpRet})
	return l.fn, nil
}

func (l *lowerer) emit(in Instr) {
	switch {
	case in.Op == OpConst:
		l.push()
	case in.Op.IsBinary():
		// 2つ取り出して1つ積む
		l.depth -= 2
		l.push()
	case in.Op == OpPop, in.Op == OpJz, in.Op == OpRet:
		l.depth--
	}
	l.fn.Code = append(l.fn.Code, in)
}

func (l *lowerer) push() {
	l.depth++
	if l.depth > l.fn.MaxDepth {
		l.fn.MaxDepth = l.depth
	}
}

func (l *lowerer) newLabel() int {
	l.fn.Labels++
	return l.fn.Labels - 1
}

// normalize は直前の演算結果をtの表現に揃える
func (l *lowerer) normalize(t ctype.Type) {
	switch {
	case t.Kind == ctype.Bool:
		l.emit(Instr{Op: OpBool})
	case t.IsInteger() && t.Width() < 64:
		l.emit(Instr{Op: OpExt, Width: uint8(t.Width()), Signed: t.IsSigned()})
	}
}

// discard はeを評価して値を捨てる
func (l *lowerer) discard(e *hir.Expr) {
	l.expr(e)
	if e.Type.Kind != ctype.Void {
		l.emit(Instr{Op: OpPop})
	}
}

func hasFloating(e *hir.Expr) bool {
	if e.Type.IsFloating() {
		return true
	}
	for _, operand := range []*hir.Expr{e.X, e.Y, e.C} {
		if operand != nil && operand.Type.IsFloating() {
			return true
		}
	}
	return false
}

// expr はeの値をスタックに積む命令を生成する。void型の式は何も積まない
func (l *lowerer) expr(e *hir.Expr) {
	// 浮動小数点の演算は生成せず、解析時に畳み込んだ値を使う
	if hasFloating(e) && e.Kind != hir.Comma {
		switch {
		case e.Type.Kind == ctype.Void:
		case e.Type.IsFloating():
			l.emit(Instr{Op: OpConst, Imm: math.Float64bits(e.Value.Float)})
		default:
			l.emit(Instr{Op: OpConst, Imm: e.Value.Bits})
		}
		return
	}

	switch e.Kind {
	case hir.Literal:
		l.emit(Instr{Op: OpConst, Imm: e.Value.Bits})
	case hir.Cast:
		if e.Type.Kind == ctype.Void {
			l.discard(e.X)
			return
		}
		l.expr(e.X)
		l.normalize(e.Type)
	case hir.Unary:
		l.expr(e.X)
		switch e.Op {
		case token.SUB:
			l.emit(Instr{Op: OpNeg})
			l.normalize(e.Type)
		case token.TILDE:
			l.emit(Instr{Op: OpNot})
			l.normalize(e.Type)
		case token.NOT:
			l.emit(Instr{Op: OpLNot})
		}
	case hir.Binary:
		l.expr(e.X)
		l.expr(e.Y)
		op := binaryOps[e.Op]
		// 比較の符号は被演算子の型で決まる
		signed := e.Type.IsSigned()
		if op >= OpEq {
			signed = e.X.Type.IsSigned()
		}
		l.emit(Instr{Op: op, Signed: signed})
		if op < OpEq {
			l.normalize(e.Type)
		}
	case hir.Logical:
		l.logical(e)
	case hir.Cond:
		l.cond(e)
	case hir.Comma:
		l.discard(e.X)
		l.expr(e.Y)
	}
}

var binaryOps = map[token.Kind]Op{
	token.ADD: OpAdd,
	token.SUB: OpSub,
	token.MUL: OpMul,
	token.QUO: OpDiv,
	token.REM: OpRem,
	token.AND: OpAnd,
	token.OR:  OpOr,
	token.XOR: OpXor,
	token.SHL: OpShl,
	token.SHR: OpShr,
	token.EQL: OpEq,
	token.NEQ: OpNe,
	token.LSS: OpLt,
	token.LEQ: OpLe,
	token.GTR: OpGt,
	token.GEQ: OpGe,
}

// logical は短絡評価を分岐で表す
//
//	x && y:  x; jz F; y; bool; jmp E; F: const 0; E:
//	x || y:  x; jz R; const 1; jmp E; R: y; bool; E:
func (l *lowerer) logical(e *hir.Expr) {
	second, end := l.newLabel(), l.newLabel()
	l.expr(e.X)
	l.emit(Instr{Op: OpJz, Label: second})
	if e.Op == token.LAND {
		l.expr(e.Y)
		l.emit(Instr{Op: OpBool})
	} else {
		l.emit(Instr{Op: OpConst, Imm: 1})
	}
	l.emit(Instr{Op: OpJmp, Label: end})
	// 両方の経路は同じ深さで合流する
	l.depth--
	l.emit(Instr{Op: OpLabel, Label: second})
	if e.Op == token.LAND {
		l.emit(Instr{Op: OpConst, Imm: 0})
	} else {
		l.expr(e.Y)
		l.emit(Instr{Op: OpBool})
	}
	l.emit(Instr{Op: OpLabel, Label: end})
}

func (l *lowerer) cond(e *hir.Expr) {
	els, end := l.newLabel(), l.newLabel()
	l.expr(e.C)
	l.emit(Instr{Op: OpJz, Label: els})
	l.expr(e.X)
	l.emit(Instr{Op: OpJmp, Label: end})
	if e.Type.Kind != ctype.Void {
		l.depth--
	}
	l.emit(Instr{Op: OpLabel, Label: els})
	l.expr(e.Y)
	l.emit(Instr{Op: OpLabel, Label: end})
}
