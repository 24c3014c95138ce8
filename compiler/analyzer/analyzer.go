// Package analyzer は構文木に型を付け、暗黙の型変換を明示し、定数を畳み込む。
// 構文としては正しくても意味的に受け付けられない式はSemanticErrorとして報告する。
package analyzer

import (
	"github.com/kakkky/csole/compiler/ast"
	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
)

// Analyzer は式の意味解析を担う
type Analyzer struct {
	scope *hir.SymbolTable

	// 0より大きい間は評価されない位置(短絡される側、選ばれない分岐、sizeofの被演算子)を解析している
	unevaluated int
}

// New はAnalyzerのインスタンスを生成する。scopeは式から参照できるシンボル
func New(scope *hir.SymbolTable) *Analyzer {
	if scope == nil {
		scope = hir.NewSymbolTable()
	}
	return &Analyzer{scope: scope}
}

// Expr は式を解析して型付きの式を返す
func (a *Analyzer) Expr(x ast.Expr) (*hir.Expr, error) {
	return a.expr(x)
}

func (a *Analyzer) expr(x ast.Expr) (*hir.Expr, error) {
	switch x := x.(type) {
	case *ast.IntLit:
		return intLit(x)
	case *ast.FloatLit:
		return floatLit(x)
	case *ast.CharLit:
		return charLit(x)
	case *ast.Ident:
		return a.ident(x)
	case *ast.Paren:
		return a.expr(x.X)
	case *ast.Unary:
		return a.unary(x)
	case *ast.Postfix:
		if _, err := a.expr(x.X); err != nil {
			return nil, err
		}
		return nil, errs.NewSemanticError(x.Loc, "expression is not assignable")
	case *ast.Assign:
		if _, err := a.expr(x.X); err != nil {
			return nil, err
		}
		return nil, errs.NewSemanticError(x.Loc, "expression is not assignable")
	case *ast.Binary:
		switch x.Op {
		case token.COMMA:
			return a.comma(x)
		case token.LAND, token.LOR:
			return a.logical(x)
		}
		return a.binary(x)
	case *ast.Cond:
		return a.cond(x)
	case *ast.Cast:
		return a.cast(x)
	case *ast.SizeofExpr:
		return a.sizeofExpr(x)
	case *ast.SizeofType:
		return a.sizeofType(x)
	case *ast.Call:
		fun, err := a.expr(x.Fun)
		if err != nil {
			return nil, err
		}
		return nil, errs.NewSemanticError(x.Loc, "called object type '%s' is not a function", fun.Type)
	}
	return nil, errs.NewInternalError("unknown expression node")
}

func (a *Analyzer) ident(x *ast.Ident) (*hir.Expr, error) {
	if _, ok := a.scope.Lookup(x.Name); !ok {
		return nil, errs.NewSemanticError(x.Loc, "use of undeclared identifier '%s'", x.Name)
	}
	// 宣言済みのシンボルはあっても値を持たないので、定数式としては使えない
	return nil, errs.NewSemanticError(x.Loc, "'%s' cannot be used in a constant expression", x.Name)
}

// convert はeをto型へ変換する式を返す。同じ型ならeをそのまま返す
func convert(e *hir.Expr, to ctype.Type) *hir.Expr {
	if e.Type.Equal(to) {
		return e
	}
	return &hir.Expr{
		Kind:  hir.Cast,
		Type:  to,
		Loc:   e.Loc,
		X:     e,
		Value: convertValue(e.Value, e.Type, to),
	}
}

func (a *Analyzer) unary(x *ast.Unary) (*hir.Expr, error) {
	operand, err := a.expr(x.X)
	if err != nil {
		return nil, err
	}
	invalid := func() (*hir.Expr, error) {
		return nil, errs.NewSemanticError(x.Loc, "invalid argument type '%s' to unary expression", operand.Type)
	}

	switch x.Op {
	case token.INC, token.DEC:
		return nil, errs.NewSemanticError(x.Loc, "expression is not assignable")
	case token.ADD:
		if !operand.Type.IsArithmetic() {
			return invalid()
		}
		return convert(operand, ctype.Promote(operand.Type)), nil
	case token.SUB:
		if !operand.Type.IsArithmetic() {
			return invalid()
		}
		operand = convert(operand, ctype.Promote(operand.Type))
		e := &hir.Expr{Kind: hir.Unary, Op: token.SUB, Type: operand.Type, Loc: x.Loc, X: operand}
		if operand.Type.IsFloating() {
			e.Value = hir.Value{Float: -operand.Value.Float}
		} else {
			e.Value = hir.Value{Bits: normalize(-operand.Value.Bits, operand.Type)}
		}
		return e, nil
	case token.TILDE:
		if !operand.Type.IsInteger() {
			return invalid()
		}
		operand = convert(operand, ctype.Promote(operand.Type))
		return &hir.Expr{
			Kind:  hir.Unary,
			Op:    token.TILDE,
			Type:  operand.Type,
			Loc:   x.Loc,
			X:     operand,
			Value: hir.Value{Bits: normalize(^operand.Value.Bits, operand.Type)},
		}, nil
	case token.NOT:
		if !operand.Type.IsScalar() {
			return invalid()
		}
		return &hir.Expr{
			Kind:  hir.Unary,
			Op:    token.NOT,
			Type:  ctype.IntType,
			Loc:   x.Loc,
			X:     operand,
			Value: hir.Value{Bits: b2u(!isTrue(operand.Value, operand.Type))},
		}, nil
	}
	return nil, errs.NewInternalError("unknown unary operator " + x.Op.String())
}

func (a *Analyzer) binary(x *ast.Binary) (*hir.Expr, error) {
	l, err := a.expr(x.X)
	if err != nil {
		return nil, err
	}
	r, err := a.expr(x.Y)
	if err != nil {
		return nil, err
	}
	invalid := func() (*hir.Expr, error) {
		return nil, errs.NewSemanticError(x.Loc, "invalid operands to binary expression ('%s' and '%s')", l.Type, r.Type)
	}
	lt, rt := l.Type, r.Type

	switch x.Op {
	case token.MUL, token.QUO:
		if !lt.IsArithmetic() || !rt.IsArithmetic() {
			return invalid()
		}
		return a.arith(x.Op, x.Loc, l, r, ctype.UsualArithmetic(lt, rt))
	case token.REM, token.AND, token.OR, token.XOR:
		if !lt.IsInteger() || !rt.IsInteger() {
			return invalid()
		}
		return a.arith(x.Op, x.Loc, l, r, ctype.UsualArithmetic(lt, rt))
	case token.ADD:
		switch {
		case lt.IsArithmetic() && rt.IsArithmetic():
			return a.arith(x.Op, x.Loc, l, r, ctype.UsualArithmetic(lt, rt))
		case lt.Kind == ctype.Pointer && rt.IsInteger():
			return a.pointerOffset(x.Op, x.Loc, l, r)
		case lt.IsInteger() && rt.Kind == ctype.Pointer:
			return a.pointerOffset(x.Op, x.Loc, r, l)
		}
		return invalid()
	case token.SUB:
		switch {
		case lt.IsArithmetic() && rt.IsArithmetic():
			return a.arith(x.Op, x.Loc, l, r, ctype.UsualArithmetic(lt, rt))
		case lt.Kind == ctype.Pointer && rt.IsInteger():
			return a.pointerOffset(x.Op, x.Loc, l, r)
		case lt.Kind == ctype.Pointer && rt.Kind == ctype.Pointer:
			return a.pointerDiff(x.Loc, l, r)
		}
		return invalid()
	case token.SHL, token.SHR:
		if !lt.IsInteger() || !rt.IsInteger() {
			return invalid()
		}
		return a.shift(x.Op, x.Loc, l, r)
	case token.LSS, token.GTR, token.LEQ, token.GEQ, token.EQL, token.NEQ:
		return a.compare(x, l, r)
	}
	return nil, errs.NewInternalError("unknown binary operator " + x.Op.String())
}

// arith は両辺をtに変換して算術演算の式を作る
func (a *Analyzer) arith(op token.Kind, loc token.Location, l, r *hir.Expr, t ctype.Type) (*hir.Expr, error) {
	l, r = convert(l, t), convert(r, t)
	if (op == token.QUO || op == token.REM) && t.IsInteger() && a.unevaluated == 0 {
		if r.Value.Bits == 0 {
			return nil, errs.NewSemanticError(loc, "division by zero")
		}
		if t.IsSigned() && l.Value.Bits == minSigned(t) && r.Value.Int() == -1 {
			return nil, errs.NewSemanticError(loc, "integer overflow in division of '%s'", t)
		}
	}
	return &hir.Expr{
		Kind:  hir.Binary,
		Op:    op,
		Type:  t,
		Loc:   loc,
		X:     l,
		Y:     r,
		Value: foldArith(op, t, l.Value, r.Value),
	}, nil
}

func (a *Analyzer) shift(op token.Kind, loc token.Location, l, r *hir.Expr) (*hir.Expr, error) {
	l = convert(l, ctype.Promote(l.Type))
	r = convert(r, ctype.Promote(r.Type))
	if a.unevaluated == 0 {
		count := r.Value.Bits
		if (r.Type.IsSigned() && r.Value.Int() < 0) || count >= uint64(l.Type.Width()) {
			return nil, errs.NewSemanticError(loc, "shift count out of range for '%s'", l.Type)
		}
	}
	return &hir.Expr{
		Kind:  hir.Binary,
		Op:    op,
		Type:  l.Type,
		Loc:   loc,
		X:     l,
		Y:     r,
		Value: foldArith(op, l.Type, l.Value, r.Value),
	}, nil
}

// pointerOffset は ptr ± n を ptr ± n*sizeof(*ptr) に書き換える
func (a *Analyzer) pointerOffset(op token.Kind, loc token.Location, ptr, n *hir.Expr) (*hir.Expr, error) {
	size := ptr.Type.Elem.Size()
	if size == 0 {
		return nil, errs.NewSemanticError(loc, "arithmetic on a pointer to an incomplete type '%s'", *ptr.Type.Elem)
	}
	scaled, err := a.arith(token.MUL, loc, convert(n, ctype.LongType), literal(loc, ctype.LongType, hir.Value{Bits: uint64(size)}), ctype.LongType)
	if err != nil {
		return nil, err
	}
	return &hir.Expr{
		Kind:  hir.Binary,
		Op:    op,
		Type:  ptr.Type,
		Loc:   loc,
		X:     ptr,
		Y:     convert(scaled, ptr.Type),
		Value: foldArith(op, ptr.Type, ptr.Value, scaled.Value),
	}, nil
}

// pointerDiff は p - q を ((long)p - (long)q) / sizeof(*p) に書き換える
func (a *Analyzer) pointerDiff(loc token.Location, p, q *hir.Expr) (*hir.Expr, error) {
	if !p.Type.Elem.Equal(*q.Type.Elem) {
		return nil, errs.NewSemanticError(loc, "'%s' and '%s' are not pointers to compatible types", p.Type, q.Type)
	}
	size := p.Type.Elem.Size()
	if size == 0 {
		return nil, errs.NewSemanticError(loc, "arithmetic on a pointer to an incomplete type '%s'", *p.Type.Elem)
	}
	diff, err := a.arith(token.SUB, loc, p, q, ctype.LongType)
	if err != nil {
		return nil, err
	}
	return a.arith(token.QUO, loc, diff, literal(loc, ctype.LongType, hir.Value{Bits: uint64(size)}), ctype.LongType)
}

func isNullPointerConstant(e *hir.Expr) bool {
	return e.Type.IsInteger() && e.Value.Bits == 0
}

func (a *Analyzer) compare(x *ast.Binary, l, r *hir.Expr) (*hir.Expr, error) {
	lt, rt := l.Type, r.Type
	var t ctype.Type
	switch {
	case lt.IsArithmetic() && rt.IsArithmetic():
		t = ctype.UsualArithmetic(lt, rt)
	case lt.Kind == ctype.Pointer && rt.Kind == ctype.Pointer:
		if !lt.Elem.Equal(*rt.Elem) && lt.Elem.Kind != ctype.Void && rt.Elem.Kind != ctype.Void {
			return nil, errs.NewSemanticError(x.Loc, "comparison of distinct pointer types ('%s' and '%s')", lt, rt)
		}
		t = lt
	case lt.Kind == ctype.Pointer && isNullPointerConstant(r) && (x.Op == token.EQL || x.Op == token.NEQ):
		t = lt
	case rt.Kind == ctype.Pointer && isNullPointerConstant(l) && (x.Op == token.EQL || x.Op == token.NEQ):
		t = rt
	case lt.Kind == ctype.Pointer && rt.IsInteger(), lt.IsInteger() && rt.Kind == ctype.Pointer:
		return nil, errs.NewSemanticError(x.Loc, "comparison between pointer and integer ('%s' and '%s')", lt, rt)
	default:
		return nil, errs.NewSemanticError(x.Loc, "invalid operands to binary expression ('%s' and '%s')", lt, rt)
	}
	l, r = convert(l, t), convert(r, t)
	return &hir.Expr{
		Kind:  hir.Binary,
		Op:    x.Op,
		Type:  ctype.IntType,
		Loc:   x.Loc,
		X:     l,
		Y:     r,
		Value: foldCompare(x.Op, t, l.Value, r.Value),
	}, nil
}

func (a *Analyzer) logical(x *ast.Binary) (*hir.Expr, error) {
	l, err := a.expr(x.X)
	if err != nil {
		return nil, err
	}
	if !l.Type.IsScalar() {
		return nil, errs.NewSemanticError(x.Loc, "invalid operands to binary expression ('%s')", l.Type)
	}
	lTrue := isTrue(l.Value, l.Type)
	// 右辺が評価されない場合は、右辺での0除算などを報告しない
	skipRight := (x.Op == token.LAND && !lTrue) || (x.Op == token.LOR && lTrue)
	if skipRight {
		a.unevaluated++
	}
	r, err := a.expr(x.Y)
	if skipRight {
		a.unevaluated--
	}
	if err != nil {
		return nil, err
	}
	if !r.Type.IsScalar() {
		return nil, errs.NewSemanticError(x.Loc, "invalid operands to binary expression ('%s' and '%s')", l.Type, r.Type)
	}
	rTrue := isTrue(r.Value, r.Type)
	var result bool
	if x.Op == token.LAND {
		result = lTrue && rTrue
	} else {
		result = lTrue || rTrue
	}
	return &hir.Expr{
		Kind:  hir.Logical,
		Op:    x.Op,
		Type:  ctype.IntType,
		Loc:   x.Loc,
		X:     l,
		Y:     r,
		Value: hir.Value{Bits: b2u(result)},
	}, nil
}

func (a *Analyzer) cond(x *ast.Cond) (*hir.Expr, error) {
	c, err := a.expr(x.C)
	if err != nil {
		return nil, err
	}
	if !c.Type.IsScalar() {
		return nil, errs.NewSemanticError(x.Loc, "used type '%s' where arithmetic or pointer type is required", c.Type)
	}
	taken := isTrue(c.Value, c.Type)
	then, err := a.branch(x.Then, !taken)
	if err != nil {
		return nil, err
	}
	els, err := a.branch(x.Else, taken)
	if err != nil {
		return nil, err
	}

	var t ctype.Type
	switch tt, et := then.Type, els.Type; {
	case tt.IsArithmetic() && et.IsArithmetic():
		t = ctype.UsualArithmetic(tt, et)
	case tt.Kind == ctype.Void && et.Kind == ctype.Void:
		t = ctype.VoidType
	case tt.Kind == ctype.Pointer && et.Kind == ctype.Pointer && tt.Equal(et):
		t = tt
	case tt.Kind == ctype.Pointer && isNullPointerConstant(els):
		t = tt
	case et.Kind == ctype.Pointer && isNullPointerConstant(then):
		t = et
	default:
		return nil, errs.NewSemanticError(x.Loc, "incompatible operand types ('%s' and '%s')", tt, et)
	}
	then, els = convert(then, t), convert(els, t)
	value := els.Value
	if taken {
		value = then.Value
	}
	return &hir.Expr{
		Kind:  hir.Cond,
		Type:  t,
		Loc:   x.Loc,
		C:     c,
		X:     then,
		Y:     els,
		Value: value,
	}, nil
}

func (a *Analyzer) branch(x ast.Expr, skipped bool) (*hir.Expr, error) {
	if skipped {
		a.unevaluated++
		defer func() { a.unevaluated-- }()
	}
	return a.expr(x)
}

func (a *Analyzer) comma(x *ast.Binary) (*hir.Expr, error) {
	l, err := a.expr(x.X)
	if err != nil {
		return nil, err
	}
	r, err := a.expr(x.Y)
	if err != nil {
		return nil, err
	}
	return &hir.Expr{
		Kind:  hir.Comma,
		Type:  r.Type,
		Loc:   x.Loc,
		X:     l,
		Y:     r,
		Value: r.Value,
	}, nil
}

func (a *Analyzer) cast(x *ast.Cast) (*hir.Expr, error) {
	to, err := resolveTypeName(x.Type)
	if err != nil {
		return nil, err
	}
	operand, err := a.expr(x.X)
	if err != nil {
		return nil, err
	}
	from := operand.Type
	switch {
	case to.Kind == ctype.Void:
	case from.Kind == ctype.Void:
		return nil, errs.NewSemanticError(x.Loc, "invalid cast from 'void' to '%s'", to)
	case !to.IsScalar() || !from.IsScalar(),
		to.Kind == ctype.Pointer && from.IsFloating(),
		from.Kind == ctype.Pointer && to.IsFloating():
		return nil, errs.NewSemanticError(x.Loc, "invalid cast from '%s' to '%s'", from, to)
	}
	e := convert(operand, to)
	if e == operand {
		return e, nil
	}
	e.Loc = x.Loc
	return e, nil
}

func (a *Analyzer) sizeofExpr(x *ast.SizeofExpr) (*hir.Expr, error) {
	a.unevaluated++
	operand, err := a.expr(x.X)
	a.unevaluated--
	if err != nil {
		return nil, err
	}
	return sizeOf(x.Loc, operand.Type, x.Alignof)
}

func (a *Analyzer) sizeofType(x *ast.SizeofType) (*hir.Expr, error) {
	t, err := resolveTypeName(x.Type)
	if err != nil {
		return nil, err
	}
	return sizeOf(x.Loc, t, x.Alignof)
}

func sizeOf(loc token.Location, t ctype.Type, alignof bool) (*hir.Expr, error) {
	name := "sizeof"
	if alignof {
		name = "_Alignof"
	}
	switch t.Kind {
	case ctype.Void:
		return nil, errs.NewSemanticError(loc, "invalid application of '%s' to an incomplete type 'void'", name)
	case ctype.Function:
		return nil, errs.NewSemanticError(loc, "invalid application of '%s' to a function type", name)
	}
	v := t.Size()
	if alignof {
		v = t.Align()
	}
	return literal(loc, ctype.ULongType, hir.Value{Bits: uint64(v)}), nil
}
