package analyzer

import (
	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/token"
)

// normalize は64bitの値をtの幅に切り詰め、符号付きなら符号拡張、符号なしならゼロ拡張する
// 生成されるコードも同じ表現を保つので、ここでの値と実行結果のビット列は一致する
func normalize(bits uint64, t ctype.Type) uint64 {
	if t.Kind == ctype.Bool {
		return b2u(bits != 0)
	}
	w := t.Width()
	if w == 0 || w >= 64 {
		return bits
	}
	mask := uint64(1)<<w - 1
	v := bits & mask
	if !t.Unsigned && v&(uint64(1)<<(w-1)) != 0 {
		v |= ^mask
	}
	return v
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func isTrue(v hir.Value, t ctype.Type) bool {
	if t.IsFloating() {
		return v.Float != 0
	}
	return v.Bits != 0
}

// minSigned はtの最小値のビット列を返す
func minSigned(t ctype.Type) uint64 {
	return uint64(int64(-1) << (t.Width() - 1))
}

// convertValue はfrom型の値vをto型に変換した値を返す
func convertValue(v hir.Value, from, to ctype.Type) hir.Value {
	switch {
	case to.Kind == ctype.Void:
		return hir.Value{}
	case to.Kind == ctype.Bool:
		return hir.Value{Bits: b2u(isTrue(v, from))}
	case to.IsFloating():
		var f float64
		switch {
		case from.IsFloating():
			f = v.Float
		case from.IsSigned():
			f = float64(int64(v.Bits))
		default:
			f = float64(v.Bits)
		}
		if to.Kind == ctype.Float {
			f = float64(float32(f))
		}
		return hir.Value{Float: f}
	}
	if from.IsFloating() {
		var bits uint64
		if to.Unsigned && v.Float >= 1<<63 {
			bits = uint64(v.Float)
		} else {
			bits = uint64(int64(v.Float))
		}
		return hir.Value{Bits: normalize(bits, to)}
	}
	return hir.Value{Bits: normalize(v.Bits, to)}
}

// foldArith は算術・ビット演算を畳み込む。0除算は呼び出し側で検査済みとし、ここでは0を返す
func foldArith(op token.Kind, t ctype.Type, l, r hir.Value) hir.Value {
	if t.IsFloating() {
		var f float64
		switch op {
		case token.ADD:
			f = l.Float + r.Float
		case token.SUB:
			f = l.Float - r.Float
		case token.MUL:
			f = l.Float * r.Float
		case token.QUO:
			f = l.Float / r.Float
		}
		if t.Kind == ctype.Float {
			f = float64(float32(f))
		}
		return hir.Value{Float: f}
	}

	a, b := l.Bits, r.Bits
	var v uint64
	switch op {
	case token.ADD:
		v = a + b
	case token.SUB:
		v = a - b
	case token.MUL:
		v = a * b
	case token.QUO:
		if b == 0 {
			return hir.Value{}
		}
		if t.Unsigned {
			v = a / b
		} else {
			v = uint64(int64(a) / int64(b))
		}
	case token.REM:
		if b == 0 {
			return hir.Value{}
		}
		if t.Unsigned {
			v = a % b
		} else {
			v = uint64(int64(a) % int64(b))
		}
	case token.SHL:
		v = a << (b & 63)
	case token.SHR:
		if t.Unsigned {
			v = a >> (b & 63)
		} else {
			v = uint64(int64(a) >> (b & 63))
		}
	case token.AND:
		v = a & b
	case token.OR:
		v = a | b
	case token.XOR:
		v = a ^ b
	}
	return hir.Value{Bits: normalize(v, t)}
}

// foldCompare は比較演算を畳み込む。tは比較する両辺の型
func foldCompare(op token.Kind, t ctype.Type, l, r hir.Value) hir.Value {
	var c int
	switch {
	case t.IsFloating():
		switch {
		case l.Float < r.Float:
			c = -1
		case l.Float > r.Float:
			c = 1
		case l.Float == r.Float:
			c = 0
		default:
			// NaNとの比較は != 以外すべて偽
			return hir.Value{Bits: b2u(op == token.NEQ)}
		}
	case t.IsSigned():
		c = compare(int64(l.Bits), int64(r.Bits))
	default:
		c = compare(l.Bits, r.Bits)
	}
	var result bool
	switch op {
	case token.EQL:
		result = c == 0
	case token.NEQ:
		result = c != 0
	case token.LSS:
		result = c < 0
	case token.GTR:
		result = c > 0
	case token.LEQ:
		result = c <= 0
	case token.GEQ:
		result = c >= 0
	}
	return hir.Value{Bits: b2u(result)}
}

func compare[T int64 | uint64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
