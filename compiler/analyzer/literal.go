package analyzer

import (
	"math"
	"strconv"
	"strings"

	"github.com/kakkky/csole/compiler/ast"
	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
)

func literal(loc token.Location, t ctype.Type, v hir.Value) *hir.Expr {
	return &hir.Expr{Kind: hir.Literal, Type: t, Loc: loc, Value: v}
}

// intLit は整数定数の型と値を決める。型の選び方はC11 6.4.4.1に従い、LP64を前提にする
func intLit(x *ast.IntLit) (*hir.Expr, error) {
	body := strings.TrimRight(x.Text, "uUlL")
	suffix := strings.ToLower(x.Text[len(body):])

	var unsignedSuffix bool
	var longs int
	switch suffix {
	case "":
	case "u":
		unsignedSuffix = true
	case "l":
		longs = 1
	case "ul", "lu":
		unsignedSuffix, longs = true, 1
	case "ll":
		longs = 2
	case "ull", "llu":
		unsignedSuffix, longs = true, 2
	default:
		return nil, errs.NewSyntaxError(x.Loc, "invalid suffix '%s' on integer constant", x.Text[len(body):])
	}
	if strings.Contains(x.Text[len(body):], "lL") || strings.Contains(x.Text[len(body):], "Ll") {
		return nil, errs.NewSyntaxError(x.Loc, "invalid suffix '%s' on integer constant", x.Text[len(body):])
	}

	base := 10
	digits := body
	switch {
	case strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X"):
		base, digits = 16, body[2:]
	case strings.HasPrefix(body, "0b") || strings.HasPrefix(body, "0B"):
		base, digits = 2, body[2:]
	case len(body) > 1 && body[0] == '0':
		base, digits = 8, body[1:]
	}
	if digits == "" {
		return nil, errs.NewSyntaxError(x.Loc, "invalid integer constant '%s'", x.Text)
	}
	value, err := strconv.ParseUint(digits, base, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			return nil, errs.NewSemanticError(x.Loc, "integer constant is too large for its type")
		}
		return nil, errs.NewSyntaxError(x.Loc, "invalid integer constant '%s'", x.Text)
	}

	// 候補の型を順に試し、値が収まる最初の型を選ぶ
	var candidates []ctype.Type
	decimal := base == 10
	switch {
	case !unsignedSuffix && longs == 0 && decimal:
		candidates = []ctype.Type{ctype.IntType, ctype.LongType}
	case !unsignedSuffix && longs == 0:
		candidates = []ctype.Type{ctype.IntType, ctype.UIntType, ctype.LongType, ctype.ULongType}
	case unsignedSuffix && longs == 0:
		candidates = []ctype.Type{ctype.UIntType, ctype.ULongType}
	case !unsignedSuffix && longs == 1 && decimal:
		candidates = []ctype.Type{ctype.LongType}
	case !unsignedSuffix && longs == 1:
		candidates = []ctype.Type{ctype.LongType, ctype.ULongType}
	case unsignedSuffix && longs == 1:
		candidates = []ctype.Type{ctype.ULongType}
	case !unsignedSuffix && longs == 2 && decimal:
		candidates = []ctype.Type{ctype.LongLongType}
	case !unsignedSuffix && longs == 2:
		candidates = []ctype.Type{ctype.LongLongType, ctype.ULongLongType}
	default:
		candidates = []ctype.Type{ctype.ULongLongType}
	}
	for _, t := range candidates {
		if fits(value, t) {
			return literal(x.Loc, t, hir.Value{Bits: value}), nil
		}
	}
	// どの候補にも収まらない10進定数は、gccと同様にunsigned long longとして扱う
	return literal(x.Loc, ctype.ULongLongType, hir.Value{Bits: value}), nil
}

func fits(v uint64, t ctype.Type) bool {
	w := t.Width()
	if t.Unsigned {
		return w >= 64 || v < uint64(1)<<w
	}
	return v < uint64(1)<<(w-1)
}

func floatLit(x *ast.FloatLit) (*hir.Expr, error) {
	text := x.Text
	t := ctype.DoubleType
	switch text[len(text)-1] {
	case 'f', 'F':
		t = ctype.FloatType
		text = text[:len(text)-1]
	case 'l', 'L':
		// long doubleはdoubleとして扱う
		text = text[:len(text)-1]
	}
	if strings.ContainsAny(text, "_") {
		return nil, errs.NewSyntaxError(x.Loc, "invalid floating constant '%s'", x.Text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange && math.IsInf(f, 0) {
			return nil, errs.NewSemanticError(x.Loc, "floating constant exceeds range of '%s'", t)
		}
		return nil, errs.NewSyntaxError(x.Loc, "invalid floating constant '%s'", x.Text)
	}
	if t.Kind == ctype.Float {
		f = float64(float32(f))
	}
	return literal(x.Loc, t, hir.Value{Float: f}), nil
}

var simpleEscapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'v':  '\v',
	'\\': '\\',
	'\'': '\'',
	'"':  '"',
	'?':  '?',
}

// charLit は文字定数をint型の値にする。charは符号付きなので0x80以上の文字は負になる。
// 複数文字の定数はgccと同様に上位から順に詰める
func charLit(x *ast.CharLit) (*hir.Expr, error) {
	body := x.Text[1 : len(x.Text)-1]
	var chars []byte
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			chars = append(chars, c)
			i++
			continue
		}
		i++
		if i >= len(body) {
			return nil, errs.NewSyntaxError(x.Loc, "incomplete escape sequence")
		}
		e := body[i]
		switch {
		case simpleEscapes[e] != 0:
			chars = append(chars, simpleEscapes[e])
			i++
		case '0' <= e && e <= '7':
			var v int
			n := 0
			for n < 3 && i < len(body) && '0' <= body[i] && body[i] <= '7' {
				v = v*8 + int(body[i]-'0')
				i++
				n++
			}
			if v > 0xff {
				return nil, errs.NewSemanticError(x.Loc, "octal escape sequence out of range")
			}
			chars = append(chars, byte(v))
		case e == 'x':
			i++
			start := i
			for i < len(body) && isHexDigit(body[i]) {
				i++
			}
			if start == i {
				return nil, errs.NewSyntaxError(x.Loc, "\\x used with no following hex digits")
			}
			v, err := strconv.ParseUint(body[start:i], 16, 64)
			if err != nil || v > 0xff {
				return nil, errs.NewSemanticError(x.Loc, "hex escape sequence out of range")
			}
			chars = append(chars, byte(v))
		default:
			return nil, errs.NewSyntaxError(x.Loc, "unknown escape sequence '\\%c'", e)
		}
	}
	if len(chars) > 4 {
		return nil, errs.NewSemanticError(x.Loc, "character constant too long for its type")
	}

	var value uint64
	if len(chars) == 1 {
		value = normalize(uint64(chars[0]), ctype.CharType)
	} else {
		for _, c := range chars {
			value = value<<8 | uint64(c)
		}
	}
	return literal(x.Loc, ctype.IntType, hir.Value{Bits: normalize(value, ctype.IntType)}), nil
}

func isHexDigit(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
