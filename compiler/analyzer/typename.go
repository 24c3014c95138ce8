package analyzer

import (
	"strings"

	"github.com/kakkky/csole/compiler/ast"
	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/token"
	"github.com/kakkky/csole/errs"
)

// resolveTypeName は型指定子の並びを型に変換する。型修飾子は無視する
func resolveTypeName(tn *ast.TypeName) (ctype.Type, error) {
	counts := map[token.Kind]int{}
	var spelled []string
	for _, spec := range tn.Specifiers {
		if spec == token.CONST || spec == token.VOLATILE {
			continue
		}
		counts[spec]++
		spelled = append(spelled, spec.String())
	}
	invalid := func() (ctype.Type, error) {
		return ctype.Type{}, errs.NewSemanticError(tn.Loc, "invalid type specifier combination '%s'", strings.Join(spelled, " "))
	}
	if len(spelled) == 0 {
		return ctype.Type{}, errs.NewSemanticError(tn.Loc, "type name requires a type specifier")
	}

	signed, unsigned := counts[token.SIGNED], counts[token.UNSIGNED]
	if signed+unsigned > 1 {
		return invalid()
	}
	only := func(allowed ...token.Kind) bool {
		n := 0
		for _, k := range allowed {
			n += counts[k]
		}
		return n == len(spelled)
	}

	var base ctype.Type
	switch {
	case counts[token.VOID] == 1 && len(spelled) == 1:
		base = ctype.VoidType
	case counts[token.BOOL] == 1 && len(spelled) == 1:
		base = ctype.BoolType
	case counts[token.FLOAT_KW] == 1 && len(spelled) == 1:
		base = ctype.FloatType
	case counts[token.DOUBLE] == 1 && only(token.DOUBLE, token.LONG) && counts[token.LONG] <= 1:
		// long doubleはdoubleとして扱う
		base = ctype.DoubleType
	case counts[token.CHAR_KW] == 1 && only(token.CHAR_KW, token.SIGNED, token.UNSIGNED):
		base = ctype.CharType
	case counts[token.SHORT] == 1 && counts[token.INT_KW] <= 1 && only(token.SHORT, token.INT_KW, token.SIGNED, token.UNSIGNED):
		base = ctype.ShortType
	case counts[token.LONG] == 1 && counts[token.INT_KW] <= 1 && only(token.LONG, token.INT_KW, token.SIGNED, token.UNSIGNED):
		base = ctype.LongType
	case counts[token.LONG] == 2 && counts[token.INT_KW] <= 1 && only(token.LONG, token.INT_KW, token.SIGNED, token.UNSIGNED):
		base = ctype.LongLongType
	case counts[token.INT_KW] <= 1 && only(token.INT_KW, token.SIGNED, token.UNSIGNED):
		base = ctype.IntType
	default:
		return invalid()
	}
	if unsigned == 1 {
		base.Unsigned = true
	}

	for range tn.Pointers {
		base = ctype.PointerTo(base)
	}
	return base, nil
}
