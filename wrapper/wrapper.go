// Package wrapper は式を引数なしの関数定義で包み、コンパイル可能な単位にする
package wrapper

import (
	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/types"
)

// Wrap は式の値を返すだけの関数 execute の定義を組み立てる。
// 戻り値の型は式の型と一致し、位置情報は式のものを引き継ぐ。共有状態には触れない
func Wrap(expr *hir.Expr) *hir.Declaration {
	sym := &hir.Symbol{
		Name:    string(types.EntryName),
		Type:    ctype.FunctionOf(expr.Type, nil, false),
		Storage: hir.Extern,
		Loc:     expr.Loc,
	}
	return &hir.Declaration{
		Symbol: sym,
		Body: []hir.Stmt{
			{Kind: hir.Return, Expr: expr, Loc: expr.Loc},
		},
		Loc: expr.Loc,
	}
}

// Register は宣言のシンボルを翻訳単位のシンボル表に登録する。
// 同名のシンボルが既にあればCompileErrorを返す
func Register(table *hir.SymbolTable, decl *hir.Declaration) error {
	return table.Declare(decl.Symbol)
}
