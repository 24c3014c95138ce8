// Package evaluator は1行のコードをコンパイルして実行し、結果を出力する
package evaluator

import (
	"fmt"
	"io"

	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/ir"
	"github.com/kakkky/csole/wrapper"
)

// Evaluator はコード行の解析、関数定義での包み込み、コンパイル、実行を順に行う。
// 同時に進む評価は常に1つだけ
type Evaluator struct {
	compilerService
	bridge
	out io.Writer
}

// NewEvaluator はEvaluatorのインスタンスを生成する
func NewEvaluator(service compilerService, bridge bridge, out io.Writer) *Evaluator {
	return &Evaluator{
		compilerService: service,
		bridge:          bridge,
		out:             out,
	}
}

// Evaluate はコード行を評価して "=> 値" を出力する。
// いずれかの段階で失敗すればそこで打ち切り、エラーを返す
func (e *Evaluator) Evaluate(line string) error {
	expr, module, err := e.compile(line)
	if err != nil {
		return err
	}
	result, err := e.Execute(module, expr.Type)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "=> %s\n", result)
	return nil
}

// TypeOf はコード行を実行せずに静的な型を返す
func (e *Evaluator) TypeOf(line string) (string, error) {
	expr, err := e.ParseExpression(line + "\n")
	if err != nil {
		return "", err
	}
	return expr.Type.String(), nil
}

// Lower はコード行を包んだ関数の中間表現を返す
func (e *Evaluator) Lower(line string) (string, error) {
	_, module, err := e.compile(line)
	if err != nil {
		return "", err
	}
	return module.String(), nil
}

func (e *Evaluator) compile(line string) (*hir.Expr, *ir.Module, error) {
	expr, err := e.ParseExpression(line + "\n")
	if err != nil {
		return nil, nil, err
	}

	// 翻訳単位は評価ごとに新しく作る
	decl := wrapper.Wrap(expr)
	unit := hir.NewSymbolTable()
	if err := wrapper.Register(unit, decl); err != nil {
		return nil, nil, err
	}

	module, err := e.CompileModule([]*hir.Declaration{decl})
	if err != nil {
		return nil, nil, err
	}
	return expr, module, nil
}
