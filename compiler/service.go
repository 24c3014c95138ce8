// Package compiler は前処理から中間表現の生成までをまとめたコンパイラサービスを提供する
package compiler

import (
	"log/slog"
	"strings"
	"time"

	"github.com/kakkky/csole/compiler/analyzer"
	"github.com/kakkky/csole/compiler/cpp"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/ir"
	"github.com/kakkky/csole/compiler/parser"
	"github.com/kakkky/csole/errs"
)

// Service は1行の式の解析と、宣言からモジュールへのコンパイルを担う
type Service struct {
	logger  *slog.Logger
	defines []cpp.Option
	scope   *hir.SymbolTable
}

// Option はServiceの設定を変更する
type Option func(*Service)

// WithLogger はコンパイルの各段階を記録するロガーを設定する
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDefine は前処理で展開するマクロを追加する
func WithDefine(name, replacement string) Option {
	return func(s *Service) {
		s.defines = append(s.defines, cpp.WithDefine(name, replacement))
	}
}

// NewService はServiceのインスタンスを生成する
func NewService(opts ...Option) *Service {
	s := &Service{
		logger: slog.New(slog.DiscardHandler),
		scope:  hir.NewSymbolTable(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseExpression は改行で終わる1行のソースを1つの式として解析し、型付きの式を返す
func (s *Service) ParseExpression(src string) (*hir.Expr, error) {
	if !strings.HasSuffix(src, "\n") {
		return nil, errs.NewInternalError("source line must end with a newline")
	}

	start := time.Now()
	x, err := parser.ParseExpr(src, s.defines...)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("parsed", "elapsed", time.Since(start))

	start = time.Now()
	e, err := analyzer.New(s.scope).Expr(x)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("analyzed", "type", e.Type.String(), "elapsed", time.Since(start))
	return e, nil
}

// CompileModule は宣言の並びを1つの翻訳単位としてコンパイルする
func (s *Service) CompileModule(decls []*hir.Declaration) (*ir.Module, error) {
	start := time.Now()
	module, err := ir.Compile(decls)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("lowered", "functions", len(module.Functions), "elapsed", time.Since(start))
	s.logger.Debug("module", "ir", module.String())
	return module, nil
}
