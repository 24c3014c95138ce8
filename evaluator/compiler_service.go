package evaluator

import (
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/ir"
)

//go:generate mockgen -package=evaluator -source=./compiler_service.go -destination=./compiler_service_mock.go
type compilerService interface {
	ParseExpression(src string) (*hir.Expr, error)
	CompileModule(decls []*hir.Declaration) (*ir.Module, error)
}
