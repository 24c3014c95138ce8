package evaluator

import (
	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/ir"
)

//go:generate mockgen -package=evaluator -source=./bridge.go -destination=./bridge_mock.go
type bridge interface {
	Execute(module *ir.Module, ty ctype.Type) (string, error)
}
