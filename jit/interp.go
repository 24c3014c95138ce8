package jit

import (
	"github.com/kakkky/csole/compiler/ir"
	"github.com/kakkky/csole/types"
)

// interpBackend は命令列をGoのクロージャとして実行する。全てのプラットフォームで使える
type interpBackend struct{}

func newInterpBackend() *interpBackend {
	return &interpBackend{}
}

func (b *interpBackend) Name() types.BackendName {
	return types.BackendInterp
}

func (b *interpBackend) Finalize(module *ir.Module) (*Instance, error) {
	funcs := make(map[string]func() uint64, len(module.Functions))
	for _, fn := range module.Functions {
		funcs[fn.Name] = interpret(fn)
	}
	return newInstance(funcs, nil), nil
}

func interpret(fn *ir.Function) func() uint64 {
	labels := make([]int, fn.Labels)
	for pc, in := range fn.Code {
		if in.Op == ir.OpLabel {
			labels[in.Label] = pc
		}
	}
	code := fn.Code
	depth := fn.MaxDepth

	return func() uint64 {
		stack := make([]uint64, 0, depth)
		pop := func() uint64 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			return v
		}
		for pc := 0; pc < len(code); pc++ {
			in := code[pc]
			switch {
			case in.Op == ir.OpConst:
				stack = append(stack, in.Imm)
			case in.Op == ir.OpPop:
				pop()
			case in.Op == ir.OpJmp:
				pc = labels[in.Label]
			case in.Op == ir.OpJz:
				if pop() == 0 {
					pc = labels[in.Label]
				}
			case in.Op == ir.OpLabel:
			case in.Op == ir.OpRet:
				return pop()
			case in.Op == ir.OpRetVoid:
				return 0
			case in.Op.IsBinary():
				r := pop()
				l := pop()
				stack = append(stack, binaryOp(in, l, r))
			default:
				stack = append(stack, unary(in, pop()))
			}
		}
		return 0
	}
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func unary(in ir.Instr, v uint64) uint64 {
	switch in.Op {
	case ir.OpNeg:
		return -v
	case ir.OpNot:
		return ^v
	case ir.OpLNot:
		return b2u(v == 0)
	case ir.OpBool:
		return b2u(v != 0)
	case ir.OpExt:
		shift := 64 - uint(in.Width)
		if in.Signed {
			return uint64(int64(v<<shift) >> shift)
		}
		return v << shift >> shift
	}
	return v
}

// binaryOp は機械語の命令と同じく、シフト量を下位6ビットで扱う
func binaryOp(in ir.Instr, l, r uint64) uint64 {
	switch in.Op {
	case ir.OpAdd:
		return l + r
	case ir.OpSub:
		return l - r
	case ir.OpMul:
		return l * r
	case ir.OpDiv:
		if in.Signed {
			return uint64(int64(l) / int64(r))
		}
		return l / r
	case ir.OpRem:
		if in.Signed {
			return uint64(int64(l) % int64(r))
		}
		return l % r
	case ir.OpAnd:
		return l & r
	case ir.OpOr:
		return l | r
	case ir.OpXor:
		return l ^ r
	case ir.OpShl:
		return l << (r & 63)
	case ir.OpShr:
		if in.Signed {
			return uint64(int64(l) >> (r & 63))
		}
		return l >> (r & 63)
	}

	var c int
	switch {
	case in.Signed && int64(l) < int64(r), !in.Signed && l < r:
		c = -1
	case l == r:
		c = 0
	default:
		c = 1
	}
	switch in.Op {
	case ir.OpEq:
		return b2u(c == 0)
	case ir.OpNe:
		return b2u(c != 0)
	case ir.OpLt:
		return b2u(c < 0)
	case ir.OpLe:
		return b2u(c <= 0)
	case ir.OpGt:
		return b2u(c > 0)
	case ir.OpGe:
		return b2u(c >= 0)
	}
	return 0
}
