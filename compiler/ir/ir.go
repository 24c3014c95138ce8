// Package ir は関数定義をスタックマシンの命令列に落とし込んだ中間表現を定義する。
// 値は全て64bitで扱い、整数は型の幅で符号拡張またはゼロ拡張した形に保つ
package ir

import (
	"fmt"
	"strings"

	"github.com/kakkky/csole/compiler/ctype"
)

// Op は命令の種類を表す
type Op int

const (
	// OpConst はImmを積む
	OpConst Op = iota
	// OpPop は先頭を捨てる
	OpPop
	// OpNeg は先頭の符号を反転する
	OpNeg
	// OpNot は先頭のビットを反転する
	OpNot
	// OpLNot は先頭が0なら1、それ以外は0にする
	OpLNot
	// OpBool は先頭が0以外なら1にする
	OpBool
	// OpExt は先頭の下位Widthビットを残し、Signedなら符号拡張、そうでなければゼロ拡張する
	OpExt

	// 二項演算は2つ降ろして結果を1つ積む。Signedは符号付きとして演算するかどうか
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr

	// 比較は2つ降ろして0か1を積む
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	// OpJmp はLabelへ飛ぶ
	OpJmp
	// OpJz は先頭を降ろし、0ならLabelへ飛ぶ
	OpJz
	// OpLabel はジャンプ先の印
	OpLabel
	// OpRet は先頭を戻り値として返す
	OpRet
	// OpRetVoid は値を返さずに戻る
	OpRetVoid
)

var opNames = map[Op]string{
	OpConst:   "const",
	OpPop:     "pop",
	OpNeg:     "neg",
	OpNot:     "not",
	OpLNot:    "lnot",
	OpBool:    "bool",
	OpExt:     "ext",
	OpAdd:     "add",
	OpSub:     "sub",
	OpMul:     "mul",
	OpDiv:     "div",
	OpRem:     "rem",
	OpAnd:     "and",
	OpOr:      "or",
	OpXor:     "xor",
	OpShl:     "shl",
	OpShr:     "shr",
	OpEq:      "eq",
	OpNe:      "ne",
	OpLt:      "lt",
	OpLe:      "le",
	OpGt:      "gt",
	OpGe:      "ge",
	OpJmp:     "jmp",
	OpJz:      "jz",
	OpLabel:   "label",
	OpRet:     "ret",
	OpRetVoid: "ret void",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// IsBinary は2つの値を降ろす演算かどうかを判定する
func (op Op) IsBinary() bool {
	return op >= OpAdd && op <= OpGe
}

// signedMatters は符号の有無で結果が変わる演算かどうかを判定する
func (op Op) signedMatters() bool {
	switch op {
	case OpDiv, OpRem, OpShr, OpLt, OpLe, OpGt, OpGe, OpExt:
		return true
	}
	return false
}

// Instr は1つの命令
type Instr struct {
	Op     Op
	Imm    uint64
	Width  uint8
	Signed bool
	Label  int
}

func (in Instr) String() string {
	switch in.Op {
	case OpConst:
		return fmt.Sprintf("const %d", int64(in.Imm))
	case OpExt:
		if in.Signed {
			return fmt.Sprintf("ext.s%d", in.Width)
		}
		return fmt.Sprintf("ext.u%d", in.Width)
	case OpJmp, OpJz:
		return fmt.Sprintf("%s L%d", in.Op, in.Label)
	case OpLabel:
		return fmt.Sprintf("L%d:", in.Label)
	}
	if in.Op.signedMatters() {
		if in.Signed {
			return in.Op.String() + ".s"
		}
		return in.Op.String() + ".u"
	}
	return in.Op.String()
}

// Function は1つの関数の命令列
type Function struct {
	Name string
	// Type は関数型
	Type ctype.Type
	Code []Instr
	// MaxDepth は実行中にスタックに積まれる値の最大数
	MaxDepth int
	// Labels は使われているラベルの数。ラベルは0からLabels-1まで
	Labels int
}

// Module はコンパイルされた関数の集まり
type Module struct {
	Functions []*Function
}

// Lookup は名前から関数を探す
func (m *Module) Lookup(name string) (*Function, bool) {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn, true
		}
	}
	return nil, false
}

// String はモジュールを人が読める形で出力する
func (m *Module) String() string {
	var sb strings.Builder
	for i, fn := range m.Functions {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s %s (depth %d):\n", fn.Type.Func.Return, fn.Name, fn.MaxDepth)
		for _, in := range fn.Code {
			if in.Op == OpLabel {
				fmt.Fprintf(&sb, "%s\n", in)
				continue
			}
			fmt.Fprintf(&sb, "    %s\n", in)
		}
	}
	return sb.String()
}
