//go:build linux && amd64

package jit

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/kakkky/csole/compiler/ir"
	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/types"
	"golang.org/x/sys/unix"
)

// MaxNativeDepth はネイティブコードがゴルーチンのスタックに積める値の数の上限。
// これを超える関数はinterpで実行する
const MaxNativeDepth = 32

// nativeBackend は命令列をx86-64の機械語に変換し、実行可能なページに置く。
// 生成するコードはRAX、RCX、RDXだけを使い、戻り値をRAXに置く
type nativeBackend struct {
	fallback *interpBackend
}

func newNativeBackend() (Backend, error) {
	return &nativeBackend{fallback: newInterpBackend()}, nil
}

func (b *nativeBackend) Name() types.BackendName {
	return types.BackendNative
}

func (b *nativeBackend) Finalize(module *ir.Module) (*Instance, error) {
	var code []byte
	offsets := map[string]int{}
	funcs := make(map[string]func() uint64, len(module.Functions))
	for _, fn := range module.Functions {
		if fn.MaxDepth > MaxNativeDepth {
			funcs[fn.Name] = interpret(fn)
			continue
		}
		offsets[fn.Name] = len(code)
		code = append(code, assemble(fn)...)
	}
	if len(code) == 0 {
		return newInstance(funcs, nil), nil
	}

	mem, err := mapExecutable(code)
	if err != nil {
		return nil, err
	}
	for name, off := range offsets {
		funcs[name] = funcAt(mem, off)
	}
	return newInstance(funcs, func() error {
		return unix.Munmap(mem)
	}), nil
}

// mapExecutable はcodeを無名メモリに書き込み、読み取りと実行だけを許可する
func mapExecutable(code []byte) ([]byte, error) {
	pageSize := unix.Getpagesize()
	size := (len(code) + pageSize - 1) / pageSize * pageSize
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errs.NewInternalError("failed to map memory for jit code").Wrap(err)
	}
	copy(mem, code)
	if err := unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(mem)
		return nil, errs.NewInternalError("failed to make jit code executable").Wrap(err)
	}
	return mem, nil
}

// funcAt はmem[off]から始まる機械語をGoの関数値として扱う。
// Goの関数値はコードのアドレスを先頭に持つ構造体へのポインタなので、その形を作る
func funcAt(mem []byte, off int) func() uint64 {
	codePtr := uintptr(unsafe.Pointer(&mem[off]))
	fv := &codePtr
	return *(*func() uint64)(unsafe.Pointer(&fv))
}

type fixup struct {
	at    int
	label int
}

type assembler struct {
	buf    []byte
	labels []int
	fixups []fixup
}

func (a *assembler) emit(b ...byte) {
	a.buf = append(a.buf, b...)
}

func (a *assembler) rel32(label int) {
	a.fixups = append(a.fixups, fixup{at: len(a.buf), label: label})
	a.emit(0, 0, 0, 0)
}

// 比較結果を al に置く setcc の2バイト目
var setcc = map[ir.Op][2]byte{
	//          unsigned, signed
	ir.OpEq: {0x94, 0x94},
	ir.OpNe: {0x95, 0x95},
	ir.OpLt: {0x92, 0x9C},
	ir.OpLe: {0x96, 0x9E},
	ir.OpGt: {0x97, 0x9F},
	ir.OpGe: {0x93, 0x9D},
}

func assemble(fn *ir.Function) []byte {
	a := &assembler{labels: make([]int, fn.Labels)}
	for _, in := range fn.Code {
		a.instr(in)
	}
	for _, f := range a.fixups {
		rel := int32(a.labels[f.label] - (f.at + 4))
		binary.LittleEndian.PutUint32(a.buf[f.at:], uint32(rel))
	}
	return a.buf
}

const (
	pushRAX = 0x50
	popRAX  = 0x58
	popRCX  = 0x59
	ret     = 0xC3
)

func (a *assembler) instr(in ir.Instr) {
	switch in.Op {
	case ir.OpConst:
		a.emit(0x48, 0xB8) // mov rax, imm64
		a.buf = binary.LittleEndian.AppendUint64(a.buf, in.Imm)
		a.emit(pushRAX)
	case ir.OpPop:
		a.emit(popRAX)
	case ir.OpNeg, ir.OpNot, ir.OpLNot, ir.OpBool, ir.OpExt:
		a.emit(popRAX)
		a.unary(in)
		a.emit(pushRAX)
	case ir.OpJmp:
		a.emit(0xE9)
		a.rel32(in.Label)
	case ir.OpJz:
		a.emit(popRAX)
		a.emit(0x48, 0x85, 0xC0) // test rax, rax
		a.emit(0x0F, 0x84)       // je rel32
		a.rel32(in.Label)
	case ir.OpLabel:
		a.labels[in.Label] = len(a.buf)
	case ir.OpRet:
		a.emit(popRAX, ret)
	case ir.OpRetVoid:
		a.emit(0x31, 0xC0, ret) // xor eax, eax
	default:
		a.emit(popRCX, popRAX)
		a.binary(in)
		a.emit(pushRAX)
	}
}

// unary は rax に作用する
func (a *assembler) unary(in ir.Instr) {
	switch in.Op {
	case ir.OpNeg:
		a.emit(0x48, 0xF7, 0xD8) // neg rax
	case ir.OpNot:
		a.emit(0x48, 0xF7, 0xD0) // not rax
	case ir.OpLNot:
		a.emit(0x48, 0x85, 0xC0) // test rax, rax
		a.emit(0x0F, 0x94, 0xC0) // sete al
		a.emit(0x0F, 0xB6, 0xC0) // movzx eax, al
	case ir.OpBool:
		a.emit(0x48, 0x85, 0xC0) // test rax, rax
		a.emit(0x0F, 0x95, 0xC0) // setne al
		a.emit(0x0F, 0xB6, 0xC0) // movzx eax, al
	case ir.OpExt:
		a.ext(in.Width, in.Signed)
	}
}

func (a *assembler) ext(width uint8, signed bool) {
	switch {
	case width == 8 && signed:
		a.emit(0x48, 0x0F, 0xBE, 0xC0) // movsx rax, al
	case width == 16 && signed:
		a.emit(0x48, 0x0F, 0xBF, 0xC0) // movsx rax, ax
	case width == 32 && signed:
		a.emit(0x48, 0x63, 0xC0) // movsxd rax, eax
	case width == 8:
		a.emit(0x0F, 0xB6, 0xC0) // movzx eax, al
	case width == 16:
		a.emit(0x0F, 0xB7, 0xC0) // movzx eax, ax
	case width == 32:
		a.emit(0x89, 0xC0) // mov eax, eax
	}
}

// binary は rax と rcx を被演算子とし、結果を rax に置く
func (a *assembler) binary(in ir.Instr) {
	switch in.Op {
	case ir.OpAdd:
		a.emit(0x48, 0x01, 0xC8) // add rax, rcx
	case ir.OpSub:
		a.emit(0x48, 0x29, 0xC8) // sub rax, rcx
	case ir.OpMul:
		a.emit(0x48, 0x0F, 0xAF, 0xC1) // imul rax, rcx
	case ir.OpDiv, ir.OpRem:
		if in.Signed {
			a.emit(0x48, 0x99)       // cqo
			a.emit(0x48, 0xF7, 0xF9) // idiv rcx
		} else {
			a.emit(0x31, 0xD2)       // xor edx, edx
			a.emit(0x48, 0xF7, 0xF1) // div rcx
		}
		if in.Op == ir.OpRem {
			a.emit(0x48, 0x89, 0xD0) // mov rax, rdx
		}
	case ir.OpAnd:
		a.emit(0x48, 0x21, 0xC8) // and rax, rcx
	case ir.OpOr:
		a.emit(0x48, 0x09, 0xC8) // or rax, rcx
	case ir.OpXor:
		a.emit(0x48, 0x31, 0xC8) // xor rax, rcx
	case ir.OpShl:
		a.emit(0x48, 0xD3, 0xE0) // shl rax, cl
	case ir.OpShr:
		if in.Signed {
			a.emit(0x48, 0xD3, 0xF8) // sar rax, cl
		} else {
			a.emit(0x48, 0xD3, 0xE8) // shr rax, cl
		}
	default:
		cc, ok := setcc[in.Op]
		if !ok {
			panic(errs.NewInternalError(fmt.Sprintf("cannot assemble %s", in)))
		}
		b := cc[0]
		if in.Signed {
			b = cc[1]
		}
		a.emit(0x48, 0x39, 0xC8) // cmp rax, rcx
		a.emit(0x0F, b, 0xC0)    // setcc al
		a.emit(0x0F, 0xB6, 0xC0) // movzx eax, al
	}
}
