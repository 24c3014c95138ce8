// Package jit はコンパイル済みモジュールを実行可能な形に確定させ、式の評価結果を取り出す
package jit

import (
	"errors"
	"fmt"

	"github.com/kakkky/csole/compiler/ir"
	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/types"
)

// ErrSymbolNotFound は確定したモジュールに指定した関数が無いことを表す
var ErrSymbolNotFound = errors.New("symbol not found")

// Backend はモジュールを実行可能なインスタンスに確定させる
type Backend interface {
	Name() types.BackendName
	Finalize(module *ir.Module) (*Instance, error)
}

// NewBackend は名前からバックエンドを生成する。autoはnativeが使えればnative、使えなければinterp
func NewBackend(name types.BackendName) (Backend, error) {
	switch name {
	case types.BackendInterp:
		return newInterpBackend(), nil
	case types.BackendNative:
		return newNativeBackend()
	case types.BackendAuto, "":
		if backend, err := newNativeBackend(); err == nil {
			return backend, nil
		}
		return newInterpBackend(), nil
	}
	return nil, errs.NewBadInputError(fmt.Sprintf("unknown backend '%s' (want auto, native or interp)", name))
}

// Instance は1回の評価のために確定したモジュール。
// 関数の呼び出し口はCallのコールバックの中でだけ使え、Releaseの後は使えない
type Instance struct {
	funcs    map[string]func() uint64
	release  func() error
	released bool
}

func newInstance(funcs map[string]func() uint64, release func() error) *Instance {
	if release == nil {
		release = func() error { return nil }
	}
	return &Instance{funcs: funcs, release: release}
}

// Call はnameの呼び出し口をfnに渡す。呼び出し口はfnから戻った後に使ってはならない
func (i *Instance) Call(name string, fn func(Entry) error) error {
	if i.released {
		return errs.NewInternalError("instance is already released")
	}
	f, ok := i.funcs[name]
	if !ok {
		return fmt.Errorf("%w: '%s'", ErrSymbolNotFound, name)
	}
	entry := Entry{fn: f, owner: i}
	return fn(entry)
}

// Release はインスタンスが持つ実行可能メモリを解放する。2回目以降は何もしない
func (i *Instance) Release() error {
	if i.released {
		return nil
	}
	i.released = true
	i.funcs = nil
	if err := i.release(); err != nil {
		return errs.NewInternalError("failed to release jit instance").Wrap(err)
	}
	return nil
}

// Entry は引数を取らない関数の呼び出し口
type Entry struct {
	fn    func() uint64
	owner *Instance
}

// Invoke は関数を呼び出し、戻り値のレジスタの値をそのまま返す
func (e Entry) Invoke() uint64 {
	if e.owner.released {
		panic(errs.NewInternalError("entry point used after its instance was released"))
	}
	return e.fn()
}
