package jit

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/kakkky/csole/compiler"
	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/hir"
	"github.com/kakkky/csole/compiler/ir"
	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/types"
	"github.com/kakkky/csole/wrapper"
)

// fakeBackend は任意の関数を持つインスタンスを返す
type fakeBackend struct {
	funcs map[string]func() uint64
}

func (f *fakeBackend) Name() types.BackendName { return "fake" }

func (f *fakeBackend) Finalize(*ir.Module) (*Instance, error) {
	return newInstance(f.funcs, nil), nil
}

func backends(t *testing.T) []Backend {
	t.Helper()
	list := []Backend{newInterpBackend()}
	if native, err := NewBackend(types.BackendNative); err == nil {
		list = append(list, native)
	} else {
		t.Logf("skipping native backend: %v", err)
	}
	return list
}

func compile(t *testing.T, src string) (*ir.Module, *hir.Expr) {
	t.Helper()
	s := compiler.NewService()
	e, err := s.ParseExpression(src + "\n")
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	module, err := s.CompileModule([]*hir.Declaration{wrapper.Wrap(e)})
	if err != nil {
		t.Fatalf("compile %q: %v", src, err)
	}
	return module, e
}

// folded は解析時に畳み込んだ値を評価結果と同じ形式で返す
func folded(e *hir.Expr) string {
	if e.Type.IsSigned() {
		return strconv.FormatInt(e.Value.Int(), 10)
	}
	return strconv.FormatUint(e.Value.Bits, 10)
}

func TestBridge_Execute(t *testing.T) {
	tests := []struct {
		src      string
		expected string
	}{
		{src: "2 + 2", expected: "4"},
		{src: "-1", expected: "-1"},
		{src: "(unsigned)-1", expected: "4294967295"},
		{src: "(unsigned long)-1", expected: "18446744073709551615"},
		{src: "LONG_MIN", expected: "-9223372036854775808"},
		{src: "(char)200", expected: "-56"},
		{src: "(unsigned char)200", expected: "200"},
		{src: "(short)70000", expected: "4464"},
		{src: "(_Bool)-3", expected: "1"},
		{src: "7 / -2", expected: "-3"},
		{src: "-7 % 3", expected: "-1"},
		{src: "7u / 2", expected: "3"},
		{src: "(unsigned)-8 / 2", expected: "2147483644"},
		{src: "(unsigned long)-1 % 10", expected: "5"},
		{src: "1 << 31", expected: "-2147483648"},
		{src: "-16 >> 2", expected: "-4"},
		{src: "(unsigned)-16 >> 2", expected: "1073741820"},
		{src: "0xf0 & 0x3c | 1 ^ 3", expected: "50"},
		{src: "~5", expected: "-6"},
		{src: "!5 + !0", expected: "1"},
		{src: "-1 < 1u", expected: "0"},
		{src: "-1 < 1", expected: "1"},
		{src: "3 >= 3 && 2 <= 1", expected: "0"},
		{src: "0 || 7", expected: "1"},
		{src: "0 && 1 / 0", expected: "0"},
		{src: "1 ? 2 : 1 / 0", expected: "2"},
		{src: "2 == 2 ? 10L : 20", expected: "10"},
		{src: "(1, 2, 3)", expected: "3"},
		{src: "(int)2.75 * 4", expected: "8"},
		{src: "1.5 < 2", expected: "1"},
		{src: "sizeof(long long) * 3", expected: "24"},
		{src: "(int *)64 - (int *)0", expected: "16"},
		{src: "'A' + 1", expected: "66"},
		{src: "INT_MAX + 1", expected: "-2147483648"},
	}

	for _, backend := range backends(t) {
		for _, tt := range tests {
			t.Run(string(backend.Name())+"/"+tt.src, func(t *testing.T) {
				module, e := compile(t, tt.src)
				got, err := NewBridge(backend, nil).Execute(module, e.Type)
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got != tt.expected {
					t.Errorf("expected %s, got %s", tt.expected, got)
				}
				if want := folded(e); got != want {
					t.Errorf("executed value %s differs from the folded constant %s", got, want)
				}
			})
		}
	}
}

func TestBridge_Execute_DeepExpression(t *testing.T) {
	src := strings.Repeat("(1 + ", 40) + "1" + strings.Repeat(")", 40)
	for _, backend := range backends(t) {
		t.Run(string(backend.Name()), func(t *testing.T) {
			module, e := compile(t, src)
			got, err := NewBridge(backend, nil).Execute(module, e.Type)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "41" {
				t.Errorf("expected 41, got %s", got)
			}
		})
	}
}

func TestBridge_Execute_LongFlatExpression(t *testing.T) {
	src := strings.Repeat("1 + ", 99) + "1"
	for _, backend := range backends(t) {
		t.Run(string(backend.Name()), func(t *testing.T) {
			module, e := compile(t, src)
			if fn, _ := module.Lookup("execute"); fn.MaxDepth != 2 {
				t.Errorf("expected depth 2, got %d", fn.MaxDepth)
			}
			got, err := NewBridge(backend, nil).Execute(module, e.Type)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != "100" {
				t.Errorf("expected 100, got %s", got)
			}
		})
	}
}

func TestBridge_Execute_UnsupportedType(t *testing.T) {
	tests := []struct {
		src         string
		expectedMsg string
	}{
		{src: "1.5", expectedMsg: "expression returns unsupported type: double"},
		{src: "1.5f", expectedMsg: "expression returns unsupported type: float"},
		{src: "(void)0", expectedMsg: "expression returns unsupported type: void"},
		{src: "(char *)0", expectedMsg: "expression returns unsupported type: char *"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			module, e := compile(t, tt.src)
			called := false
			backend := &fakeBackend{funcs: map[string]func() uint64{
				"execute": func() uint64 {
					called = true
					return 0
				},
			}}

			_, err := NewBridge(backend, nil).Execute(module, e.Type)
			var unsupportedErr *errs.UnsupportedResultTypeError
			if !errors.As(err, &unsupportedErr) {
				t.Fatalf("expected UnsupportedResultTypeError, got %v", err)
			}
			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}
			if called {
				t.Error("the entry point must not be invoked for an unsupported type")
			}
		})
	}
}

func TestBridge_Execute_MissingEntryPanics(t *testing.T) {
	backend := &fakeBackend{funcs: map[string]func() uint64{}}
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok || errs.TypeOf(err) != errs.INTERNAL_ERROR {
			t.Errorf("expected an InternalError panic, got %v", r)
		}
	}()
	_, _ = NewBridge(backend, nil).Execute(&ir.Module{}, ctype.IntType)
	t.Error("Execute must panic")
}

func TestDecoderFor(t *testing.T) {
	elem := ctype.IntType
	typeOf := map[ctype.Kind]ctype.Type{
		ctype.Pointer:  ctype.PointerTo(elem),
		ctype.Array:    {Kind: ctype.Array, Elem: &elem, Len: 2},
		ctype.Function: ctype.FunctionOf(elem, nil, false),
	}

	for _, kind := range ctype.Kinds {
		for _, unsigned := range []bool{false, true} {
			ty, ok := typeOf[kind]
			if !ok {
				ty = ctype.Type{Kind: kind, Unsigned: unsigned}
			}
			t.Run(ty.String(), func(t *testing.T) {
				decode, err := decoderFor(ty)
				if err != nil {
					var unsupportedErr *errs.UnsupportedResultTypeError
					if !errors.As(err, &unsupportedErr) {
						t.Fatalf("kind %s must be decoded or rejected, got %v", kind, err)
					}
					if ty.IsInteger() {
						t.Errorf("integer type %s must be decodable", ty)
					}
					return
				}
				if !ty.IsInteger() {
					t.Errorf("type %s must be rejected", ty)
				}
				if decode == nil {
					t.Error("decoder is nil")
				}
			})
		}
	}
}

func TestDecoders(t *testing.T) {
	tests := []struct {
		name     string
		ty       ctype.Type
		raw      uint64
		expected string
	}{
		{name: "char keeps the low byte", ty: ctype.CharType, raw: 0x1ff, expected: "-1"},
		{name: "unsigned char", ty: ctype.UCharType, raw: 0x1ff, expected: "255"},
		{name: "short", ty: ctype.ShortType, raw: 0x8000, expected: "-32768"},
		{name: "unsigned short", ty: ctype.UShortType, raw: 0xffff8000, expected: "32768"},
		{name: "int", ty: ctype.IntType, raw: 0xffffffff, expected: "-1"},
		{name: "unsigned int", ty: ctype.UIntType, raw: 0xffffffffffffffff, expected: "4294967295"},
		{name: "long", ty: ctype.LongType, raw: 0x8000000000000000, expected: "-9223372036854775808"},
		{name: "unsigned long long", ty: ctype.ULongLongType, raw: 0x8000000000000000, expected: "9223372036854775808"},
		{name: "_Bool", ty: ctype.BoolType, raw: 1, expected: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decode, err := decoderFor(tt.ty)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := decode(tt.raw); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestInstance(t *testing.T) {
	released := 0
	inst := newInstance(map[string]func() uint64{"execute": func() uint64 { return 9 }}, func() error {
		released++
		return nil
	})

	var escaped Entry
	err := inst.Call("execute", func(entry Entry) error {
		if got := entry.Invoke(); got != 9 {
			t.Errorf("expected 9, got %d", got)
		}
		escaped = entry
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := inst.Call("missing", func(Entry) error { return nil }); !errors.Is(err, ErrSymbolNotFound) {
		t.Errorf("expected ErrSymbolNotFound, got %v", err)
	}

	if err := inst.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := inst.Release(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if released != 1 {
		t.Errorf("expected release to run once, ran %d times", released)
	}

	defer func() {
		if recover() == nil {
			t.Error("invoking a released entry must panic")
		}
	}()
	escaped.Invoke()
}

func TestNewBackend(t *testing.T) {
	interp, err := NewBackend(types.BackendInterp)
	if err != nil || interp.Name() != types.BackendInterp {
		t.Errorf("expected interp backend, got %v, %v", interp, err)
	}
	auto, err := NewBackend(types.BackendAuto)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name := auto.Name(); name != types.BackendNative && name != types.BackendInterp {
		t.Errorf("unexpected backend %s", name)
	}
	if _, err := NewBackend("llvm"); errs.TypeOf(err) != errs.BAD_INPUT_ERROR {
		t.Errorf("expected BadInputError, got %v", err)
	}
}
