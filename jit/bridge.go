package jit

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/kakkky/csole/compiler/ctype"
	"github.com/kakkky/csole/compiler/ir"
	"github.com/kakkky/csole/errs"
	"github.com/kakkky/csole/types"
)

// Bridge はモジュールを確定させて execute を1回だけ呼び出し、静的な型に従って結果を整形する
type Bridge struct {
	backend Backend
	logger  *slog.Logger
}

// NewBridge はBridgeのインスタンスを生成する
func NewBridge(backend Backend, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bridge{backend: backend, logger: logger}
}

// Backend は現在のバックエンドを返す
func (b *Bridge) Backend() Backend {
	return b.backend
}

// SetBackend は以降の評価に使うバックエンドを切り替える
func (b *Bridge) SetBackend(backend Backend) {
	b.backend = backend
}

// Execute はmoduleを実行し、tyの値として整形した文字列を返す。
// tyに対応するデコード方法が無ければ関数を呼び出さずにUnsupportedResultTypeErrorを返す
func (b *Bridge) Execute(module *ir.Module, ty ctype.Type) (result string, err error) {
	start := time.Now()
	inst, err := b.backend.Finalize(module)
	if err != nil {
		return "", err
	}
	defer func() {
		if releaseErr := inst.Release(); releaseErr != nil && err == nil {
			err = releaseErr
		}
	}()
	b.logger.Debug("finalized", "backend", string(b.backend.Name()), "elapsed", time.Since(start))

	err = inst.Call(string(types.EntryName), func(entry Entry) error {
		decode, err := decoderFor(ty)
		if err != nil {
			return err
		}
		result = decode(entry.Invoke())
		return nil
	})
	if errors.Is(err, ErrSymbolNotFound) {
		// execute は必ず宣言されているので、見つからないのはコンパイラの不具合
		panic(errs.NewInternalError("compiled module has no entry point").Wrap(err))
	}
	if err != nil {
		return "", err
	}
	return result, nil
}

// decoder は戻り値のレジスタの値を型に従って整形する
type decoder func(raw uint64) string

// decoderFor は型の種類ごとのデコード方法を返す。全ての種類について、
// デコード方法を返すか、UnsupportedResultTypeErrorで明示的に拒否する
func decoderFor(ty ctype.Type) (decoder, error) {
	switch ty.Kind {
	case ctype.Bool, ctype.Char, ctype.Short, ctype.Int, ctype.Long, ctype.LongLong:
		if ty.Unsigned {
			return unsignedDecoder(ty.Width()), nil
		}
		return signedDecoder(ty.Width()), nil
	case ctype.Void, ctype.Float, ctype.Double, ctype.Pointer, ctype.Array, ctype.Function:
		return nil, errs.NewUnsupportedResultTypeError(ty.String())
	}
	return nil, errs.NewInternalError(fmt.Sprintf("no decode strategy for type kind %s", ty.Kind))
}

// signedDecoder は下位widthビットを2の補数として読む
func signedDecoder(width int) decoder {
	shift := uint(64 - width)
	return func(raw uint64) string {
		return strconv.FormatInt(int64(raw<<shift)>>shift, 10)
	}
}

// unsignedDecoder は下位widthビットを符号なしとして読む
func unsignedDecoder(width int) decoder {
	shift := uint(64 - width)
	return func(raw uint64) string {
		return strconv.FormatUint(raw<<shift>>shift, 10)
	}
}
