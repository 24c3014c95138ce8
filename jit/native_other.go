//go:build !(linux && amd64)

package jit

import (
	"fmt"
	"runtime"

	"github.com/kakkky/csole/errs"
)

func newNativeBackend() (Backend, error) {
	return nil, errs.NewBadInputError(fmt.Sprintf("native backend is not available on %s/%s", runtime.GOOS, runtime.GOARCH))
}
