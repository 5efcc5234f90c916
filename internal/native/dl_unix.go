//go:build darwin || freebsd || linux

package native

import (
	"github.com/ebitengine/purego"
)

func dlopen(path string) (uintptr, error) {
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func bindSend(handle uintptr, symbol string) (sendFunc, error) {
	sym, err := purego.Dlsym(handle, symbol)
	if err != nil {
		return nil, err
	}
	var fn sendFunc
	purego.RegisterFunc(&fn, sym)
	return fn, nil
}

// bindFree resolves the C allocator's free through the library's own
// dependencies, so strings returned by C.CString are released by the
// allocator that produced them.
func bindFree(handle uintptr) func(uintptr) {
	sym, err := purego.Dlsym(handle, "free")
	if err != nil {
		return nil
	}
	var fn func(uintptr)
	purego.RegisterFunc(&fn, sym)
	return fn
}
