// Package native loads the soratun shared library into the process and calls
// its exported send functions through the C calling convention.
//
// A Library is opened once per process and never closed. Each exported send
// function takes four NUL-terminated strings (configuration, method, path,
// body) and returns a C string owned by the caller, or NULL on failure.
package native

import (
	"runtime"

	"github.com/0x6b/soratun-host/pkg/logger"
)

// Exported send functions known to exist in libsoratun builds.
const (
	SymbolSend        = "Send"
	SymbolSendRequest = "SendRequest"
)

type sendFunc func(config, method, path, body *byte) uintptr

// Library is a loaded shared library.
type Library struct {
	path   string
	handle uintptr
	free   func(uintptr)
}

// Open maps the shared library at path into the process. The path may be a
// bare name, in which case the platform search path is used.
func Open(path string) (*Library, error) {
	handle, err := dlopen(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	lib := &Library{path: path, handle: handle}
	lib.free = bindFree(handle)
	if lib.free == nil {
		logger.Debugf("free not resolvable from %s, native responses will not be released", path)
	}

	logger.Debugf("loaded native library %s", path)
	return lib, nil
}

// Path returns the path the library was opened with.
func (l *Library) Path() string {
	return l.path
}

// Bind resolves an exported send function by name.
func (l *Library) Bind(symbol string) (*Entrypoint, error) {
	fn, err := bindSend(l.handle, symbol)
	if err != nil {
		return nil, &LoadError{Path: l.path, Symbol: symbol, Err: err}
	}
	logger.Tracef("bound %s from %s", symbol, l.path)
	return &Entrypoint{lib: l, symbol: symbol, call: fn}, nil
}

// Entrypoint is a bound send function.
type Entrypoint struct {
	lib    *Library
	symbol string
	call   sendFunc
}

// Symbol returns the exported name this entrypoint is bound to.
func (e *Entrypoint) Symbol() string {
	return e.symbol
}

// Invoke calls the native function synchronously. ok is false when the
// native side returned NULL.
func (e *Entrypoint) Invoke(config, method, path, body *CString) (response string, ok bool) {
	ret := e.call(config.Ptr(), method.Ptr(), path.Ptr(), body.Ptr())
	runtime.KeepAlive(config)
	runtime.KeepAlive(method)
	runtime.KeepAlive(path)
	runtime.KeepAlive(body)

	if ret == 0 {
		return "", false
	}
	response = goString(ret)
	if e.lib.free != nil {
		e.lib.free(ret)
	}
	return response, true
}
