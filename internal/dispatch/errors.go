package dispatch

import (
	"errors"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

const TextCodeNativeCallFailed = "NATIVE_CALL_FAILED"

var (
	// ErrNotReady is returned by Send before the library and configuration are loaded.
	ErrNotReady = errors.New("dispatch: library or configuration not loaded")
	// ErrNativeCallFailure is the sentinel wrapped by NativeCallError.
	ErrNativeCallFailure = errors.New("dispatch: native call returned no response")
)

// NativeCallError reports a native call that returned NULL. The native side
// gives no further detail.
type NativeCallError struct {
	InvocationID string
	Symbol       string
	Request      Request
}

func (e *NativeCallError) Error() string {
	return fmt.Sprintf("%v (symbol=%s method=%s path=%s invocation=%s)",
		ErrNativeCallFailure, e.Symbol, e.Request.Method, e.Request.Path, e.InvocationID)
}

func (e *NativeCallError) Unwrap() error {
	return ErrNativeCallFailure
}

// ToServiceError maps the failure to a gateway error for host responses.
func (e *NativeCallError) ToServiceError() *goerrors.Error {
	return goerrors.New(e.Error(), goerrors.CategoryExternal).
		WithCode(http.StatusBadGateway).
		WithTextCode(TextCodeNativeCallFailed)
}
