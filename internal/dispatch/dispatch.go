// Package dispatch sends request triples through a bound native entrypoint.
package dispatch

import (
	"context"
	"errors"
	"time"

	"github.com/0x6b/soratun-host/internal/config"
	"github.com/0x6b/soratun-host/internal/native"
	"github.com/0x6b/soratun-host/pkg/logger"
	"github.com/google/uuid"
)

// Caller is a native send function. *native.Entrypoint implements it.
type Caller interface {
	Invoke(config, method, path, body *native.CString) (response string, ok bool)
}

// Request is the (method, path, body) triple of one outbound request. The
// values are passed through as-is.
type Request struct {
	Method string
	Path   string
	Body   string
}

// Result describes a completed native call.
type Result struct {
	InvocationID string
	// Response is the text returned by the native side, if any.
	Response string
	// Returned is false when the native side returned NULL.
	Returned bool
	Elapsed  time.Duration
}

// State of a Dispatcher.
type State int

const (
	Uninitialized State = iota
	Ready
)

func (s State) String() string {
	if s == Ready {
		return "ready"
	}
	return "uninitialized"
}

// Dispatcher owns the configuration blob and the entrypoint it is sent to.
// It holds no lock: concurrent Send calls share the blob read-only and the
// native side is responsible for its own thread safety.
type Dispatcher struct {
	caller Caller
	blob   *config.Blob
}

// New returns a dispatcher. It is Ready only when both caller and blob are set.
func New(caller Caller, blob *config.Blob) *Dispatcher {
	return &Dispatcher{caller: caller, blob: blob}
}

// State reports whether calls may proceed.
func (d *Dispatcher) State() State {
	if d == nil || d.caller == nil || d.blob == nil {
		return Uninitialized
	}
	return Ready
}

// Send marshals the configuration and req, then invokes the native
// entrypoint exactly once and waits for it to return. There is no timeout
// and ctx does not interrupt the native call.
//
// When the native side returns NULL, Send returns the Result together with a
// *NativeCallError.
func (d *Dispatcher) Send(ctx context.Context, req Request) (*Result, error) {
	if d.State() != Ready {
		return nil, ErrNotReady
	}

	id := uuid.NewString()
	log := logger.Named("dispatch").With("invocation", id)
	if requestID, ok := RequestIDFromContext(ctx); ok {
		log = log.With("request_id", requestID)
	}

	args, err := marshal(d.blob, req)
	if err != nil {
		log.Error("failed to marshal request", "error", err)
		return nil, err
	}

	symbol := ""
	if named, ok := d.caller.(interface{ Symbol() string }); ok {
		symbol = named.Symbol()
	}
	log.Debug("invoking native entrypoint", "symbol", symbol, "method", req.Method, "path", req.Path, "body_bytes", len(req.Body))

	start := time.Now()
	response, ok := d.caller.Invoke(args.config, args.method, args.path, args.body)
	result := &Result{
		InvocationID: id,
		Response:     response,
		Returned:     ok,
		Elapsed:      time.Since(start),
	}

	if !ok {
		log.Warn("native entrypoint returned no response", "elapsed", result.Elapsed)
		return result, &NativeCallError{InvocationID: id, Symbol: symbol, Request: req}
	}
	log.Debug("native entrypoint returned", "elapsed", result.Elapsed, "response_bytes", len(response))
	return result, nil
}

type marshaled struct {
	config, method, path, body *native.CString
}

func marshal(blob *config.Blob, req Request) (*marshaled, error) {
	var m marshaled
	var err error
	if m.config, err = native.NewCStringBytes(blob.Bytes()); err != nil {
		return nil, field("config", err)
	}
	if m.method, err = native.NewCString(req.Method); err != nil {
		return nil, field("method", err)
	}
	if m.path, err = native.NewCString(req.Path); err != nil {
		return nil, field("path", err)
	}
	if m.body, err = native.NewCString(req.Body); err != nil {
		return nil, field("body", err)
	}
	return &m, nil
}

func field(name string, err error) error {
	var merr *native.MarshalError
	if errors.As(err, &merr) {
		merr.Field = name
	}
	return err
}
