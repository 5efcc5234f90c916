package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/0x6b/soratun-host/internal/config"
	"github.com/0x6b/soratun-host/internal/native"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	config, method, path, body string
}

type recordingCaller struct {
	mu       sync.Mutex
	calls    []call
	response string
	fail     bool
}

func (c *recordingCaller) Invoke(cfg, method, path, body *native.CString) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call{cfg.String(), method.String(), path.String(), body.String()})
	if c.fail {
		return "", false
	}
	return c.response, true
}

func (c *recordingCaller) Symbol() string {
	return native.SymbolSend
}

func (c *recordingCaller) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

const arcJSON = `{"privateKey":"key","arcSessionStatus":{}}`

func TestSend_ForwardsTriple(t *testing.T) {
	caller := &recordingCaller{response: "ok"}
	blob := config.NewBlob("arc.json", []byte(arcJSON))
	d := New(caller, blob)
	require.Equal(t, Ready, d.State())

	req := Request{Method: "POST", Path: "/", Body: "hello from lambda"}
	result, err := d.Send(context.Background(), req)
	require.NoError(t, err)

	require.Equal(t, 1, caller.count())
	assert.Equal(t, call{arcJSON, "POST", "/", "hello from lambda"}, caller.calls[0])
	assert.True(t, result.Returned)
	assert.Equal(t, "ok", result.Response)
	assert.NotEmpty(t, result.InvocationID)

	assert.Equal(t, Request{Method: "POST", Path: "/", Body: "hello from lambda"}, req)
	assert.Equal(t, []byte(arcJSON), blob.Bytes())
}

func TestSend_EmptyBody(t *testing.T) {
	caller := &recordingCaller{}
	d := New(caller, config.NewBlob("arc.json", []byte(arcJSON)))

	_, err := d.Send(context.Background(), Request{Method: "POST", Path: "/"})
	require.NoError(t, err)
	require.Equal(t, 1, caller.count())
	assert.Equal(t, "", caller.calls[0].body)
}

func TestSend_NoDeduplication(t *testing.T) {
	caller := &recordingCaller{}
	d := New(caller, config.NewBlob("arc.json", []byte(arcJSON)))
	req := Request{Method: "POST", Path: "/", Body: "same"}

	ids := map[string]bool{}
	for i := 0; i < 5; i++ {
		result, err := d.Send(context.Background(), req)
		require.NoError(t, err)
		ids[result.InvocationID] = true
	}

	assert.Equal(t, 5, caller.count())
	assert.Len(t, ids, 5)
}

func TestSend_GeneratedTriples(t *testing.T) {
	faker := gofakeit.New(42)
	blob := config.NewBlob("arc.json", []byte(arcJSON))

	for i := 0; i < 50; i++ {
		req := Request{
			Method: faker.HTTPMethod(),
			Path:   "/" + faker.Word(),
			Body:   fmt.Sprintf("%s %s %s", faker.Word(), faker.UUID(), faker.Emoji()),
		}
		caller := &recordingCaller{}
		_, err := New(caller, blob).Send(context.Background(), req)
		require.NoError(t, err)

		require.Equal(t, 1, caller.count())
		assert.Equal(t, call{arcJSON, req.Method, req.Path, req.Body}, caller.calls[0])
	}
	assert.Equal(t, []byte(arcJSON), blob.Bytes())
}

func TestSend_NativeFailure(t *testing.T) {
	caller := &recordingCaller{fail: true}
	d := New(caller, config.NewBlob("arc.json", []byte(arcJSON)))

	result, err := d.Send(context.Background(), Request{Method: "POST", Path: "/", Body: "x"})
	require.Error(t, err)
	require.NotNil(t, result)

	assert.False(t, result.Returned)
	assert.Equal(t, 1, caller.count())
	assert.True(t, errors.Is(err, ErrNativeCallFailure))

	var callErr *NativeCallError
	require.True(t, errors.As(err, &callErr))
	assert.Equal(t, result.InvocationID, callErr.InvocationID)
	assert.Equal(t, native.SymbolSend, callErr.Symbol)

	svcErr := callErr.ToServiceError()
	assert.Equal(t, 502, svcErr.Code)
	assert.Equal(t, TextCodeNativeCallFailed, svcErr.TextCode)
}

func TestSend_NotReady(t *testing.T) {
	caller := &recordingCaller{}

	tests := []struct {
		name string
		d    *Dispatcher
	}{
		{name: "nil dispatcher", d: nil},
		{name: "no blob", d: New(caller, nil)},
		{name: "no caller", d: New(nil, config.NewBlob("arc.json", nil))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, Uninitialized, tt.d.State())
			result, err := tt.d.Send(context.Background(), Request{Method: "POST", Path: "/"})
			assert.ErrorIs(t, err, ErrNotReady)
			assert.Nil(t, result)
		})
	}
	assert.Zero(t, caller.count())
}

func TestSend_RejectsEmbeddedNUL(t *testing.T) {
	tests := []struct {
		name  string
		blob  string
		req   Request
		field string
	}{
		{name: "body", blob: arcJSON, req: Request{Method: "POST", Path: "/", Body: "a\x00b"}, field: "body"},
		{name: "path", blob: arcJSON, req: Request{Method: "POST", Path: "/\x00"}, field: "path"},
		{name: "method", blob: arcJSON, req: Request{Method: "PO\x00ST", Path: "/"}, field: "method"},
		{name: "config", blob: "{\x00}", req: Request{Method: "POST", Path: "/"}, field: "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := &recordingCaller{}
			_, err := New(caller, config.NewBlob("arc.json", []byte(tt.blob))).Send(context.Background(), tt.req)

			var merr *native.MarshalError
			require.True(t, errors.As(err, &merr))
			assert.Equal(t, tt.field, merr.Field)
			assert.Zero(t, caller.count())
		})
	}
}

func TestSend_Concurrent(t *testing.T) {
	caller := &recordingCaller{response: "ok"}
	d := New(caller, config.NewBlob("arc.json", []byte(arcJSON)))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := d.Send(context.Background(), Request{Method: "POST", Path: "/", Body: fmt.Sprint(i)})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 16, caller.count())
	for _, c := range caller.calls {
		assert.Equal(t, arcJSON, c.config)
	}
}

func TestRequestIDFromContext(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)

	id, ok := RequestIDFromContext(WithRequestID(context.Background(), "req-1"))
	assert.True(t, ok)
	assert.Equal(t, "req-1", id)

	_, ok = RequestIDFromContext(WithRequestID(context.Background(), ""))
	assert.False(t, ok)
}
