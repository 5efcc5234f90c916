//go:build darwin || linux

package native

import (
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildFakeLibrary compiles testdata/fakesoratun.c, which echoes its
// arguments back, or skips the test when no C compiler is available.
func buildFakeLibrary(t *testing.T) string {
	t.Helper()
	cc, err := exec.LookPath("cc")
	if err != nil {
		t.Skip("no C compiler available")
	}

	name := "libfakesoratun.so"
	if runtime.GOOS == "darwin" {
		name = "libfakesoratun.dylib"
	}
	out := filepath.Join(t.TempDir(), name)

	cmd := exec.Command(cc, "-shared", "-fPIC", "-o", out, filepath.Join("testdata", "fakesoratun.c"))
	if output, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("failed to build fake library: %v\n%s", err, output)
	}
	return out
}

func TestNativeRoundTrip(t *testing.T) {
	path := buildFakeLibrary(t)

	lib, err := Open(path)
	require.NoError(t, err)
	assert.NotNil(t, lib.free)

	for _, symbol := range []string{SymbolSend, SymbolSendRequest} {
		t.Run(symbol, func(t *testing.T) {
			ep, err := lib.Bind(symbol)
			require.NoError(t, err)

			args := mustCStrings(t, `{"privateKey":"k"}`, "POST", "/", "hello from lambda")
			resp, ok := ep.Invoke(args[0], args[1], args[2], args[3])

			require.True(t, ok)
			assert.Equal(t, symbol+`|POST|/|hello from lambda|{"privateKey":"k"}`, resp)
			assert.Equal(t, "hello from lambda", args[3].String())
		})
	}
}

func TestNativeNullReturn(t *testing.T) {
	lib, err := Open(buildFakeLibrary(t))
	require.NoError(t, err)

	ep, err := lib.Bind(SymbolSend)
	require.NoError(t, err)

	args := mustCStrings(t, "{}", "FAIL", "/", "")
	resp, ok := ep.Invoke(args[0], args[1], args[2], args[3])
	assert.False(t, ok)
	assert.Empty(t, resp)
}

func TestNativeRepeatedCalls(t *testing.T) {
	lib, err := Open(buildFakeLibrary(t))
	require.NoError(t, err)
	ep, err := lib.Bind(SymbolSend)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		args := mustCStrings(t, "{}", "POST", "/", "again")
		resp, ok := ep.Invoke(args[0], args[1], args[2], args[3])
		require.True(t, ok)
		assert.Equal(t, "Send|POST|/|again|{}", resp)
	}
}
