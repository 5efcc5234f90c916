package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/0x6b/soratun-host/internal/adapter"
	"github.com/0x6b/soratun-host/internal/config"
	"github.com/0x6b/soratun-host/internal/dispatch"
	"github.com/0x6b/soratun-host/pkg/logger"
)

// ErrUsage is returned when no configuration path is given.
var ErrUsage = errors.New("usage: soratun <config-path> [body ...]")

// ParseArgs maps positional arguments to a configuration location and a
// request. Everything after the first argument is the body, joined with
// single spaces. There are no flags.
func ParseArgs(args []string) (string, dispatch.Request, error) {
	if len(args) < 1 || args[0] == "" {
		return "", dispatch.Request{}, ErrUsage
	}
	return args[0], dispatch.Request{
		Method: http.MethodPost,
		Path:   "/",
		Body:   strings.Join(args[1:], " "),
	}, nil
}

// CLIAdapter runs a single send from command-line arguments.
type CLIAdapter struct {
	boot   adapter.Bootstrap
	cfg    *config.BridgeConfig
	args   []string
	stdout io.Writer
}

// NewAdapter returns a CLI adapter. args excludes the program name.
func NewAdapter(cfg *config.BridgeConfig, boot adapter.Bootstrap, args []string, stdout io.Writer) adapter.Adapter {
	return &CLIAdapter{boot: boot, cfg: cfg, args: args, stdout: stdout}
}

// Start loads the library and the configuration, then sends once. The
// native response, if any, is written to stdout.
func (a *CLIAdapter) Start() error {
	ctx := context.Background()

	location, req, err := ParseArgs(a.args)
	if err != nil {
		return err
	}

	d, err := a.boot.Initialise(ctx, a.cfg, location)
	if err != nil {
		return err
	}

	result, err := d.Send(ctx, req)
	if err != nil {
		var callErr *dispatch.NativeCallError
		if errors.As(err, &callErr) && !a.cfg.Strict {
			logger.Warnf("native send reported no response: %v", err)
			return nil
		}
		return err
	}

	if result.Response != "" {
		if _, err := fmt.Fprintln(a.stdout, result.Response); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	return nil
}
