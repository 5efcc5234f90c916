package adapter

import (
	"context"
	"time"

	"github.com/0x6b/soratun-host/internal/config"
	"github.com/0x6b/soratun-host/internal/dispatch"
	"github.com/0x6b/soratun-host/internal/native"
	"github.com/0x6b/soratun-host/pkg/logger"
)

// Bootstrap holds the steps used to bring a dispatcher to the Ready state.
type Bootstrap struct {
	Bind     func(libraryPath, symbol string) (dispatch.Caller, error)
	LoadBlob func(ctx context.Context, location string) (*config.Blob, error)
}

// DefaultBootstrap loads the real shared library and configuration.
var DefaultBootstrap = Bootstrap{
	Bind:     BindNative,
	LoadBlob: config.LoadBlob,
}

// BindNative opens the shared library and binds the named send function.
func BindNative(libraryPath, symbol string) (dispatch.Caller, error) {
	lib, err := native.Open(libraryPath)
	if err != nil {
		return nil, err
	}
	ep, err := lib.Bind(symbol)
	if err != nil {
		return nil, err
	}
	return ep, nil
}

// Initialise performs common initialisation tasks for all adapters. The
// library is loaded before the configuration is read, and nothing is sent
// when either step fails.
func (b Bootstrap) Initialise(ctx context.Context, cfg *config.BridgeConfig, configLocation string) (*dispatch.Dispatcher, error) {
	startTime := time.Now()

	caller, err := b.Bind(cfg.LibraryPath, cfg.Symbol)
	if err != nil {
		return nil, err
	}

	blob, err := b.LoadBlob(ctx, configLocation)
	if err != nil {
		return nil, err
	}

	logger.Debugf("bridge ready in %v: library=%s symbol=%s config=%s", time.Since(startTime), cfg.LibraryPath, cfg.Symbol, configLocation)
	return dispatch.New(caller, blob), nil
}

// Initialise uses DefaultBootstrap.
func Initialise(ctx context.Context, cfg *config.BridgeConfig, configLocation string) (*dispatch.Dispatcher, error) {
	return DefaultBootstrap.Initialise(ctx, cfg, configLocation)
}
