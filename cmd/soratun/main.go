package main

import (
	"context"
	"fmt"
	"os"

	"github.com/0x6b/soratun-host/internal/adapter"
	"github.com/0x6b/soratun-host/internal/adapter/awslambda"
	"github.com/0x6b/soratun-host/internal/adapter/cli"
	"github.com/0x6b/soratun-host/internal/config"
	"github.com/0x6b/soratun-host/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "soratun: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadBridgeConfig()
	if err != nil {
		return err
	}

	mode := adapter.DetectMode()
	logger.Debugf("starting soratun in %s mode", mode)

	var a adapter.Adapter
	switch mode {
	case adapter.ModeLambda:
		a, err = awslambda.NewAdapter(context.Background(), cfg, adapter.DefaultBootstrap)
		if err != nil {
			return err
		}
	default:
		a = cli.NewAdapter(cfg, adapter.DefaultBootstrap, os.Args[1:], os.Stdout)
	}
	return a.Start()
}
