/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/spaghettifunk/kalsengi/engine"
	"github.com/spaghettifunk/kalsengi/engine/core"
	"github.com/spaghettifunk/kalsengi/testbed"
)

func init() {
	// the window and the GL context belong to the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the engine configuration")
	flag.Parse()

	config := engine.DefaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		if config, err = engine.LoadConfig(*configPath); err != nil {
			core.LogFatal("failed to load %s: %s", *configPath, err)
		}
	} else {
		core.LogWarn("no config at %s, using defaults", *configPath)
	}

	tb := testbed.NewTestGame(config)

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("failed to initialize: %s", err)
	}

	// capture sigterm and other system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	runErr := e.Run(ctx)
	if err := e.Shutdown(); err != nil {
		core.LogError("shutdown failed: %s", err)
	}
	if runErr != nil {
		core.LogFatal(runErr.Error())
	}
}
