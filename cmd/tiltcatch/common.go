package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tilt-catch/internal/core"
	"github.com/vovakirdan/tilt-catch/internal/motion"
	"github.com/vovakirdan/tilt-catch/internal/registry"
	"github.com/vovakirdan/tilt-catch/internal/storage"

	"github.com/vovakirdan/tilt-catch/internal/games/catch"
)

// runtimeConfig sizes the screen from the terminal, 80x24 when stdout
// isn't one.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database. Games still run without it, so a
// failure is only a warning.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}

func checkGame(id string) error {
	if !registry.Exists(id) {
		return fmt.Errorf("unknown game %q, run 'tiltcatch list' to see available games", id)
	}
	return nil
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// startSensor binds the phone server and runs it in the background. A
// bind failure is returned before anything else starts. The returned stop
// function shuts the server down and waits for it.
func startSensor(cfg motion.ServerConfig, latest *motion.Latest) (*motion.Server, func(), error) {
	srv := motion.NewServer(cfg, latest)
	ln, err := srv.Listen()
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			cfg.Logger.Error("sensor server stopped", "error", err)
		}
	}()

	return srv, func() {
		cancel()
		<-done
	}, nil
}

// sensorConfig advertises the game's configured sample interval to phones.
func sensorConfig(addr string, game catch.Mode, logger *log.Logger) motion.ServerConfig {
	cfg := motion.DefaultServerConfig()
	if addr != "" {
		cfg.Address = addr
	}
	if gameCfg, _, err := catch.Load(game); err == nil {
		cfg.SampleInterval = time.Duration(gameCfg.Tilt.SampleIntervalMS) * time.Millisecond
	}
	cfg.Logger = logger
	return cfg
}
