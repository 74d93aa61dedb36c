// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/fbvnc/input"
	"github.com/bureau-foundation/fbvnc/lib/clock"
	"github.com/bureau-foundation/fbvnc/lib/config"
	"github.com/bureau-foundation/fbvnc/lib/fbdev"
	"github.com/bureau-foundation/fbvnc/lib/process"
	"github.com/bureau-foundation/fbvnc/lib/service"
	"github.com/bureau-foundation/fbvnc/lib/version"
	"github.com/bureau-foundation/fbvnc/mirror"
	"github.com/bureau-foundation/fbvnc/rfb"
	"github.com/bureau-foundation/fbvnc/screen"
)

const binaryName = "fbvncserver"

func main() {
	if err := run(os.Args[1:]); err != nil {
		process.Fatal(binaryName, err)
	}
}

type options struct {
	configPath  string
	keyboard    string
	touch       string
	debug       bool
	showVersion bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	flagSet.StringVar(&opts.configPath, "config", "", "configuration file (default: $"+config.EnvironmentVariable+", else built-in defaults)")
	flagSet.StringVarP(&opts.keyboard, "keyboard", "k", "", "keyboard device path (default: probe /dev/input)")
	flagSet.StringVarP(&opts.touch, "touch", "t", "", "touch device path (default: probe /dev/input)")
	flagSet.BoolVar(&opts.debug, "debug", false, "log at debug level")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	flagSet.SetOutput(os.Stderr)

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", extra)
	}
	return opts, nil
}

func loadConfig(opts options) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.keyboard != "" {
		cfg.Input.Keyboard.Device = opts.keyboard
	}
	if opts.touch != "" {
		cfg.Input.Touch.Device = opts.touch
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger writes text to a terminal and JSON otherwise.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if file, ok := w.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

func run(args []string) error {
	opts, err := parseFlags(args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if opts.showVersion {
		version.Print(binaryName)
		return nil
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	level, _ := cfg.LogLevel()
	logger := newLogger(os.Stderr, level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

// serve opens every resource, runs the loop until ctx ends, and
// releases them in reverse order.
func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	device, err := fbdev.Open(cfg.Framebuffer.Device, cfg.Framebuffer.Buffers)
	if err != nil {
		return fmt.Errorf("opening framebuffer: %w", err)
	}
	defer device.Close()

	geometry := screen.FromDevice(device)
	logger.Info("framebuffer opened",
		"device", device.Path(),
		"width", geometry.Width,
		"height", geometry.Height,
		"bits_per_pixel", geometry.BitsPerPixel,
		"line_length", geometry.LineLength,
		"pages", device.Pages(),
	)

	tracker, err := screen.NewTracker(device, geometry, screen.TrackerOptions{
		Checkerboard: cfg.Mirror.CheckerboardWorkaround,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("framebuffer %s: %w", device.Path(), err)
	}
	defer tracker.Close()

	locator := input.NewLocator(logger)
	locator.Pattern = cfg.Input.DevicePattern

	keyboard, keyboardCloser, err := openInput("keyboard", cfg.Input.Keyboard, input.OpenKeyboard, locator, cfg.Input.MaxDevices, logger)
	if err != nil {
		return err
	}
	defer keyboardCloser.Close()

	touch, touchCloser, err := openInput("touch", cfg.Input.Touch, func(path string) (input.Target, io.Closer, error) {
		return input.OpenTouch(path, logger)
	}, locator, cfg.Input.MaxDevices, logger)
	if err != nil {
		return err
	}
	defer touchCloser.Close()

	injector := input.NewInjector(input.InjectorConfig{
		Keyboard: keyboard,
		Touch:    touch,
		Width:    geometry.Width,
		Height:   geometry.Height,
		Clock:    clock.Real(),
		Logger:   logger,
	})

	server := rfb.New(rfb.Options{
		Port:         cfg.RFB.Port,
		DesktopName:  cfg.RFB.DesktopName,
		AlwaysShared: cfg.RFB.AlwaysShared,
		Logger:       logger,
	})
	defer server.Close()

	engine, err := mirror.New(mirror.Config{
		Tracker:        tracker,
		Injector:       injector,
		Protocol:       server,
		Interval:       cfg.ScanInterval(),
		KeyboardDevice: openedPath(keyboard),
		TouchDevice:    openedPath(touch),
		Clock:          clock.Real(),
		Logger:         logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Control.Socket != "" {
		control := service.NewSocketServer(cfg.Control.Socket, logger)
		engine.RegisterActions(control)
		controlDone := make(chan struct{})
		go func() {
			defer close(controlDone)
			if err := control.Serve(ctx); err != nil {
				logger.Warn("control socket stopped", "socket", cfg.Control.Socket, "error", err)
			}
		}()
		defer func() {
			cancel()
			<-controlDone
		}()
	}

	if err := engine.Run(ctx); err != nil {
		return err
	}
	logger.Info("shutting down")
	return nil
}

type opener func(path string) (input.Target, io.Closer, error)

// openInput resolves and opens one input channel. A channel that fails
// to open is disabled with a warning unless it is required.
func openInput(name string, deviceConfig config.DeviceConfig, open opener, locator *input.Locator, maxDevices int, logger *slog.Logger) (input.Target, io.Closer, error) {
	path := locator.Resolve(deviceConfig.Device, maxDevices, deviceConfig.Patterns, deviceConfig.Default)
	target, closer, err := open(path)
	if err == nil {
		logger.Info("input device opened", "channel", name, "path", path)
		return target, closer, nil
	}
	if deviceConfig.Required {
		return target, closer, fmt.Errorf("opening %s device: %w", name, err)
	}
	logger.Warn("input device unavailable, channel disabled", "channel", name, "path", path, "error", err)
	return input.Target{Path: path}, closer, nil
}

func openedPath(target input.Target) string {
	if target.Sink == nil {
		return ""
	}
	return target.Path
}
