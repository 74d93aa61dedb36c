// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/bureau-foundation/fbvnc/lib/codec"
	"github.com/bureau-foundation/fbvnc/lib/config"
	"github.com/bureau-foundation/fbvnc/lib/process"
	"github.com/bureau-foundation/fbvnc/lib/service"
	"github.com/bureau-foundation/fbvnc/lib/version"
	"github.com/bureau-foundation/fbvnc/mirror"
	"github.com/bureau-foundation/fbvnc/screen"
)

const binaryName = "fbvnc-ctl"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		var serviceErr *service.ServiceError
		if errors.As(err, &serviceErr) {
			fmt.Fprintf(os.Stderr, "%s: server refused %s: %s\n", binaryName, serviceErr.Action, serviceErr.Message)
			os.Exit(2)
		}
		process.Fatal(binaryName, err)
	}
}

type options struct {
	socket      string
	configPath  string
	raw         bool
	timeout     time.Duration
	compression string
	format      string
	output      string
	showVersion bool
	command     string
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet(binaryName, pflag.ContinueOnError)
	flagSet.StringVar(&opts.socket, "socket", "", "control socket path (default: control.socket from the configuration)")
	flagSet.StringVar(&opts.configPath, "config", "", "configuration file used to find the socket")
	flagSet.BoolVar(&opts.raw, "raw", false, "print the response in CBOR diagnostic notation")
	flagSet.DurationVar(&opts.timeout, "timeout", 10*time.Second, "request timeout")
	flagSet.StringVar(&opts.compression, "compression", string(screen.CompressionZstd), "capture transfer compression: zstd, lz4, or none")
	flagSet.StringVar(&opts.format, "format", "png", "capture file format: png or raw (little-endian RGB555)")
	flagSet.StringVarP(&opts.output, "output", "o", "", "capture output file, - for stdout")
	flagSet.BoolVar(&opts.showVersion, "version", false, "print version information and exit")
	flagSet.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] status|capture|disconnect\n\n", binaryName)
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if opts.showVersion {
		return opts, nil
	}

	positional := flagSet.Args()
	if len(positional) != 1 {
		return opts, fmt.Errorf("expected one command (status, capture, disconnect), got %d arguments", len(positional))
	}
	opts.command = positional[0]

	switch opts.command {
	case mirror.ActionStatus, mirror.ActionDisconnect:
	case mirror.ActionCapture:
		if opts.output == "" {
			return opts, errors.New("capture requires --output")
		}
		if opts.format != "png" && opts.format != "raw" {
			return opts, fmt.Errorf("unknown --format %q", opts.format)
		}
	default:
		return opts, fmt.Errorf("unknown command %q", opts.command)
	}
	return opts, nil
}

func socketPath(opts options) (string, error) {
	if opts.socket != "" {
		return opts.socket, nil
	}
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return "", err
	}
	if cfg.Control.Socket == "" {
		return "", errors.New("control socket is disabled in the configuration; pass --socket")
	}
	return cfg.Control.Socket, nil
}

func run(args []string, stdout io.Writer) error {
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

	path, err := socketPath(opts)
	if err != nil {
		return err
	}
	client := service.NewClient(path)

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	fields := map[string]any{}
	if opts.command == mirror.ActionCapture {
		fields["compression"] = opts.compression
	}

	if opts.raw {
		var raw codec.RawMessage
		if err := client.Call(ctx, opts.command, fields, &raw); err != nil {
			return err
		}
		diagnostic, err := codec.Diagnose(raw)
		if err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		fmt.Fprintln(stdout, diagnostic)
		return nil
	}

	switch opts.command {
	case mirror.ActionStatus:
		var status mirror.Status
		if err := client.Call(ctx, opts.command, fields, &status); err != nil {
			return err
		}
		printStatus(stdout, status)
	case mirror.ActionCapture:
		var capture screen.Capture
		if err := client.Call(ctx, opts.command, fields, &capture); err != nil {
			return err
		}
		if err := writeCapture(opts, stdout, &capture); err != nil {
			return err
		}
	case mirror.ActionDisconnect:
		var response mirror.DisconnectResponse
		if err := client.Call(ctx, opts.command, fields, &response); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "disconnecting %d viewer(s)\n", response.Viewers)
	}
	return nil
}

func printStatus(w io.Writer, status mirror.Status) {
	fmt.Fprintf(w, "state:        %s\n", status.State)
	fmt.Fprintf(w, "viewers:      %d\n", status.Viewers)
	fmt.Fprintf(w, "screen:       %dx%d\n", status.Width, status.Height)
	fmt.Fprintf(w, "keyboard:     %s\n", deviceOrNone(status.KeyboardDevice))
	fmt.Fprintf(w, "touch:        %s\n", deviceOrNone(status.TouchDevice))
	fmt.Fprintf(w, "cycles:       %d\n", status.Cycles)
	fmt.Fprintf(w, "scans:        %d (%d dirty, %d failed)\n", status.Scans, status.DirtyFrames, status.ScanErrors)
	fmt.Fprintf(w, "disconnects:  %d\n", status.Disconnects)
	if status.LastDirty.Width > 0 {
		dirty := status.LastDirty
		fmt.Fprintf(w, "last dirty:   %dx%d+%d+%d\n", dirty.Width, dirty.Height, dirty.X, dirty.Y)
	}
	if !status.LastScan.IsZero() {
		fmt.Fprintf(w, "last scan:    %s\n", status.LastScan.Format(time.RFC3339))
	}
	if !status.StartedAt.IsZero() {
		fmt.Fprintf(w, "started:      %s\n", status.StartedAt.Format(time.RFC3339))
	}
}

func deviceOrNone(path string) string {
	if path == "" {
		return "(disabled)"
	}
	return path
}

func writeCapture(opts options, stdout io.Writer, capture *screen.Capture) error {
	pixels, err := capture.Pixels()
	if err != nil {
		return err
	}
	if len(pixels) < capture.Width*capture.Height*2 {
		return fmt.Errorf("capture holds %d bytes, too few for %dx%d", len(pixels), capture.Width, capture.Height)
	}

	if opts.output == "-" {
		if file, ok := stdout.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
			return errors.New("refusing to write a capture to a terminal; redirect stdout or use --output file")
		}
		return encodeCapture(stdout, opts.format, capture.Width, capture.Height, pixels)
	}

	file, err := os.Create(opts.output)
	if err != nil {
		return err
	}
	if err := encodeCapture(file, opts.format, capture.Width, capture.Height, pixels); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func encodeCapture(w io.Writer, format string, width, height int, pixels []byte) error {
	var err error
	switch format {
	case "raw":
		_, err = w.Write(pixels)
	default:
		err = png.Encode(w, captureImage(width, height, pixels))
	}
	if err != nil {
		return fmt.Errorf("writing capture: %w", err)
	}
	return nil
}

// captureImage expands little-endian RGB555 pixels (red in the low
// bits) to 8-bit channels.
func captureImage(width, height int, pixels []byte) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := range height {
		for x := range width {
			offset := (y*width + x) * 2
			value := uint16(pixels[offset]) | uint16(pixels[offset+1])<<8
			img.SetNRGBA(x, y, color.NRGBA{
				R: expand5(value),
				G: expand5(value >> 5),
				B: expand5(value >> 10),
				A: 0xff,
			})
		}
	}
	return img
}

func expand5(value uint16) uint8 {
	sample := uint8(value & 0x1f)
	return sample<<3 | sample>>2
}
