// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-unpack"
)

// CLI are the cli parameters for the go-unpack binary
type CLI struct {
	Input           string           `arg:"" name:"input" default:"-" help:"Path to input. (\"-\" for STDIN)"`
	Output          string           `arg:"" name:"output" optional:"" default:"-" help:"Output file. (\"-\" for STDOUT)"`
	ContinueOnError bool             `short:"C" help:"Continue filling on error."`
	Decompress      string           `short:"d" optional:"" help:"Force decompression type (br, bz2, gz, lz4, sz, xz, zst, zz)."`
	MaxBufferSize   int64            `optional:"" default:"1073741824" help:"Maximum buffer size that is allowed (in bytes). (disable check: -1)"`
	MaxInputSize    int64            `optional:"" default:"1073741824" help:"Maximum input size that is allowed (in bytes). (disable check: -1)"`
	NoDecompression bool             `short:"N" help:"Append input as-is without decompression."`
	Telemetry       bool             `short:"T" optional:"" default:"false" help:"Print telemetry data to log after fill."`
	Verbose         bool             `short:"v" optional:"" help:"Verbose logging."`
	Version         kong.VersionFlag `short:"V" optional:"" help:"Print release version information."`
}

// Run is the entrypoint into go-unpack as a cli tool
func Run(version, commit, date string) {
	ctx := context.Background()
	var cli CLI
	kong.Parse(&cli,
		kong.Description("An in-memory unpack buffer utility"),
		kong.UsageOnError(),
		kong.Vars{
			"version": fmt.Sprintf("%s (%s), commit %s, built at %s", filepath.Base(os.Args[0]), version, commit, date),
		},
	)

	// Check for verbose output
	logLevel := slog.LevelError
	if cli.Verbose {
		logLevel = slog.LevelDebug
	}

	// setup logger
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// setup telemetry hook
	telemetryToLog := func(ctx context.Context, td *unpack.TelemetryData) {
		if cli.Telemetry {
			logger.Info("fill finished", "telemetry", td)
		}
	}

	// process cli params
	cfg := unpack.NewConfig(
		unpack.WithContinueOnError(cli.ContinueOnError),
		unpack.WithDecompressionType(cli.Decompress),
		unpack.WithLogger(logger),
		unpack.WithMaxBufferSize(cli.MaxBufferSize),
		unpack.WithMaxInputSize(cli.MaxInputSize),
		unpack.WithNoDecompression(cli.NoDecompression),
		unpack.WithTelemetryHook(telemetryToLog),
	)

	// open input
	var src io.Reader
	if cli.Input == "-" {
		src = bufio.NewReader(os.Stdin)
	} else {
		f, err := os.Open(cli.Input)
		if err != nil {
			logger.Error("cannot open input", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		src = f
	}

	// fill the buffer
	buf := unpack.NewBuffer(cfg, nil)
	if _, err := unpack.Fill(ctx, buf, src, cfg); err != nil {
		logger.Error("fill failed", "error", err)
		os.Exit(1)
	}

	// write buffer contents to output
	dst := os.Stdout
	if cli.Output != "-" {
		f, err := os.Create(cli.Output)
		if err != nil {
			logger.Error("cannot create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		dst = f
	}
	if _, err := dst.Write(buf.Bytes()); err != nil {
		logger.Error("cannot write output", "error", err)
		os.Exit(1)
	}
}
