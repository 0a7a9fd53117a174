// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"runtime/pprof"
	"sort"
	"time"

	"github.com/alecthomas/kong"
	"github.com/hashicorp/go-unpack"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// FillFkt is a function pointer to implement the fill function
type FillFkt func(context.Context, io.Reader) (int64, error)

var CLI struct {
	InputFiles []string `arg:"" name:"input-files" required:"true" description:"input files to fill buffers from"`
	Iterations int      `short:"i" long:"iterations" default:"1" description:"number of iterations to repeat the fill"`
	Parallel   bool     `short:"P" long:"parallel" default:"false" description:"run raw and decompressing fill in parallel"`
	Profile    bool     `short:"p" long:"profile" default:"false" description:"enable profiling of the fill"`
	ProfileOut string   `short:"o" long:"profile-out" default:"mem.pprof" description:"output file for the profile"`
	Raw        bool     `short:"r" long:"raw" default:"false" description:"use the raw fill method without decompression"`
	Unpack     bool     `short:"u" long:"unpack" default:"false" description:"use the decompressing fill method"`
	Verbose    bool     `short:"v" long:"verbose" description:"Enable verbose output"`
}

// main function
func main() {

	// parse command line arguments and create logger
	var ctx = context.Background()
	_ = kong.Parse(&CLI)
	lvl := slog.LevelInfo
	if CLI.Verbose {
		lvl = slog.LevelDebug
	}
	var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))

	// declare fill functions
	fillFunctions := map[string]FillFkt{}

	// check if decompressing fill is requested
	if CLI.Unpack {
		fillFunctions["unpack"] = fillWithDecompression
	}

	// check if raw fill is requested
	if CLI.Raw {
		fillFunctions["raw"] = fillRaw
	}

	// check if parallel fill is requested
	if CLI.Parallel {
		fillFunctions["parallel"] = fillParallel
	}

	if len(fillFunctions) == 0 {
		logger.Error("no fill method specified, using unpack as default")
		fillFunctions["unpack"] = fillWithDecompression
	}

	// map with slice of int to capture execution duration
	var ed = make(map[string][]int64)

	for i := 0; i < CLI.Iterations; i++ {
		// iterate over filenames
		for _, filename := range CLI.InputFiles {
			// iterate over fill functions
			for fillMethod, fillFunction := range fillFunctions {
				if duration, err := profileFill(ctx, logger, filename, fillMethod, fillFunction); err != nil {
					logger.Error("error during fill", "error", err)
				} else {
					key := fmt.Sprintf("%s-%s", filename, fillMethod)
					ed[key] = append(ed[key], duration)
				}
			}
		}
	}

	// log average, min and max duration
	for _, key := range sortedKeys(ed) {
		logger.Info("fill profiling results", "iterations", len(ed[key]), "average", fmt.Sprintf("%dms", avg(ed[key])), "min", fmt.Sprintf("%dms", minOf(ed[key])), "max", fmt.Sprintf("%dms", maxOf(ed[key])), "std", fmt.Sprintf("%dms", int(std(ed[key]))), "key", key)
	}

	// store memory profile
	if CLI.Profile {
		logger.Debug("writing memory profile", "filename", CLI.ProfileOut)
		logger.Info(fmt.Sprintf("analyze with: go tool pprof -http=:8080 %s", CLI.ProfileOut))
		f, err := os.Create(CLI.ProfileOut)
		if err != nil {
			logger.Error("error creating memory profile", "error", err)
		}
		defer f.Close()
		err = pprof.WriteHeapProfile(f)
		if err != nil {
			logger.Error("error writing memory profile", "error", err)
		}
	}

}

var td []unpack.TelemetryData

func storeTelemetryData(ctx context.Context, d *unpack.TelemetryData) {
	td = append(td, *d)
}

// fillConfig disables the size checks so that the benchmark measures the
// fill path, not the limits
var fillConfig = unpack.NewConfig(
	unpack.WithMaxBufferSize(-1),                 // disable check for now
	unpack.WithMaxInputSize(-1),                  // disable check for now
	unpack.WithTelemetryHook(storeTelemetryData), // store telemetry data
)

// rawConfig appends the input as-is, as a baseline for the detection overhead
var rawConfig = unpack.NewConfig(
	unpack.WithMaxBufferSize(-1),
	unpack.WithMaxInputSize(-1),
	unpack.WithNoDecompression(true),
	unpack.WithTelemetryHook(storeTelemetryData),
)

// fillWithDecompression fills a buffer from the given reader with magic byte detection
func fillWithDecompression(ctx context.Context, reader io.Reader) (int64, error) {
	b := unpack.NewBuffer(fillConfig, nil)
	return unpack.Fill(ctx, b, reader, fillConfig)
}

// fillRaw fills a buffer from the given reader without decompression
func fillRaw(ctx context.Context, reader io.Reader) (int64, error) {
	b := unpack.NewBuffer(rawConfig, nil)
	return unpack.Fill(ctx, b, reader, rawConfig)
}

// fillParallel fills two buffers from the same input, one raw and one with
// decompression, by teeing the stream
func fillParallel(ctx context.Context, reader io.Reader) (int64, error) {

	// reading from the TeeReader will write to the pipe
	pipeRead, pipeWrite := io.Pipe()
	tee := io.TeeReader(reader, pipeWrite)

	eg := &errgroup.Group{}

	var rawBytes int64
	eg.Go(func() error {
		// raw fill from the TeeReader which writes to the pipe
		defer pipeWrite.Close()

		n, err := fillRaw(ctx, tee)
		rawBytes = n
		return err
	})

	var unpackedBytes int64
	eg.Go(func() error {
		// decompressing fill from the pipe as the other goroutine writes to it
		defer pipeRead.Close()

		n, err := fillWithDecompression(ctx, pipeRead)
		unpackedBytes = n
		return err
	})

	if err := eg.Wait(); err != nil {
		return 0, err
	}

	// the decompressed content can never be shorter than what was read raw
	// for the formats under test
	if unpackedBytes < rawBytes {
		return 0, fmt.Errorf("unpacked %d bytes from %d raw bytes", unpackedBytes, rawBytes)
	}

	return unpackedBytes, nil
}

// sortedKeys returns the keys of the given map in sorted order
func sortedKeys(m map[string][]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// profileFill opens the given file and calls the given fill function
func profileFill(ctx context.Context, logger *slog.Logger, filename string, fillMethod string, fillFunction FillFkt) (int64, error) {

	// open file
	inf, err := os.Open(filename)
	if err != nil {
		return -1, errors.Wrap(err, "error opening file")
	}
	defer inf.Close()

	// capture start time
	start := time.Now()

	// fill buffer
	n, err := fillFunction(ctx, inf)
	if err != nil {
		return -1, errors.Wrapf(err, "error performing fill with %s", fillMethod)
	}
	duration := time.Since(start)

	// capture duration
	logger.Debug("fill finished", "fillMethod", fillMethod, "filename", filename, "bytes", n, "duration", fmt.Sprintf("%dms", duration.Milliseconds()))
	return duration.Milliseconds(), nil
}

// minOf returns the minimum value of the given slice
func minOf(slice []int64) int64 {
	min := int64(math.MaxInt64)
	for _, value := range slice {
		if value < min {
			min = value
		}
	}
	return min
}

// maxOf returns the maximum value of the given slice
func maxOf(slice []int64) int64 {
	max := int64(math.MinInt64)
	for _, value := range slice {
		if value > max {
			max = value
		}
	}
	return max
}

// avg returns the average of the given slice
func avg(slice []int64) int64 {
	var sum int64
	for _, value := range slice {
		sum += value
	}
	return sum / int64(len(slice))
}

// std returns the standard deviation of the given slice
func std(slice []int64) float64 {
	avg := avg(slice)
	var sum float64
	for _, value := range slice {
		sum += math.Pow(float64(value)-float64(avg), 2)
	}
	return math.Sqrt(sum / float64(len(slice)))
}
