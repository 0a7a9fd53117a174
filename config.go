// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package unpack

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// ConfigOption is a function pointer to implement the option pattern
type ConfigOption func(*Config)

// Config provides a configuration struct and options to adjust the
// configuration.
//
// The configuration struct holds all configuration options for a buffer and
// its fill process. The configuration options can be adjusted using the
// option pattern style. The defaults are designed to prevent memory
// exhaustion from untrusted input.
type Config struct {
	// continueOnError decides if a fill should be continued even if an error occurred
	continueOnError bool

	// decompressionType forces a specific decompression algorithm on the fill path
	decompressionType string

	// initialCapacity is the starting capacity of the backing store of a new buffer
	initialCapacity int

	// logger stream for fill operations
	logger logger

	// maxBufferSize is the maximum size a buffer is allowed to grow to.
	// Set value to -1 to disable the check.
	maxBufferSize int64

	// maxInputSize is the maximum size of the input on the fill path.
	// Set value to -1 to disable the check.
	maxInputSize int64

	// noDecompression disables magic byte detection so that input is appended as-is
	noDecompression bool

	// telemetryHook is a function pointer to consume telemetry data after a finished fill
	// Important: do not adjust this value after a fill started
	telemetryHook TelemetryHook
}

// NewConfig is a generator option that takes opts as adjustments of the
// default configuration in an option pattern style
func NewConfig(opts ...ConfigOption) *Config {
	const (
		continueOnError   = false
		decompressionType = ""
		initialCapacity   = 0
		maxBufferSize     = 1 << (10 * 3) // 1 Gb
		maxInputSize      = 1 << (10 * 3) // 1 Gb
		noDecompression   = false
	)

	// disable logging by default
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	// setup default values
	config := &Config{
		continueOnError:   continueOnError,
		decompressionType: decompressionType,
		initialCapacity:   initialCapacity,
		logger:            logger,
		maxBufferSize:     maxBufferSize,
		maxInputSize:      maxInputSize,
		noDecompression:   noDecompression,
	}

	// process options
	for _, opt := range opts {
		opt(config)
	}

	return config
}

// ContinueOnError returns true if a fill should continue on error
func (c *Config) ContinueOnError() bool {
	return c.continueOnError
}

// DecompressionType returns the forced decompression algorithm, or the empty
// string if the algorithm is detected from the input
func (c *Config) DecompressionType() string {
	return c.decompressionType
}

// InitialCapacity returns the starting capacity for new buffers
func (c *Config) InitialCapacity() int {
	return c.initialCapacity
}

func (c *Config) Logger() logger {
	return c.logger
}

// MaxBufferSize returns the maximum size a buffer is allowed to grow to
func (c *Config) MaxBufferSize() int64 {
	return c.maxBufferSize
}

// MaxInputSize returns the maximum size of the input
func (c *Config) MaxInputSize() int64 {
	return c.maxInputSize
}

// NoDecompression returns true if input should be appended without magic
// byte detection
func (c *Config) NoDecompression() bool {
	return c.noDecompression
}

// TelemetryHook returns the telemetry hook
func (c *Config) TelemetryHook() TelemetryHook {
	if c.telemetryHook == nil {
		return NoopTelemetryHook
	}
	return c.telemetryHook
}

// NoopTelemetryHook is a no operation telemetry hook
func NoopTelemetryHook(ctx context.Context, d *TelemetryData) {
	// noop
}

// CheckBufferSize checks if size exceeds the MaxBufferSize of the Config
func (c *Config) CheckBufferSize(size int64) error {

	// check if disabled
	if c.MaxBufferSize() == -1 {
		return nil
	}

	// check value
	if size > c.MaxBufferSize() {
		return fmt.Errorf("%w: %d bytes", ErrSizeExceeded, size)
	}
	return nil
}

// WithContinueOnError options pattern function to continue on error during a fill
func WithContinueOnError(yes bool) ConfigOption {
	return func(c *Config) {
		c.continueOnError = yes
	}
}

// WithDecompressionType options pattern function to force a decompression
// algorithm on the fill path instead of detecting it from the input
func WithDecompressionType(decompressionType string) ConfigOption {
	return func(c *Config) {
		if len(decompressionType) > 0 {
			c.decompressionType = decompressionType
		}
	}
}

// WithInitialCapacity options pattern function to set the starting capacity
// of the backing store of new buffers
func WithInitialCapacity(capacity int) ConfigOption {
	return func(c *Config) {
		if capacity > 0 {
			c.initialCapacity = capacity
		}
	}
}

// WithLogger options pattern function to set a custom logger
func WithLogger(logger logger) ConfigOption {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithMaxBufferSize options pattern function to set MaxBufferSize in the
// config (-1 to disable check)
func WithMaxBufferSize(maxBufferSize int64) ConfigOption {
	return func(c *Config) {
		c.maxBufferSize = maxBufferSize
	}
}

// WithMaxInputSize options pattern function to set MaxInputSize in the
// config (-1 to disable check)
func WithMaxInputSize(maxInputSize int64) ConfigOption {
	return func(c *Config) {
		c.maxInputSize = maxInputSize
	}
}

// WithNoDecompression options pattern function to enable/disable appending
// input as-is without magic byte detection
func WithNoDecompression(disable bool) ConfigOption {
	return func(c *Config) {
		c.noDecompression = disable
	}
}

// WithTelemetryHook options pattern function to set a telemetry hook
func WithTelemetryHook(hook TelemetryHook) ConfigOption {
	return func(c *Config) {
		c.telemetryHook = hook
	}
}
