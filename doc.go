// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package unpack provides an owned, growable byte buffer for accumulating the
// content of an unpacking operation, and a fill function that feeds such a
// buffer from a reader with transparent decompression of known stream formats.
//
// A [Buffer] is created from an existing byte region with [NewBuffer] and
// grown with [Buffer.Append], which reports the new length. [Fill] reads an
// input stream to its end and appends it to a buffer, detecting compressed
// input by its magic bytes.
//
// Configuration is done using the [Config] struct, which can be used to set
// size limits, the logger, the telemetry hook, and decompression behavior.
// Telemetry data is captured during the fill process in [TelemetryData].
package unpack
