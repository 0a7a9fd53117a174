// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package unpack

import (
	"context"
	"encoding/json"
	"time"
)

// TelemetryData holds all telemetry data of a buffer fill.
type TelemetryData struct {
	// BytesAppended is the number of bytes appended to the buffer
	BytesAppended int64 `json:"bytes_appended"`

	// DetectedType is the detected compression type of the input, or "raw"
	DetectedType string `json:"detected_type"`

	// FillDuration is the time it took to fill the buffer
	FillDuration time.Duration `json:"fill_duration"`

	// FillErrors is the number of errors during the fill
	FillErrors int64 `json:"fill_errors"`

	// InputSize is the size of the consumed input
	InputSize int64 `json:"input_size"`

	// LastFillError is the last error during the fill
	LastFillError error `json:"last_fill_error"`
}

// String returns a string representation of [TelemetryData].
func (d TelemetryData) String() string {
	b, _ := json.Marshal(d)
	return string(b)
}

// MarshalJSON implements the [encoding/json.Marshaler] interface.
func (d TelemetryData) MarshalJSON() ([]byte, error) {
	var lastError string
	if d.LastFillError != nil {
		lastError = d.LastFillError.Error()
	}

	type Alias TelemetryData
	return json.Marshal(&struct {
		LastFillError string `json:"last_fill_error"`
		*Alias
	}{
		LastFillError: lastError,
		Alias:         (*Alias)(&d),
	})
}

// TelemetryHook is a function type that performs operations on
// [TelemetryData] after a fill has finished which can be used to submit the
// data to a telemetry service, for example.
type TelemetryHook func(context.Context, *TelemetryData)
