// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scanner

import "context"

// Default session parameters
const (
	DefaultScanRate   = 10
	DefaultRegionSize = 250
)

// DeviceDescriptor identifies one capture device
type DeviceDescriptor struct {
	ID    string
	Label string
}

// SessionConfig controls a scanning session.
// ScanRate is decode attempts per second, RegionSize the side length in
// pixels of the square scanned for a code in each frame.
type SessionConfig struct {
	ScanRate   int
	RegionSize int
}

// DefaultSessionConfig returns {ScanRate: 10, RegionSize: 250}
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{ScanRate: DefaultScanRate, RegionSize: DefaultRegionSize}
}

// Session is one running capture+decode loop
type Session interface {
	End(ctx context.Context) error
}

// Capability is the camera/decoder service the controller delegates to.
//
// onDecode and onDecodeFailure may be called from any goroutine, and may
// still fire shortly after End was requested.
type Capability interface {
	ListCaptureDevices(ctx context.Context) ([]DeviceDescriptor, error)
	BeginSession(ctx context.Context, deviceID string, cfg SessionConfig,
		onDecode func(text string), onDecodeFailure func(detail string)) (Session, error)
}

// Surface is the host UI the controller renders to. Both methods are
// write-only sinks.
type Surface interface {
	SetStatus(msg string)
	ShowResult(text string)
}
