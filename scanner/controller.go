// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package scanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Status messages
const (
	StatusNoCamera = "No camera found."
	StatusStopped  = "Scanner stopped."
	StatusDetected = "QR code detected!"

	cameraErrorPrefix = "Camera error: "
	resultPrefix      = "QR Code Detected: "
)

var (
	ErrNoCamera       = errors.New("no camera found")
	ErrAlreadyRunning = errors.New("scanner already running")
)

// DecodeHook receives every decoded text after it has been rendered
type DecodeHook func(text string)

// Controller mediates between UI events and a Capability.
// States are Idle and Running; the running flag is only set once a session
// has actually begun.
type Controller struct {
	capability Capability
	surface    Surface
	cfg        SessionConfig
	hooks      []DecodeHook

	initOnce sync.Once

	mu       sync.Mutex
	running  bool
	starting bool
	stopping bool
	session  Session
	deviceID string
}

// Option configures a Controller
type Option func(*Controller)

// WithSessionConfig overrides the default scan rate and region size
func WithSessionConfig(cfg SessionConfig) Option {
	return func(c *Controller) {
		c.cfg = cfg
	}
}

// WithDecodeHook registers a hook run after each successful decode
func WithDecodeHook(hook DecodeHook) Option {
	return func(c *Controller) {
		c.hooks = append(c.hooks, hook)
	}
}

func NewController(capability Capability, surface Surface, opts ...Option) *Controller {
	c := &Controller{
		capability: capability,
		surface:    surface,
		cfg:        DefaultSessionConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init performs the one start the host application owes the controller at
// startup. Later calls do nothing and return nil.
func (c *Controller) Init(ctx context.Context) error {
	var err error
	c.initOnce.Do(func() {
		err = c.Start(ctx)
	})
	return err
}

// Start binds a session to the first available device.
// Capability failures are reported through the surface before being
// returned. Starting twice returns ErrAlreadyRunning and changes nothing.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running || c.starting {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.starting = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.starting = false
		c.mu.Unlock()
	}()

	devices, err := c.capability.ListCaptureDevices(ctx)
	if err != nil {
		c.surface.SetStatus(cameraErrorPrefix + err.Error())
		return fmt.Errorf("list capture devices: %w", err)
	}
	if len(devices) == 0 {
		c.surface.SetStatus(StatusNoCamera)
		return ErrNoCamera
	}

	deviceID := devices[0].ID
	session, err := c.capability.BeginSession(ctx, deviceID, c.cfg, c.onDecode, c.onDecodeFailure)
	if err != nil {
		c.surface.SetStatus(cameraErrorPrefix + err.Error())
		return fmt.Errorf("begin session on %s: %w", deviceID, err)
	}

	c.mu.Lock()
	c.running = true
	c.session = session
	c.deviceID = deviceID
	c.mu.Unlock()

	return nil
}

// Stop ends the running session. It does nothing, and makes no capability
// call, unless the controller is running. A stop issued while a start is
// still in flight is dropped.
func (c *Controller) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.running || c.stopping {
		c.mu.Unlock()
		return nil
	}
	c.stopping = true
	session := c.session
	c.mu.Unlock()

	err := session.End(ctx)

	c.mu.Lock()
	c.stopping = false
	if err == nil {
		c.running = false
		c.session = nil
		c.deviceID = ""
	}
	c.mu.Unlock()

	if err != nil {
		c.surface.SetStatus(cameraErrorPrefix + err.Error())
		return fmt.Errorf("end session: %w", err)
	}

	c.surface.SetStatus(StatusStopped)
	return nil
}

// Running reports whether a stop would currently act
func (c *Controller) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// Device returns the id of the device the running session is bound to
func (c *Controller) Device() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.deviceID
}

func (c *Controller) onDecode(text string) {
	c.surface.ShowResult(resultPrefix + text)
	c.surface.SetStatus(StatusDetected)

	for _, hook := range c.hooks {
		hook(text)
	}
}

// Per-frame non-detections are ignored.
func (c *Controller) onDecodeFailure(string) {}
