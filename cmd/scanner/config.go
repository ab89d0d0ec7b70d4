// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"

	"github.com/danielhkuo/quickly-scan/models"
	"github.com/danielhkuo/quickly-scan/scanner"
)

// Config controls the scanner station
type Config struct {
	Kind       string   `env:"SCANNER_KIND"        envDefault:"wedge"`
	Stdin      bool     `env:"SCANNER_STDIN"       envDefault:"true"`
	Devices    []string `env:"SCANNER_DEVICES"     envSeparator:","`
	FramesRoot string   `env:"SCANNER_FRAMES_DIR"  envDefault:"frames"`
	ScanRate   int      `env:"SCANNER_SCAN_RATE"   envDefault:"10"`
	RegionSize int      `env:"SCANNER_REGION_SIZE" envDefault:"250"`

	ServerURL  string `env:"SCANNER_SERVER_URL"`
	Enrollment string `env:"SCANNER_ENROLLMENT"`
	Password   string `env:"SCANNER_PASSWORD"`
	DeviceUUID string `env:"SCANNER_DEVICE_UUID"`

	Verbose bool `env:"SCANNER_VERBOSE"`
}

// loadConfig reads the environment, then lets flags override it
func loadConfig(args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	fs := flag.NewFlagSet("scanner", flag.ContinueOnError)
	fs.StringVar(&cfg.Kind, "kind", cfg.Kind, "Capture kind: wedge or frames")
	fs.BoolVar(&cfg.Stdin, "stdin", cfg.Stdin, "Offer standard input as a wedge device")
	devices := fs.String("devices", strings.Join(cfg.Devices, ","), "Comma-separated device globs, e.g. /dev/ttyACM*")
	fs.StringVar(&cfg.FramesRoot, "frames", cfg.FramesRoot, "Directory of per-camera frame folders")
	fs.IntVar(&cfg.ScanRate, "rate", cfg.ScanRate, "Scans per second")
	fs.IntVar(&cfg.RegionSize, "region", cfg.RegionSize, "Side of the centered scan square in pixels")
	fs.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Attendance server URL")
	fs.StringVar(&cfg.Enrollment, "enrollment", cfg.Enrollment, "Student enrollment to mark attendance for")
	fs.StringVar(&cfg.Password, "password", cfg.Password, "Student password (prefer env)")
	fs.StringVar(&cfg.DeviceUUID, "device-uuid", cfg.DeviceUUID, "Station identifier sent as X-Device-UUID")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Debug logging")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.Devices = nil
	for _, d := range strings.Split(*devices, ",") {
		if d = strings.TrimSpace(d); d != "" {
			cfg.Devices = append(cfg.Devices, d)
		}
	}

	switch cfg.Kind {
	case models.KindWedge, models.KindFrames:
	default:
		return Config{}, fmt.Errorf("unsupported capture kind %q", cfg.Kind)
	}
	if cfg.ScanRate <= 0 {
		return Config{}, errors.New("scan rate must be positive")
	}
	if cfg.RegionSize <= 0 {
		return Config{}, errors.New("region size must be positive")
	}
	if cfg.Enrollment != "" && cfg.ServerURL == "" {
		return Config{}, errors.New("enrollment given without a server URL")
	}
	if cfg.Enrollment != "" && cfg.Password == "" {
		return Config{}, errors.New("SCANNER_PASSWORD required with an enrollment")
	}

	if cfg.ServerURL != "" && cfg.DeviceUUID == "" {
		cfg.DeviceUUID = uuid.NewString()
	}

	return cfg, nil
}

// SessionConfig is the capture configuration for the controller
func (c Config) SessionConfig() scanner.SessionConfig {
	return scanner.SessionConfig{ScanRate: c.ScanRate, RegionSize: c.RegionSize}
}
