// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scanner coordinates a QR scanning session between a host UI and a
capture capability.

# Controller

A Controller owns at most one session at a time:

	c := scanner.NewController(capability, surface)
	if err := c.Init(ctx); err != nil {
		// the surface already shows what went wrong
	}
	...
	c.Stop(ctx)

Init is meant to be called exactly once by the host's startup sequence.
Start binds the session to the first device the capability lists, using
DefaultSessionConfig (10 scans per second, 250px region) unless
WithSessionConfig is given.

# Status Messages

The surface's status line is the only error channel:

  - "No camera found." when the device list is empty
  - "Camera error: <detail>" when listing devices, beginning or ending a
    session fails
  - "QR code detected!" after every decode, with the result region showing
    "QR Code Detected: <text>"
  - "Scanner stopped." after a successful Stop

Decode failures are per-frame non-detections and never change anything.

# Concurrency

Decode callbacks arrive on capability goroutines. The running flag is only
set after a session has begun, so a Stop racing an in-flight Start is
dropped. Decode callbacks may still render after Stop if the capability
delivers them late.
*/
package scanner
