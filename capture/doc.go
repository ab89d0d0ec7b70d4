// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package capture provides scanner.Capability implementations.

# Wedge

Wedge treats line-oriented devices as scanners. Hardware QR scanners and RFID
readers in keyboard mode type the code followed by Enter:

	w := &capture.Wedge{Stdin: os.Stdin, Patterns: []string{"/dev/ttyACM*"}}

Empty lines count as failed decode attempts. Decodes are paced to the
session's scan rate; the region size does not apply.

# Frames

Frames decodes QR codes from image frames written by an external capture
tool, one directory per camera:

	f := &capture.Frames{Root: "frames"}

Each tick (scan rate per second) the newest unseen frame is cropped to the
centered region and handed to the Decoder (gozxing by default).
*/
package capture
