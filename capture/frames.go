// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package capture

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/danielhkuo/quickly-scan/scanner"
)

// Decoder extracts the text of a code from a frame
type Decoder interface {
	Decode(img image.Image) (string, error)
}

// QRDecoder decodes QR codes with gozxing
type QRDecoder struct{}

func (QRDecoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("binarize frame: %w", err)
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", err
	}
	return result.GetText(), nil
}

// Frames scans image frames that a capture tool writes into per-camera
// directories under Root, for example:
//
//	ffmpeg -f v4l2 -i /dev/video0 -vf fps=10 frames/cam0/%06d.png
//
// Every subdirectory of Root is one device.
type Frames struct {
	Root    string
	Decoder Decoder
}

func (f *Frames) ListCaptureDevices(ctx context.Context) ([]scanner.DeviceDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(f.Root)
	if err != nil {
		return nil, fmt.Errorf("read frame root: %w", err)
	}

	devices := []scanner.DeviceDescriptor{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		devices = append(devices, scanner.DeviceDescriptor{
			ID:    e.Name(),
			Label: filepath.Join(f.Root, e.Name()),
		})
	}
	return devices, nil
}

func (f *Frames) BeginSession(ctx context.Context, deviceID string, cfg scanner.SessionConfig,
	onDecode func(string), onDecodeFailure func(string)) (scanner.Session, error) {
	if cfg.ScanRate <= 0 {
		return nil, ErrInvalidScanRate
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join(f.Root, deviceID)
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open device %s: %w", deviceID, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("device %s is not a frame directory", deviceID)
	}

	decoder := f.Decoder
	if decoder == nil {
		decoder = QRDecoder{}
	}

	// The session outlives the context it was begun with
	loopCtx, cancel := context.WithCancel(context.Background())
	s := &framesSession{cancel: cancel, done: make(chan struct{})}

	l := &frameLoop{
		dir:             dir,
		region:          cfg.RegionSize,
		decoder:         decoder,
		onDecode:        onDecode,
		onDecodeFailure: onDecodeFailure,
	}
	go func() {
		defer close(s.done)
		l.run(loopCtx, time.Second/time.Duration(cfg.ScanRate))
	}()

	return s, nil
}

type framesSession struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *framesSession) End(ctx context.Context) error {
	s.cancel()
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type frameLoop struct {
	dir             string
	region          int
	decoder         Decoder
	onDecode        func(string)
	onDecodeFailure func(string)

	lastName string
	lastMod  time.Time
}

func (l *frameLoop) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		text, ok, err := l.scanNewest()
		if ctx.Err() != nil {
			return
		}
		switch {
		case err != nil:
			l.onDecodeFailure(err.Error())
		case ok:
			l.onDecode(text)
		}
	}
}

// scanNewest decodes the newest frame not yet seen. ok is false when there
// is no new frame.
func (l *frameLoop) scanNewest() (text string, ok bool, err error) {
	name, mod, found, err := newestFrame(l.dir)
	if err != nil {
		return "", false, err
	}
	if !found || (name == l.lastName && mod.Equal(l.lastMod)) {
		return "", false, nil
	}
	l.lastName, l.lastMod = name, mod

	img, err := loadFrame(filepath.Join(l.dir, name))
	if err != nil {
		return "", false, err
	}

	text, err = l.decoder.Decode(CenterRegion(img, l.region))
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

func newestFrame(dir string) (name string, mod time.Time, found bool, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", time.Time{}, false, fmt.Errorf("read frames: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() || !isFrame(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			// Frame rotated away between listing and stat
			continue
		}
		t := info.ModTime()
		if !found || t.After(mod) || (t.Equal(mod) && e.Name() > name) {
			name, mod, found = e.Name(), t, true
		}
	}
	return name, mod, found, nil
}

func isFrame(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

func loadFrame(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode frame %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// CenterRegion returns the centered size×size square of img, clipped to the
// frame. A non-positive size returns img unchanged.
func CenterRegion(img image.Image, size int) image.Image {
	b := img.Bounds()
	if size <= 0 || (size >= b.Dx() && size >= b.Dy()) {
		return img
	}

	w, h := min(size, b.Dx()), min(size, b.Dy())
	x0 := b.Min.X + (b.Dx()-w)/2
	y0 := b.Min.Y + (b.Dy()-h)/2
	r := image.Rect(x0, y0, x0+w, y0+h)

	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(r)
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, r.Min, draw.Src)
	return dst
}
