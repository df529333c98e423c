// Package clipboard copies artwork to and from the desktop clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"sync"

	"github.com/example/spraywall/internal/artwork"
)

// Format is a clipboard payload kind.
type Format int

const (
	FormatText Format = iota
	FormatPNG
)

// ErrEmpty is returned when the clipboard holds nothing in the requested format.
var ErrEmpty = errors.New("clipboard does not contain data in the requested format")

var errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")

type backend interface {
	write(f Format, data []byte) error
	read(f Format) ([]byte, error)
}

var (
	initOnce sync.Once
	initErr  error
	active   backend
)

func ensureInit() error {
	initOnce.Do(func() {
		active, initErr = newBackend()
	})
	return initErr
}

// WriteImage publishes img to the clipboard as PNG.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := artwork.EncodePNG(img)
	if err != nil {
		return err
	}
	return active.write(FormatPNG, data)
}

// ReadImage decodes a PNG from the clipboard.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := active.read(FormatPNG)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return png.Decode(bytes.NewReader(data))
}

// WriteText writes text, typically an artwork data URI, to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return active.write(FormatText, []byte(text))
}

// ReadText returns UTF-8 text from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := active.read(FormatText)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	return string(data), nil
}
