//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"os"

	"golang.design/x/clipboard"
)

type cgoBackend struct{}

func newBackend() (backend, error) {
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
		return nil, errNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return cgoBackend{}, nil
}

func (cgoBackend) write(f Format, data []byte) error {
	clipboard.Write(designFormat(f), data)
	return nil
}

func (cgoBackend) read(f Format) ([]byte, error) {
	return clipboard.Read(designFormat(f)), nil
}

func designFormat(f Format) clipboard.Format {
	if f == FormatPNG {
		return clipboard.FmtImage
	}
	return clipboard.FmtText
}
