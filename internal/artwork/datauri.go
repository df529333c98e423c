package artwork

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
)

const pngDataURIPrefix = "data:image/png;base64,"

// ErrInvalidDataURI is returned for payloads that are not base64 data URIs.
var ErrInvalidDataURI = errors.New("invalid data URI")

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURIFromPNG wraps already encoded PNG bytes in a data URI.
func DataURIFromPNG(data []byte) string {
	return pngDataURIPrefix + base64.StdEncoding.EncodeToString(data)
}

// EncodeDataURI encodes img as a PNG data URI.
func EncodeDataURI(img image.Image) (string, error) {
	data, err := EncodePNG(img)
	if err != nil {
		return "", err
	}
	return DataURIFromPNG(data), nil
}

// SplitDataURI returns the media type and decoded payload of a base64 data URI.
func SplitDataURI(uri string) (string, []byte, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: scheme", ErrInvalidDataURI)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}
	mediaType, ok := strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", nil, fmt.Errorf("%w: media type %q is not an image", ErrInvalidDataURI, mediaType)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return mediaType, data, nil
}

// DecodeDataURI decodes a data URI into an image.
func DecodeDataURI(uri string) (image.Image, error) {
	_, data, err := SplitDataURI(uri)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode artwork: %w", err)
	}
	return img, nil
}

// Image decodes the record's artwork payload.
func (r Record) Image() (image.Image, error) {
	return DecodeDataURI(r.ArtworkData)
}
