package rasterize

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/dtowler/folio/format"
)

// Portable reports whether encoded image bytes are in a format that can
// be embedded in a rebuilt document as-is.
func Portable(data []byte) bool {
	switch format.Detect(data) {
	case format.PNG, format.JPEG, format.GIF:
		return true
	}
	return false
}

// Transcode re-encodes image bytes into PNG when they arrive in a
// format the document writer cannot embed directly (TIFF, BMP).
// Already-portable bytes are returned unchanged.
func Transcode(data []byte) ([]byte, error) {
	var (
		img image.Image
		err error
	)
	switch format.Detect(data) {
	case format.PNG, format.JPEG, format.GIF:
		return data, nil
	case format.TIFF:
		img, err = tiff.Decode(bytes.NewReader(data))
	case format.BMP:
		img, err = bmp.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unrecognized image format")
	}
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
