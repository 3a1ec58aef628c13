//go:build !ocr

// Package ocr recognizes text in extracted images so scanned documents
// keep their content searchable.
//
// This is the stub compiled when the "ocr" build tag is not set; every
// operation returns ErrNotEnabled. Rebuild with -tags ocr (Tesseract
// must be installed) to enable recognition.
package ocr

import "errors"

// ErrNotEnabled is returned when OCR is requested but support was not
// compiled in.
var ErrNotEnabled = errors.New("ocr support not enabled; rebuild with -tags ocr")

// Client is the stub OCR client.
type Client struct{}

// New returns ErrNotEnabled.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op, safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrNotEnabled.
func (c *Client) Recognize(imageData []byte) (string, error) {
	return "", ErrNotEnabled
}

// SetLanguage returns ErrNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrNotEnabled
}
