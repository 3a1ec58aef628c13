//go:build ocr

// Package ocr recognizes text in extracted images so scanned documents
// keep their content searchable. It wraps the Tesseract engine via
// gosseract and requires Tesseract to be installed on the system.
//
// Build with the "ocr" tag to enable recognition; the default build is
// a stub whose operations return ErrNotEnabled.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract session. Close it to release resources.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases the underlying Tesseract session.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Recognize runs OCR on encoded image bytes (PNG, JPEG, TIFF) and
// returns the recognized text, whitespace-trimmed.
func (c *Client) Recognize(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetLanguage selects the recognition language(s), "+"-separated for
// multiple (e.g. "eng+deu"). The default is English.
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
