// Package folio converts PDF documents into positioned element lists
// and reconstructs PDFs from those lists. Every element carries its
// position in a canonical top-left-origin, y-down frame, so a document
// can round-trip through JSON and come back with its layout intact.
//
// Extraction:
//
//	doc, err := folio.Open("report.pdf").Document(ctx)
//
// Or straight to the JSON wire form:
//
//	payload, err := folio.Open("report.pdf").JSON(ctx)
//
// Reconstruction:
//
//	pdfBytes, err := folio.RebuildJSON(ctx, payload)
//
// For finer control the extract and rebuild packages are available
// directly.
package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/dtowler/folio/extract"
	"github.com/dtowler/folio/model"
	"github.com/dtowler/folio/ocr"
	"github.com/dtowler/folio/rebuild"
)

// Conversion is a fluent handle for one extraction. Configure it with
// chained calls, then finish with Document or JSON.
type Conversion struct {
	path   string
	reader io.ReadSeeker
	opts   convertOptions
}

// Open prepares an extraction from a file on disk.
func Open(path string) *Conversion {
	return &Conversion{path: path, opts: defaultOptions()}
}

// FromReader prepares an extraction from an already-open source. The
// caller keeps ownership of the reader.
func FromReader(rs io.ReadSeeker) *Conversion {
	return &Conversion{reader: rs, opts: defaultOptions()}
}

// FromBytes prepares an extraction from in-memory PDF bytes.
func FromBytes(data []byte) *Conversion {
	return FromReader(bytes.NewReader(data))
}

// Logger routes the conversion's degradation warnings through log.
func (c *Conversion) Logger(log *logrus.Logger) *Conversion {
	c.opts.log = log
	return c
}

// OCR enables text recognition on extracted images. It needs the "ocr"
// build tag and a system Tesseract install; without them extraction
// proceeds with empty alt text.
func (c *Conversion) OCR() *Conversion {
	c.opts.ocr = true
	return c
}

// Document runs the extraction and returns the element layout.
func (c *Conversion) Document(ctx context.Context) (*model.Document, error) {
	engineOpts := []extract.Option{extract.WithLogger(c.opts.log)}

	if c.opts.ocr {
		client, err := ocr.New()
		if err != nil {
			c.opts.log.WithError(err).Warn("ocr unavailable, continuing without")
		} else {
			defer client.Close()
			engineOpts = append(engineOpts, extract.WithOCR(client.Recognize))
		}
	}

	engine := extract.NewEngine(engineOpts...)
	if c.reader != nil {
		return engine.Extract(ctx, c.reader)
	}
	return engine.ExtractFile(ctx, c.path)
}

// JSON runs the extraction and returns the document in its wire form.
func (c *Conversion) JSON(ctx context.Context) ([]byte, error) {
	doc, err := c.Document(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return payload, nil
}

// Rebuild renders a document back to PDF bytes.
func Rebuild(ctx context.Context, doc *model.Document) ([]byte, error) {
	return rebuild.NewBuilder().Build(ctx, doc)
}

// RebuildJSON decodes a wire-form payload and renders it to PDF bytes.
// A payload without a usable pages list fails with model.ErrMissingPages.
func RebuildJSON(ctx context.Context, payload []byte) ([]byte, error) {
	doc, err := model.Decode(payload, model.DecodeOptions{})
	if err != nil {
		return nil, err
	}
	return Rebuild(ctx, doc)
}

// Must panics on a non-nil error; it keeps scripts and tests terse.
//
//	doc := folio.Must(folio.Open("in.pdf").Document(ctx))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
