package extract

import (
	"context"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/sirupsen/logrus"

	"github.com/dtowler/folio/contentstream"
	"github.com/dtowler/folio/model"
)

// Letter-size fallback for pages without a resolvable media box.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// Engine extracts the element layout of PDF documents. A single Engine
// is safe for concurrent use; each extraction works on its own state.
type Engine struct {
	log *logrus.Logger
	ocr ocrFunc
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log *logrus.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithOCR enables text recognition on extracted images. The recognized
// text is stored as each image's alt text.
func WithOCR(recognize func(data []byte) (string, error)) Option {
	return func(e *Engine) { e.ocr = recognize }
}

// NewEngine creates an extraction engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile reads a PDF from disk and returns its element layout.
// Pages are processed in order; ctx cancellation is honored between
// pages. A page whose dictionary or content cannot be processed fails
// the extraction; only individual resource failures degrade locally.
func (e *Engine) ExtractFile(ctx context.Context, path string) (*model.Document, error) {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return e.extract(ctx, pdfCtx)
}

// Extract reads a PDF from rs and returns its element layout. The
// reader must support seeking; load bytes into a bytes.Reader first if
// they arrive from a stream.
func (e *Engine) Extract(ctx context.Context, rs io.ReadSeeker) (*model.Document, error) {
	pdfCtx, err := api.ReadContext(rs, pdfmodel.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return e.extract(ctx, pdfCtx)
}

func (e *Engine) extract(ctx context.Context, pdfCtx *pdfmodel.Context) (*model.Document, error) {
	if pdfCtx.PageCount == 0 {
		if err := pdfCtx.EnsurePageCount(); err != nil {
			return nil, fmt.Errorf("resolve page tree: %w", err)
		}
	}

	doc := model.NewDocument()

	for pageNum := 1; pageNum <= pdfCtx.PageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		page, err := e.extractPage(pdfCtx, pageNum)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
		doc.AddPage(page)
	}
	return doc, nil
}

func (e *Engine) extractPage(pdfCtx *pdfmodel.Context, pageNum int) (*model.Page, error) {
	pageDict, _, attrs, err := pdfCtx.PageDict(pageNum, false)
	if err != nil {
		return nil, fmt.Errorf("page dictionary: %w", err)
	}

	width, height := defaultPageWidth, defaultPageHeight
	rotation := 0
	if attrs != nil {
		if attrs.MediaBox != nil {
			width = attrs.MediaBox.Width()
			height = attrs.MediaBox.Height()
		}
		rotation = normalizedRotation(attrs.Rotate)
	}

	page := model.NewPage(width, height)
	page.Rotation = rotation

	log := e.log.WithField("page", pageNum)

	var resDict types.Dict
	if attrs != nil {
		resDict = attrs.Resources
	}
	res := loadResources(pdfCtx, resDict, log)

	content, err := pageContent(pdfCtx, pageDict)
	if err != nil {
		return nil, fmt.Errorf("page content: %w", err)
	}
	if len(content) == 0 {
		return page, nil
	}

	ops, err := contentstream.NewParser(content).Parse()
	if err != nil {
		return nil, fmt.Errorf("parse content stream: %w", err)
	}

	newPageWalk(page, res, log, e.ocr).run(ops)
	return page, nil
}

// pageContent concatenates a page's content streams. A Contents entry
// may be a single stream or an array of streams that form one logical
// stream.
func pageContent(pdfCtx *pdfmodel.Context, pageDict types.Dict) ([]byte, error) {
	obj, found := pageDict.Find("Contents")
	if !found {
		return nil, nil
	}

	resolved := deref(pdfCtx, obj)
	if arr, ok := resolved.(types.Array); ok {
		var combined []byte
		for _, entry := range arr {
			data, err := decodedStream(pdfCtx, entry)
			if err != nil {
				return nil, err
			}
			combined = append(combined, data...)
			combined = append(combined, '\n')
		}
		return combined, nil
	}
	return decodedStream(pdfCtx, resolved)
}

func normalizedRotation(rot int) int {
	rot %= 360
	if rot < 0 {
		rot += 360
	}
	switch rot {
	case 90, 180, 270:
		return rot
	}
	return 0
}
