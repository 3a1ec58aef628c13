package rebuild

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/sirupsen/logrus"

	"github.com/dtowler/folio/format"
	"github.com/dtowler/folio/model"
	"github.com/dtowler/folio/rasterize"
)

// Builder writes documents back to PDF. One Builder is reusable; each
// Build call works on a fresh writer.
type Builder struct {
	log *logrus.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(log *logrus.Logger) Option {
	return func(b *Builder) { b.log = log }
}

// NewBuilder creates a document builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build renders the document to PDF bytes. Pages are written in order;
// ctx cancellation is honored between pages. A malformed element is
// logged and skipped, never failing the page or the document.
func (b *Builder) Build(ctx context.Context, doc *model.Document) ([]byte, error) {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: defaultSize(doc).Wd, Ht: defaultSize(doc).Ht},
	})
	pdf.SetAutoPageBreak(false, 0)
	translate := pdf.UnicodeTranslatorFromDescriptor("")

	for i, page := range doc.Pages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		b.buildPage(pdf, translate, page, i)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Builder) buildPage(pdf *gofpdf.Fpdf, translate func(string) string, page *model.Page, index int) {
	log := b.log.WithField("page", index+1)

	size := gofpdf.SizeType{Wd: page.Width, Ht: page.Height}
	if size.Wd <= 0 || size.Ht <= 0 {
		size = gofpdf.SizeType{Wd: 612, Ht: 792}
	}
	pdf.AddPageFormat("P", size)

	rotated := page.Rotation != 0
	if rotated {
		pdf.TransformBegin()
		pdf.TransformRotate(-float64(page.Rotation), size.Wd/2, size.Ht/2)
	}

	for elemIdx, elem := range paintOrder(page.Elements) {
		switch el := elem.(type) {
		case *model.Image:
			if err := b.drawImage(pdf, el, size, index, elemIdx); err != nil {
				log.WithError(err).WithField("element", elemIdx).Warn("skipping image element")
			}
		case *model.Text:
			if err := b.drawText(pdf, translate, el, size); err != nil {
				log.WithError(err).WithField("element", elemIdx).Warn("skipping text element")
			}
		}
		if pdf.Err() {
			log.WithError(pdf.Error()).WithField("element", elemIdx).Warn("writer error, element dropped")
			pdf.ClearError()
		}
	}

	if rotated {
		pdf.TransformEnd()
	}
}

func (b *Builder) drawText(pdf *gofpdf.Fpdf, translate func(string) string, el *model.Text, size gofpdf.SizeType) error {
	if el.Content == "" {
		return nil
	}
	if !finite(el.X, el.Y, el.FontSize) {
		return fmt.Errorf("non-finite text geometry")
	}

	fontSize := el.FontSize
	if fontSize <= 0 {
		fontSize = model.DefaultFontSize
	}

	family, style := mapFont(el.FontName)
	pdf.SetFont(family, style, fontSize)
	pdf.SetTextColor(channel(el.Color.R), channel(el.Color.G), channel(el.Color.B))

	// Baseline back into PDF user space, then into the writer's
	// top-down device space.
	baseline := model.FromCanonicalY(el.Y, size.Ht, 0)
	deviceY := size.Ht - baseline
	pdf.Text(el.X, deviceY, translate(el.Content))
	return nil
}

func (b *Builder) drawImage(pdf *gofpdf.Fpdf, el *model.Image, size gofpdf.SizeType, pageIdx, elemIdx int) error {
	if len(el.Data) == 0 {
		return fmt.Errorf("image element has no data")
	}
	if !finite(el.X, el.Y, el.Width, el.Height) || el.Width <= 0 || el.Height <= 0 {
		return fmt.Errorf("bad image footprint %gx%g", el.Width, el.Height)
	}

	data, err := rasterize.Transcode(el.Data)
	if err != nil {
		return err
	}
	imageType, err := registerType(data)
	if err != nil {
		return err
	}
	// A sniffable header is not a decodable image. Verify before handing
	// the bytes to the writer, whose errors are sticky.
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("undecodable image data: %w", err)
	}

	name := fmt.Sprintf("img-%d-%d", pageIdx, elemIdx)
	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return fmt.Errorf("register image: %w", err)
	}

	// Top edge back into PDF user space, then into device space.
	bottom := model.FromCanonicalY(el.Y, size.Ht, el.Height)
	deviceY := size.Ht - bottom - el.Height
	pdf.ImageOptions(name, el.X, deviceY, el.Width, el.Height, false, opts, 0, "")
	return nil
}

// paintOrder partitions a page's elements into draw order: images first,
// then text, each class keeping its relative order. Text always paints
// over images.
func paintOrder(elements []model.Element) []model.Element {
	out := make([]model.Element, 0, len(elements))
	for _, e := range elements {
		if e.Kind() == model.KindImage {
			out = append(out, e)
		}
	}
	for _, e := range elements {
		if e.Kind() == model.KindText {
			out = append(out, e)
		}
	}
	return out
}

// registerType maps sniffed bytes to the writer's image type label.
func registerType(data []byte) (string, error) {
	switch format.Detect(data) {
	case format.PNG:
		return "PNG", nil
	case format.JPEG:
		return "JPG", nil
	case format.GIF:
		return "GIF", nil
	}
	return "", fmt.Errorf("unsupported image format")
}

// mapFont folds an arbitrary extracted font name onto the closest core
// font family and style.
func mapFont(name string) (family, style string) {
	lower := strings.ToLower(name)

	family = "Helvetica"
	switch {
	case strings.Contains(lower, "times") || strings.Contains(lower, "serif") && !strings.Contains(lower, "sans"):
		family = "Times"
	case strings.Contains(lower, "courier") || strings.Contains(lower, "mono"):
		family = "Courier"
	}

	if strings.Contains(lower, "bold") {
		style += "B"
	}
	if strings.Contains(lower, "italic") || strings.Contains(lower, "oblique") {
		style += "I"
	}
	return family, style
}

func channel(v float64) int {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return int(math.Round(v * 255))
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func defaultSize(doc *model.Document) gofpdf.SizeType {
	if doc != nil && len(doc.Pages) > 0 && doc.Pages[0].Width > 0 && doc.Pages[0].Height > 0 {
		return gofpdf.SizeType{Wd: doc.Pages[0].Width, Ht: doc.Pages[0].Height}
	}
	return gofpdf.SizeType{Wd: 612, Ht: 792}
}
