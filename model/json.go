package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dtowler/folio/format"
)

// ErrMissingPages is returned when a document payload has no "pages"
// list or the list has the wrong shape. It marks a caller error rather
// than a processing failure.
var ErrMissingPages = errors.New("document payload missing pages list")

// DefaultFontSize is filled in for text elements that arrive without an
// explicit size.
const DefaultFontSize = 12.0

// DecodeOptions controls document decoding.
type DecodeOptions struct {
	// Strict rejects elements with malformed fields (bad base64 image
	// data, unknown element types, ill-shaped colors) instead of
	// applying the default lenient fill-and-continue policy.
	Strict bool
}

type elementJSON struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	X        *float64  `json:"x,omitempty"`
	Y        *float64  `json:"y,omitempty"`
	FontSize *float64  `json:"fontSize,omitempty"`
	Width    *float64  `json:"width,omitempty"`
	Height   *float64  `json:"height,omitempty"`
	FontName string    `json:"fontName,omitempty"`
	Color    []float64 `json:"color,omitempty"`
	Src      string    `json:"src,omitempty"`
	Alt      string    `json:"alt,omitempty"`
}

type pageJSON struct {
	Width    float64       `json:"width"`
	Height   float64       `json:"height"`
	Rotation int           `json:"rotation,omitempty"`
	Elements []elementJSON `json:"elements"`
}

type documentJSON struct {
	Pages *[]pageJSON `json:"pages"`
}

// MarshalJSON encodes the document in the wire schema: a "pages" list of
// page objects whose elements are a tagged union discriminated by "type".
// Image bytes are emitted as base64 data URIs with a sniffed media type.
func (d *Document) MarshalJSON() ([]byte, error) {
	pages := make([]pageJSON, 0, len(d.Pages))
	for _, p := range d.Pages {
		pj := pageJSON{
			Width:    p.Width,
			Height:   p.Height,
			Rotation: p.Rotation,
			Elements: make([]elementJSON, 0, len(p.Elements)),
		}
		for _, e := range p.Elements {
			pj.Elements = append(pj.Elements, encodeElement(e))
		}
		pages = append(pages, pj)
	}
	return json.Marshal(documentJSON{Pages: &pages})
}

func encodeElement(e Element) elementJSON {
	switch el := e.(type) {
	case *Text:
		ej := elementJSON{
			Type:     "text",
			Text:     el.Content,
			X:        f64(el.X),
			Y:        f64(el.Y),
			FontSize: f64(el.FontSize),
			Width:    f64(el.Width),
			Height:   f64(el.Height),
			FontName: el.FontName,
		}
		if el.Color != Black {
			ej.Color = []float64{el.Color.R, el.Color.G, el.Color.B}
		}
		return ej
	case *Image:
		return elementJSON{
			Type:   "image",
			X:      f64(el.X),
			Y:      f64(el.Y),
			Width:  f64(el.Width),
			Height: f64(el.Height),
			Src:    encodeDataURI(el.Data),
			Alt:    el.AltText,
		}
	default:
		// Unreachable for the closed sum; keep the codec total anyway.
		return elementJSON{Type: "unknown"}
	}
}

func f64(v float64) *float64 { return &v }

func encodeDataURI(data []byte) string {
	mime := "application/octet-stream"
	switch format.Detect(data) {
	case format.PNG:
		mime = "image/png"
	case format.JPEG:
		mime = "image/jpeg"
	case format.GIF:
		mime = "image/gif"
	case format.TIFF:
		mime = "image/tiff"
	case format.BMP:
		mime = "image/bmp"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// UnmarshalJSON decodes the wire schema with the lenient default policy.
func (d *Document) UnmarshalJSON(data []byte) error {
	doc, err := Decode(data, DecodeOptions{})
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// Decode parses a document payload. The payload must carry a "pages"
// list; anything else about an individual element is defaulted leniently
// unless opts.Strict is set.
func Decode(data []byte, opts DecodeOptions) (*Document, error) {
	var dj documentJSON
	if err := json.Unmarshal(data, &dj); err != nil {
		return nil, fmt.Errorf("parse document payload: %w", err)
	}
	if dj.Pages == nil {
		return nil, ErrMissingPages
	}

	doc := NewDocument()
	for i, pj := range *dj.Pages {
		page := NewPage(pj.Width, pj.Height)
		page.Rotation = normalizeRotation(pj.Rotation)
		for j, ej := range pj.Elements {
			elem, err := decodeElement(ej, opts)
			if err != nil {
				if opts.Strict {
					return nil, fmt.Errorf("page %d element %d: %w", i, j, err)
				}
				continue
			}
			page.AddElement(elem)
		}
		doc.AddPage(page)
	}
	return doc, nil
}

func decodeElement(ej elementJSON, opts DecodeOptions) (Element, error) {
	switch ej.Type {
	case "text":
		t := &Text{
			Content:  ej.Text,
			X:        deref(ej.X),
			Y:        deref(ej.Y),
			FontSize: DefaultFontSize,
			Width:    deref(ej.Width),
			Height:   deref(ej.Height),
			FontName: ej.FontName,
		}
		if ej.FontSize != nil && *ej.FontSize > 0 {
			t.FontSize = *ej.FontSize
		}
		if len(ej.Color) == 3 {
			t.Color = Color{R: clamp01(ej.Color[0]), G: clamp01(ej.Color[1]), B: clamp01(ej.Color[2])}
		} else if len(ej.Color) != 0 && opts.Strict {
			return nil, fmt.Errorf("color must have 3 channels, got %d", len(ej.Color))
		}
		return t, nil

	case "image":
		img := &Image{
			X:       deref(ej.X),
			Y:       deref(ej.Y),
			Width:   deref(ej.Width),
			Height:  deref(ej.Height),
			AltText: ej.Alt,
		}
		data, err := decodeDataURI(ej.Src)
		if err != nil {
			if opts.Strict {
				return nil, fmt.Errorf("image data: %w", err)
			}
			// Lenient: keep the element with no bytes. Reconstruction
			// skips it as an element-level failure.
			return img, nil
		}
		img.Data = data
		return img, nil

	default:
		return nil, fmt.Errorf("unknown element type %q", ej.Type)
	}
}

// decodeDataURI accepts either a data URI or bare base64.
func decodeDataURI(src string) ([]byte, error) {
	if src == "" {
		return nil, errors.New("empty image source")
	}
	if strings.HasPrefix(src, "data:") {
		idx := strings.Index(src, ",")
		if idx < 0 {
			return nil, errors.New("malformed data URI")
		}
		src = src[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(src)
	if err != nil {
		// Some producers omit padding.
		data, err = base64.RawStdEncoding.DecodeString(src)
	}
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeRotation(rot int) int {
	rot %= 360
	if rot < 0 {
		rot += 360
	}
	switch rot {
	case 90, 180, 270:
		return rot
	default:
		return 0
	}
}
