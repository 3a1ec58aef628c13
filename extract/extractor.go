package extract

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"

	"github.com/dtowler/folio/contentstream"
	"github.com/dtowler/folio/font"
	"github.com/dtowler/folio/graphicsstate"
	"github.com/dtowler/folio/model"
)

// widthFactor approximates the horizontal advance of one glyph as a
// fraction of the font size. Exact widths would need per-font metrics;
// half an em is a serviceable average for Latin text.
const widthFactor = 0.5

// pageWalk runs a parsed operator trace against a fresh graphics state
// and collects the page's elements. Text elements are added in stream
// order; image elements are appended after all text.
type pageWalk struct {
	gs    *graphicsstate.State
	res   *pageResources
	page  *model.Page
	log   logrus.FieldLogger
	ocr   ocrFunc
	texts []model.Element
	imgs  []model.Element
}

// ocrFunc recognizes text in encoded image bytes. nil disables OCR.
type ocrFunc func(data []byte) (string, error)

func newPageWalk(page *model.Page, res *pageResources, log logrus.FieldLogger, ocr ocrFunc) *pageWalk {
	return &pageWalk{
		gs:   graphicsstate.New(),
		res:  res,
		page: page,
		log:  log,
		ocr:  ocr,
	}
}

func (w *pageWalk) run(ops []contentstream.Operation) {
	for _, op := range ops {
		w.apply(op)
	}
	w.page.Elements = append(w.page.Elements, w.texts...)
	w.page.Elements = append(w.page.Elements, w.imgs...)
}

func (w *pageWalk) apply(op contentstream.Operation) {
	gs := w.gs
	args := op.Operands

	switch op.Operator {
	case "q":
		gs.Save()
	case "Q":
		if err := gs.Restore(); err != nil {
			w.log.Debug("unbalanced Q operator")
		}
	case "cm":
		if m, ok := matrixOperands(args); ok {
			gs.Concat(m)
		}

	case "BT":
		gs.BeginText()
	case "Tf":
		if len(args) == 2 {
			name, okName := args[0].(contentstream.Name)
			size, okSize := contentstream.AsFloat(args[1])
			if okName && okSize {
				gs.SetFont(string(name), size)
			}
		}
	case "Tm":
		if m, ok := matrixOperands(args); ok {
			gs.SetTextMatrix(m)
		}
	case "Td":
		if tx, ty, ok := pairOperands(args); ok {
			gs.MoveText(tx, ty)
		}
	case "TD":
		if tx, ty, ok := pairOperands(args); ok {
			gs.MoveTextSetLeading(tx, ty)
		}
	case "TL":
		if len(args) == 1 {
			if v, ok := contentstream.AsFloat(args[0]); ok {
				gs.Text.Leading = v
			}
		}
	case "T*":
		gs.NextLine()
	case "Tc":
		if len(args) == 1 {
			if v, ok := contentstream.AsFloat(args[0]); ok {
				gs.Text.CharSpacing = v
			}
		}
	case "Tw":
		if len(args) == 1 {
			if v, ok := contentstream.AsFloat(args[0]); ok {
				gs.Text.WordSpacing = v
			}
		}
	case "Tz":
		if len(args) == 1 {
			if v, ok := contentstream.AsFloat(args[0]); ok && v != 0 {
				gs.Text.HorizontalScaling = v
			}
		}
	case "Ts":
		if len(args) == 1 {
			if v, ok := contentstream.AsFloat(args[0]); ok {
				gs.Text.Rise = v
			}
		}

	case "Tj":
		if len(args) == 1 {
			if s, ok := args[0].(contentstream.String); ok {
				w.showText([]contentstream.Object{s})
			}
		}
	case "'":
		gs.NextLine()
		if len(args) == 1 {
			if s, ok := args[0].(contentstream.String); ok {
				w.showText([]contentstream.Object{s})
			}
		}
	case `"`:
		if len(args) == 3 {
			if aw, ok := contentstream.AsFloat(args[0]); ok {
				gs.Text.WordSpacing = aw
			}
			if ac, ok := contentstream.AsFloat(args[1]); ok {
				gs.Text.CharSpacing = ac
			}
			gs.NextLine()
			if s, ok := args[2].(contentstream.String); ok {
				w.showText([]contentstream.Object{s})
			}
		}
	case "TJ":
		if len(args) == 1 {
			if arr, ok := args[0].(contentstream.Array); ok {
				w.showText(arr)
			}
		}

	case "rg":
		if r, g, b, ok := tripleOperands(args); ok {
			gs.SetFillRGB(r, g, b)
		}
	case "g":
		if len(args) == 1 {
			if v, ok := contentstream.AsFloat(args[0]); ok {
				gs.SetFillGray(v)
			}
		}
	case "k":
		if len(args) == 4 {
			c, ok1 := contentstream.AsFloat(args[0])
			m, ok2 := contentstream.AsFloat(args[1])
			y, ok3 := contentstream.AsFloat(args[2])
			kk, ok4 := contentstream.AsFloat(args[3])
			if ok1 && ok2 && ok3 && ok4 {
				gs.SetFillCMYK(c, m, y, kk)
			}
		}

	case "Do":
		if len(args) == 1 {
			if name, ok := args[0].(contentstream.Name); ok {
				w.placeImage(string(name))
			}
		}
	}
}

// showText emits one text element for a show operation. The items slice
// mixes strings and kerning adjustments, as in a TJ array; a plain Tj is
// a one-string slice.
func (w *pageWalk) showText(items []contentstream.Object) {
	gs := w.gs
	f := w.res.fonts[gs.Text.FontName]

	// Position and size are taken at the start of the run.
	x, y, _, scaleY := gs.RunMatrix().Origin(w.page.Height)
	y -= gs.Text.Rise * scaleY

	fontSize := gs.Text.FontSize * scaleY
	if gs.Text.FontSize == 0 {
		fontSize = scaleY
	}

	var content []rune
	for _, item := range items {
		switch v := item.(type) {
		case contentstream.String:
			decoded := f.DecodeString(v)
			runes := []rune(decoded)
			content = append(content, runes...)

			spaces := 0
			for _, r := range runes {
				if r == ' ' {
					spaces++
				}
			}
			advance := float64(len(runes)) * gs.Text.FontSize * widthFactor
			gs.Advance(advance, len(runes), spaces)
		default:
			if amount, ok := contentstream.AsFloat(item); ok {
				gs.Kern(amount)
			}
		}
	}
	if len(content) == 0 {
		return
	}

	text := norm.NFC.String(string(content))
	w.texts = append(w.texts, &model.Text{
		Content:  text,
		X:        x,
		Y:        y,
		FontSize: fontSize,
		Width:    float64(len([]rune(text))) * fontSize * widthFactor,
		Height:   fontSize,
		FontName: fontDisplayName(f, gs.Text.FontName),
		Color:    gs.FillColor,
	})
}

// placeImage records an image XObject paint. The CTM at paint time maps
// the unit square onto the page, so its scale is the placed footprint
// and its translation the bottom-left corner.
func (w *pageWalk) placeImage(name string) {
	img, ok := w.res.images[name]
	if !ok {
		return
	}

	x, bottomY, width, height := w.gs.CTM.Origin(w.page.Height)

	elem := &model.Image{
		Data:   img.data,
		X:      x,
		Y:      bottomY - height,
		Width:  width,
		Height: height,
	}
	if w.ocr != nil {
		if alt, err := w.ocr(img.data); err == nil {
			elem.AltText = alt
		} else {
			w.log.WithError(err).WithField("image", name).Debug("ocr failed")
		}
	}
	w.imgs = append(w.imgs, elem)
}

func fontDisplayName(f *font.Font, resourceName string) string {
	if f != nil && f.BaseFont != "" {
		return f.BaseFont
	}
	return resourceName
}

func matrixOperands(args []contentstream.Object) (model.Matrix, bool) {
	if len(args) != 6 {
		return model.Matrix{}, false
	}
	var m model.Matrix
	for i, arg := range args {
		v, ok := contentstream.AsFloat(arg)
		if !ok {
			return model.Matrix{}, false
		}
		m[i] = v
	}
	return m, true
}

func pairOperands(args []contentstream.Object) (float64, float64, bool) {
	if len(args) != 2 {
		return 0, 0, false
	}
	a, ok1 := contentstream.AsFloat(args[0])
	b, ok2 := contentstream.AsFloat(args[1])
	return a, b, ok1 && ok2
}

func tripleOperands(args []contentstream.Object) (float64, float64, float64, bool) {
	if len(args) != 3 {
		return 0, 0, 0, false
	}
	a, ok1 := contentstream.AsFloat(args[0])
	b, ok2 := contentstream.AsFloat(args[1])
	c, ok3 := contentstream.AsFloat(args[2])
	return a, b, c, ok1 && ok2 && ok3
}
