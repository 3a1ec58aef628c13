package extract

import (
	"errors"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/dtowler/folio/contentstream"
	"github.com/dtowler/folio/font"
	"github.com/dtowler/folio/model"
)

func runWalk(t *testing.T, src string, res *pageResources, ocr ocrFunc) *model.Page {
	t.Helper()
	if res == nil {
		res = &pageResources{
			fonts:  map[string]*font.Font{},
			images: map[string]*imageXObject{},
		}
	}
	ops, err := contentstream.NewParser([]byte(src)).Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	page := model.NewPage(612, 792)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	newPageWalk(page, res, log, ocr).run(ops)
	return page
}

func TestWalkSimpleText(t *testing.T) {
	page := runWalk(t, "BT /F1 14 Tf 72 700 Td (Hello) Tj ET", nil, nil)

	texts := page.Texts()
	if len(texts) != 1 {
		t.Fatalf("texts = %d, want 1", len(texts))
	}
	got := texts[0]
	if got.Content != "Hello" {
		t.Errorf("content = %q", got.Content)
	}
	if got.X != 72 {
		t.Errorf("x = %v, want 72", got.X)
	}
	// Baseline at 700 in the bottom-up frame is 92 from the page top.
	if got.Y != 92 {
		t.Errorf("y = %v, want 92", got.Y)
	}
	if got.FontSize != 14 {
		t.Errorf("font size = %v, want 14", got.FontSize)
	}
}

func TestWalkTextMatrixScaling(t *testing.T) {
	page := runWalk(t, "BT /F1 1 Tf 24 0 0 24 100 600 Tm (Big) Tj ET", nil, nil)
	got := page.Texts()[0]
	if got.FontSize != 24 {
		t.Errorf("scaled font size = %v, want 24", got.FontSize)
	}
	if got.X != 100 || got.Y != 192 {
		t.Errorf("origin = (%v, %v), want (100, 192)", got.X, got.Y)
	}
}

func TestWalkZeroFontSizeUsesMatrixScale(t *testing.T) {
	page := runWalk(t, "BT /F1 0 Tf 18 0 0 18 50 500 Tm (x) Tj ET", nil, nil)
	if got := page.Texts()[0].FontSize; got != 18 {
		t.Errorf("font size = %v, want 18", got)
	}
}

func TestWalkCTMAppliesToText(t *testing.T) {
	page := runWalk(t, "q 1 0 0 1 10 -20 cm BT /F1 12 Tf 72 700 Td (t) Tj ET Q", nil, nil)
	got := page.Texts()[0]
	if got.X != 82 {
		t.Errorf("x = %v, want 82", got.X)
	}
	if math.Abs(got.Y-112) > 1e-9 {
		t.Errorf("y = %v, want 112", got.Y)
	}
}

func TestWalkMultipleLines(t *testing.T) {
	page := runWalk(t, "BT /F1 12 Tf 14 TL 72 700 Td (one) Tj T* (two) Tj ET", nil, nil)
	texts := page.Texts()
	if len(texts) != 2 {
		t.Fatalf("texts = %d, want 2", len(texts))
	}
	if texts[1].Y-texts[0].Y != 14 {
		t.Errorf("line spacing = %v, want 14", texts[1].Y-texts[0].Y)
	}
	if texts[0].X != texts[1].X {
		t.Errorf("lines misaligned: %v vs %v", texts[0].X, texts[1].X)
	}
}

func TestWalkTJSingleElement(t *testing.T) {
	page := runWalk(t, "BT /F1 12 Tf 72 700 Td [(He) -100 (llo)] TJ ET", nil, nil)
	texts := page.Texts()
	if len(texts) != 1 {
		t.Fatalf("TJ should emit one element, got %d", len(texts))
	}
	if texts[0].Content != "Hello" {
		t.Errorf("content = %q", texts[0].Content)
	}
}

func TestWalkFillColor(t *testing.T) {
	page := runWalk(t, "BT /F1 12 Tf 1 0 0 rg 72 700 Td (red) Tj 0.5 g (gray) Tj ET", nil, nil)
	texts := page.Texts()
	if texts[0].Color != (model.Color{R: 1}) {
		t.Errorf("color 0 = %v", texts[0].Color)
	}
	if texts[1].Color != (model.Color{R: 0.5, G: 0.5, B: 0.5}) {
		t.Errorf("color 1 = %v", texts[1].Color)
	}
}

func TestWalkFontDecoding(t *testing.T) {
	cmap := font.ParseCMap([]byte(`1 begincodespacerange <0000> <FFFF> endcodespacerange
2 beginbfchar <0001> <0048> <0002> <0069> endbfchar`))
	res := &pageResources{
		fonts: map[string]*font.Font{
			"F1": {Name: "F1", BaseFont: "CustomSans", Subtype: "Type0", ToUnicode: cmap},
		},
		images: map[string]*imageXObject{},
	}
	page := runWalk(t, "BT /F1 12 Tf 72 700 Td <00010002> Tj ET", res, nil)
	got := page.Texts()[0]
	if got.Content != "Hi" {
		t.Errorf("decoded content = %q, want %q", got.Content, "Hi")
	}
	if got.FontName != "CustomSans" {
		t.Errorf("font name = %q, want base font name", got.FontName)
	}
}

func TestWalkImagePlacement(t *testing.T) {
	res := &pageResources{
		fonts: map[string]*font.Font{},
		images: map[string]*imageXObject{
			"Im1": {name: "Im1", data: []byte{1, 2, 3}, pixelW: 10, pixelH: 10},
		},
	}
	page := runWalk(t, "q 200 0 0 100 50 300 cm /Im1 Do Q", res, nil)

	imgs := page.Images()
	if len(imgs) != 1 {
		t.Fatalf("images = %d, want 1", len(imgs))
	}
	got := imgs[0]
	if got.Width != 200 || got.Height != 100 {
		t.Errorf("footprint = %vx%v, want 200x100", got.Width, got.Height)
	}
	if got.X != 50 {
		t.Errorf("x = %v, want 50", got.X)
	}
	// Bottom edge at 300 bottom-up, 100 tall: top edge is 792-300-100.
	if got.Y != 392 {
		t.Errorf("y = %v, want 392", got.Y)
	}
}

func TestWalkUnknownImageSkipped(t *testing.T) {
	page := runWalk(t, "q 10 0 0 10 0 0 cm /Missing Do Q", nil, nil)
	if len(page.Images()) != 0 {
		t.Error("unknown XObject should be skipped")
	}
}

func TestWalkImagesAfterText(t *testing.T) {
	res := &pageResources{
		fonts: map[string]*font.Font{},
		images: map[string]*imageXObject{
			"Im1": {name: "Im1", data: []byte{1}},
		},
	}
	// Image painted before the text in stream order.
	page := runWalk(t, "q 10 0 0 10 0 0 cm /Im1 Do Q BT /F1 12 Tf 72 700 Td (after) Tj ET", res, nil)

	if len(page.Elements) != 2 {
		t.Fatalf("elements = %d", len(page.Elements))
	}
	if _, ok := page.Elements[0].(*model.Text); !ok {
		t.Error("text should come before images in the element list")
	}
	if _, ok := page.Elements[1].(*model.Image); !ok {
		t.Error("images should be appended after text")
	}
}

func TestWalkOCRAltText(t *testing.T) {
	res := &pageResources{
		fonts: map[string]*font.Font{},
		images: map[string]*imageXObject{
			"Im1": {name: "Im1", data: []byte{1}},
			"Im2": {name: "Im2", data: []byte{2}},
		},
	}
	recognize := func(data []byte) (string, error) {
		if data[0] == 1 {
			return "recognized", nil
		}
		return "", errors.New("unreadable")
	}
	page := runWalk(t, "q 10 0 0 10 0 0 cm /Im1 Do /Im2 Do Q", res, recognize)

	imgs := page.Images()
	if imgs[0].AltText != "recognized" {
		t.Errorf("alt text = %q", imgs[0].AltText)
	}
	if imgs[1].AltText != "" {
		t.Error("failed recognition should leave alt text empty")
	}
}

func TestWalkUnbalancedRestore(t *testing.T) {
	// Must not panic or error the page.
	page := runWalk(t, "Q Q BT /F1 12 Tf 72 700 Td (still works) Tj ET", nil, nil)
	if len(page.Texts()) != 1 {
		t.Error("text after unbalanced Q lost")
	}
}

func TestWalkNFCNormalization(t *testing.T) {
	// A ToUnicode map yielding e + combining acute must come out
	// precomposed.
	cmap := font.ParseCMap([]byte(`1 beginbfchar <41> <00650301> endbfchar`))
	res := &pageResources{
		fonts:  map[string]*font.Font{"F1": {Name: "F1", ToUnicode: cmap}},
		images: map[string]*imageXObject{},
	}
	page := runWalk(t, "BT /F1 12 Tf 72 700 Td (A) Tj ET", res, nil)
	got := page.Texts()[0].Content
	if got != "é" {
		t.Errorf("content = %q, want precomposed é", got)
	}
}

func TestNormalizedRotation(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0}, {90, 90}, {-90, 270}, {450, 90}, {30, 0},
	}
	for _, tt := range tests {
		if got := normalizedRotation(tt.in); got != tt.want {
			t.Errorf("normalizedRotation(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
