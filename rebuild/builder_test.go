package rebuild

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/dtowler/folio/model"
)

func quietBuilder() *Builder {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewBuilder(WithLogger(log))
}

func smallPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < 16; i++ {
		img.Set(i%4, i/4, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestBuildSimpleDocument(t *testing.T) {
	doc := model.NewDocument()
	page := model.NewPage(612, 792)
	page.AddElement(&model.Text{Content: "Hello", X: 72, Y: 92, FontSize: 14, FontName: "Helvetica"})
	page.AddElement(&model.Image{Data: smallPNG(t), X: 72, Y: 200, Width: 100, Height: 100})
	doc.AddPage(page)

	out, err := quietBuilder().Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
	if len(out) < 500 {
		t.Errorf("output suspiciously small: %d bytes", len(out))
	}
}

func TestBuildEmptyDocument(t *testing.T) {
	out, err := quietBuilder().Build(context.Background(), model.NewDocument())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("empty document should still serialize to a PDF")
	}
}

func TestBuildSkipsBadElements(t *testing.T) {
	doc := model.NewDocument()
	page := model.NewPage(612, 792)
	page.AddElement(&model.Image{Data: []byte("not an image"), X: 10, Y: 10, Width: 50, Height: 50})
	page.AddElement(&model.Image{X: 10, Y: 10, Width: 50, Height: 50}) // no data
	page.AddElement(&model.Text{Content: "bad", X: math.NaN(), Y: 10, FontSize: 12})
	page.AddElement(&model.Text{Content: "good", X: 72, Y: 100, FontSize: 12})
	doc.AddPage(page)

	out, err := quietBuilder().Build(context.Background(), doc)
	if err != nil {
		t.Fatalf("corrupt elements must not fail the build: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestBuildMultiplePageSizes(t *testing.T) {
	doc := model.NewDocument()
	doc.AddPage(model.NewPage(612, 792))
	doc.AddPage(model.NewPage(842, 595))
	zero := model.NewPage(0, 0) // falls back to letter
	doc.AddPage(zero)

	if _, err := quietBuilder().Build(context.Background(), doc); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuildRotatedPage(t *testing.T) {
	doc := model.NewDocument()
	page := model.NewPage(612, 792)
	page.Rotation = 90
	page.AddElement(&model.Text{Content: "sideways", X: 72, Y: 100, FontSize: 12})
	doc.AddPage(page)

	if _, err := quietBuilder().Build(context.Background(), doc); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestBuildCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := model.NewDocument()
	doc.AddPage(model.NewPage(612, 792))

	if _, err := quietBuilder().Build(ctx, doc); err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestPaintOrder(t *testing.T) {
	t1 := &model.Text{Content: "1"}
	t2 := &model.Text{Content: "2"}
	i1 := &model.Image{Data: []byte{1}}
	i2 := &model.Image{Data: []byte{2}}

	got := paintOrder([]model.Element{t1, i1, t2, i2})
	want := []model.Element{i1, i2, t1, t2}
	if len(got) != len(want) {
		t.Fatalf("len = %d", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestMapFont(t *testing.T) {
	tests := []struct {
		name   string
		family string
		style  string
	}{
		{"Helvetica", "Helvetica", ""},
		{"Arial-BoldMT", "Helvetica", "B"},
		{"Times-Italic", "Times", "I"},
		{"TimesNewRomanPS-BoldItalicMT", "Times", "BI"},
		{"Courier", "Courier", ""},
		{"DejaVuSansMono-Oblique", "Courier", "I"},
		{"", "Helvetica", ""},
	}
	for _, tt := range tests {
		family, style := mapFont(tt.name)
		if family != tt.family || style != tt.style {
			t.Errorf("mapFont(%q) = %q/%q, want %q/%q", tt.name, family, style, tt.family, tt.style)
		}
	}
}

func TestRegisterType(t *testing.T) {
	if got, err := registerType(smallPNG(t)); err != nil || got != "PNG" {
		t.Errorf("png: %q, %v", got, err)
	}
	if _, err := registerType([]byte("garbage")); err == nil {
		t.Error("garbage should not map to an image type")
	}
}

func TestChannel(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0}, {1, 255}, {0.5, 128}, {-1, 0}, {2, 255},
	}
	for _, tt := range tests {
		if got := channel(tt.in); got != tt.want {
			t.Errorf("channel(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
