package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/dtowler/folio/model"
)

func TestRebuildJSONRoundTrip(t *testing.T) {
	doc := model.NewDocument()
	page := model.NewPage(612, 792)
	page.AddElement(&model.Text{Content: "round trip", X: 72, Y: 100, FontSize: 12})
	doc.AddPage(page)

	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	out, err := RebuildJSON(context.Background(), payload)
	if err != nil {
		t.Fatalf("RebuildJSON: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestRebuildJSONMissingPages(t *testing.T) {
	_, err := RebuildJSON(context.Background(), []byte(`{"document": []}`))
	if !errors.Is(err, model.ErrMissingPages) {
		t.Errorf("err = %v, want ErrMissingPages", err)
	}
}

func TestRebuildJSONEmptyPages(t *testing.T) {
	out, err := RebuildJSON(context.Background(), []byte(`{"pages": []}`))
	if err != nil {
		t.Fatalf("empty pages list should rebuild: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestOpenMissingFile(t *testing.T) {
	if _, err := Open("testdata/does-not-exist.pdf").Document(context.Background()); err == nil {
		t.Error("missing file should fail")
	}
}

func TestFromBytesGarbage(t *testing.T) {
	if _, err := FromBytes([]byte("not a pdf")).Document(context.Background()); err == nil {
		t.Error("garbage bytes should fail")
	}
}

func TestExtractRebuildRoundTrip(t *testing.T) {
	// Build a PDF, extract it, and check the text landed where it was
	// put, within the tolerance the coordinate conversions promise.
	doc := model.NewDocument()
	page := model.NewPage(612, 792)
	page.AddElement(&model.Text{Content: "Anchor", X: 72, Y: 144, FontSize: 18})
	doc.AddPage(page)

	pdfBytes, err := Rebuild(context.Background(), doc)
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	got, err := FromBytes(pdfBytes).Document(context.Background())
	if err != nil {
		t.Fatalf("extract rebuilt document: %v", err)
	}
	if got.PageCount() != 1 {
		t.Fatalf("page count = %d", got.PageCount())
	}

	texts := got.Page(1).Texts()
	if len(texts) == 0 {
		t.Fatal("no text extracted from rebuilt document")
	}
	found := false
	for _, text := range texts {
		if text.Content == "Anchor" {
			found = true
			if dx := text.X - 72; dx < -1 || dx > 1 {
				t.Errorf("x drifted to %v", text.X)
			}
			if dy := text.Y - 144; dy < -1 || dy > 1 {
				t.Errorf("y drifted to %v", text.Y)
			}
		}
	}
	if !found {
		t.Errorf("text %q lost in round trip", "Anchor")
	}
}

func TestMust(t *testing.T) {
	if got := Must(42, nil); got != 42 {
		t.Errorf("Must = %d", got)
	}
	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}
