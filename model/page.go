package model

import "strings"

// Page is the per-page container: geometry plus an ordered element list.
// Element order is extraction order; on reconstruction, later elements
// paint over earlier ones within their class.
type Page struct {
	Width    float64 // points
	Height   float64 // points
	Rotation int     // 0, 90, 180 or 270
	Elements []Element
}

// NewPage creates a page with the given dimensions.
func NewPage(width, height float64) *Page {
	return &Page{
		Width:    width,
		Height:   height,
		Elements: make([]Element, 0),
	}
}

// AddElement appends an element to the page.
func (p *Page) AddElement(e Element) {
	p.Elements = append(p.Elements, e)
}

// Texts returns the page's text elements in order.
func (p *Page) Texts() []*Text {
	var out []*Text
	for _, e := range p.Elements {
		if t, ok := e.(*Text); ok {
			out = append(out, t)
		}
	}
	return out
}

// Images returns the page's image elements in order.
func (p *Page) Images() []*Image {
	var out []*Image
	for _, e := range p.Elements {
		if img, ok := e.(*Image); ok {
			out = append(out, img)
		}
	}
	return out
}

// PlainText concatenates the page's text runs in extraction order.
func (p *Page) PlainText() string {
	var sb strings.Builder
	for _, t := range p.Texts() {
		sb.WriteString(t.Content)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Document is an ordered list of pages, materialized fully in memory for
// the duration of one conversion. It carries no state beyond its pages.
type Document struct {
	Pages []*Page
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{Pages: make([]*Page, 0)}
}

// AddPage appends a page to the document.
func (d *Document) AddPage(p *Page) {
	d.Pages = append(d.Pages, p)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Page returns a page by 1-indexed number, or nil if out of range.
func (d *Document) Page(number int) *Page {
	if number < 1 || number > len(d.Pages) {
		return nil
	}
	return d.Pages[number-1]
}

// PlainText concatenates the text of all pages.
func (d *Document) PlainText() string {
	var sb strings.Builder
	for _, p := range d.Pages {
		sb.WriteString(p.PlainText())
		sb.WriteByte('\n')
	}
	return sb.String()
}
