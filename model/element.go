package model

// Kind discriminates the element union.
type Kind int

const (
	KindText Kind = iota + 1
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Element is one positioned visual unit on a page. It is a closed sum:
// the only implementations are *Text and *Image, so both extraction and
// reconstruction can switch over the concrete types exhaustively.
//
// Positions are always in the canonical top-left-origin, y-down frame.
type Element interface {
	Kind() Kind
	element()
}

// Color is an RGB color with channels in [0, 1]. The zero value is black.
type Color struct {
	R, G, B float64
}

// Black is the default element color.
var Black = Color{}

// Text is a single glyph run.
//
// Y is the run's baseline in the canonical frame. FontSize approximates
// the run's vertical scale when the source carried no explicit size.
// Width and Height are estimates of the run's footprint.
type Text struct {
	Content  string
	X, Y     float64
	FontSize float64
	Width    float64
	Height   float64
	FontName string
	Color    Color
}

func (t *Text) Kind() Kind { return KindText }
func (*Text) element()     {}

// Image is an embedded raster image.
//
// Data holds encoded image bytes in a portable format (PNG, JPEG, ...).
// X, Y locate the placed top-left corner in the canonical frame; Width
// and Height are the placed footprint in points, which is a scale and
// need not match the raster's natural pixel dimensions.
type Image struct {
	Data   []byte
	X, Y   float64
	Width  float64
	Height float64

	// AltText carries OCR-recovered text when OCR is enabled.
	AltText string
}

func (i *Image) Kind() Kind { return KindImage }
func (*Image) element()     {}
