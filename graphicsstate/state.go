package graphicsstate

import (
	"errors"

	"github.com/dtowler/folio/model"
)

// ErrStackUnderflow is returned when a Q operator has no matching q.
var ErrStackUnderflow = errors.New("graphics state stack underflow")

// TextState is the text-specific portion of the graphics state.
type TextState struct {
	FontName string
	FontSize float64

	CharSpacing       float64
	WordSpacing       float64
	HorizontalScaling float64 // percent
	Leading           float64
	Rise              float64

	Matrix     model.Matrix // text matrix (Tm)
	LineMatrix model.Matrix // text line matrix (Tlm)
}

// State tracks the graphics state while walking an operator trace: the
// current transformation matrix with its q/Q stack, the text state, and
// the fill color. It is the single source of truth for "which transform
// applies to the item being painted right now".
type State struct {
	CTM       model.Matrix
	Text      TextState
	FillColor model.Color

	stack []saved
}

type saved struct {
	ctm  model.Matrix
	text TextState
	fill model.Color
}

// New creates a graphics state with PDF defaults.
func New() *State {
	return &State{
		CTM: model.Identity(),
		Text: TextState{
			HorizontalScaling: 100,
			Matrix:            model.Identity(),
			LineMatrix:        model.Identity(),
		},
	}
}

// Save pushes the current state (q operator).
func (s *State) Save() {
	s.stack = append(s.stack, saved{ctm: s.CTM, text: s.Text, fill: s.FillColor})
}

// Restore pops the most recently saved state (Q operator).
func (s *State) Restore() error {
	if len(s.stack) == 0 {
		return ErrStackUnderflow
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.CTM = top.ctm
	s.Text = top.text
	s.FillColor = top.fill
	return nil
}

// Concat prepends m to the CTM (cm operator).
func (s *State) Concat(m model.Matrix) {
	s.CTM = m.Multiply(s.CTM)
}

// BeginText resets the text matrices (BT operator).
func (s *State) BeginText() {
	s.Text.Matrix = model.Identity()
	s.Text.LineMatrix = model.Identity()
}

// SetFont sets the current font and size (Tf operator).
func (s *State) SetFont(name string, size float64) {
	s.Text.FontName = name
	s.Text.FontSize = size
}

// SetTextMatrix sets both text matrices (Tm operator).
func (s *State) SetTextMatrix(m model.Matrix) {
	s.Text.Matrix = m
	s.Text.LineMatrix = m
}

// MoveText offsets the text line matrix (Td operator).
func (s *State) MoveText(tx, ty float64) {
	s.Text.LineMatrix = model.Translate(tx, ty).Multiply(s.Text.LineMatrix)
	s.Text.Matrix = s.Text.LineMatrix
}

// MoveTextSetLeading offsets the line matrix and sets leading (TD).
func (s *State) MoveTextSetLeading(tx, ty float64) {
	s.Text.Leading = -ty
	s.MoveText(tx, ty)
}

// NextLine moves to the start of the next line (T* operator).
func (s *State) NextLine() {
	s.MoveText(0, -s.Text.Leading)
}

// RunMatrix returns the full transform for the current glyph run: the
// text matrix combined with the CTM.
func (s *State) RunMatrix() model.Matrix {
	return s.Text.Matrix.Multiply(s.CTM)
}

// Advance moves the text matrix right by a run's displacement, which
// includes per-character and per-space spacing.
func (s *State) Advance(glyphWidth float64, chars, spaces int) {
	scale := s.Text.HorizontalScaling / 100
	total := glyphWidth
	total += float64(spaces) * s.Text.WordSpacing * scale
	total += float64(chars) * s.Text.CharSpacing * scale
	s.Text.Matrix = model.Translate(total, 0).Multiply(s.Text.Matrix)
}

// Kern applies a TJ position adjustment, expressed in thousandths of an
// em and scaled by the current font size.
func (s *State) Kern(amount float64) {
	dx := -amount * s.Text.FontSize / 1000 * s.Text.HorizontalScaling / 100
	s.Text.Matrix = model.Translate(dx, 0).Multiply(s.Text.Matrix)
}

// SetFillRGB sets the fill color (rg operator).
func (s *State) SetFillRGB(r, g, b float64) {
	s.FillColor = model.Color{R: clamp01(r), G: clamp01(g), B: clamp01(b)}
}

// SetFillGray sets a grayscale fill color (g operator).
func (s *State) SetFillGray(gray float64) {
	s.SetFillRGB(gray, gray, gray)
}

// SetFillCMYK sets the fill color from CMYK, approximated as RGB (k
// operator).
func (s *State) SetFillCMYK(c, m, y, k float64) {
	s.SetFillRGB((1-c)*(1-k), (1-m)*(1-k), (1-y)*(1-k))
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
