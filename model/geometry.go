package model

import "math"

// Matrix is a 2D affine transformation [a b c d e f]: the linear part
// [a b; c d] followed by the translation (e, f). This is the standard
// PDF matrix layout, applied as row vectors: p' = p * M.
type Matrix [6]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translate creates a translation matrix.
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale creates a scaling matrix.
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Multiply returns m * other.
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Transform applies the matrix to a point.
func (m Matrix) Transform(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// IsIdentity reports whether m is the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m == Matrix{1, 0, 0, 1, 0, 0}
}

// IsFinite reports whether all six coefficients are finite numbers.
func (m Matrix) IsFinite() bool {
	for _, v := range m {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IsDegenerate reports whether either axis of the linear part collapses
// to zero length, i.e. the matrix cannot place content meaningfully.
func (m Matrix) IsDegenerate() bool {
	return math.Hypot(m[0], m[1]) == 0 || math.Hypot(m[2], m[3]) == 0
}

// Origin resolves the matrix into a placement in the canonical frame of a
// page with the given height: the position of the transformed origin plus
// the per-axis scale factors. All transform geometry used by extraction
// and reconstruction funnels through here.
//
// Malformed matrices (non-finite coefficients, zero-scale axes) are
// tolerated and treated as the identity transform, never rejected.
func (m Matrix) Origin(pageHeight float64) (x, y, scaleX, scaleY float64) {
	if !m.IsFinite() || m.IsDegenerate() {
		m = Identity()
	}
	scaleX = math.Hypot(m[0], m[1])
	scaleY = math.Hypot(m[2], m[3])
	x = m[4]
	y = ToCanonicalY(m[5], pageHeight)
	return x, y, scaleX, scaleY
}

// ToCanonicalY converts a y coordinate from the PDF bottom-up frame into
// the canonical top-left-origin, y-down frame.
func ToCanonicalY(rawY, pageHeight float64) float64 {
	return pageHeight - rawY
}

// FromCanonicalY converts a canonical y coordinate back into the PDF
// bottom-up frame. For elements positioned by their top edge, elemHeight
// is the element's placed height; for baseline-positioned text it is 0.
//
// ToCanonicalY and FromCanonicalY are exact inverses:
// FromCanonicalY(ToCanonicalY(y, h), h, 0) == y.
func FromCanonicalY(canonicalY, pageHeight, elemHeight float64) float64 {
	return pageHeight - canonicalY - elemHeight
}
