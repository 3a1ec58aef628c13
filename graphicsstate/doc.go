// Package graphicsstate models the mutable state a content stream walk
// carries between operators: the current transformation matrix and its
// q/Q save stack, the text object state (font, spacing, text matrices),
// and the current fill color.
//
// Positions of painted items are the product of this state at paint
// time. Text runs take their origin from the text matrix composed with
// the CTM; images placed by Do take theirs from the CTM alone.
package graphicsstate
