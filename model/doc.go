// Package model provides the intermediate representation shared by the
// extraction and reconstruction pipelines.
//
// This package defines the canonical schema both sides agree on: a
// [Document] of [Page] descriptors, each holding page geometry and an
// ordered list of [Element] values. The two pipelines never exchange
// anything else; a document serialized by one side is the sole input of
// the other.
//
// # Elements
//
// [Element] is a closed sum with exactly two members:
//
//   - [Text] - one glyph run with position, approximate size, and color
//   - [Image] - one raster image with encoded bytes and placed footprint
//
// # Coordinate frame
//
// All element positions use a single canonical frame: top-left origin,
// y growing downward, units in points. This is deliberately distinct
// from the bottom-up convention of page description formats; extraction
// converts into the frame and reconstruction converts out of it, through
// [ToCanonicalY] and [FromCanonicalY], which are exact inverses.
//
// # Transforms
//
// [Matrix] is the 2D affine transform used to resolve placement of drawn
// items. [Matrix.Origin] isolates the decomposition into position and
// per-axis scale so no other package reasons about transform geometry.
//
// # Wire form
//
// [Document] marshals to the JSON wire schema with a "type"-tagged
// element union and data-URI image bytes. Decoding is lenient by
// default - missing sizes and colors are default-filled, malformed
// elements are dropped - with a strict mode available via [Decode].
package model
