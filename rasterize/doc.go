// Package rasterize turns decoded image sample data into portable
// encoded bytes. Raster reassembles raw samples (gray, RGB, CMYK,
// indexed, at 1, 4 or 8 bits per component) into pixels and encodes
// PNG; Transcode re-encodes formats a document writer cannot embed
// directly.
//
// JPEG streams never pass through here: their compressed bytes are
// already portable and are carried through untouched.
package rasterize
