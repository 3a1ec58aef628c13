// Package format provides raster image format detection for the folio
// library.
//
// Detection always inspects content magic bytes. Declared media types
// travelling with a document are an unchecked external input and are
// never trusted; the true format is re-derived here before any image is
// re-encoded or embedded.
package format

import "bytes"

// Format represents a recognized raster image format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PNG indicates a PNG image.
	PNG
	// JPEG indicates a JPEG image.
	JPEG
	// GIF indicates a GIF image.
	GIF
	// TIFF indicates a TIFF image.
	TIFF
	// BMP indicates a Windows bitmap image.
	BMP
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case GIF:
		return "GIF"
	case TIFF:
		return "TIFF"
	case BMP:
		return "BMP"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PNG:
		return ".png"
	case JPEG:
		return ".jpg"
	case GIF:
		return ".gif"
	case TIFF:
		return ".tiff"
	case BMP:
		return ".bmp"
	default:
		return ""
	}
}

var (
	pngMagic = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	gifMagic = []byte("GIF8")
	tiffLE   = []byte{'I', 'I', 0x2A, 0x00}
	tiffBE   = []byte{'M', 'M', 0x00, 0x2A}
	bmpMagic = []byte{'B', 'M'}
)

// Detect determines the image format from magic bytes. It returns
// Unknown when the content matches no recognized signature.
func Detect(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return PNG
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return JPEG
	case bytes.HasPrefix(data, gifMagic):
		return GIF
	case bytes.HasPrefix(data, tiffLE) || bytes.HasPrefix(data, tiffBE):
		return TIFF
	case bytes.HasPrefix(data, bmpMagic):
		return BMP
	default:
		return Unknown
	}
}
