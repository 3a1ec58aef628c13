package rasterize

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
)

// Raster holds decoded image sample data together with the metadata
// needed to interpret it: dimensions, color space, bit depth, and for
// indexed images the palette.
type Raster struct {
	Width            int
	Height           int
	ColorSpace       string // DeviceGray, DeviceRGB, DeviceCMYK, Indexed, ICCBased, ...
	BitsPerComponent int
	Pixels           []byte

	// Components is the channel count for ICCBased color spaces, taken
	// from the profile stream's N entry. Ignored otherwise.
	Components int

	// Palette holds RGB triplets for Indexed color spaces; Pixels then
	// carries palette indices.
	Palette []byte
}

// EncodePNG reassembles the sample data into pixels and encodes the
// result as PNG.
func (r *Raster) EncodePNG() ([]byte, error) {
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("invalid raster dimensions %dx%d", r.Width, r.Height)
	}

	img, err := r.assemble()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Raster) assemble() (image.Image, error) {
	switch r.ColorSpace {
	case "DeviceRGB", "CalRGB":
		return r.assembleRGB()
	case "DeviceCMYK":
		return r.assembleCMYK()
	case "Indexed":
		return r.assembleIndexed()
	case "ICCBased":
		switch r.Components {
		case 3:
			return r.assembleRGB()
		case 4:
			return r.assembleCMYK()
		default:
			return r.assembleGray()
		}
	default:
		// DeviceGray, CalGray and anything unrecognized.
		return r.assembleGray()
	}
}

func (r *Raster) assembleGray() (image.Image, error) {
	img := image.NewGray(image.Rect(0, 0, r.Width, r.Height))
	switch r.BitsPerComponent {
	case 8:
		if err := r.checkSize(r.Width * r.Height); err != nil {
			return nil, err
		}
		copy(img.Pix, r.Pixels)
		return img, nil
	case 4:
		rowBytes := (r.Width + 1) / 2
		if err := r.checkSize(rowBytes * r.Height); err != nil {
			return nil, err
		}
		for y := 0; y < r.Height; y++ {
			row := r.Pixels[y*rowBytes:]
			for x := 0; x < r.Width; x++ {
				nibble := row[x/2] >> 4
				if x%2 == 1 {
					nibble = row[x/2] & 0x0F
				}
				img.Pix[y*r.Width+x] = nibble * 17
			}
		}
		return img, nil
	case 1:
		rowBytes := (r.Width + 7) / 8
		if err := r.checkSize(rowBytes * r.Height); err != nil {
			return nil, err
		}
		for y := 0; y < r.Height; y++ {
			row := r.Pixels[y*rowBytes:]
			for x := 0; x < r.Width; x++ {
				if row[x/8]>>(7-uint(x%8))&1 == 1 {
					img.Pix[y*r.Width+x] = 255
				}
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("unsupported gray bit depth %d", r.BitsPerComponent)
	}
}

func (r *Raster) assembleRGB() (image.Image, error) {
	if r.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported rgb bit depth %d", r.BitsPerComponent)
	}
	if err := r.checkSize(r.Width * r.Height * 3); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i := 0; i < r.Width*r.Height; i++ {
		img.Pix[i*4+0] = r.Pixels[i*3+0]
		img.Pix[i*4+1] = r.Pixels[i*3+1]
		img.Pix[i*4+2] = r.Pixels[i*3+2]
		img.Pix[i*4+3] = 255
	}
	return img, nil
}

func (r *Raster) assembleCMYK() (image.Image, error) {
	if r.BitsPerComponent != 8 {
		return nil, fmt.Errorf("unsupported cmyk bit depth %d", r.BitsPerComponent)
	}
	if err := r.checkSize(r.Width * r.Height * 4); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for i := 0; i < r.Width*r.Height; i++ {
		c, m, y, k := r.Pixels[i*4], r.Pixels[i*4+1], r.Pixels[i*4+2], r.Pixels[i*4+3]
		red, green, blue := color.CMYKToRGB(c, m, y, k)
		img.Pix[i*4+0] = red
		img.Pix[i*4+1] = green
		img.Pix[i*4+2] = blue
		img.Pix[i*4+3] = 255
	}
	return img, nil
}

func (r *Raster) assembleIndexed() (image.Image, error) {
	if len(r.Palette) == 0 {
		return nil, fmt.Errorf("indexed raster without a palette")
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	maxIndex := len(r.Palette)/3 - 1

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			idx, err := r.indexAt(x, y)
			if err != nil {
				return nil, err
			}
			if idx > maxIndex {
				idx = maxIndex
			}
			dst := (y*r.Width + x) * 4
			img.Pix[dst+0] = r.Palette[idx*3+0]
			img.Pix[dst+1] = r.Palette[idx*3+1]
			img.Pix[dst+2] = r.Palette[idx*3+2]
			img.Pix[dst+3] = 255
		}
	}
	return img, nil
}

// indexAt reads the palette index for a pixel at the raster's bit depth.
func (r *Raster) indexAt(x, y int) (int, error) {
	switch r.BitsPerComponent {
	case 8:
		pos := y*r.Width + x
		if pos >= len(r.Pixels) {
			return 0, r.checkSize(r.Width * r.Height)
		}
		return int(r.Pixels[pos]), nil
	case 4:
		rowBytes := (r.Width + 1) / 2
		pos := y*rowBytes + x/2
		if pos >= len(r.Pixels) {
			return 0, r.checkSize(rowBytes * r.Height)
		}
		if x%2 == 0 {
			return int(r.Pixels[pos] >> 4), nil
		}
		return int(r.Pixels[pos] & 0x0F), nil
	case 1:
		rowBytes := (r.Width + 7) / 8
		pos := y*rowBytes + x/8
		if pos >= len(r.Pixels) {
			return 0, r.checkSize(rowBytes * r.Height)
		}
		return int(r.Pixels[pos] >> (7 - uint(x%8)) & 1), nil
	default:
		return 0, fmt.Errorf("unsupported indexed bit depth %d", r.BitsPerComponent)
	}
}

func (r *Raster) checkSize(want int) error {
	if len(r.Pixels) < want {
		return fmt.Errorf("short sample data: have %d bytes, need %d", len(r.Pixels), want)
	}
	return nil
}
