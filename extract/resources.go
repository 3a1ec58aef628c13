package extract

import (
	"errors"
	"fmt"

	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/sirupsen/logrus"

	"github.com/dtowler/folio/font"
	"github.com/dtowler/folio/rasterize"
)

// pageResources holds the named resources a page's content stream can
// refer to, resolved up front so the operator walk is pure lookups.
type pageResources struct {
	fonts  map[string]*font.Font
	images map[string]*imageXObject
}

// imageXObject is an image resource with its encoded bytes already in a
// portable format.
type imageXObject struct {
	name   string
	data   []byte
	pixelW int
	pixelH int
}

func loadResources(pdfCtx *pdfmodel.Context, dict types.Dict, log logrus.FieldLogger) *pageResources {
	res := &pageResources{
		fonts:  make(map[string]*font.Font),
		images: make(map[string]*imageXObject),
	}
	if dict == nil {
		return res
	}

	if obj, found := dict.Find("Font"); found {
		if fontDict, ok := derefDict(pdfCtx, obj); ok {
			for name, entry := range fontDict {
				f, err := loadFont(pdfCtx, name, entry)
				if err != nil {
					log.WithError(err).WithField("font", name).Warn("skipping font resource")
					continue
				}
				res.fonts[name] = f
			}
		}
	}

	if obj, found := dict.Find("XObject"); found {
		if xDict, ok := derefDict(pdfCtx, obj); ok {
			for name, entry := range xDict {
				img, err := loadImageXObject(pdfCtx, name, entry)
				if err != nil {
					log.WithError(err).WithField("xobject", name).Warn("skipping image resource")
					continue
				}
				if img != nil {
					res.images[name] = img
				}
			}
		}
	}

	return res
}

func loadFont(pdfCtx *pdfmodel.Context, name string, obj types.Object) (*font.Font, error) {
	fontDict, ok := derefDict(pdfCtx, obj)
	if !ok {
		return nil, fmt.Errorf("font %q is not a dictionary", name)
	}

	f := &font.Font{Name: name}
	if v, found := fontDict.Find("Subtype"); found {
		if n, ok := v.(types.Name); ok {
			f.Subtype = n.Value()
		}
	}
	if v, found := fontDict.Find("BaseFont"); found {
		if n, ok := v.(types.Name); ok {
			f.BaseFont = font.StripSubsetPrefix(n.Value())
		}
	}

	if v, found := fontDict.Find("ToUnicode"); found {
		data, err := decodedStream(pdfCtx, v)
		if err == nil && len(data) > 0 {
			f.ToUnicode = font.ParseCMap(data)
		}
	}
	return f, nil
}

// loadImageXObject resolves one XObject entry. Non-image XObjects
// (forms) return nil without error.
func loadImageXObject(pdfCtx *pdfmodel.Context, name string, obj types.Object) (*imageXObject, error) {
	sd, _, err := pdfCtx.DereferenceStreamDict(obj)
	if err != nil {
		return nil, fmt.Errorf("resolve xobject stream: %w", err)
	}
	if sd == nil {
		return nil, fmt.Errorf("xobject %q is not a stream", name)
	}

	if sub, found := sd.Find("Subtype"); found {
		if n, ok := sub.(types.Name); ok && n.Value() != "Image" {
			return nil, nil
		}
	}

	width := intEntry(pdfCtx, sd.Dict, "Width", 0)
	height := intEntry(pdfCtx, sd.Dict, "Height", 0)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("image %q has no dimensions", name)
	}

	// JPEG sample data is portable as-is: the compressed stream is the
	// file. Everything else needs pixel reassembly.
	if hasFilter(sd.Dict, "DCTDecode") {
		if len(sd.Raw) == 0 {
			return nil, fmt.Errorf("image %q has an empty jpeg stream", name)
		}
		return &imageXObject{name: name, data: sd.Raw, pixelW: width, pixelH: height}, nil
	}

	if err := sd.Decode(); err != nil {
		return nil, fmt.Errorf("decode image stream: %w", err)
	}

	raster := &rasterize.Raster{
		Width:            width,
		Height:           height,
		BitsPerComponent: intEntry(pdfCtx, sd.Dict, "BitsPerComponent", 8),
		Pixels:           sd.Content,
	}
	if cs, found := sd.Find("ColorSpace"); found {
		fillColorSpace(pdfCtx, cs, raster)
	} else {
		raster.ColorSpace = "DeviceGray"
	}

	data, err := raster.EncodePNG()
	if err != nil {
		return nil, fmt.Errorf("encode image %q: %w", name, err)
	}
	return &imageXObject{name: name, data: data, pixelW: width, pixelH: height}, nil
}

// fillColorSpace resolves a ColorSpace entry into the raster's fields,
// following Indexed palettes and ICCBased component counts.
func fillColorSpace(pdfCtx *pdfmodel.Context, obj types.Object, raster *rasterize.Raster) {
	obj = deref(pdfCtx, obj)

	switch cs := obj.(type) {
	case types.Name:
		raster.ColorSpace = cs.Value()

	case types.Array:
		if len(cs) == 0 {
			raster.ColorSpace = "DeviceGray"
			return
		}
		head, _ := deref(pdfCtx, cs[0]).(types.Name)
		switch head.Value() {
		case "Indexed":
			raster.ColorSpace = "Indexed"
			if len(cs) >= 4 {
				raster.Palette = loadPalette(pdfCtx, cs[1], cs[3])
			}
		case "ICCBased":
			raster.ColorSpace = "ICCBased"
			raster.Components = 1
			if len(cs) >= 2 {
				if sd, _, err := pdfCtx.DereferenceStreamDict(cs[1]); err == nil && sd != nil {
					raster.Components = intEntry(pdfCtx, sd.Dict, "N", 1)
				}
			}
		default:
			raster.ColorSpace = head.Value()
		}

	default:
		raster.ColorSpace = "DeviceGray"
	}
}

// loadPalette extracts an Indexed lookup table as RGB triplets.
func loadPalette(pdfCtx *pdfmodel.Context, baseObj, lookupObj types.Object) []byte {
	var raw []byte
	switch lookup := deref(pdfCtx, lookupObj).(type) {
	case types.StringLiteral:
		raw = []byte(lookup.Value())
	case types.HexLiteral:
		if b, err := lookup.Bytes(); err == nil {
			raw = b
		}
	default:
		if data, err := decodedStream(pdfCtx, lookupObj); err == nil {
			raw = data
		}
	}
	if len(raw) == 0 {
		return nil
	}

	baseName := ""
	if n, ok := deref(pdfCtx, baseObj).(types.Name); ok {
		baseName = n.Value()
	}
	if baseName == "DeviceGray" || baseName == "CalGray" {
		// Expand gray entries to RGB triplets.
		out := make([]byte, 0, len(raw)*3)
		for _, g := range raw {
			out = append(out, g, g, g)
		}
		return out
	}
	// DeviceRGB and anything else treated as packed RGB.
	return raw
}

func hasFilter(dict types.Dict, want string) bool {
	obj, found := dict.Find("Filter")
	if !found {
		return false
	}
	switch f := obj.(type) {
	case types.Name:
		return f.Value() == want
	case types.Array:
		for _, entry := range f {
			if n, ok := entry.(types.Name); ok && n.Value() == want {
				return true
			}
		}
	}
	return false
}

func decodedStream(pdfCtx *pdfmodel.Context, obj types.Object) ([]byte, error) {
	sd, _, err := pdfCtx.DereferenceStreamDict(obj)
	if err != nil {
		return nil, fmt.Errorf("resolve stream: %w", err)
	}
	if sd == nil {
		return nil, errors.New("object is not a stream")
	}
	if len(sd.Content) == 0 {
		if err := sd.Decode(); err != nil {
			return nil, fmt.Errorf("decode stream: %w", err)
		}
	}
	return sd.Content, nil
}

func deref(pdfCtx *pdfmodel.Context, obj types.Object) types.Object {
	resolved, err := pdfCtx.Dereference(obj)
	if err != nil {
		return obj
	}
	return resolved
}

func derefDict(pdfCtx *pdfmodel.Context, obj types.Object) (types.Dict, bool) {
	d, ok := deref(pdfCtx, obj).(types.Dict)
	return d, ok
}

func intEntry(pdfCtx *pdfmodel.Context, dict types.Dict, key string, fallback int) int {
	obj, found := dict.Find(key)
	if !found {
		return fallback
	}
	switch v := deref(pdfCtx, obj).(type) {
	case types.Integer:
		return v.Value()
	case types.Float:
		return int(v.Value())
	}
	return fallback
}
