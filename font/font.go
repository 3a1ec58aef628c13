package font

// Font carries the pieces of a font dictionary that matter for decoding
// show strings: the resource name the content stream refers to, the
// subtype, and the optional ToUnicode map.
type Font struct {
	// Name is the resource key, e.g. "F1".
	Name string

	// BaseFont is the PostScript name from the font dictionary, without
	// any subset prefix.
	BaseFont string

	// Subtype is the font dictionary subtype: Type0, Type1, TrueType,
	// Type3 or MMType1.
	Subtype string

	// ToUnicode is the parsed ToUnicode CMap, nil when the font has none.
	ToUnicode *CMap
}

// TwoByte reports whether show strings for this font carry two-byte
// character codes. Composite fonts do; the ToUnicode codespace can widen
// a simple font too.
func (f *Font) TwoByte() bool {
	if f == nil {
		return false
	}
	if f.ToUnicode != nil && f.ToUnicode.CodeBytes() >= 2 {
		return true
	}
	return f.Subtype == "Type0"
}

// DecodeString converts raw show-string bytes to text. With a ToUnicode
// map the map decides; without one, single-byte codes pass through as
// Latin-1 and two-byte codes as raw code points, which is the best that
// can be done for unmapped composite fonts.
func (f *Font) DecodeString(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	width := 1
	if f.TwoByte() {
		width = 2
	}

	var cmap *CMap
	if f != nil {
		cmap = f.ToUnicode
	}

	out := make([]rune, 0, len(raw))
	for i := 0; i < len(raw); i += width {
		var code uint32
		if width == 2 {
			if i+1 >= len(raw) {
				code = uint32(raw[i])
			} else {
				code = uint32(raw[i])<<8 | uint32(raw[i+1])
			}
		} else {
			code = uint32(raw[i])
		}

		if s, ok := cmap.Lookup(code); ok {
			out = append(out, []rune(s)...)
			continue
		}
		if code < 0x110000 {
			out = append(out, rune(code))
		}
	}
	return string(out)
}

// StripSubsetPrefix removes the "ABCDEF+" subset tag from a base font
// name when present.
func StripSubsetPrefix(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}
