package font

import (
	"encoding/hex"
	"strings"
	"unicode/utf16"
)

// CMap maps character codes to Unicode text, built from a font's
// ToUnicode stream. It also records the code width declared by the
// stream's codespace ranges, which drives how show-string bytes are
// grouped into codes.
type CMap struct {
	singles map[uint32]string
	ranges  []bfRange

	// codeBytes is the widest source code seen, in bytes. 1 for simple
	// fonts, 2 for the usual Identity-style CID encodings.
	codeBytes int
}

type bfRange struct {
	lo, hi uint32
	dst    uint32
}

// CodeBytes returns the number of bytes per character code, at least 1.
func (cm *CMap) CodeBytes() int {
	if cm == nil || cm.codeBytes < 1 {
		return 1
	}
	return cm.codeBytes
}

// Lookup resolves one character code. The second result is false when
// the CMap has no mapping for the code.
func (cm *CMap) Lookup(code uint32) (string, bool) {
	if cm == nil {
		return "", false
	}
	if s, ok := cm.singles[code]; ok {
		return s, true
	}
	for _, r := range cm.ranges {
		if code >= r.lo && code <= r.hi {
			return string(rune(r.dst + (code - r.lo))), true
		}
	}
	return "", false
}

// ParseCMap parses a decoded ToUnicode CMap stream. Malformed entries
// are skipped; the result is whatever mappings could be recovered.
func ParseCMap(data []byte) *CMap {
	cm := &CMap{singles: make(map[uint32]string)}

	toks := tokenizeCMap(data)
	for i := 0; i < len(toks); i++ {
		switch toks[i].kind {
		case tokKeyword:
			switch toks[i].text {
			case "begincodespacerange":
				i = cm.readCodespace(toks, i+1)
			case "beginbfchar":
				i = cm.readBfChar(toks, i+1)
			case "beginbfrange":
				i = cm.readBfRange(toks, i+1)
			}
		}
	}
	return cm
}

func (cm *CMap) readCodespace(toks []cmapToken, i int) int {
	for i+1 < len(toks) && toks[i].kind == tokHex && toks[i+1].kind == tokHex {
		width := len(toks[i].text) / 2
		if width > cm.codeBytes {
			cm.codeBytes = width
		}
		i += 2
	}
	return skipToKeyword(toks, i, "endcodespacerange")
}

func (cm *CMap) readBfChar(toks []cmapToken, i int) int {
	for i+1 < len(toks) && toks[i].kind == tokHex && toks[i+1].kind == tokHex {
		src, okSrc := hexCode(toks[i].text)
		dst, okDst := hexText(toks[i+1].text)
		if okSrc && okDst {
			cm.singles[src] = dst
			cm.noteWidth(toks[i].text)
		}
		i += 2
	}
	return skipToKeyword(toks, i, "endbfchar")
}

func (cm *CMap) readBfRange(toks []cmapToken, i int) int {
	for i+1 < len(toks) && toks[i].kind == tokHex && toks[i+1].kind == tokHex {
		lo, okLo := hexCode(toks[i].text)
		hi, okHi := hexCode(toks[i+1].text)
		cm.noteWidth(toks[i].text)
		i += 2
		if i >= len(toks) {
			break
		}

		switch toks[i].kind {
		case tokHex:
			dst, okDst := hexCode(toks[i].text)
			if okLo && okHi && okDst && lo <= hi {
				cm.ranges = append(cm.ranges, bfRange{lo: lo, hi: hi, dst: dst})
			}
			i++
		case tokArrayOpen:
			// Per-code destinations: <lo> <hi> [<d0> <d1> ...]
			i++
			code := lo
			for i < len(toks) && toks[i].kind == tokHex {
				if dst, ok := hexText(toks[i].text); ok && okLo && okHi && code <= hi {
					cm.singles[code] = dst
				}
				code++
				i++
			}
			if i < len(toks) && toks[i].kind == tokArrayClose {
				i++
			}
		default:
			return skipToKeyword(toks, i, "endbfrange")
		}
	}
	return skipToKeyword(toks, i, "endbfrange")
}

func (cm *CMap) noteWidth(hexTok string) {
	if w := len(hexTok) / 2; w > cm.codeBytes {
		cm.codeBytes = w
	}
}

func skipToKeyword(toks []cmapToken, i int, keyword string) int {
	for ; i < len(toks); i++ {
		if toks[i].kind == tokKeyword && toks[i].text == keyword {
			return i
		}
	}
	return i - 1
}

type cmapTokenKind int

const (
	tokHex cmapTokenKind = iota
	tokKeyword
	tokArrayOpen
	tokArrayClose
)

type cmapToken struct {
	kind cmapTokenKind
	text string
}

// tokenizeCMap reduces a CMap stream to the tokens the bf sections are
// built from: hex strings, array brackets and bare keywords. Everything
// else (numbers, names, dictionaries, comments) is discarded.
func tokenizeCMap(data []byte) []cmapToken {
	var toks []cmapToken
	for i := 0; i < len(data); {
		c := data[i]
		switch {
		case c == '%':
			for i < len(data) && data[i] != '\n' && data[i] != '\r' {
				i++
			}
		case c == '<':
			if i+1 < len(data) && data[i+1] == '<' {
				i += 2
				continue
			}
			end := i + 1
			for end < len(data) && data[end] != '>' {
				end++
			}
			text := strings.Map(dropSpace, string(data[i+1:end]))
			toks = append(toks, cmapToken{kind: tokHex, text: text})
			i = end + 1
		case c == '[':
			toks = append(toks, cmapToken{kind: tokArrayOpen})
			i++
		case c == ']':
			toks = append(toks, cmapToken{kind: tokArrayClose})
			i++
		case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z':
			end := i
			for end < len(data) && isKeywordByte(data[end]) {
				end++
			}
			toks = append(toks, cmapToken{kind: tokKeyword, text: string(data[i:end])})
			i = end
		default:
			i++
		}
	}
	return toks
}

func isKeywordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func dropSpace(r rune) rune {
	switch r {
	case ' ', '\t', '\r', '\n', '\f':
		return -1
	}
	return r
}

// hexCode parses a hex token as a single numeric character code.
func hexCode(s string) (uint32, bool) {
	if s == "" || len(s) > 8 {
		return 0, false
	}
	var v uint32
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, false
		}
		v = v<<4 | uint32(d)
	}
	return v, true
}

// hexText parses a hex token as destination text: UTF-16BE for two or
// more bytes, a single code point otherwise.
func hexText(s string) (string, bool) {
	if len(s)%2 != 0 {
		s = "0" + s
	}
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) == 0 {
		return "", false
	}
	if len(raw) == 1 {
		return string(rune(raw[0])), true
	}
	if len(raw) >= 2 && raw[0] == 0xFE && raw[1] == 0xFF {
		raw = raw[2:]
	}
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
	}
	return string(utf16.Decode(units)), true
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
