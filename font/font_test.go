package font

import "testing"

const sampleCMap = `/CIDInit /ProcSet findresource begin
12 dict begin
begincmap
/CMapName /Adobe-Identity-UCS def
/CMapType 2 def
1 begincodespacerange
<0000> <FFFF>
endcodespacerange
3 beginbfchar
<0041> <0048>
<0042> <0065>
<0043> <FEFF0227>
endbfchar
1 beginbfrange
<0100> <0102> <006C>
endbfrange
endcmap
CMapName currentdict /CMap defineresource pop
end
end`

func TestParseCMapBfChar(t *testing.T) {
	cm := ParseCMap([]byte(sampleCMap))

	tests := []struct {
		code uint32
		want string
	}{
		{0x41, "H"},
		{0x42, "e"},
		{0x43, "ȧ"},
	}
	for _, tt := range tests {
		got, ok := cm.Lookup(tt.code)
		if !ok || got != tt.want {
			t.Errorf("Lookup(%#x) = %q, %v; want %q", tt.code, got, ok, tt.want)
		}
	}
}

func TestParseCMapBfRange(t *testing.T) {
	cm := ParseCMap([]byte(sampleCMap))
	for i, want := range []string{"l", "m", "n"} {
		got, ok := cm.Lookup(uint32(0x100 + i))
		if !ok || got != want {
			t.Errorf("Lookup(%#x) = %q, %v; want %q", 0x100+i, got, ok, want)
		}
	}
	if _, ok := cm.Lookup(0x103); ok {
		t.Error("code past range end should not resolve")
	}
}

func TestParseCMapCodeBytes(t *testing.T) {
	if got := ParseCMap([]byte(sampleCMap)).CodeBytes(); got != 2 {
		t.Errorf("CodeBytes = %d, want 2", got)
	}

	single := `1 begincodespacerange <00> <FF> endcodespacerange
1 beginbfchar <41> <0041> endbfchar`
	if got := ParseCMap([]byte(single)).CodeBytes(); got != 1 {
		t.Errorf("single-byte CodeBytes = %d, want 1", got)
	}

	var nilMap *CMap
	if got := nilMap.CodeBytes(); got != 1 {
		t.Errorf("nil CodeBytes = %d, want 1", got)
	}
}

func TestParseCMapBfRangeArray(t *testing.T) {
	src := `1 beginbfrange
<05> <07> [<0058> <0059> <005A>]
endbfrange`
	cm := ParseCMap([]byte(src))
	for i, want := range []string{"X", "Y", "Z"} {
		got, ok := cm.Lookup(uint32(5 + i))
		if !ok || got != want {
			t.Errorf("Lookup(%d) = %q, %v; want %q", 5+i, got, ok, want)
		}
	}
}

func TestParseCMapSurrogatePair(t *testing.T) {
	src := `1 beginbfchar <01> <D83DDE00> endbfchar`
	got, ok := ParseCMap([]byte(src)).Lookup(1)
	if !ok || got != "\U0001F600" {
		t.Errorf("Lookup(1) = %q, %v", got, ok)
	}
}

func TestParseCMapMalformedEntriesSkipped(t *testing.T) {
	src := `2 beginbfchar
<zz> <0041>
<41> <0042>
endbfchar`
	cm := ParseCMap([]byte(src))
	if got, ok := cm.Lookup(0x41); !ok || got != "B" {
		t.Errorf("good entry after bad one: %q, %v", got, ok)
	}
}

func TestDecodeStringWithCMap(t *testing.T) {
	f := &Font{
		Name:      "F1",
		Subtype:   "Type0",
		ToUnicode: ParseCMap([]byte(sampleCMap)),
	}
	got := f.DecodeString([]byte{0x00, 0x41, 0x00, 0x42})
	if got != "He" {
		t.Errorf("DecodeString = %q, want %q", got, "He")
	}
}

func TestDecodeStringWithoutCMap(t *testing.T) {
	f := &Font{Name: "F1", Subtype: "Type1"}
	if got := f.DecodeString([]byte("Hello")); got != "Hello" {
		t.Errorf("byte-identity decode = %q", got)
	}
	// Latin-1 high bytes become the matching code points.
	if got := f.DecodeString([]byte{0xE9}); got != "é" {
		t.Errorf("latin-1 decode = %q", got)
	}
}

func TestDecodeStringNilFont(t *testing.T) {
	var f *Font
	if got := f.DecodeString([]byte("ok")); got != "ok" {
		t.Errorf("nil font decode = %q", got)
	}
}

func TestDecodeStringOddLengthTwoByte(t *testing.T) {
	f := &Font{Subtype: "Type0"}
	// A dangling final byte is decoded as its own code.
	if got := f.DecodeString([]byte{0x00, 0x48, 0x69}); got != "Hi" {
		t.Errorf("decode = %q, want %q", got, "Hi")
	}
}

func TestTwoByte(t *testing.T) {
	if (&Font{Subtype: "Type1"}).TwoByte() {
		t.Error("simple font reported two-byte")
	}
	if !(&Font{Subtype: "Type0"}).TwoByte() {
		t.Error("composite font not reported two-byte")
	}
	wide := &Font{Subtype: "TrueType", ToUnicode: ParseCMap([]byte(sampleCMap))}
	if !wide.TwoByte() {
		t.Error("wide codespace should force two-byte codes")
	}
}

func TestStripSubsetPrefix(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ABCDEF+Times-Roman", "Times-Roman"},
		{"Times-Roman", "Times-Roman"},
		{"AbCdEf+Times", "AbCdEf+Times"}, // tag must be uppercase
		{"AB+X", "AB+X"},
	}
	for _, tt := range tests {
		if got := StripSubsetPrefix(tt.in); got != tt.want {
			t.Errorf("StripSubsetPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
