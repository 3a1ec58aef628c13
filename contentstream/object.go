package contentstream

// Object is the interface satisfied by operand types appearing in a
// content stream. The concrete types below are the only implementations.
type Object interface {
	contentObject()
}

// Integer is a PDF integer operand.
type Integer int64

// Real is a PDF real number operand.
type Real float64

// String is a PDF string operand. The bytes are raw glyph codes, not
// necessarily valid UTF-8.
type String []byte

// Name is a PDF name operand, stored without the leading slash.
type Name string

// Array is a PDF array operand.
type Array []Object

// Dict is a PDF dictionary operand (rare in content streams).
type Dict map[string]Object

// Boolean is a PDF boolean operand.
type Boolean bool

// Null is the PDF null operand.
type Null struct{}

func (Integer) contentObject() {}
func (Real) contentObject()    {}
func (String) contentObject()  {}
func (Name) contentObject()    {}
func (Array) contentObject()   {}
func (Dict) contentObject()    {}
func (Boolean) contentObject() {}
func (Null) contentObject()    {}

// AsFloat converts a numeric operand to float64.
func AsFloat(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Integer:
		return float64(v), true
	case Real:
		return float64(v), true
	default:
		return 0, false
	}
}

// AsInt converts a numeric operand to int.
func AsInt(obj Object) (int, bool) {
	switch v := obj.(type) {
	case Integer:
		return int(v), true
	case Real:
		return int(v), true
	default:
		return 0, false
	}
}
