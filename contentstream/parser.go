package contentstream

import (
	"bytes"
	"fmt"
	"strconv"
)

// Operation is a single content stream operation: an operator and the
// operands that preceded it.
type Operation struct {
	Operator string
	Operands []Object
}

// Parser tokenizes a PDF content stream into a sequence of operations.
type Parser struct {
	data     []byte
	pos      int
	ops      []Operation
	operands []Object
}

// NewParser creates a parser for the given decoded content stream data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse tokenizes the whole stream and returns all operations in order.
// Inline image data (between ID and EI) is skipped, with a bare "BI"
// operation left as a marker.
func (p *Parser) Parse() ([]Operation, error) {
	p.ops = p.ops[:0]
	p.operands = nil

	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			break
		}
		if err := p.parseNext(); err != nil {
			return nil, err
		}
	}
	return p.ops, nil
}

func (p *Parser) parseNext() error {
	c := p.data[p.pos]

	// Comments run to end of line.
	if c == '%' {
		for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
			p.pos++
		}
		return nil
	}

	if isLetter(c) || c == '\'' || c == '"' {
		return p.parseOperator()
	}

	obj, err := p.parseOperand()
	if err != nil {
		return fmt.Errorf("at offset %d: %w", p.pos, err)
	}
	p.operands = append(p.operands, obj)
	return nil
}

func (p *Parser) parseOperator() error {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isLetter(c) || c == '\'' || c == '"' || c == '*' || c == '0' || c == '1' {
			p.pos++
		} else {
			break
		}
	}
	operator := string(p.data[start:p.pos])
	if operator == "" {
		return fmt.Errorf("empty operator at offset %d", start)
	}

	// Bare keywords are operands, not operators.
	switch operator {
	case "true":
		p.operands = append(p.operands, Boolean(true))
		return nil
	case "false":
		p.operands = append(p.operands, Boolean(false))
		return nil
	case "null":
		p.operands = append(p.operands, Null{})
		return nil
	}

	op := Operation{Operator: operator}
	if len(p.operands) > 0 {
		op.Operands = make([]Object, len(p.operands))
		copy(op.Operands, p.operands)
	}
	p.ops = append(p.ops, op)
	p.operands = p.operands[:0]

	// Inline images carry raw binary sample data between ID and EI that
	// must not be tokenized. Consume through the closing EI.
	if operator == "BI" {
		p.skipInlineImage()
	}
	return nil
}

// skipInlineImage consumes the inline image dictionary entries, the ID
// operator, the binary sample data, and the closing EI.
func (p *Parser) skipInlineImage() {
	// Walk forward looking for "EI" delimited by whitespace. The inline
	// dictionary between BI and ID contains no operator tokens, so a
	// plain byte scan is safe.
	for p.pos+1 < len(p.data) {
		if p.data[p.pos] == 'E' && p.data[p.pos+1] == 'I' {
			before := p.pos == 0 || isWhitespace(p.data[p.pos-1])
			after := p.pos+2 >= len(p.data) || isWhitespace(p.data[p.pos+2])
			if before && after {
				p.pos += 2
				return
			}
		}
		p.pos++
	}
	p.pos = len(p.data)
}

func (p *Parser) parseOperand() (Object, error) {
	p.skipWhitespace()
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of stream")
	}

	c := p.data[p.pos]
	switch {
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	case c == '(':
		return p.parseString()
	case c == '/':
		return p.parseName()
	case c == '[':
		return p.parseArray()
	case c == '<':
		if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
			return p.parseDict()
		}
		return p.parseHexString()
	case c == 't' || c == 'f' || c == 'n':
		return p.parseKeyword()
	}
	return nil, fmt.Errorf("unexpected character %q", c)
}

func (p *Parser) parseKeyword() (Object, error) {
	end := p.pos
	for end < len(p.data) && !isWhitespace(p.data[end]) && !isDelimiter(p.data[end]) {
		end++
	}
	switch string(p.data[p.pos:end]) {
	case "true":
		p.pos = end
		return Boolean(true), nil
	case "false":
		p.pos = end
		return Boolean(false), nil
	case "null":
		p.pos = end
		return Null{}, nil
	}
	return nil, fmt.Errorf("unexpected token %q", p.data[p.pos:end])
}

func (p *Parser) parseNumber() (Object, error) {
	start := p.pos
	hasDecimal := false

	if p.data[p.pos] == '+' || p.data[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
		} else if c == '.' && !hasDecimal {
			hasDecimal = true
			p.pos++
		} else {
			break
		}
	}

	numStr := string(p.data[start:p.pos])
	if hasDecimal {
		val, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real %q: %w", numStr, err)
		}
		return Real(val), nil
	}
	val, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", numStr, err)
	}
	return Integer(val), nil
}

func (p *Parser) parseString() (Object, error) {
	p.pos++ // skip '('

	var result bytes.Buffer
	depth := 1

	for p.pos < len(p.data) && depth > 0 {
		c := p.data[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.data):
			p.pos++
			next := p.data[p.pos]
			switch next {
			case 'n':
				result.WriteByte('\n')
				p.pos++
			case 'r':
				result.WriteByte('\r')
				p.pos++
			case 't':
				result.WriteByte('\t')
				p.pos++
			case 'b':
				result.WriteByte('\b')
				p.pos++
			case 'f':
				result.WriteByte('\f')
				p.pos++
			case '(', ')', '\\':
				result.WriteByte(next)
				p.pos++
			case '\r':
				// Line continuation.
				p.pos++
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
				p.pos++
			case '0', '1', '2', '3', '4', '5', '6', '7':
				// Octal escape, 1-3 digits.
				val := int(next - '0')
				p.pos++
				for i := 0; i < 2 && p.pos < len(p.data); i++ {
					d := p.data[p.pos]
					if d < '0' || d > '7' {
						break
					}
					val = val*8 + int(d-'0')
					p.pos++
				}
				result.WriteByte(byte(val & 0xFF))
			default:
				// Unknown escape: the backslash is ignored.
				result.WriteByte(next)
				p.pos++
			}
		case c == '(':
			depth++
			result.WriteByte(c)
			p.pos++
		case c == ')':
			depth--
			if depth > 0 {
				result.WriteByte(c)
			}
			p.pos++
		default:
			result.WriteByte(c)
			p.pos++
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unclosed string")
	}
	return String(result.Bytes()), nil
}

func (p *Parser) parseHexString() (Object, error) {
	p.pos++ // skip '<'

	var result bytes.Buffer
	var pending byte
	havePending := false

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '>' {
			p.pos++
			if havePending {
				// Odd digit count: the final digit gets a trailing 0.
				result.WriteByte(pending << 4)
			}
			return String(result.Bytes()), nil
		}
		if isWhitespace(c) {
			p.pos++
			continue
		}
		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit %q", c)
		}
		if havePending {
			result.WriteByte((pending << 4) | hexValue(c))
			havePending = false
		} else {
			pending = hexValue(c)
			havePending = true
		}
		p.pos++
	}
	return nil, fmt.Errorf("unclosed hex string")
}

func (p *Parser) parseName() (Object, error) {
	p.pos++ // skip '/'

	var result bytes.Buffer
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			result.WriteByte((hexValue(p.data[p.pos+1]) << 4) | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		result.WriteByte(c)
		p.pos++
	}
	return Name(result.String()), nil
}

func (p *Parser) parseArray() (Object, error) {
	p.pos++ // skip '['

	var arr Array
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict() (Object, error) {
	p.pos += 2 // skip '<<'

	dict := make(Dict)
	for {
		p.skipWhitespace()
		if p.pos+1 >= len(p.data) {
			return nil, fmt.Errorf("unclosed dictionary")
		}
		if p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			return dict, nil
		}
		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key must be a name")
		}
		key, err := p.parseName()
		if err != nil {
			return nil, err
		}
		value, err := p.parseOperand()
		if err != nil {
			return nil, err
		}
		dict[string(key.(Name))] = value
	}
}

func (p *Parser) skipWhitespace() {
	for p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
