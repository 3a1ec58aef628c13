// Package contentstream provides tokenization of PDF content streams
// into operator traces.
//
// A content stream is the ordered list of low-level drawing instructions
// for one page. The parser turns decoded stream bytes into a sequence of
// [Operation] values, each an operator with its preceding operands:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("%s %v\n", op.Operator, op.Operands)
//	}
//
// The trace is consumed by the extractor, which walks it once while
// maintaining graphics state. Operators of interest there:
//
//   - q, Q, cm - graphics state stack and CTM changes
//   - BT, ET, Tf, Tm, Td, TD, T*, TL - text object and positioning state
//   - Tj, TJ, ', " - glyph run painting
//   - Do - XObject painting (images)
//   - rg, g, k - fill color
//
// Inline images (BI ... ID ... EI) embed raw binary sample data inside
// the stream; the parser skips over them rather than tokenizing the
// bytes.
package contentstream
