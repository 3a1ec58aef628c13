// Package extract turns PDF pages into positioned element lists. The
// engine reads the document with pdfcpu, resolves each page's fonts and
// image XObjects up front, then replays the page's content stream
// against a graphics state to recover where every text run and image
// paint lands.
//
// All positions in the output are in the canonical top-left-origin,
// y-down frame. A bad font or image resource is skipped and the page
// goes on without it; a page whose content cannot be read or parsed
// fails the whole extraction, so a successful result never hides a
// partially extracted document.
package extract
