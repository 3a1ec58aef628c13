// Package rebuild writes element-list documents back to PDF. Pages are
// drawn images first, then text, so text always stays legible over
// graphics. Text is rendered with core fonts mapped from the extracted
// font names; images embed their portable bytes at the declared
// footprint.
//
// Reconstruction is deliberately lossy about z-order and exact fonts but
// strict about geometry: every element lands where its canonical-frame
// coordinates say.
package rebuild
