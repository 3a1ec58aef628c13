// Package font decodes the text carried by content stream show
// operators. A Font pairs the resource name a page refers to with the
// font's ToUnicode CMap; DecodeString groups show-string bytes into
// character codes at the width the font calls for and maps each code to
// Unicode text.
//
// Fonts without a ToUnicode map fall back to byte-identity decoding,
// which is correct for the standard Latin text fonts and a best effort
// for everything else.
package font
