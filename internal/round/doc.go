// Package round defines the round record and the sanitization applied to
// user-entered round forms before a differential is computed.
//
// Blank or unparseable numeric fields become absent (nil), never zero: a
// zero slope or rating would otherwise corrupt the differential silently.
package round
