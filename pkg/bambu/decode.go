// SPDX-License-Identifier: MIT

package bambu

import "fmt"

// HMS and print_error decoding. All functions here are pure: they map the
// printer's raw numeric fault fields to canonical code strings and
// descriptions, with no state.
//
// An HMS record arrives as two unsigned 32-bit integers, attr and code.
// The canonical form splits each into its 16-bit halves and prints them as
// 4-digit uppercase hex: AAAA_AAAA_CCCC_CCCC. The upper half of code
// carries the severity.

// Severity levels as classified by SeverityLevel. Every presentation sink
// (TUI, web export) consumes this classification rather than branching on
// the raw severity value itself.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// HMSCode builds the full 16-char canonical code from attr and code.
func HMSCode(attr, code uint32) string {
	return fmt.Sprintf("%04X_%04X_%04X_%04X",
		(attr>>16)&0xFFFF, attr&0xFFFF,
		(code>>16)&0xFFFF, code&0xFFFF)
}

// HMSCodeShort builds the 8-char short code (first two segments), used
// for fallback description lookup.
func HMSCodeShort(attr uint32) string {
	return fmt.Sprintf("%04X_%04X", (attr>>16)&0xFFFF, attr&0xFFFF)
}

// HMSSeverity extracts the severity field from an HMS code value.
func HMSSeverity(code uint32) int {
	return int((code >> 16) & 0xFFFF)
}

// SeverityLevel classifies a raw HMS severity value.
func SeverityLevel(severity int) Level {
	if severity >= 3 {
		return LevelError
	}
	return LevelWarn
}

// LookupHMS resolves an HMS record to a description and its canonical
// code. Resolution order: exact full-code match, then short-code match,
// then a synthesized description embedding the full code and the wiki URL
// so the operator can look it up externally. Never returns an empty
// description.
func LookupHMS(attr, code uint32) (desc, fullCode string) {
	fullCode = HMSCode(attr, code)
	desc = hmsErrors[fullCode]
	if desc == "" {
		desc = hmsErrors[HMSCodeShort(attr)]
	}
	if desc == "" {
		desc = fmt.Sprintf("Unknown error — see %s/%s", HMSWikiURL, fullCode)
	}
	return desc, fullCode
}

// LookupPrintError decodes a print_error value into a description and its
// 8-digit uppercase hex form. A zero value means "no error" and reports
// ok=false: it must resolve to absence, never to a fault.
func LookupPrintError(v int64) (desc, hexCode string, ok bool) {
	if v == 0 {
		return "", "", false
	}
	hexCode = fmt.Sprintf("%08X", uint32(v))
	desc = printErrors[hexCode]
	if desc == "" {
		desc = fmt.Sprintf("Print error (%s) — see %s", hexCode, HMSWikiURL)
	}
	return desc, hexCode, true
}
