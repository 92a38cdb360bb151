// SPDX-License-Identifier: MIT

package bambu

// Static lookup tables mapping the printer's numeric fault fields to
// human-readable text. These are data, not logic: the decoding rules that
// consume them live in decode.go.

// HMSWikiURL is the public reference for HMS codes not present in the
// local table. Unknown codes are never dropped; they are surfaced with
// this URL so an operator can look them up.
const HMSWikiURL = "https://wiki.bambulab.com/en/x1/troubleshooting/hmscode"

// hmsErrors maps HMS codes to descriptions. Keys are either the full
// 16-char code (AAAA_AAAA_CCCC_CCCC) or the 8-char prefix (AAAA_AAAA);
// lookup tries the full form first.
var hmsErrors = map[string]string{
	// Heatbed
	"0300_0100": "Heatbed temperature error: heating failed",
	"0300_0200": "Heatbed temperature error: thermal runaway",
	"0300_0300": "Heatbed temperature error: sensor abnormal",
	"0300_0400": "Chamber heater error",

	// Nozzle
	"0500_0100":           "Nozzle temperature error: heating failed",
	"0500_0200":           "Nozzle temperature error: thermal runaway",
	"0500_0300":           "Nozzle temperature error: sensor abnormal",
	"0500_0400":           "Nozzle clog detected",
	"0500_0500_0001_0007": "MQTT command verification failed (update firmware/Studio)",
	"0500_0500":           "Filament broken or runout",

	// Motors
	"0700_0100": "Motor-X error: driver abnormal",
	"0700_0200": "Motor-Y error: driver abnormal",
	"0700_0300": "Motor-Z error: driver abnormal",
	"0700_0500": "Homing failed: axis stuck",
	"0700_0600": "Motor-E error: filament may be tangled",

	// Heatbed homing
	"0300_0D00_0002_0001": "Heatbed homing abnormal: bulge on heatbed or dirty nozzle tip",
	"0300_0D00_0001_0003": "Build plate may not be properly placed",

	// First layer / detection
	"0C00_0100": "First layer inspection failed",
	"0C00_0200": "Spaghetti/noodle detected",
	"0C00_0300": "First layer inspection: AMS filament stuck or broken",

	// AMS
	"1200_0100": "AMS communication error",
	"1200_0200": "AMS filament runout",
	"1200_0300": "AMS filament stuck or broken",
	"1200_0400": "AMS slot empty",
	"1200_1000": "AMS slot read error (RFID)",
}

// printErrors maps print_error values (as 8-digit uppercase hex) to
// descriptions.
var printErrors = map[string]string{
	"0300840C": "Print canceled by user",
	"03008400": "Print error (generic)",
}

// gcodeStates maps the printer's gcode_state values to display labels.
var gcodeStates = map[string]string{
	"IDLE":    "Idle",
	"RUNNING": "Printing",
	"PAUSE":   "Paused",
	"FINISH":  "Finished",
	"FAILED":  "Failed",
	"PREPARE": "Preparing",
	"SLICING": "Slicing",
	"UNKNOWN": "Unknown",
}

// speedPresets maps spd_lvl values to the printer's named speed profiles.
var speedPresets = map[int]string{
	1: "silent",
	2: "standard",
	3: "sport",
	4: "ludicrous",
}

// SpeedPresetName returns the profile name for a spd_lvl value, or ""
// if the level is not a known preset.
func SpeedPresetName(level int) string {
	return speedPresets[level]
}

// StateLabel returns the display label for a gcode_state value. Unknown
// states pass through verbatim; an empty state renders as "Unknown".
func StateLabel(state string) string {
	if label, ok := gcodeStates[state]; ok {
		return label
	}
	if state == "" {
		return "Unknown"
	}
	return state
}
