// SPDX-License-Identifier: MIT

package bambu

import (
	"fmt"
	"strconv"
	"strings"
)

// Presentation helpers shared by the terminal renderer and the web
// export. All pure; a nil pointer means the field has not been reported
// yet and renders as a placeholder.

// FormatRemaining formats a remaining-time value in minutes as "h:mm".
// Unknown, zero or negative values render as "--:--": the firmware
// reports 0 outside an active job, not as "done now".
func FormatRemaining(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return "--:--"
	}
	return fmt.Sprintf("%d:%02d", *minutes/60, *minutes%60)
}

// FormatTemp formats an actual/target temperature pair as "a/t°C".
// A missing actual renders as "--"; a missing or nonpositive target
// renders as "--" (the heater is off, not targeting zero).
func FormatTemp(actual, target *float64) string {
	a := "--"
	if actual != nil {
		a = strconv.FormatFloat(*actual, 'f', 1, 64)
	}
	t := "--"
	if target != nil && *target > 0 {
		t = strconv.FormatFloat(*target, 'f', 0, 64)
	}
	return a + "/" + t + "°C"
}

// FanPercent converts a raw fan speed field (0-15, reported as a string)
// to a percentage string. Unknown or unparsable values render as "--".
func FanPercent(raw *string) string {
	if raw == nil {
		return "--"
	}
	v, err := strconv.Atoi(strings.TrimSpace(*raw))
	if err != nil {
		return "--"
	}
	pct := int(float64(v)/15*100 + 0.5)
	return strconv.Itoa(pct) + "%"
}

// WifiLabel normalizes a wifi_signal field ("-44dBm") for display.
func WifiLabel(raw *string) string {
	if raw == nil {
		return ""
	}
	return strings.TrimSuffix(*raw, "dBm") + "dBm"
}
