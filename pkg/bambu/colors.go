// SPDX-License-Identifier: MIT

package bambu

import (
	"math"
	"strconv"
	"strings"
)

// colorNames maps reference RGB values to display names for AMS filament
// colors. Printer firmware reports arbitrary hex values, so lookup falls
// back to a nearest-neighbor match.
var colorNames = map[string]string{
	"000000": "Black",
	"FFFFFF": "White",
	"FF0000": "Red",
	"00FF00": "Green",
	"0000FF": "Blue",
	"FFFF00": "Yellow",
	"FF00FF": "Magenta",
	"00FFFF": "Cyan",
	"FF8000": "Orange",
	"800080": "Purple",
	"FFC0CB": "Pink",
	"A52A2A": "Brown",
	"808080": "Gray",
	"C0C0C0": "Silver",
}

// nearest-neighbor matches further than this render as the raw hex value
const colorMatchThreshold = 100

// ColorName maps a filament hex color string to a human-readable name.
// Exact table hits win; otherwise the nearest reference color within the
// match threshold. Colors too far from any reference render as "#RRGGBB".
// Empty or too-short input returns "".
func ColorName(hexColor string) string {
	if len(hexColor) < 6 {
		return ""
	}
	h := strings.TrimPrefix(hexColor, "#")
	if len(h) < 6 {
		return ""
	}
	h = strings.ToUpper(h[:6])
	if name, ok := colorNames[h]; ok {
		return name
	}

	r1, err1 := strconv.ParseUint(h[0:2], 16, 8)
	g1, err2 := strconv.ParseUint(h[2:4], 16, 8)
	b1, err3 := strconv.ParseUint(h[4:6], 16, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return "#" + h
	}

	bestName := ""
	bestDist := math.Inf(1)
	for ref, name := range colorNames {
		r2, _ := strconv.ParseUint(ref[0:2], 16, 8)
		g2, _ := strconv.ParseUint(ref[2:4], 16, 8)
		b2, _ := strconv.ParseUint(ref[4:6], 16, 8)
		dr := float64(r1) - float64(r2)
		dg := float64(g1) - float64(g2)
		db := float64(b1) - float64(b2)
		dist := math.Sqrt(dr*dr + dg*dg + db*db)
		if dist < bestDist {
			bestDist = dist
			bestName = name
		}
	}
	if bestDist < colorMatchThreshold {
		return bestName
	}
	return "#" + h
}
