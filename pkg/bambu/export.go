// SPDX-License-Identifier: MIT

package bambu

// Export is the flat, human-ready projection of a snapshot pushed to
// remote viewers. It is read-only: fields are resolved to display form
// (labels, formatted temperatures, color names) and never round-tripped
// back in.
type Export struct {
	State       string   `json:"state"`
	StateLabel  string   `json:"state_label"`
	Filename    string   `json:"filename"`
	Progress    *int     `json:"progress"`
	Layer       *int     `json:"layer"`
	TotalLayers *int     `json:"total_layers"`
	ETA         string   `json:"eta"`
	Nozzle      string   `json:"nozzle"`
	Bed         string   `json:"bed"`
	ChamberTemp *float64 `json:"chamber_temp"`

	Fans       map[string]string `json:"fans"`
	WifiSignal string            `json:"wifi_signal"`

	AMS    []ExportAMS   `json:"ams"`
	Errors []ExportFault `json:"errors"`

	LastUpdate string `json:"last_update"`
}

// ExportAMS is one AMS unit in the export projection.
type ExportAMS struct {
	Humidity string       `json:"humidity"`
	Temp     string       `json:"temp"`
	Trays    []ExportTray `json:"trays"`
}

// ExportTray is one filament slot with its resolved color name.
type ExportTray struct {
	Slot      int    `json:"slot"`
	Type      string `json:"type"`
	Color     string `json:"color"`
	ColorName string `json:"color_name"`
}

// ExportFault is one session fault log entry.
type ExportFault struct {
	Time        string `json:"time"`
	Severity    int    `json:"severity"`
	Description string `json:"description"`
	Code        string `json:"code"`
}

// Export builds the remote-viewer projection of the snapshot.
func (sn Snapshot) Export() Export {
	s := sn.Status

	fans := make(map[string]string)
	for _, f := range []struct {
		raw   *string
		label string
	}{
		{s.PartFan, "Part cooling"},
		{s.HotendFan, "Hotend"},
		{s.AuxFan, "Auxiliary"},
		{s.ChamberFan, "Chamber"},
	} {
		if f.raw != nil {
			fans[f.label] = FanPercent(f.raw)
		}
	}

	ams := make([]ExportAMS, 0, len(s.AMS))
	for _, unit := range s.AMS {
		trays := make([]ExportTray, 0, len(unit.Trays))
		for _, tray := range unit.Trays {
			colorName := ""
			color := ""
			if tray.Type != "" {
				colorName = ColorName(tray.Color)
			}
			if len(tray.Color) >= 6 {
				color = tray.Color[:6]
			}
			trays = append(trays, ExportTray{
				Slot:      tray.SlotNumber(),
				Type:      tray.Type,
				Color:     color,
				ColorName: colorName,
			})
		}
		ams = append(ams, ExportAMS{Humidity: unit.Humidity, Temp: unit.Temp, Trays: trays})
	}

	faults := make([]ExportFault, 0, len(sn.Faults))
	for _, ev := range sn.Faults {
		faults = append(faults, ExportFault{
			Time:        ev.Time.Format("15:04:05"),
			Severity:    ev.Severity,
			Description: ev.Description,
			Code:        ev.Code,
		})
	}

	wifi := ""
	if s.WifiSignal != nil {
		wifi = *s.WifiSignal
	}

	return Export{
		State:       s.State(),
		StateLabel:  StateLabel(s.State()),
		Filename:    s.Filename(),
		Progress:    s.Percent,
		Layer:       s.LayerNum,
		TotalLayers: s.TotalLayers,
		ETA:         FormatRemaining(s.RemainingTime),
		Nozzle:      FormatTemp(s.NozzleTemp, s.NozzleTarget),
		Bed:         FormatTemp(s.BedTemp, s.BedTarget),
		ChamberTemp: s.ChamberTemp,
		Fans:        fans,
		WifiSignal:  wifi,
		AMS:         ams,
		Errors:      faults,
		LastUpdate:  sn.Taken.Format("15:04:05"),
	}
}
