// SPDX-License-Identifier: MIT

package bambu

import (
	"encoding/json"
	"strconv"
)

// Inbound report schema. A report is a JSON object with zero or more of
// the namespaces "print", "system" and "pushing", each carrying a sparse
// subset of fields. Every recognized field is typed and optional (pointer
// nil = not mentioned in this report); unrecognized fields are ignored by
// decoding. The printer pushes differentials, so a field missing from a
// report means "unchanged", never "reset".

// HMSEntry is one raw fault record from the per-message hms array.
type HMSEntry struct {
	Attr uint32 `json:"attr"`
	Code uint32 `json:"code"`
}

// TrayID is a slot identifier. Firmware revisions have shipped it both
// as a JSON number and as a string; either form decodes.
type TrayID string

func (id *TrayID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = TrayID(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = TrayID(strconv.Itoa(n))
	return nil
}

// Tray is one filament slot in an AMS unit.
type Tray struct {
	ID    TrayID `json:"id"`
	Type  string `json:"tray_type"`
	Color string `json:"tray_color"`
}

// SlotNumber returns the 1-based slot number for display.
func (t Tray) SlotNumber() int {
	n, _ := strconv.Atoi(string(t.ID))
	return n + 1
}

// AMSUnit is one AMS module with its filament slots. The firmware reports
// humidity and temperature as strings.
type AMSUnit struct {
	Humidity string `json:"humidity"`
	Temp     string `json:"temp"`
	Trays    []Tray `json:"tray"`
}

// PrintReport is the "print" namespace of a report.
type PrintReport struct {
	GcodeState    *string `json:"gcode_state"`
	GcodeFile     *string `json:"gcode_file"`
	SubtaskName   *string `json:"subtask_name"`
	Percent       *int    `json:"mc_percent"`
	RemainingTime *int    `json:"mc_remaining_time"`
	LayerNum      *int    `json:"layer_num"`
	TotalLayers   *int    `json:"total_layer_num"`

	NozzleTemp   *float64 `json:"nozzle_temper"`
	NozzleTarget *float64 `json:"nozzle_target_temper"`
	BedTemp      *float64 `json:"bed_temper"`
	BedTarget    *float64 `json:"bed_target_temper"`
	ChamberTemp  *float64 `json:"chamber_temper"`

	PartFan    *string `json:"cooling_fan_speed"`
	HotendFan  *string `json:"heatbreak_fan_speed"`
	AuxFan     *string `json:"big_fan1_speed"`
	ChamberFan *string `json:"big_fan2_speed"`

	WifiSignal *string `json:"wifi_signal"`
	SpeedLevel *int    `json:"spd_lvl"`

	HMS        []HMSEntry `json:"hms"`
	PrintError *int64     `json:"print_error"`

	// AMS is kept raw so a malformed module list degrades to "no module
	// update" instead of poisoning the rest of the report.
	AMS json.RawMessage `json:"ams"`
}

// amsUnits extracts the module list from the raw ams fragment. ok is
// false when the fragment is absent or does not have the expected shape.
func (p *PrintReport) amsUnits() ([]AMSUnit, bool) {
	if len(p.AMS) == 0 {
		return nil, false
	}
	var section struct {
		Units []AMSUnit `json:"ams"`
	}
	if err := json.Unmarshal(p.AMS, &section); err != nil {
		return nil, false
	}
	if section.Units == nil {
		return nil, false
	}
	return section.Units, true
}

// SystemReport is the "system" namespace of a report.
type SystemReport struct {
	Command *string `json:"command"`
	LedMode *string `json:"led_mode"`
}

// PushingReport is the "pushing" namespace of a report.
type PushingReport struct {
	SequenceID *string `json:"sequence_id"`
	Command    *string `json:"command"`
}

// Report is one inbound message from the printer.
type Report struct {
	Print   *PrintReport   `json:"print"`
	System  *SystemReport  `json:"system"`
	Pushing *PushingReport `json:"pushing"`
}

// ParseReport decodes an inbound payload. Callers discard reports that
// fail to parse without updating any state.
func ParseReport(payload []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(payload, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
