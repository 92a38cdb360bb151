// SPDX-License-Identifier: MIT

package bambu

// Status is the accumulated best-known view of printer state: the result
// of every merge since process start. Pointer fields are nil until the
// first report mentions them; once set they are only ever overwritten,
// never cleared (absence in a later report means "unchanged").
//
// Pointed-to values are immutable after assignment and the AMS slice is
// replaced wholesale, so a shallow copy of Status is a safe snapshot.
type Status struct {
	GcodeState    *string
	GcodeFile     *string
	SubtaskName   *string
	Percent       *int
	RemainingTime *int
	LayerNum      *int
	TotalLayers   *int

	NozzleTemp   *float64
	NozzleTarget *float64
	BedTemp      *float64
	BedTarget    *float64
	ChamberTemp  *float64

	PartFan    *string
	HotendFan  *string
	AuxFan     *string
	ChamberFan *string

	WifiSignal *string
	SpeedLevel *int

	LedMode *string

	// AMS units, replaced wholesale whenever a report carries a
	// well-formed module list. nil until the first list arrives.
	AMS []AMSUnit
}

// assign overwrites dst with src when src is present, tracking whether
// the visible value changed.
func assign[T comparable](dst **T, src *T, changed *bool) {
	if src == nil {
		return
	}
	if *dst == nil || **dst != *src {
		*changed = true
	}
	*dst = src
}

// merge folds one report into the status. Fields absent from the report
// are left untouched. The AMS module list is replaced wholesale when
// present and well-formed, otherwise the previous list survives. Returns
// whether any field changed, so callers can skip redundant re-renders.
func (s *Status) merge(r *Report) bool {
	changed := false

	if p := r.Print; p != nil {
		assign(&s.GcodeState, p.GcodeState, &changed)
		assign(&s.GcodeFile, p.GcodeFile, &changed)
		assign(&s.SubtaskName, p.SubtaskName, &changed)
		assign(&s.Percent, p.Percent, &changed)
		assign(&s.RemainingTime, p.RemainingTime, &changed)
		assign(&s.LayerNum, p.LayerNum, &changed)
		assign(&s.TotalLayers, p.TotalLayers, &changed)

		assign(&s.NozzleTemp, p.NozzleTemp, &changed)
		assign(&s.NozzleTarget, p.NozzleTarget, &changed)
		assign(&s.BedTemp, p.BedTemp, &changed)
		assign(&s.BedTarget, p.BedTarget, &changed)
		assign(&s.ChamberTemp, p.ChamberTemp, &changed)

		assign(&s.PartFan, p.PartFan, &changed)
		assign(&s.HotendFan, p.HotendFan, &changed)
		assign(&s.AuxFan, p.AuxFan, &changed)
		assign(&s.ChamberFan, p.ChamberFan, &changed)

		assign(&s.WifiSignal, p.WifiSignal, &changed)
		assign(&s.SpeedLevel, p.SpeedLevel, &changed)

		if units, ok := p.amsUnits(); ok {
			s.AMS = units
			changed = true
		}
	}

	if sys := r.System; sys != nil {
		assign(&s.LedMode, sys.LedMode, &changed)
	}

	// The pushing namespace only echoes request bookkeeping; nothing in
	// it is part of the accumulated view.

	return changed
}

// Filename returns the best available name for the active job.
func (s *Status) Filename() string {
	if s.GcodeFile != nil && *s.GcodeFile != "" {
		return *s.GcodeFile
	}
	if s.SubtaskName != nil {
		return *s.SubtaskName
	}
	return ""
}

// State returns the raw gcode_state value, or "" if not yet reported.
func (s *Status) State() string {
	if s.GcodeState == nil {
		return ""
	}
	return *s.GcodeState
}
