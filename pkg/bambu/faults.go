// SPDX-License-Identifier: MIT

package bambu

import "time"

// FaultEvent is one decoded fault condition, created when a code is first
// observed this session and immutable afterwards.
type FaultEvent struct {
	Time        time.Time
	Severity    int
	Description string
	Code        string
}

// Level returns the presentation severity classification for the event.
func (e FaultEvent) Level() Level {
	return SeverityLevel(e.Severity)
}

// tracker decides which fault codes are new this session. It consumes
// each report before the merge, because the printer emits fault lists
// per-message rather than as a cumulative superset.
//
// The codes present on the very first report become the baseline: a
// monitor attaching mid-print must not report conditions that already
// existed before it connected. After that, each code is appended to the
// session log exactly once on its first non-baseline occurrence. A code
// that disappears and later reappears is not re-logged; the stream gives
// no "fault cleared" signal to anchor a fresh entry on.
type tracker struct {
	baselineTaken bool
	baseline      map[string]struct{}
	logged        map[string]struct{}
	log           []FaultEvent

	now func() time.Time // test hook
}

func newTracker() *tracker {
	return &tracker{
		baseline: make(map[string]struct{}),
		logged:   make(map[string]struct{}),
		now:      time.Now,
	}
}

// observe extracts the per-message fault set from a report and updates
// the baseline or the session log. Must run before the report is merged.
func (t *tracker) observe(r *Report) {
	p := r.Print
	if p == nil {
		return
	}

	// Per-message set keyed by canonical code, in message order: a
	// message need not repeat faults from prior messages, and may repeat
	// a code within itself.
	type fault struct {
		code     string
		severity int
		desc     string
	}
	var current []fault
	seen := make(map[string]struct{})
	add := func(f fault) {
		if _, ok := seen[f.code]; ok {
			return
		}
		seen[f.code] = struct{}{}
		current = append(current, f)
	}
	for _, entry := range p.HMS {
		desc, code := LookupHMS(entry.Attr, entry.Code)
		add(fault{code: code, severity: HMSSeverity(entry.Code), desc: desc})
	}
	if p.PrintError != nil {
		if desc, hexCode, ok := LookupPrintError(*p.PrintError); ok {
			add(fault{code: hexCode, severity: 3, desc: desc})
		}
	}

	if !t.baselineTaken {
		t.baselineTaken = true
		for _, f := range current {
			t.baseline[f.code] = struct{}{}
		}
		return
	}

	stamp := t.now()
	for _, f := range current {
		if _, ok := t.baseline[f.code]; ok {
			continue
		}
		if _, ok := t.logged[f.code]; ok {
			continue
		}
		t.logged[f.code] = struct{}{}
		t.log = append(t.log, FaultEvent{
			Time:        stamp,
			Severity:    f.severity,
			Description: f.desc,
			Code:        f.code,
		})
	}
}

// events returns a copy of the session fault log, oldest first.
func (t *tracker) events() []FaultEvent {
	out := make([]FaultEvent, len(t.log))
	copy(out, t.log)
	return out
}
