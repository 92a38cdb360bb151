// SPDX-License-Identifier: MIT

package bambu

import (
	"encoding/json"
	"reflect"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func mustReport(t *testing.T, payload string) *Report {
	t.Helper()
	r, err := ParseReport([]byte(payload))
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	return r
}

func TestMerge_OverwritesMentionedFields(t *testing.T) {
	var s Status
	changed := s.merge(mustReport(t, `{"print":{"gcode_state":"RUNNING","mc_percent":42,"nozzle_temper":215.5}}`))
	if !changed {
		t.Error("first merge should report a change")
	}
	if s.GcodeState == nil || *s.GcodeState != "RUNNING" {
		t.Errorf("GcodeState = %v", s.GcodeState)
	}
	if s.Percent == nil || *s.Percent != 42 {
		t.Errorf("Percent = %v", s.Percent)
	}
	if s.NozzleTemp == nil || *s.NozzleTemp != 215.5 {
		t.Errorf("NozzleTemp = %v", s.NozzleTemp)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	payload := `{"print":{"gcode_state":"RUNNING","mc_percent":42,"layer_num":7,
		"ams":{"ams":[{"humidity":"5","temp":"25.0","tray":[{"id":"0","tray_type":"PLA","tray_color":"FF0000FF"}]}]}}}`

	var once Status
	once.merge(mustReport(t, payload))

	var twice Status
	twice.merge(mustReport(t, payload))
	changed := twice.merge(mustReport(t, payload))

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging twice differs from merging once:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	// The AMS list is replaced wholesale, so a repeat still counts as a
	// change; the field values must be identical regardless.
	_ = changed
}

func TestMerge_AbsenceLeavesFieldsUntouched(t *testing.T) {
	var s Status
	s.merge(mustReport(t, `{"print":{"gcode_state":"RUNNING","mc_percent":42,"bed_temper":60.0}}`))
	s.merge(mustReport(t, `{"print":{"mc_percent":43}}`))

	if s.GcodeState == nil || *s.GcodeState != "RUNNING" {
		t.Errorf("GcodeState lost: %v", s.GcodeState)
	}
	if s.BedTemp == nil || *s.BedTemp != 60.0 {
		t.Errorf("BedTemp lost: %v", s.BedTemp)
	}
	if s.Percent == nil || *s.Percent != 43 {
		t.Errorf("Percent = %v, want 43", s.Percent)
	}
}

func TestMerge_UnchangedReportsNoChange(t *testing.T) {
	var s Status
	s.merge(mustReport(t, `{"print":{"mc_percent":42}}`))
	if changed := s.merge(mustReport(t, `{"print":{"mc_percent":42}}`)); changed {
		t.Error("identical field value should not report a change")
	}
	if changed := s.merge(mustReport(t, `{"system":{}}`)); changed {
		t.Error("empty namespace should not report a change")
	}
}

func TestMerge_ThreeNamespaces(t *testing.T) {
	var s Status
	changed := s.merge(mustReport(t, `{"system":{"led_mode":"on"},"pushing":{"sequence_id":"0","command":"pushall"}}`))
	if !changed {
		t.Error("system namespace field should count as a change")
	}
	if s.LedMode == nil || *s.LedMode != "on" {
		t.Errorf("LedMode = %v", s.LedMode)
	}
}

func TestMerge_AMSReplacedWholesale(t *testing.T) {
	var s Status
	s.merge(mustReport(t, `{"print":{"ams":{"ams":[
		{"humidity":"5","temp":"25.0","tray":[
			{"id":"0","tray_type":"PLA","tray_color":"FF0000FF"},
			{"id":"1","tray_type":"PETG","tray_color":"00FF00FF"}]}]}}}`))
	if len(s.AMS) != 1 || len(s.AMS[0].Trays) != 2 {
		t.Fatalf("unexpected AMS after first merge: %+v", s.AMS)
	}

	// A fresh list replaces everything, including trays it no longer
	// mentions.
	s.merge(mustReport(t, `{"print":{"ams":{"ams":[
		{"humidity":"6","temp":"26.0","tray":[{"id":"0","tray_type":"ABS","tray_color":"000000FF"}]}]}}}`))
	if len(s.AMS) != 1 || len(s.AMS[0].Trays) != 1 {
		t.Fatalf("AMS not replaced wholesale: %+v", s.AMS)
	}
	if s.AMS[0].Trays[0].Type != "ABS" {
		t.Errorf("tray type = %q", s.AMS[0].Trays[0].Type)
	}
	if s.AMS[0].Humidity != "6" {
		t.Errorf("humidity = %q", s.AMS[0].Humidity)
	}
}

func TestMerge_AMSNumericTrayIDs(t *testing.T) {
	// Firmware revisions disagree on whether slot ids are numbers or
	// strings; both forms must produce a module update.
	var s Status
	changed := s.merge(mustReport(t, `{"print":{"ams":{"ams":[
		{"humidity":"5","temp":"25.0","tray":[
			{"id":0,"tray_type":"PLA","tray_color":"FF0000FF"},
			{"id":"1","tray_type":"PETG","tray_color":"00FF00FF"}]}]}}}`))
	if !changed {
		t.Fatal("numeric tray id must not drop the module update")
	}
	if len(s.AMS) != 1 || len(s.AMS[0].Trays) != 2 {
		t.Fatalf("unexpected AMS: %+v", s.AMS)
	}
	if got := s.AMS[0].Trays[0].SlotNumber(); got != 1 {
		t.Errorf("numeric id slot = %d, want 1", got)
	}
	if got := s.AMS[0].Trays[1].SlotNumber(); got != 2 {
		t.Errorf("string id slot = %d, want 2", got)
	}
}

func TestMerge_MissingOrMalformedAMSKeepsPrevious(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"no ams fragment", `{"print":{"mc_percent":50}}`},
		{"ams without unit list", `{"print":{"ams":{"version":123}}}`},
		{"ams wrong shape", `{"print":{"ams":"bogus"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Status
			s.merge(mustReport(t, `{"print":{"ams":{"ams":[{"humidity":"5","temp":"25.0","tray":[]}]}}}`))
			before := s.AMS

			s.merge(mustReport(t, tt.payload))
			if !reflect.DeepEqual(s.AMS, before) {
				t.Errorf("AMS changed: %+v", s.AMS)
			}
		})
	}
}

func TestParseReport_UnrecognizedFieldsIgnored(t *testing.T) {
	r, err := ParseReport([]byte(`{"print":{"mc_percent":10,"totally_new_field":{"a":1}},"camera":{"x":true}}`))
	if err != nil {
		t.Fatalf("ParseReport: %v", err)
	}
	if r.Print == nil || r.Print.Percent == nil || *r.Print.Percent != 10 {
		t.Errorf("recognized field lost: %+v", r.Print)
	}
}

func TestParseReport_Malformed(t *testing.T) {
	for _, payload := range []string{``, `not json`, `[1,2,3]`, `{"print":{"mc_percent":"NaN"}}`} {
		if _, err := ParseReport([]byte(payload)); err == nil {
			t.Errorf("ParseReport(%q) expected error", payload)
		}
	}
}

func TestStatusAccessors(t *testing.T) {
	var s Status
	if s.Filename() != "" || s.State() != "" {
		t.Error("empty status should have empty accessors")
	}
	s.GcodeFile = ptr("")
	s.SubtaskName = ptr("benchy")
	if s.Filename() != "benchy" {
		t.Errorf("Filename() = %q, want subtask fallback", s.Filename())
	}
	s.GcodeFile = ptr("benchy.gcode")
	if s.Filename() != "benchy.gcode" {
		t.Errorf("Filename() = %q", s.Filename())
	}
}

func TestTraySlotNumber(t *testing.T) {
	if got := (Tray{ID: "0"}).SlotNumber(); got != 1 {
		t.Errorf("SlotNumber = %d, want 1", got)
	}
	if got := (Tray{ID: "3"}).SlotNumber(); got != 4 {
		t.Errorf("SlotNumber = %d, want 4", got)
	}
}

// Guard against tag drift: the schema must round out to the wire names.
func TestReportFieldNames(t *testing.T) {
	r := Report{Print: &PrintReport{Percent: ptr(55)}}
	b, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["print"]["mc_percent"]; !ok {
		t.Errorf("mc_percent tag missing: %s", b)
	}
}
