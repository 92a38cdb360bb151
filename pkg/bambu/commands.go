// SPDX-License-Identifier: MIT

package bambu

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Outbound command builders. Each constructor returns a Request ready to
// marshal and publish to the printer's request topic. The printer does no
// correlation tracking, so sequence_id is always the literal "0".

// ReportTopic returns the topic the printer publishes reports on.
func ReportTopic(serial string) string {
	return "device/" + serial + "/report"
}

// RequestTopic returns the topic commands are published to.
func RequestTopic(serial string) string {
	return "device/" + serial + "/request"
}

// Request is one outbound command envelope. Exactly one namespace is
// populated per request.
type Request struct {
	Print   map[string]any `json:"print,omitempty"`
	System  map[string]any `json:"system,omitempty"`
	Pushing map[string]any `json:"pushing,omitempty"`

	label string
}

// Label returns a short human description of the request, for notices
// and logging.
func (r *Request) Label() string {
	return r.label
}

// Marshal encodes the envelope for publishing. The envelopes built here
// always marshal cleanly; Marshal panics on the impossible case, matching
// the must-encode convention for programmer errors.
func (r *Request) Marshal() []byte {
	b, err := json.Marshal(r)
	if err != nil {
		panic(fmt.Sprintf("bambu: marshal request %q: %v", r.label, err))
	}
	return b
}

// NewPushAll builds the full-status dump request. The printer answers
// with a complete report on its report topic.
func NewPushAll() *Request {
	return &Request{
		Pushing: map[string]any{"sequence_id": "0", "command": "pushall"},
		label:   "status refresh",
	}
}

// NewLightCtrl builds a chamber light on/off command.
func NewLightCtrl(on bool) *Request {
	mode := "off"
	if on {
		mode = "on"
	}
	return &Request{
		System: map[string]any{
			"sequence_id": "0",
			"command":     "ledctrl",
			"led_node":    "chamber_light",
			"led_mode":    mode,
		},
		label: "light " + mode,
	}
}

// NewPause builds a pause command.
func NewPause() *Request {
	return &Request{
		Print: map[string]any{"sequence_id": "0", "command": "pause"},
		label: "pause",
	}
}

// NewResume builds a resume command.
func NewResume() *Request {
	return &Request{
		Print: map[string]any{"sequence_id": "0", "command": "resume"},
		label: "resume",
	}
}

// NewStop builds a stop command, aborting the active print.
func NewStop() *Request {
	return &Request{
		Print: map[string]any{"sequence_id": "0", "command": "stop"},
		label: "stop",
	}
}

// NewSpeedPreset builds a print speed command for a preset level (1-4:
// silent, standard, sport, ludicrous). Returns nil for unknown levels.
func NewSpeedPreset(level int) *Request {
	name := SpeedPresetName(level)
	if name == "" {
		return nil
	}
	return &Request{
		Print: map[string]any{
			"sequence_id": "0",
			"command":     "print_speed",
			"param":       strconv.Itoa(level),
		},
		label: "speed " + name,
	}
}
