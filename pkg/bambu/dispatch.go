// SPDX-License-Identifier: MIT

package bambu

// Dispatcher translates keystrokes into outbound commands. Destructive
// actions (pause, stop) go through a two-state confirmation machine:
//
//	Idle --destructive key--> AwaitingConfirm (prompt, nothing sent)
//	AwaitingConfirm --same key--> Idle (command emitted)
//	AwaitingConfirm --other key--> Idle (cancelled; the key is swallowed)
//
// Non-destructive commands emit immediately from Idle. An unmapped key in
// Idle dismisses transient notices and does nothing else.
type Dispatcher struct {
	pending *pendingAction
	lightOn bool
}

type pendingAction struct {
	key string
	req *Request
}

// Action is the outcome of one keystroke: an optional command to publish,
// an optional notice to surface, and whether existing notices should be
// dismissed.
type Action struct {
	Request      *Request
	Notice       string
	NoticeLevel  Level
	ClearNotices bool
}

// NewDispatcher returns a dispatcher in the Idle state. The chamber light
// is assumed on at startup, matching printer power-on behavior.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{lightOn: true}
}

// Pending returns the label of the action awaiting confirmation, if any.
func (d *Dispatcher) Pending() (string, bool) {
	if d.pending == nil {
		return "", false
	}
	return d.pending.req.Label(), true
}

// HandleKey processes one keystroke and returns the resulting action.
func (d *Dispatcher) HandleKey(key string) Action {
	if p := d.pending; p != nil {
		d.pending = nil
		if key == p.key {
			return Action{
				Request:     p.req,
				Notice:      "Sent: " + p.req.Label(),
				NoticeLevel: LevelInfo,
			}
		}
		// Any other key cancels and is swallowed.
		return Action{
			Notice:      "Cancelled: " + p.req.Label(),
			NoticeLevel: LevelInfo,
		}
	}

	switch key {
	case "l":
		d.lightOn = !d.lightOn
		req := NewLightCtrl(d.lightOn)
		return Action{Request: req, Notice: "Sent: " + req.Label(), NoticeLevel: LevelInfo}

	case "r":
		req := NewResume()
		return Action{Request: req, Notice: "Sent: " + req.Label(), NoticeLevel: LevelInfo}

	case "1", "2", "3", "4":
		req := NewSpeedPreset(int(key[0] - '0'))
		return Action{Request: req, Notice: "Sent: " + req.Label(), NoticeLevel: LevelInfo}

	case "p":
		d.pending = &pendingAction{key: key, req: NewPause()}
		return Action{
			Notice:      "Pause print? Press p again to confirm, any other key to cancel",
			NoticeLevel: LevelWarn,
		}

	case "x":
		d.pending = &pendingAction{key: key, req: NewStop()}
		return Action{
			Notice:      "STOP print? Press x again to confirm, any other key to cancel",
			NoticeLevel: LevelWarn,
		}
	}

	return Action{ClearNotices: true}
}
