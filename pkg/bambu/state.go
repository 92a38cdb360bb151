// SPDX-License-Identifier: MIT

package bambu

import (
	"sync"
	"time"
)

// Notice is a transient user-visible message (transport failures, command
// acknowledgements). Notices stay on screen until dismissed by the next
// keystroke; they are never escalated to process termination.
type Notice struct {
	Time  time.Time
	Level Level
	Text  string
}

// Stats counts ingested reports for the footer/status line.
type Stats struct {
	Start     time.Time
	Reports   uint64
	Malformed uint64
}

// Rate returns the average report rate since start, in reports/sec.
func (s Stats) Rate() float64 {
	elapsed := time.Since(s.Start).Seconds()
	if elapsed <= 0 {
		return 0
	}
	return float64(s.Reports) / elapsed
}

// State is the shared aggregate: the accumulated status, the session
// fault log, the notice list and ingest stats. One mutex guards all of it
// because renderers always read them together for a snapshot.
//
// Ingest is called from the transport callback; Snapshot from whatever
// context renders (the TUI loop, websocket handlers). Renderers take a
// Snapshot copy and format outside the lock.
type State struct {
	mu      sync.Mutex
	status  Status
	tracker *tracker
	notices []Notice
	stats   Stats
}

// NewState returns an empty aggregate, usable before the first report.
func NewState() *State {
	return &State{
		tracker: newTracker(),
		stats:   Stats{Start: time.Now()},
	}
}

// Ingest parses one inbound payload and folds it into the aggregate:
// fault tracking first (it needs the raw per-message fault list), then
// the merge. Malformed payloads are discarded without touching state.
// Returns whether the accumulated status changed.
func (st *State) Ingest(payload []byte) bool {
	r, err := ParseReport(payload)
	if err != nil {
		st.mu.Lock()
		st.stats.Malformed++
		st.mu.Unlock()
		return false
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	st.stats.Reports++
	st.tracker.observe(r)
	return st.status.merge(r)
}

// AddNotice appends a timestamped transient notice.
func (st *State) AddNotice(text string, level Level) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.notices = append(st.notices, Notice{Time: time.Now(), Level: level, Text: text})
}

// ClearNotices dismisses all transient notices.
func (st *State) ClearNotices() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.notices = nil
}

// Snapshot returns a point-in-time copy of everything a renderer needs.
// The copy is taken under the lock; formatting it never holds the lock.
type Snapshot struct {
	Status  Status
	Faults  []FaultEvent
	Notices []Notice
	Stats   Stats
	Taken   time.Time
}

func (st *State) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	notices := make([]Notice, len(st.notices))
	copy(notices, st.notices)
	return Snapshot{
		Status:  st.status, // value copy; see Status doc for aliasing rules
		Faults:  st.tracker.events(),
		Notices: notices,
		Stats:   st.stats,
		Taken:   time.Now(),
	}
}
