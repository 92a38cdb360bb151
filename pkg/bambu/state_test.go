// SPDX-License-Identifier: MIT

package bambu

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"
)

// getFuzzRounds returns the number of randomized rounds from the
// FUZZ_ROUNDS env var, default 200.
func getFuzzRounds() int {
	if envRounds := os.Getenv("FUZZ_ROUNDS"); envRounds != "" {
		if rounds, err := strconv.Atoi(envRounds); err == nil && rounds > 0 {
			return rounds
		}
	}
	return 200
}

// newFuzzRng creates a seeded rng, logging the seed for reproducibility
// (override with FUZZ_SEED).
func newFuzzRng(t *testing.T) *rand.Rand {
	seed := time.Now().UnixNano()
	if envSeed := os.Getenv("FUZZ_SEED"); envSeed != "" {
		if s, err := strconv.ParseInt(envSeed, 10, 64); err == nil {
			seed = s
		}
	}
	t.Logf("Seed: %d (reproduce with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

func TestState_IngestMalformedDiscarded(t *testing.T) {
	st := NewState()

	if changed := st.Ingest([]byte(`{{{`)); changed {
		t.Error("malformed payload reported a change")
	}
	snap := st.Snapshot()
	if snap.Status.State() != "" || len(snap.Faults) != 0 {
		t.Errorf("malformed payload touched state: %+v", snap.Status)
	}
	if snap.Stats.Malformed != 1 {
		t.Errorf("Malformed = %d, want 1", snap.Stats.Malformed)
	}

	// Malformed input must not consume the fault baseline either.
	st.Ingest([]byte(`{"print":{"hms":[{"attr":83886080,"code":0}]}}`))
	st.Ingest([]byte(`{"print":{"hms":[{"attr":83886080,"code":0}]}}`))
	if got := st.Snapshot().Faults; len(got) != 0 {
		t.Errorf("baseline consumed by malformed payload: %+v", got)
	}
}

func TestState_ObserveRunsBeforeMerge(t *testing.T) {
	st := NewState()

	// First message carries a fault: it must land in the baseline even
	// though the same Ingest call also merges the message.
	st.Ingest([]byte(`{"print":{"gcode_state":"RUNNING","hms":[{"attr":83887360,"code":131072}]}}`))
	st.Ingest([]byte(`{"print":{"hms":[{"attr":83887360,"code":131072}]}}`))

	snap := st.Snapshot()
	if len(snap.Faults) != 0 {
		t.Errorf("first-message fault escaped the baseline: %+v", snap.Faults)
	}
	if snap.Status.State() != "RUNNING" {
		t.Errorf("merge lost alongside observe: %q", snap.Status.State())
	}
}

func TestState_Notices(t *testing.T) {
	st := NewState()
	st.AddNotice("publish failed", LevelError)
	st.AddNotice("light on", LevelInfo)

	snap := st.Snapshot()
	if len(snap.Notices) != 2 {
		t.Fatalf("notices = %+v", snap.Notices)
	}
	if snap.Notices[0].Text != "publish failed" || snap.Notices[0].Level != LevelError {
		t.Errorf("notice[0] = %+v", snap.Notices[0])
	}
	if snap.Notices[0].Time.IsZero() {
		t.Error("notice missing timestamp")
	}

	st.ClearNotices()
	if got := st.Snapshot().Notices; len(got) != 0 {
		t.Errorf("notices survived clear: %+v", got)
	}

	// The earlier snapshot is a copy and must be unaffected.
	if len(snap.Notices) != 2 {
		t.Error("snapshot shares notice storage with the aggregate")
	}
}

// Concurrent merges from different goroutines must never produce a field
// value that neither input contained. Runs many randomized interleavings;
// every surviving value must come from one of the two writers.
func TestState_ConcurrentMergeSafety(t *testing.T) {
	rng := newFuzzRng(t)
	rounds := getFuzzRounds()

	for round := 0; round < rounds; round++ {
		st := NewState()

		pctA, pctB := rng.Intn(100), rng.Intn(100)
		tempA := float64(rng.Intn(300))
		tempB := float64(rng.Intn(300))
		payloadA := fmt.Sprintf(`{"print":{"mc_percent":%d,"nozzle_temper":%g,"gcode_state":"RUNNING"}}`, pctA, tempA)
		payloadB := fmt.Sprintf(`{"print":{"mc_percent":%d,"nozzle_temper":%g,"gcode_state":"PAUSE"}}`, pctB, tempB)

		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); st.Ingest([]byte(payloadA)) }()
		go func() { defer wg.Done(); st.Ingest([]byte(payloadB)) }()
		wg.Wait()

		snap := st.Snapshot()
		if snap.Status.Percent == nil || (*snap.Status.Percent != pctA && *snap.Status.Percent != pctB) {
			t.Fatalf("round %d: percent %v from neither input (%d, %d)", round, snap.Status.Percent, pctA, pctB)
		}
		if snap.Status.NozzleTemp == nil || (*snap.Status.NozzleTemp != tempA && *snap.Status.NozzleTemp != tempB) {
			t.Fatalf("round %d: nozzle %v from neither input", round, snap.Status.NozzleTemp)
		}
		state := snap.Status.State()
		if state != "RUNNING" && state != "PAUSE" {
			t.Fatalf("round %d: state %q from neither input", round, state)
		}
		if snap.Stats.Reports != 2 {
			t.Fatalf("round %d: reports = %d", round, snap.Stats.Reports)
		}
	}
}

// Concurrent snapshot readers against a writing ingester: exercised with
// the race detector in mind, asserting only self-consistency.
func TestState_SnapshotUnderConcurrentIngest(t *testing.T) {
	st := NewState()
	done := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			payload := fmt.Sprintf(`{"print":{"mc_percent":%d}}`, i%100)
			st.Ingest([]byte(payload))
		}
	}()

	for i := 0; i < 500; i++ {
		snap := st.Snapshot()
		if snap.Status.Percent != nil && (*snap.Status.Percent < 0 || *snap.Status.Percent > 99) {
			t.Errorf("torn percent: %d", *snap.Status.Percent)
			break
		}
	}
	close(done)
	wg.Wait()
}

func TestStats_Rate(t *testing.T) {
	s := Stats{Start: time.Now().Add(-10 * time.Second), Reports: 20}
	rate := s.Rate()
	if rate < 1.5 || rate > 2.5 {
		t.Errorf("rate = %g, want ~2", rate)
	}
}
