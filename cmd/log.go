// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hey-its-brian/bambu-logger-controller/pkg/bambu"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Stream printer status lines to stdout",
	Long: `Continuously print one status line per state change, plus a line for
every new session fault. Suitable for piping or running under a process
supervisor; no terminal required.`,
	RunE: runLog,
}

func init() {
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	return runLogLoop(cfg)
}

// runLogLoop is the non-interactive rendering path, shared with the
// monitor command's no-TTY fallback.
func runLogLoop(cfg *Config) error {
	st := bambu.NewState()

	// faultsPrinted tracks how much of the session fault log has been
	// emitted. The fault log is append-only, so an index suffices.
	var mu sync.Mutex
	faultsPrinted := 0

	sess, err := dialPrinter(cfg, fmt.Sprintf("bambu-log-%d", os.Getpid()), func(payload []byte) {
		changed := st.Ingest(payload)
		sn := st.Snapshot()

		mu.Lock()
		defer mu.Unlock()
		for _, ev := range sn.Faults[faultsPrinted:] {
			tag := "WARN"
			if ev.Level() == bambu.LevelError {
				tag = "ERROR"
			}
			fmt.Printf("[%s] %s %s (%s)\n", ev.Time.Format("15:04:05"), tag, ev.Description, ev.Code)
		}
		faultsPrinted = len(sn.Faults)

		if changed {
			fmt.Print(statusLine(sn))
		}
	})
	if err != nil {
		return err
	}
	defer sess.close()

	fmt.Printf("Monitoring %s (%s) - press Ctrl+C to exit\n", cfg.Host, cfg.Serial)

	ticker := time.NewTicker(pushIntervalSeconds * time.Second)
	defer ticker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			// Transport failures surface on the stream like any other
			// event; the client reconnects underneath.
			if err := sess.pushAll(); err != nil {
				fmt.Print(transportLine(err))
			}
		case <-sig:
			return nil
		}
	}
}

// transportLine formats a transport failure for the log stream.
func transportLine(err error) string {
	return fmt.Sprintf("[%s] WARN %v\n", time.Now().Format("15:04:05"), err)
}

// statusLine formats one human-readable status summary.
func statusLine(sn bambu.Snapshot) string {
	s := sn.Status

	progress := ""
	if s.Percent != nil {
		progress = fmt.Sprintf(" %d%%", *s.Percent)
	}
	layer := ""
	if s.LayerNum != nil && s.TotalLayers != nil {
		layer = fmt.Sprintf(" layer %d/%d", *s.LayerNum, *s.TotalLayers)
	}
	file := ""
	if name := s.Filename(); name != "" {
		file = " " + name
	}

	return fmt.Sprintf("[%s] %s%s%s%s nozzle %s bed %s eta %s\n",
		sn.Taken.Format("15:04:05"),
		bambu.StateLabel(s.State()),
		file, progress, layer,
		bambu.FormatTemp(s.NozzleTemp, s.NozzleTarget),
		bambu.FormatTemp(s.BedTemp, s.BedTarget),
		bambu.FormatRemaining(s.RemainingTime))
}
