// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hey-its-brian/bambu-logger-controller/pkg/bambu"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Interactive TUI for monitoring the printer",
	Long: `Monitor the printer via an interactive terminal UI.

Shows the accumulated printer state (job progress, temperatures, fans,
AMS filament slots) alongside the session fault log. New faults are
classified against the baseline taken from the first report, so
conditions that predate the monitor are not re-reported.

Keys:
  l      toggle chamber light
  r      resume print
  1-4    speed preset (silent, standard, sport, ludicrous)
  p      pause print (press twice to confirm)
  x      stop print (press twice to confirm)
  q      quit

When stdout is not a terminal the monitor degrades to a plain report
log; commands are unavailable in that mode.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}

// printerLink couples the MQTT session with the running TUI program so
// the network callback can feed the shared state and wake the renderer.
type printerLink struct {
	cfg  *Config
	st   *bambu.State
	p    *tea.Program
	sess *session
}

// onReport runs on the MQTT client's network goroutine.
func (l *printerLink) onReport(payload []byte) {
	changed := l.st.Ingest(payload)
	if l.p != nil {
		l.p.Send(reportMsg{changed: changed})
	}
}

// send returns a command that publishes the request off the update loop.
// Failures surface as notices, never terminate the monitor.
func (l *printerLink) send(req *bambu.Request) tea.Cmd {
	return func() tea.Msg {
		if err := l.sess.publish(req); err != nil {
			return publishErrMsg{err: err}
		}
		return nil
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	// Without a terminal there is nothing to draw on: degrade to the
	// plain report log so pipelines keep working.
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runLogLoop(cfg)
	}

	link := &printerLink{cfg: cfg, st: bambu.NewState()}

	m := initialMonitorModel(link)
	p := tea.NewProgram(m, tea.WithAltScreen())
	link.p = p

	sess, err := dialPrinter(cfg, fmt.Sprintf("bambu-monitor-%d", os.Getpid()), link.onReport)
	if err != nil {
		return err
	}
	link.sess = sess
	defer sess.close()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %v", err)
	}
	return nil
}
