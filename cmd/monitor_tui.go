// SPDX-License-Identifier: MIT

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hey-its-brian/bambu-logger-controller/pkg/bambu"
)

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type monitorTickMsg time.Time

// reportMsg wakes the renderer after the network callback ingested a
// report. The model reads the shared state through a snapshot; the
// message itself carries no data.
type reportMsg struct {
	changed bool
}

type publishErrMsg struct {
	err error
}

//////////////////////////////////////////////////////////////
// Model
//////////////////////////////////////////////////////////////

type monitorModel struct {
	link *printerLink
	disp *bambu.Dispatcher
	spin spinner.Model

	gotFirst bool
	lastPush time.Time

	width    int
	height   int
	quitting bool
}

func initialMonitorModel(link *printerLink) monitorModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	return monitorModel{
		link:     link,
		disp:     bambu.NewDispatcher(),
		spin:     sp,
		lastPush: time.Now(),
		width:    80,
		height:   24,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return tea.Batch(monitorTickCmd(), m.spin.Tick)
}

func monitorTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return monitorTickMsg(t)
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg.String())

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case monitorTickMsg:
		// Re-request a full status dump on a fixed cadence, forever.
		// Failures are not fatal; the client reconnects underneath.
		if time.Since(m.lastPush) >= pushIntervalSeconds*time.Second {
			m.lastPush = time.Now()
			return m, tea.Batch(monitorTickCmd(), m.link.send(bambu.NewPushAll()))
		}
		return m, monitorTickCmd()

	case reportMsg:
		m.gotFirst = true

	case publishErrMsg:
		m.link.st.AddNotice(msg.err.Error(), bambu.LevelError)

	case spinner.TickMsg:
		if !m.gotFirst {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// handleKey routes a keystroke through the command dispatcher.
func (m monitorModel) handleKey(key string) (tea.Model, tea.Cmd) {
	act := m.disp.HandleKey(key)

	if act.ClearNotices {
		m.link.st.ClearNotices()
		return m, nil
	}
	if act.Notice != "" {
		m.link.st.ClearNotices()
		m.link.st.AddNotice(act.Notice, act.NoticeLevel)
	}
	if act.Request != nil {
		return m, m.link.send(act.Request)
	}
	return m, nil
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// stateStyle colors a gcode_state label.
func stateStyle(state string) lipgloss.Style {
	switch state {
	case "RUNNING", "FINISH":
		return valueStyle
	case "PAUSE", "PREPARE", "SLICING":
		return warnStyle
	case "FAILED":
		return errStyle
	}
	return dimStyle
}

func (m monitorModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	sn := m.link.st.Snapshot()

	var s strings.Builder
	s.WriteString(titleStyle.Render("BAMBU P1S MONITOR"))
	s.WriteString("\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("Printer: %s (%s) | Wifi: %s | %s | Press 'q' to quit",
		m.link.cfg.Host, m.link.cfg.Serial,
		orDash(bambu.WifiLabel(sn.Status.WifiSignal)),
		sn.Taken.Format("15:04:05"))))
	s.WriteString("\n\n")

	if !m.gotFirst {
		s.WriteString(m.spin.View())
		s.WriteString(warnStyle.Render(" Waiting for first report..."))
		s.WriteString("\n")
		return s.String()
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(m.printSection(sn)),
		boxStyle.Render(m.tempSection(sn)),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(m.faultSection(sn)),
		boxStyle.Render(m.amsSection(sn)),
	)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right))
	s.WriteString("\n")

	for _, n := range sn.Notices {
		style := dimStyle
		switch n.Level {
		case bambu.LevelWarn:
			style = warnStyle
		case bambu.LevelError:
			style = errStyle
		}
		s.WriteString(style.Render(fmt.Sprintf("[%s] %s", n.Time.Format("15:04:05"), n.Text)))
		s.WriteString("\n")
	}

	s.WriteString(dimStyle.Render("l light  r resume  1-4 speed  p pause  x stop  q quit"))
	s.WriteString("\n")

	return s.String()
}

func (m monitorModel) printSection(sn bambu.Snapshot) string {
	st := sn.Status
	var b strings.Builder

	state := st.State()
	b.WriteString(fmt.Sprintf("%s %s\n",
		labelStyle.Render("State:"), stateStyle(state).Render(bambu.StateLabel(state))))

	file := st.Filename()
	if file == "" {
		file = "--"
	}
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("File:"), valueStyle.Render(file)))

	progress := "--"
	if st.Percent != nil {
		progress = fmt.Sprintf("%d%%", *st.Percent)
	}
	layer := "--"
	if st.LayerNum != nil && st.TotalLayers != nil {
		layer = fmt.Sprintf("%d/%d", *st.LayerNum, *st.TotalLayers)
	}
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		labelStyle.Render("Progress:"), valueStyle.Render(progress),
		labelStyle.Render("Layer:"), valueStyle.Render(layer)))

	b.WriteString(fmt.Sprintf("%s %s\n",
		labelStyle.Render("Remaining:"), valueStyle.Render(bambu.FormatRemaining(st.RemainingTime))))

	speed := "--"
	if st.SpeedLevel != nil {
		if name := bambu.SpeedPresetName(*st.SpeedLevel); name != "" {
			speed = name
		}
	}
	light := "--"
	if st.LedMode != nil {
		light = *st.LedMode
	}
	b.WriteString(fmt.Sprintf("%s %s   %s %s",
		labelStyle.Render("Speed:"), valueStyle.Render(speed),
		labelStyle.Render("Light:"), valueStyle.Render(light)))

	return b.String()
}

func (m monitorModel) tempSection(sn bambu.Snapshot) string {
	st := sn.Status
	var b strings.Builder

	b.WriteString(fmt.Sprintf("%s %s   %s %s\n",
		labelStyle.Render("Nozzle:"), valueStyle.Render(bambu.FormatTemp(st.NozzleTemp, st.NozzleTarget)),
		labelStyle.Render("Bed:"), valueStyle.Render(bambu.FormatTemp(st.BedTemp, st.BedTarget))))

	chamber := "--"
	if st.ChamberTemp != nil {
		chamber = fmt.Sprintf("%.1f°C", *st.ChamberTemp)
	}
	b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Chamber:"), valueStyle.Render(chamber)))

	b.WriteString(fmt.Sprintf("%s part %s  hotend %s  aux %s  chamber %s",
		labelStyle.Render("Fans:"),
		valueStyle.Render(bambu.FanPercent(st.PartFan)),
		valueStyle.Render(bambu.FanPercent(st.HotendFan)),
		valueStyle.Render(bambu.FanPercent(st.AuxFan)),
		valueStyle.Render(bambu.FanPercent(st.ChamberFan))))

	return b.String()
}

func (m monitorModel) faultSection(sn bambu.Snapshot) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Session faults:"))
	b.WriteString("\n")

	if len(sn.Faults) == 0 {
		b.WriteString(dimStyle.Render("  (none this session)"))
		return b.String()
	}

	// Newest entries win when the box cannot fit them all.
	maxRows := m.height - 18
	if maxRows < 4 {
		maxRows = 4
	}
	start := len(sn.Faults) - maxRows
	if start < 0 {
		start = 0
	}

	for _, ev := range sn.Faults[start:] {
		style := warnStyle
		if ev.Level() == bambu.LevelError {
			style = errStyle
		}
		b.WriteString(fmt.Sprintf("%s %s\n",
			dimStyle.Render(ev.Time.Format("15:04:05")),
			style.Render(ev.Description)))
		b.WriteString(dimStyle.Render("         " + ev.Code))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m monitorModel) amsSection(sn bambu.Snapshot) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("AMS:"))
	b.WriteString("\n")

	if len(sn.Status.AMS) == 0 {
		b.WriteString(dimStyle.Render("  (no AMS reported)"))
		return b.String()
	}

	for i, unit := range sn.Status.AMS {
		b.WriteString(dimStyle.Render(fmt.Sprintf("Unit %d  humidity %s  temp %s°C", i+1,
			orDash(unit.Humidity), orDash(unit.Temp))))
		b.WriteString("\n")
		for _, tray := range unit.Trays {
			if tray.Type == "" {
				b.WriteString(fmt.Sprintf("  %s %s\n",
					labelStyle.Render(fmt.Sprintf("Slot %d:", tray.SlotNumber())),
					dimStyle.Render("empty")))
				continue
			}
			b.WriteString(fmt.Sprintf("  %s %s\n",
				labelStyle.Render(fmt.Sprintf("Slot %d:", tray.SlotNumber())),
				valueStyle.Render(fmt.Sprintf("%s %s", tray.Type, bambu.ColorName(tray.Color)))))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}
