package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"basil/internal/driver"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	workingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// chromeRows is the header, blank lines, summary and bar around the module list.
const chromeRows = 6

type progressModel struct {
	title   string
	root    string
	events  <-chan driver.Event
	spinner spinner.Model
	bar     progress.Model

	modules []moduleRow
	byPath  map[string]int
	phase   string // метка события без файла (конец bind и т.п.)
	width   int
	height  int
	done    bool
}

// moduleRow is one VBA module in the list.
type moduleRow struct {
	path     string
	stage    driver.Stage
	status   driver.Status
	errors   int
	warnings int
}

type eventMsg driver.Event
type doneMsg struct{}

// NewProgressModel renders `basil diag` progress: one row per module with
// its stage and diagnostic counts, plus an overall bar. Paths are shown
// relative to root. The model quits when events is closed.
func NewProgressModel(title, root string, events <-chan driver.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = workingStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	return &progressModel{
		title:   title,
		root:    root,
		events:  events,
		spinner: sp,
		bar:     bar,
		byPath:  make(map[string]int),
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(driver.Event(msg)), m.next())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
		m.height = msg.Height
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		if ev, ok := <-m.events; ok {
			return eventMsg(ev)
		}
		return doneMsg{}
	}
}

func (m *progressModel) applyEvent(ev driver.Event) tea.Cmd {
	if ev.File == "" {
		if label := statusLabel(ev.Stage, ev.Status); label != "" {
			m.phase = label
		}
		return nil
	}
	i, ok := m.byPath[ev.File]
	if !ok {
		i = len(m.modules)
		m.modules = append(m.modules, moduleRow{path: ev.File})
		m.byPath[ev.File] = i
	}
	row := &m.modules[i]
	if ev.Status != "" {
		row.stage, row.status = ev.Stage, ev.Status
	}
	if ev.Stage == driver.StageReport {
		row.errors, row.warnings = ev.Errors, ev.Warnings
	}
	return m.bar.SetPercent(m.percent())
}

// percent weighs each module by how far it got; finished modules count fully.
func (m *progressModel) percent() float64 {
	if len(m.modules) == 0 {
		return 0
	}
	var sum float64
	for _, row := range m.modules {
		switch {
		case row.status == driver.StatusDone || row.status == driver.StatusError:
			sum++
		case row.stage == driver.StageBind:
			sum += 0.5
		case row.stage == driver.StageReport:
			sum += 0.9
		}
	}
	return sum / float64(len(m.modules))
}

func (m *progressModel) View() string {
	header := m.title
	if m.phase != "" {
		header += " (" + m.phase + ")"
	}
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	rows := m.modules
	hidden := 0
	if limit := m.height - chromeRows; m.height > 0 && limit > 0 && len(rows) > limit {
		// видны последние модули, остальные свёрнуты в одну строку
		hidden = len(rows) - limit + 1
		rows = rows[hidden:]
	}
	if hidden > 0 {
		b.WriteString(idleStyle.Render(fmt.Sprintf("  … %d more modules", hidden)))
		b.WriteString("\n")
	}
	nameWidth := max(m.width-26, 20)
	for _, row := range rows {
		label := statusLabel(row.stage, row.status)
		fmt.Fprintf(&b, "  %s %s %s\n",
			statusStyle(label).Render(fmt.Sprintf("%10s", label)),
			countsCell(row),
			truncate(m.display(row.path), nameWidth))
	}

	b.WriteString("\n")
	b.WriteString(m.summary())
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// countsCell is a fixed-width "2E 1W" column; blank until the module is reported.
func countsCell(row moduleRow) string {
	if row.stage != driver.StageReport || (row.errors == 0 && row.warnings == 0) {
		return strings.Repeat(" ", 9)
	}
	e := fmt.Sprintf("%3dE", row.errors)
	w := fmt.Sprintf("%3dW", row.warnings)
	if row.errors > 0 {
		e = errorStyle.Render(e)
	}
	if row.warnings > 0 {
		w = warnStyle.Render(w)
	}
	return e + " " + w
}

func (m *progressModel) summary() string {
	finished, errs, warns := 0, 0, 0
	for _, row := range m.modules {
		if row.status == driver.StatusDone || row.status == driver.StatusError {
			finished++
		}
		errs += row.errors
		warns += row.warnings
	}
	return fmt.Sprintf("%d/%d modules, %d errors, %d warnings", finished, len(m.modules), errs, warns)
}

func (m *progressModel) display(path string) string {
	if m.root == "" {
		return path
	}
	if rel, err := filepath.Rel(m.root, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

func statusLabel(stage driver.Stage, status driver.Status) string {
	switch status {
	case driver.StatusQueued, driver.StatusDone, driver.StatusError:
		return string(status)
	case driver.StatusWorking:
		switch stage {
		case driver.StageParse:
			return "parsing"
		case driver.StageBind:
			return "binding"
		case driver.StageReport:
			return "reporting"
		}
	}
	return ""
}

func statusStyle(label string) lipgloss.Style {
	switch label {
	case "done":
		return doneStyle
	case "error":
		return errorStyle
	case "parsing", "binding", "reporting":
		return workingStyle
	}
	return idleStyle
}

// truncate shortens value to width terminal cells.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
