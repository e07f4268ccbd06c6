package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"pyrite/internal/driver"
	"pyrite/internal/testrun"
)

// Status is the state of one file row.
type Status uint8

const (
	StatusQueued Status = iota
	StatusClean
	StatusIssues
	StatusCached
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusClean:
		return "ok"
	case StatusIssues:
		return "issues"
	case StatusCached:
		return "cached"
	case StatusFailed:
		return "failed"
	default:
		return "queued"
	}
}

// Event moves one file to a final status.
type Event struct {
	Path   string
	Status Status
	// Detail is shown after the path, e.g. a diagnostic count.
	Detail string
}

// CheckEvent converts a driver progress event.
func CheckEvent(ev driver.ProgressEvent) Event {
	out := Event{Path: ev.Path, Status: StatusClean}
	switch {
	case ev.Failed:
		out.Status = StatusFailed
	case ev.Cached:
		out.Status = StatusCached
	case ev.Diagnostics > 0:
		out.Status = StatusIssues
	}
	if ev.Diagnostics > 0 {
		out.Detail = fmt.Sprintf("%d diagnostics", ev.Diagnostics)
	}
	return out
}

// TestEvent converts the result of one unittest module.
func TestEvent(res testrun.Result) Event {
	out := Event{Path: res.Module.Path, Status: StatusClean}
	switch {
	case res.Err != nil:
		out.Status = StatusFailed
	case res.Cached:
		out.Status = StatusCached
	default:
		out.Detail = res.Duration.Round(time.Millisecond).String()
	}
	return out
}

type progressModel struct {
	title   string
	events  <-chan Event
	spinner spinner.Model
	prog    progress.Model
	items   []fileItem
	index   map[string]int
	settled int
	width   int
	done    bool
}

type fileItem struct {
	path   string
	status Status
	detail string
}

type eventMsg Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that lists files and moves
// each to its final status as events arrive. Closing events ends the
// program.
func NewProgressModel(title string, files []string, events <-chan Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]fileItem, 0, len(files))
	index := make(map[string]int, len(files))
	for i, file := range files {
		items = append(items, fileItem{path: file})
		index[file] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		// прогон не прерывается, только UI
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case progress.FrameMsg:
		progressModel, cmd := m.prog.Update(msg)
		m.prog = progressModel.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := fmt.Sprintf("%s (%d/%d)", m.title, m.settled, len(m.items))
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 8
	nameWidth := max(m.width-statusWidth-4, 20)
	for _, item := range m.items {
		name := item.path
		if item.detail != "" {
			name += "  " + item.detail
		}
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%8s", item.status))
		fmt.Fprintf(&b, "  %s %s\n", statusStyled, truncate(name, nameWidth))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev Event) tea.Cmd {
	idx, ok := m.index[ev.Path]
	if !ok {
		return nil
	}
	if m.items[idx].status == StatusQueued && ev.Status != StatusQueued {
		m.settled++
	}
	m.items[idx].status = ev.Status
	m.items[idx].detail = ev.Detail
	return m.prog.SetPercent(float64(m.settled) / float64(len(m.items)))
}

func styleStatus(status Status) lipgloss.Style {
	switch status {
	case StatusClean:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case StatusFailed:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case StatusIssues:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	case StatusCached:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
