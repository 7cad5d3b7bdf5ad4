package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ProgressBar reports determinate progress, one step per deployed file.
type ProgressBar interface {
	Increment(label string)
	Done()
}

// Spinner reports indeterminate progress, e.g. while cloning a pack.
type Spinner interface {
	SetTitle(title string)
	Stop()
}

// Reporter creates progress components, falling back to plain log lines
// in headless or no-color mode.
type Reporter struct {
	theme    *Theme
	headless *HeadlessManager
	writer   io.Writer
}

// NewReporter creates a Reporter writing to os.Stdout.
func NewReporter(theme *Theme, hm *HeadlessManager) *Reporter {
	return &Reporter{theme: theme, headless: hm, writer: os.Stdout}
}

func newReporterTo(theme *Theme, hm *HeadlessManager, w io.Writer) *Reporter {
	return &Reporter{theme: theme, headless: hm, writer: w}
}

// Bar creates a determinate progress bar with the given total.
func (r *Reporter) Bar(title string, total int) ProgressBar {
	if r.headless.IsHeadless() || r.theme.NoColor {
		return &logBar{title: title, total: total, writer: r.writer}
	}
	return newTeaBar(r.theme, title, total)
}

// Spinner creates an indeterminate spinner.
func (r *Reporter) Spinner(title string) Spinner {
	if r.headless.IsHeadless() || r.theme.NoColor {
		s := &logSpinner{writer: r.writer}
		s.SetTitle(title)
		return s
	}
	return newTeaSpinner(r.theme, title)
}

// --- headless fallbacks ---

type logBar struct {
	title   string
	total   int
	current int
	writer  io.Writer
}

func (b *logBar) Increment(label string) {
	b.current++
	if b.current > b.total {
		b.current = b.total
	}
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.current, b.total, label)
}

func (b *logBar) Done() {
	_, _ = fmt.Fprintf(b.writer, "[%d/%d] %s\n", b.total, b.total, b.title)
}

type logSpinner struct {
	writer io.Writer
}

func (s *logSpinner) SetTitle(title string) {
	_, _ = fmt.Fprintln(s.writer, title)
}

func (s *logSpinner) Stop() {}

// --- animated spinner ---

type spinnerTitleMsg string

type spinnerStopMsg struct{}

type spinnerModel struct {
	spinner spinner.Model
	title   string
	done    bool
}

func newSpinnerModel(theme *Theme, title string) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot))
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Colors.Primary))
	return spinnerModel{spinner: s, title: title}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerTitleMsg:
		m.title = string(msg)
		return m, nil
	case spinnerStopMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return m.spinner.View() + " " + m.title + "\n"
}

type teaSpinner struct {
	program *tea.Program
	once    sync.Once
}

func newTeaSpinner(theme *Theme, title string) *teaSpinner {
	p := tea.NewProgram(newSpinnerModel(theme, title))
	go func() {
		_, _ = p.Run()
	}()
	return &teaSpinner{program: p}
}

func (s *teaSpinner) SetTitle(title string) {
	s.program.Send(spinnerTitleMsg(title))
}

func (s *teaSpinner) Stop() {
	s.once.Do(func() {
		s.program.Send(spinnerStopMsg{})
		s.program.Wait()
	})
}

// --- animated progress bar ---

type barIncrMsg string

type barDoneMsg struct{}

type barModel struct {
	bar     progress.Model
	label   string
	current int
	total   int
	done    bool
}

func newBarModel(theme *Theme, title string, total int) barModel {
	bar := progress.New(
		progress.WithGradient(theme.Colors.Primary, theme.Colors.Secondary),
		progress.WithWidth(40),
	)
	return barModel{bar: bar, label: title, total: total}
}

func (m barModel) Init() tea.Cmd {
	return nil
}

func (m barModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case barIncrMsg:
		m.current++
		if m.current > m.total {
			m.current = m.total
		}
		m.label = string(msg)
		return m, nil
	case barDoneMsg:
		m.current = m.total
		m.done = true
		return m, tea.Quit
	case progress.FrameMsg:
		pm, cmd := m.bar.Update(msg)
		m.bar = pm.(progress.Model)
		return m, cmd
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m barModel) View() string {
	if m.done {
		return ""
	}
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.current) / float64(m.total)
	}
	return m.bar.ViewAs(pct) + fmt.Sprintf(" [%d/%d] %s\n", m.current, m.total, m.label)
}

type teaBar struct {
	program *tea.Program
	once    sync.Once
}

func newTeaBar(theme *Theme, title string, total int) *teaBar {
	p := tea.NewProgram(newBarModel(theme, title, total))
	go func() {
		_, _ = p.Run()
	}()
	return &teaBar{program: p}
}

func (b *teaBar) Increment(label string) {
	b.program.Send(barIncrMsg(label))
}

func (b *teaBar) Done() {
	b.once.Do(func() {
		b.program.Send(barDoneMsg{})
		b.program.Wait()
	})
}
