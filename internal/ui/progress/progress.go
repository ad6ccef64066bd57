package progress

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"stortally/pkg/storage"
)

// BucketMsg reports scan progress for a single bucket. It is sent both
// when a bucket scan starts and as its object count grows.
type BucketMsg struct {
	Provider string
	Bucket   string
	Index    int
	Total    int
	Objects  int64
	Bytes    int64
	Done     bool
}

// FinishedMsg terminates the progress display.
type FinishedMsg struct{}

var (
	bucketStyle = lipgloss.NewStyle().Bold(true)
	countStyle  = lipgloss.NewStyle().Faint(true)
)

// Model renders a spinner for the bucket currently being scanned and an
// overall progress bar across all buckets.
type Model struct {
	spinner  spinner.Model
	bar      progress.Model
	current  BucketMsg
	finished int
	quitting bool
}

func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		spinner: s,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BucketMsg:
		m.current = msg
		if msg.Done {
			m.finished++
		}
		return m, nil

	case FinishedMsg:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.current.Total == 0 {
		return m.spinner.View() + " Listing buckets...\n"
	}

	line := fmt.Sprintf("%s Scanning %s %s",
		m.spinner.View(),
		bucketStyle.Render(m.current.Bucket),
		countStyle.Render(fmt.Sprintf("(%d/%d, %s objects, %s)",
			m.current.Index,
			m.current.Total,
			storage.FormatCount(m.current.Objects),
			storage.FormatBytes(m.current.Bytes))))

	return line + "\n" + m.bar.ViewAs(float64(m.finished)/float64(m.current.Total)) + "\n"
}
