package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/graphscape/graphscape/pkg/layout"
)

// Progress bar styles
var (
	progressFillStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	progressEmptyStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// progressBarWidth is the character width of the rendered bar.
const progressBarWidth = 30

// =============================================================================
// progressUI - Live simulation progress
// =============================================================================

// progressUI renders live simulation progress for the layout command.
// OnProgress is safe to call from the simulation goroutine; updates that
// arrive while the terminal is busy are coalesced by bubbletea.
type progressUI struct {
	program *tea.Program
	done    chan struct{}
	once    sync.Once
}

// newProgressUI creates a progress UI. Call Start before the simulation and
// Stop after it returns.
func newProgressUI() *progressUI {
	return &progressUI{
		program: tea.NewProgram(progressModel{}, tea.WithOutput(os.Stderr)),
		done:    make(chan struct{}),
	}
}

// Start runs the UI event loop in a background goroutine.
func (ui *progressUI) Start() {
	go func() {
		defer close(ui.done)
		_, _ = ui.program.Run()
	}()
}

// Stop shuts the UI down and waits for the terminal to be restored.
// Safe to call more than once.
func (ui *progressUI) Stop() {
	ui.once.Do(func() {
		ui.program.Quit()
		<-ui.done
	})
}

// OnProgress forwards a simulation update to the UI. Updates sent after
// Stop are discarded.
func (ui *progressUI) OnProgress(p layout.Progress) {
	ui.program.Send(progressMsg(p))
}

// =============================================================================
// progressModel - bubbletea model
// =============================================================================

// progressMsg carries a simulation update into the event loop.
type progressMsg layout.Progress

// progressModel is the bubbletea model showing the current iteration,
// kinetic energy, and a completion bar.
type progressModel struct {
	latest layout.Progress
	seen   bool
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.latest = layout.Progress(msg)
		m.seen = true
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Simulating layout"))
	b.WriteString("\n\n")

	if !m.seen {
		b.WriteString(StyleDim.Render("  waiting for first update..."))
		b.WriteString("\n")
		return b.String()
	}

	filled := int(m.latest.Percent / 100 * progressBarWidth)
	if filled > progressBarWidth {
		filled = progressBarWidth
	}
	bar := progressFillStyle.Render(strings.Repeat("█", filled)) +
		progressEmptyStyle.Render(strings.Repeat("░", progressBarWidth-filled))

	b.WriteString(fmt.Sprintf("  %s %s\n", bar,
		StyleNumber.Render(fmt.Sprintf("%3.0f%%", m.latest.Percent))))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  iteration %d/%d · energy %.3f",
		m.latest.Iteration, m.latest.MaxIterations, m.latest.Energy)))
	b.WriteString("\n")

	return b.String()
}
