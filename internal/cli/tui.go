package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pow3r-build/constellation/pkg/engine"
	"github.com/pow3r-build/constellation/pkg/layout"
	"github.com/pow3r-build/constellation/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	chipActiveStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	chipStyle         = lipgloss.NewStyle().Foreground(colorGray)
)

// browseFilters is the chip cycle order: view modes first, then statuses.
var browseFilters = func() []string {
	chips := []string{"all", "repos", "nodes"}
	for _, s := range model.Statuses() {
		chips = append(chips, string(s))
	}
	return chips
}()

// browseModes is the transform mode cycle order.
var browseModes = []layout.Mode{
	layout.ModeFree3D,
	layout.ModeLocked2D,
	layout.ModeTimeline,
	layout.ModeQuantum,
}

// tickMsg drives the engine's animation clock while transitions are active.
type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(50*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// browseModel is the bubbletea model for the interactive graph browser.
type browseModel struct {
	engine *engine.Engine

	searching bool
	input     string

	cursor int
	offset int
	height int

	detail    *model.Detail
	statusMsg string
}

func newBrowseModel(eng *engine.Engine) browseModel {
	return browseModel{engine: eng, height: 15}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if m.engine.Tick(time.Time(msg)) {
			return m, tick()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m browseModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.searching = false
		m.input = ""
		m.engine.SetQuery("")
	case "enter":
		m.searching = false
		if err := m.engine.CommitQuery(context.Background()); err != nil {
			m.statusMsg = err.Error()
		}
	case "backspace":
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
			m.engine.SetQuery(m.input)
		}
	default:
		if msg.Type == tea.KeyRunes || msg.String() == " " {
			m.input += msg.String()
			m.engine.SetQuery(m.input)
		}
	}
	m.cursor = 0
	m.offset = 0
	return m, nil
}

func (m browseModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.detail = nil

	case "tab":
		m.cycleFilter()
		m.cursor = 0
		m.offset = 0

	case "m":
		m.cycleMode()
		return m, tick()

	case "c":
		if err := m.engine.SetCollapsed(!m.engine.Collapsed()); err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		return m, tick()

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			if m.cursor < m.offset {
				m.offset = m.cursor
			}
		}

	case "down", "j":
		if m.cursor < len(m.engine.Matches())-1 {
			m.cursor++
			if m.cursor >= m.offset+m.height {
				m.offset = m.cursor - m.height + 1
			}
		}

	case "enter":
		ids := m.engine.Matches()
		if m.cursor < len(ids) {
			d, err := m.engine.Describe(ids[m.cursor])
			if err != nil {
				m.statusMsg = err.Error()
			} else {
				m.detail = &d
			}
		}
	}
	return m, nil
}

func (m *browseModel) cycleFilter() {
	current := string(m.engine.Filter())
	next := browseFilters[0]
	for i, f := range browseFilters {
		if f == current {
			next = browseFilters[(i+1)%len(browseFilters)]
			break
		}
	}
	if err := m.engine.SetFilter(next); err != nil {
		m.statusMsg = err.Error()
	}
}

func (m *browseModel) cycleMode() {
	current := m.engine.Mode()
	next := browseModes[0]
	for i, mode := range browseModes {
		if mode == current {
			next = browseModes[(i+1)%len(browseModes)]
			break
		}
	}
	if err := m.engine.SetMode(string(next)); err != nil {
		m.statusMsg = err.Error()
	}
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Constellation"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("mode:%s", m.engine.Mode())))
	if m.engine.Collapsed() {
		b.WriteString(listDimStyle.Render("  collapsed"))
	}
	b.WriteString("\n")

	// Filter chips
	active := string(m.engine.Filter())
	var chips []string
	for _, f := range browseFilters {
		if f == active {
			chips = append(chips, chipActiveStyle.Render("["+f+"]"))
		} else {
			chips = append(chips, chipStyle.Render(f))
		}
	}
	b.WriteString(strings.Join(chips, " "))
	b.WriteString("\n")

	// Query line
	if m.searching {
		b.WriteString(StyleHighlight.Render("search: ") + m.input + "█")
	} else if q := m.engine.Query(); q != "" {
		b.WriteString(StyleDim.Render("search: ") + q)
	} else {
		b.WriteString(StyleDim.Render("press / to search"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewList())

	if m.detail != nil {
		b.WriteString("\n")
		b.WriteString(m.viewDetail())
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(StyleWarning.Render(m.statusMsg))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("/ search  tab filter  m mode  c collapse  ⏎ details  q quit"))
	return b.String()
}

func (m browseModel) viewList() string {
	ids := m.engine.Matches()
	if len(ids) == 0 {
		return listDimStyle.Render("no matching nodes")
	}

	end := m.offset + m.height
	if end > len(ids) {
		end = len(ids)
	}

	var b strings.Builder
	for i := m.offset; i < end; i++ {
		d, err := m.engine.Describe(ids[i])
		if err != nil {
			continue
		}

		cursor := "  "
		line := fmt.Sprintf("%-30s %-12s %s", d.Name, d.Type, renderStatus(d.Status))
		if i == m.cursor {
			cursor = "▸ "
			line = listSelectedStyle.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d of %d nodes", end-m.offset, len(ids))))
	return b.String()
}

func (m browseModel) viewDetail() string {
	d := m.detail
	var b strings.Builder
	b.WriteString(StyleHighlight.Render(d.Name) + "\n")
	b.WriteString(fmt.Sprintf("  project   %s\n", d.Project))
	b.WriteString(fmt.Sprintf("  type      %s\n", d.Type))
	b.WriteString(fmt.Sprintf("  status    %s\n", renderStatus(d.Status)))
	b.WriteString(fmt.Sprintf("  progress  %d%%\n", d.Progress))
	b.WriteString(fmt.Sprintf("  quality   %.2f", d.Quality))
	return b.String()
}
