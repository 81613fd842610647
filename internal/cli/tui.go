package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/pkoster/tangle/pkg/graph"
)

var (
	tuiCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	tuiDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// tuiCommand creates the tui command.
func (c *CLI) tuiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse the graph interactively",
		Long: `Browse the graph in an interactive tree view. Toggling checked or
archived state marks the session dirty; the graph is saved on quit when
anything changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openGraph()
			if err != nil {
				return err
			}
			changed, err := c.runTUI(s.graph)
			if err != nil {
				return err
			}
			if !changed {
				return nil
			}
			if err := s.save(); err != nil {
				return err
			}
			printSuccess("Saved %s", s.path)
			return nil
		},
	}
}

// runTUI opens the interactive browser over g and reports whether the graph
// was mutated.
func (c *CLI) runTUI(g *graph.Graph) (bool, error) {
	m := newBrowseModel(g, c.aggregateOptions())
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return false, fmt.Errorf("run tui: %w", err)
	}
	out, ok := final.(browseModel)
	if !ok {
		return false, nil
	}
	return out.changed, nil
}

// =============================================================================
// browseModel - Interactive graph browsing
// =============================================================================

// browseRow is one visible line: a traversal visit with its render prefix.
type browseRow struct {
	visit  graph.Visit
	prefix string
}

// browseModel is the bubbletea model for the graph browser.
type browseModel struct {
	graph *graph.Graph
	agg   graph.AggregateOptions

	rows         []browseRow
	cursor       int
	offset       int
	height       int
	showArchived bool
	changed      bool
}

func newBrowseModel(g *graph.Graph, agg graph.AggregateOptions) browseModel {
	m := browseModel{graph: g, agg: agg, height: 20}
	m.reload()
	return m
}

// reload rebuilds the visible rows from the traversal feed.
func (m *browseModel) reload() {
	m.rows = m.rows[:0]
	var open []bool
	m.graph.WalkRoots(graph.WalkOptions{ShowArchived: m.showArchived}, func(v graph.Visit) bool {
		if len(open) <= v.Depth {
			open = append(open, make([]bool, v.Depth+1-len(open))...)
		}
		open = open[:v.Depth+1]
		open[v.Depth] = !v.LastSibling

		var b strings.Builder
		for _, o := range open[:v.Depth] {
			if o {
				b.WriteString(glyphPipe)
			} else {
				b.WriteString(glyphBlank)
			}
		}
		if v.MultiParent {
			b.WriteString(glyphMultiBranch)
		} else {
			b.WriteString(glyphBranch)
		}
		m.rows = append(m.rows, browseRow{visit: v, prefix: b.String()})
		return true
	})
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case " ", "x":
			if row, ok := m.current(); ok {
				n, err := m.graph.Node(row.visit.ID)
				if err == nil {
					m.graph.SetChecked(n.ID, !n.Checked)
					m.changed = true
				}
			}
		case "a":
			if row, ok := m.current(); ok {
				n, err := m.graph.Node(row.visit.ID)
				if err == nil {
					m.graph.SetArchived(n.ID, !n.Archived)
					m.changed = true
					m.reload()
				}
			}
		case "A":
			m.showArchived = !m.showArchived
			m.reload()
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 4
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m browseModel) current() (browseRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return browseRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("tangle"))
	b.WriteString("  ")
	b.WriteString(tuiDimStyle.Render("↑/↓ navigate  ␣ toggle  a archive  A show archived  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(tuiDimStyle.Render("  graph is empty"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		row := m.rows[i]
		n, err := m.graph.Node(row.visit.ID)
		if err != nil {
			continue
		}
		state, _ := m.graph.StateWith(n.ID, m.agg)

		line := row.prefix + stateIcon(n.Kind, state) + " " + n.Message
		if n.Kind == graph.KindDate {
			line += " " + StyleDate.Render(n.Date)
		}
		if n.Alias != "" {
			line += " " + StyleAlias.Render("("+n.Alias+")")
		}
		if row.visit.CycleRef {
			line += " " + tuiDimStyle.Render("(cycle)")
		}
		if n.Archived {
			line = tuiDimStyle.Render(line)
		}

		if i == m.cursor {
			b.WriteString(tuiCursorStyle.Render("▸ "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
