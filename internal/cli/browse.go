package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depwalk/pkg/errors"
	"github.com/matzehuels/depwalk/pkg/graph"
	pkgio "github.com/matzehuels/depwalk/pkg/io"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command, an interactive walk through an
// exported graph.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse [graph.json]",
		Short: "Interactively browse an exported dependency graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewGraphModel(g), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// GraphModel - Interactive graph navigation
// =============================================================================

// GraphModel is the bubbletea model for browsing a graph one package at a
// time. The focused package's children are listed; enter descends into the
// selected child and backspace returns to the previous package.
type GraphModel struct {
	Graph  *graph.Graph
	Focus  string   // package whose children are listed
	Trail  []string // packages entered before Focus
	Cursor int
	Height int
	Offset int
}

// NewGraphModel creates a model focused on the graph's root.
func NewGraphModel(g *graph.Graph) GraphModel {
	return GraphModel{Graph: g, Focus: g.Root, Height: 15}
}

func (m GraphModel) Init() tea.Cmd {
	return nil
}

func (m GraphModel) children() []string {
	return m.Graph.Children(m.Focus)
}

func (m GraphModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.children())-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter", "right", "l":
			kids := m.children()
			if len(kids) == 0 {
				return m, nil
			}
			m.Trail = append(m.Trail, m.Focus)
			m.Focus = kids[m.Cursor]
			m.Cursor, m.Offset = 0, 0
		case "backspace", "left", "h":
			if len(m.Trail) == 0 {
				return m, nil
			}
			prev := m.Focus
			m.Focus = m.Trail[len(m.Trail)-1]
			m.Trail = m.Trail[:len(m.Trail)-1]
			m.Cursor, m.Offset = 0, 0
			for i, name := range m.children() {
				if name == prev {
					m.Cursor = i
					if m.Cursor >= m.Height {
						m.Offset = m.Cursor - m.Height + 1
					}
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GraphModel) View() string {
	var b strings.Builder

	n, _ := m.Graph.Node(m.Focus)
	b.WriteString(StyleTitle.Render(strings.Join(append(append([]string{}, m.Trail...), m.Focus), " › ")))
	b.WriteString("\n")
	if n != nil {
		b.WriteString(describeNode(m.Graph, n))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ open  ⌫ back  q quit"))
	b.WriteString("\n\n")

	kids := m.children()
	if len(kids) == 0 {
		b.WriteString(listDimStyle.Render("  no dependencies followed"))
		return b.String()
	}

	end := min(m.Offset+m.Height, len(kids))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		child, _ := m.Graph.Node(kids[i])
		rows = append(rows, []string{cursor, child.Name(), child.Version, fmt.Sprint(child.Depth), child.State.String()})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Package", "Version", "Depth", "State").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(kids) {
				return lipgloss.NewStyle()
			}
			if col == 4 {
				child, _ := m.Graph.Node(kids[idx])
				return stateStyles[child.State]
			}
			if idx == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(kids))))

	return b.String()
}

func describeNode(g *graph.Graph, n *graph.Node) string {
	parts := []string{stateStyles[n.State].Render(n.State.String())}
	if n.Version != "" {
		parts = append(parts, "version "+StyleValue.Render(n.Version))
	}
	parts = append(parts,
		fmt.Sprintf("depth %d", n.Depth),
		fmt.Sprintf("%d declared", len(n.Declarations)),
		fmt.Sprintf("%d dependents", len(g.Parents(n.Name()))),
	)
	line := strings.Join(parts, listDimStyle.Render(" · "))
	if n.Err != nil {
		line += "\n" + StyleError.Render(errors.UserMessage(n.Err))
	}
	return line
}
