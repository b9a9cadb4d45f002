package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/kinforge/kinforge/pkg/familytree"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command for the interactive person list.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the active tree interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := c.openSession(cmd.Context())
			if err != nil {
				return err
			}
			t, err := s.current()
			if err != nil {
				return err
			}
			if len(t.Graph.People) == 0 {
				printInfo("Tree %s is empty", t.Name)
				printNextStep("Add a person", appName+" add <first-name>")
				return nil
			}

			model := NewPersonListModel(t.Name, t.Graph)
			final, err := tea.NewProgram(model).Run()
			if err != nil {
				return err
			}
			if m, ok := final.(PersonListModel); ok && m.Selected != nil {
				printNewline()
				showPerson(t.Graph, *m.Selected)
			}
			return nil
		},
	}
}

// =============================================================================
// PersonListModel - Interactive person browsing
// =============================================================================

// PersonListModel is the bubbletea model for browsing the people of a tree.
type PersonListModel struct {
	TreeName string
	Graph    familytree.TreeGraph
	IDs      []string // sorted person ids, the display order
	Cursor   int
	Selected *familytree.Person
	Height   int
	Offset   int
}

// NewPersonListModel creates a new person list model over the graph.
func NewPersonListModel(treeName string, g familytree.TreeGraph) PersonListModel {
	return PersonListModel{
		TreeName: treeName,
		Graph:    g,
		IDs:      g.SortedIDs(),
		Height:   15,
	}
}

func (m PersonListModel) Init() tea.Cmd {
	return nil
}

func (m PersonListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.Cursor < len(m.IDs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if p, ok := m.Graph.Person(m.IDs[m.Cursor]); ok {
				m.Selected = &p
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m PersonListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Browse " + m.TreeName))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.IDs) {
		end = len(m.IDs)
	}

	rootID := ""
	if m.Graph.RootPersonID != nil {
		rootID = *m.Graph.RootPersonID
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p, _ := m.Graph.Person(m.IDs[i])

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		root := ""
		if p.ID == rootID {
			root = "●"
		}

		name := p.DisplayName()
		if name == "" {
			name = p.ID
		}

		partners := make([]string, 0, len(p.Partnerships))
		for _, sp := range p.Partnerships {
			if other, ok := m.Graph.Person(sp.SpouseID); ok {
				partners = append(partners, other.DisplayName())
			}
		}
		partnerStr := "—"
		if len(partners) > 0 {
			partnerStr = strings.Join(partners, ", ")
		}

		span := lifespanText(p)
		if span == "" {
			span = "—"
		}

		rows = append(rows, []string{cursor, name, span, root, partnerStr,
			fmt.Sprintf("%d", len(p.Children))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Lifespan", "Root", "Partners", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			if col == 2 || col == 4 {
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.IDs))))

	return b.String()
}
