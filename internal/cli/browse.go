package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stackflame/pkg/pipeline"
	"github.com/matzehuels/stackflame/pkg/render/nodelink"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "browse [files...]",
		Short: "Browse the hottest functions interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), args, reverse)
		},
	}
	cmd.Flags().BoolVar(&reverse, "reverse", false, "merge stacks leaf first")
	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, files []string, reverse bool) error {
	tree, err := c.mergeInputs(ctx, files, pipeline.Options{Reverse: reverse})
	if err != nil {
		return err
	}
	g := nodelink.Build(tree, nodelink.Options{})
	_, err = tea.NewProgram(newHotListModel(g), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// hotListModel - functions ranked by self samples
// =============================================================================

type sortKey int

const (
	sortBySelf sortKey = iota
	sortByTotal
)

// hotListModel is the bubbletea model for the browse command.
type hotListModel struct {
	graph  *nodelink.Graph
	funcs  []nodelink.Func
	sortBy sortKey
	cursor int
	offset int
	height int
}

func newHotListModel(g *nodelink.Graph) hotListModel {
	m := hotListModel{graph: g, height: 15}
	m.funcs = slices.Clone(g.Funcs)
	m.sort()
	return m
}

func (m *hotListModel) sort() {
	slices.SortStableFunc(m.funcs, func(a, b nodelink.Func) int {
		if m.sortBy == sortByTotal {
			return cmp.Or(cmp.Compare(b.Total, a.Total), cmp.Compare(a.Name, b.Name))
		}
		return cmp.Or(cmp.Compare(b.Self, a.Self), cmp.Compare(a.Name, b.Name))
	})
}

func (m hotListModel) Init() tea.Cmd {
	return nil
}

func (m hotListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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
			if m.cursor < len(m.funcs)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "s":
			m.sortBy = 1 - m.sortBy
			m.sort()
			m.cursor, m.offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m hotListModel) share(v float64) string {
	if m.graph.Total <= 0 {
		return "0.00%"
	}
	return fmt.Sprintf("%.2f%%", 100*v/m.graph.Total)
}

func (m hotListModel) View() string {
	var b strings.Builder

	order := "self"
	if m.sortBy == sortByTotal {
		order = "total"
	}
	b.WriteString(StyleTitle.Render("Hot Functions"))
	b.WriteString(listDimStyle.Render(" by " + order))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  s sort  q quit"))
	b.WriteString("\n\n")

	if len(m.funcs) == 0 {
		b.WriteString(listDimStyle.Render("  no functions"))
		return b.String()
	}

	end := min(m.offset+m.height, len(m.funcs))
	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		f := m.funcs[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, m.share(f.Self), m.share(f.Total), f.Name})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Self", "Total", "Function").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			if col == 1 || col == 2 {
				return listDimStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(m.detail(m.funcs[m.cursor].Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.funcs))))
	return b.String()
}

// detail lists the heaviest callers and callees of name.
func (m hotListModel) detail(name string) string {
	var callers, callees []nodelink.Call
	for _, c := range m.graph.Calls {
		if c.To == name {
			callers = append(callers, c)
		}
		if c.From == name {
			callees = append(callees, c)
		}
	}
	byWeight := func(a, b nodelink.Call) int { return cmp.Compare(b.Weight, a.Weight) }
	slices.SortStableFunc(callers, byWeight)
	slices.SortStableFunc(callees, byWeight)

	line := func(label string, calls []nodelink.Call, pick func(nodelink.Call) string) string {
		if len(calls) == 0 {
			return "  " + listDimStyle.Render(label+" none")
		}
		parts := make([]string, 0, 3)
		for _, c := range calls[:min(len(calls), 3)] {
			parts = append(parts, fmt.Sprintf("%s (%s)", pick(c), m.share(c.Weight)))
		}
		return "  " + listDimStyle.Render(label) + " " + listNormalStyle.Render(strings.Join(parts, ", "))
	}
	return line("called by", callers, func(c nodelink.Call) string { return c.From }) + "\n" +
		line("calls    ", callees, func(c nodelink.Call) string { return c.To })
}
