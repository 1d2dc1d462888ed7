package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mfigueroa/sitework/internal/cli/formatter"
	"github.com/mfigueroa/sitework/internal/contract"
	"github.com/mfigueroa/sitework/internal/domain"
)

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board ID",
		Short: "Interactive progress board for a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !app.IsInteractive() {
				// Degrade to the static report when stdin is not a terminal.
				report, err := app.Progress.Report(ctx, p.ID)
				if err != nil {
					return err
				}
				fmt.Printf("%s\n", formatter.FormatProgressReport(report))
				return nil
			}

			m := newBoardModel(app, p)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}
}

// boardRow is one flattened plan node with its tree depth precomputed.
type boardRow struct {
	contract.ProgressRow
	depth       int
	hasChildren bool
}

type boardLoadedMsg struct {
	report *contract.ProgressReport
	err    error
}

// boardModel renders a project's plan tree with live progress bars.
// Non-leaf rows can be collapsed to hide their subtrees.
type boardModel struct {
	app     *App
	project *domain.Project

	report    *contract.ProgressReport
	rows      []boardRow
	cursor    int
	collapsed map[string]bool
	loading   bool
	err       error
	width     int
	height    int
	quitting  bool
}

func newBoardModel(app *App, project *domain.Project) boardModel {
	return boardModel{
		app:       app,
		project:   project,
		loading:   true,
		collapsed: make(map[string]bool),
	}
}

func (m boardModel) keyBindings() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "collapse")),
		key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	}
}

func (m boardModel) Init() tea.Cmd {
	return m.loadReport()
}

func (m boardModel) loadReport() tea.Cmd {
	app := m.app
	projectID := m.project.ID
	return func() tea.Msg {
		report, err := app.Progress.Report(context.Background(), projectID)
		return boardLoadedMsg{report: report, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case boardLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.report = msg.report
		m.rows = flattenBoardRows(msg.report.Rows)
		if m.cursor >= len(m.rows) {
			m.cursor = len(m.rows) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quitting = true
			return m, tea.Quit
		}
		visible := m.visibleRows()
		switch msg.String() {
		case "q":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(visible)-1 {
				m.cursor++
			}
		case "enter":
			if m.cursor < len(visible) {
				row := visible[m.cursor]
				if row.hasChildren {
					m.collapsed[row.ID] = !m.collapsed[row.ID]
				}
			}
		case "r":
			m.loading = true
			return m, m.loadReport()
		}
	}
	return m, nil
}

func (m boardModel) visibleRows() []boardRow {
	var visible []boardRow
	collapsedDepth := -1
	for _, r := range m.rows {
		if collapsedDepth >= 0 {
			if r.depth > collapsedDepth {
				continue
			}
			collapsedDepth = -1
		}
		if r.hasChildren && m.collapsed[r.ID] {
			collapsedDepth = r.depth
		}
		visible = append(visible, r)
	}
	return visible
}

func (m boardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n  ")
	b.WriteString(formatter.StyleHeader.Render(strings.ToUpper(m.project.Name)))
	b.WriteString(" " + formatter.Dim("["+m.project.ShortID+"]"))
	if m.report != nil {
		b.WriteString("  " + formatter.StatusBadge(m.report.ProjectStatus))
		b.WriteString("\n  " + formatter.RenderProgress(m.report.Overall, 30))
	}
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("  " + formatter.Dim("Loading progress...") + "\n")
	case m.err != nil:
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case len(m.rows) == 0:
		b.WriteString("  " + formatter.Dim("This project has no plan yet.") + "\n")
	default:
		visible := m.visibleRows()
		for i, row := range visible {
			b.WriteString(m.renderRow(row, i == m.cursor))
			b.WriteByte('\n')
		}
	}

	b.WriteString("\n" + m.renderHints())
	return b.String()
}

func (m boardModel) renderRow(row boardRow, isCursor bool) string {
	cursor := "  "
	if isCursor {
		cursor = formatter.StyleGreen.Render("▸ ")
	}

	indent := strings.Repeat("  ", row.depth)

	indicator := "  "
	if row.hasChildren {
		indicator = formatter.Dim("▾ ")
		if m.collapsed[row.ID] {
			indicator = formatter.Dim("▸ ")
		}
	}

	name := row.Name
	if row.depth == 0 {
		name = formatter.StyleBold.Render(name)
	}

	statusIcon := " "
	switch row.Status {
	case string(domain.ActivityCompleted):
		statusIcon = formatter.StyleGreen.Render("✔")
	case string(domain.ActivityInProgress):
		statusIcon = formatter.StyleYellowBold.Render("▶")
	}

	line := fmt.Sprintf("  %s%s%s%s %s  %s",
		cursor, indent, indicator, statusIcon, name, formatter.RenderProgress(row.Progress, 12))

	if row.PlannedStart != nil && row.PlannedEnd != nil {
		line += "  " + formatter.Dim(fmt.Sprintf("(%s → %s)",
			row.PlannedStart.Format("Jan 02"), row.PlannedEnd.Format("Jan 02")))
	}
	return line
}

func (m boardModel) renderHints() string {
	var hints []string
	for _, b := range m.keyBindings() {
		hints = append(hints, formatter.Dim(b.Help().Key+": "+b.Help().Desc))
	}
	return "  " + strings.Join(hints, "  ")
}

// flattenBoardRows computes tree depth and child flags for report rows,
// which arrive in pre-order.
func flattenBoardRows(rows []contract.ProgressRow) []boardRow {
	depths := make(map[string]int, len(rows))
	hasChildren := make(map[string]bool, len(rows))
	for _, r := range rows {
		d := 0
		if r.ParentID != nil {
			d = depths[*r.ParentID] + 1
			hasChildren[*r.ParentID] = true
		}
		depths[r.ID] = d
	}

	out := make([]boardRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, boardRow{
			ProgressRow: r,
			depth:       depths[r.ID],
			hasChildren: hasChildren[r.ID],
		})
	}
	return out
}
