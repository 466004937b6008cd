package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/viewgraph/viewgraph/pkg/graph"
	"github.com/viewgraph/viewgraph/pkg/pipeline"
	"github.com/viewgraph/viewgraph/pkg/viewgraph/order"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// traceCommand creates the trace command for replaying the selection loop.
func (c *CLI) traceCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "trace [graph.json]",
		Short: "Replay the greedy selection loop round by round",
		Long: `Replay the greedy selection loop round by round.

The trace command runs the ordering on the given measurement file and records
every selection round: which view was picked, whether it qualified as a source
or won on its out/in ratio, and the remaining weights at selection time. The
rounds are shown in an interactive terminal UI; use --plain to print them as a
table instead.

Tracing always recomputes the ordering; cached results carry no round data.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTrace(cmd.Context(), args[0], plain)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print rounds as a table instead of the interactive UI")

	return cmd
}

// runTrace executes the pipeline with a trace callback and presents the rounds.
func (c *CLI) runTrace(ctx context.Context, input string, plain bool) error {
	g, err := graph.ImportFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var events []order.TraceEvent
	opts := pipeline.Options{
		Logger: c.Logger,
		Trace: func(ev order.TraceEvent) {
			events = append(events, ev)
		},
	}

	result, err := runner.Execute(ctx, g, opts)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	if plain {
		fmt.Println(renderTraceTable(events, len(events)))
		return nil
	}

	model := NewTraceModel(input, events, result.Outliers.Total())
	if _, err := tea.NewProgram(model).Run(); err != nil {
		return fmt.Errorf("run trace UI: %w", err)
	}
	return nil
}

// TraceModel is the bubbletea model for stepping through selection rounds.
// The cursor marks the most recent round shown; rounds after it are hidden
// so the selection loop can be replayed one pick at a time.
type TraceModel struct {
	Input        string
	Events       []order.TraceEvent
	OutlierTotal float64
	Cursor       int
	Height       int
	Offset       int
}

// NewTraceModel creates a trace model starting at the first round.
func NewTraceModel(input string, events []order.TraceEvent, outlierTotal float64) TraceModel {
	return TraceModel{
		Input:        input,
		Events:       events,
		OutlierTotal: outlierTotal,
		Height:       15,
	}
}

func (m TraceModel) Init() tea.Cmd {
	return nil
}

func (m TraceModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k", "left", "h":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j", "right", "l", "enter", " ":
			if m.Cursor < len(m.Events)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "g", "home":
			m.Cursor = 0
			m.Offset = 0
		case "G", "end":
			m.Cursor = len(m.Events) - 1
			if m.Cursor >= m.Offset+m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m TraceModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Selection Rounds"))
	b.WriteString(" ")
	b.WriteString(listDimStyle.Render(m.Input))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ step  g/G first/last  q quit"))
	b.WriteString("\n\n")

	start := m.Offset
	end := m.Cursor + 1
	if end-start > m.Height {
		start = end - m.Height
	}
	b.WriteString(m.renderRows(start, end))

	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  round %d/%d · outlier weight %.3g",
		m.Cursor+1, len(m.Events), m.OutlierTotal)))

	return b.String()
}

// renderRows renders rounds [start, end) as a table, highlighting the cursor.
func (m TraceModel) renderRows(start, end int) string {
	rows := [][]string{}
	for i := start; i < end; i++ {
		rows = append(rows, traceRow(m.Events[i], i == m.Cursor))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Round", "View", "Pick", "Score", "In", "Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if start+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return t.Render()
}

// renderTraceTable renders the first n rounds as a plain table for --plain
// output and non-interactive use.
func renderTraceTable(events []order.TraceEvent, n int) string {
	rows := [][]string{}
	for i := 0; i < n && i < len(events); i++ {
		rows = append(rows, traceRow(events[i], false))
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "Round", "View", "Pick", "Score", "In", "Out").
		Rows(rows...).
		Render()
}

// traceRow formats one selection round as table cells.
func traceRow(ev order.TraceEvent, current bool) []string {
	cursor := "  "
	if current {
		cursor = "▸ "
	}

	pick := "ratio"
	score := fmt.Sprintf("%.3g", ev.Score)
	if ev.Source {
		pick = "source"
		score = "—"
	}

	return []string{
		cursor,
		fmt.Sprintf("%d", ev.Round),
		string(ev.Choice),
		pick,
		score,
		fmt.Sprintf("%.3g", ev.InWeight),
		fmt.Sprintf("%.3g", ev.OutWeight),
	}
}
