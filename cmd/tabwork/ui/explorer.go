package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tabwork/internal/frame"
	"tabwork/internal/session"
	"tabwork/internal/stats"
)

const sidebarWidth = 28

// Explorer is the interactive dataset browser: a dataset list on the left
// and a scrollable preview or describe table on the right.
type Explorer struct {
	sess   *session.Session
	styles Styles

	cursor    int
	showStats bool
	preview   viewport.Model
	width     int
	height    int
	ready     bool
	status    string
}

// NewExplorer creates an explorer over the given session.
func NewExplorer(sess *session.Session, styles Styles) *Explorer {
	return &Explorer{sess: sess, styles: styles}
}

// Init implements tea.Model.
func (e *Explorer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (e *Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width = msg.Width
		e.height = msg.Height
		contentHeight := msg.Height - 5 // header, divider, footer, pane border
		if contentHeight < 1 {
			contentHeight = 1
		}
		if !e.ready {
			e.preview = viewport.New(msg.Width-sidebarWidth-4, contentHeight)
			e.ready = true
		} else {
			e.preview.Width = msg.Width - sidebarWidth - 4
			e.preview.Height = contentHeight
		}
		e.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return e, tea.Quit
		case "up", "k":
			if e.cursor > 0 {
				e.cursor--
				e.refresh()
			}
		case "down", "j":
			if e.cursor < len(e.sess.Names())-1 {
				e.cursor++
				e.refresh()
			}
		case "s":
			e.showStats = !e.showStats
			e.refresh()
		case "r":
			stale := e.sess.CheckStale()
			if len(stale) == 0 {
				e.status = "all datasets up to date"
			} else {
				e.status = "stale: " + strings.Join(stale, ", ")
			}
			e.refresh()
		default:
			var cmd tea.Cmd
			e.preview, cmd = e.preview.Update(msg)
			return e, cmd
		}
	}
	return e, nil
}

// refresh rebuilds the preview pane for the selected dataset.
func (e *Explorer) refresh() {
	if !e.ready {
		return
	}
	names := e.sess.Names()
	if len(names) == 0 {
		e.preview.SetContent(e.styles.Muted.Render("No datasets loaded.\n\nLoad some with: tabwork load <file>"))
		return
	}
	if e.cursor >= len(names) {
		e.cursor = len(names) - 1
	}
	d, err := e.sess.Dataset(names[e.cursor])
	if err != nil {
		e.preview.SetContent(e.styles.Error.Render(err.Error()))
		return
	}
	if e.showStats {
		e.preview.SetContent(e.statsView(d))
		return
	}
	e.preview.SetContent(e.previewView(d))
}

func (e *Explorer) previewView(d session.Dataset) string {
	f := d.Frame
	indexName := f.IndexColumn()
	if indexName == "" {
		indexName = "#"
	}
	table := NewSimpleTable("", append([]string{indexName}, f.ColumnNames()...))
	limit := f.NumRows()
	if limit > 500 {
		limit = 500
	}
	for r := 0; r < limit; r++ {
		row := []string{f.Label(r)}
		for c := 0; c < f.NumCols(); c++ {
			row = append(row, frame.FormatCell(f.Cell(r, c)))
		}
		table.AddRow(row...)
	}
	out := table.View(e.styles)
	if f.NumRows() > limit {
		out += e.styles.Muted.Render(fmt.Sprintf("... %d of %d rows", limit, f.NumRows()))
	}
	return out
}

func (e *Explorer) statsView(d session.Dataset) string {
	desc, err := stats.Describe(d.Frame, nil)
	if err != nil {
		return e.styles.Error.Render(err.Error())
	}
	table := NewSimpleTable("describe", append([]string{"stat"}, columnNames(desc)...))
	for _, stat := range desc.StatNames() {
		row := []string{stat}
		for _, c := range desc.Columns {
			row = append(row, desc.Stat(c, stat))
		}
		table.AddRow(row...)
	}
	return table.View(e.styles)
}

func columnNames(desc *stats.Description) []string {
	names := make([]string, len(desc.Columns))
	for i, c := range desc.Columns {
		names[i] = c.Name
	}
	return names
}

// View implements tea.Model.
func (e *Explorer) View() string {
	if !e.ready {
		return "loading..."
	}

	header := e.styles.Header.Width(e.width).Render(
		fmt.Sprintf("tabwork  |  session: %s", e.sess.Name()))

	sidebar := e.sidebarView()
	pane := e.styles.Pane.Width(e.preview.Width).Height(e.preview.Height).Render(e.preview.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, pane)

	footer := "j/k: select  s: stats  r: check stale  q: quit"
	if e.status != "" {
		footer += "  |  " + e.status
	}
	return header + "\n" + body + "\n" +
		e.styles.RenderDivider(e.width) + "\n" +
		e.styles.Footer.Render(footer)
}

func (e *Explorer) sidebarView() string {
	var sb strings.Builder
	sb.WriteString(e.styles.Title.Render("datasets"))
	sb.WriteString("\n")

	names := e.sess.Names()
	if len(names) == 0 {
		sb.WriteString(e.styles.Muted.Render("(none)"))
	}
	for i, name := range names {
		d, err := e.sess.Dataset(name)
		if err != nil {
			continue
		}
		var line string
		if i == e.cursor {
			line = e.styles.Selected.Render("> " + name)
		} else {
			line = e.styles.Body.Render("  " + name)
		}
		sb.WriteString(line)
		if d.Stale {
			sb.WriteString(" " + e.styles.Badge.Render("stale"))
		}
		sb.WriteString("\n")
		sb.WriteString(e.styles.Muted.Render(fmt.Sprintf("    %d x %d", d.Frame.NumRows(), d.Frame.NumCols())))
		sb.WriteString("\n")
	}
	return lipgloss.NewStyle().Width(sidebarWidth).Render(sb.String())
}
