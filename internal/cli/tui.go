package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ccong2/austin-open-data/pkg/catalog"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// recordListModel is the bubbletea model for the interactive record
// browser. It shows a scrolling table of records and a detail pane for the
// record under the cursor.
type recordListModel struct {
	records    []catalog.Record
	cursor     int
	height     int
	offset     int
	showDetail bool
}

func newRecordListModel(records []catalog.Record) recordListModel {
	return recordListModel{
		records: records,
		height:  15,
	}
}

func (m recordListModel) Init() tea.Cmd {
	return nil
}

func (m recordListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.showDetail {
				m.showDetail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.records)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			m.showDetail = !m.showDetail
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m recordListModel) View() string {
	if m.showDetail {
		return m.detailView()
	}
	return m.listView()
}

func (m recordListModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Catalog Records"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.records) {
		end = len(m.records)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		r := m.records[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		category := "—"
		if r.Category != nil {
			category = *r.Category
		}

		downloads := "—"
		if r.DownloadCount != nil {
			downloads = fmt.Sprintf("%d", *r.DownloadCount)
		}

		rows = append(rows, []string{cursor, clip(r.Name, 44), category, r.ResourceType, downloads})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Name", "Category", "Type", "Downloads").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			return StyleValue
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.records))))

	return b.String()
}

func (m recordListModel) detailView() string {
	r := m.records[m.cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(r.Name))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("⏎/esc back  q quit"))
	b.WriteString("\n\n")

	writeField := func(key, value string) {
		keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(14)
		b.WriteString(keyStyle.Render(key) + " " + StyleValue.Render(value) + "\n")
	}

	category := "—"
	if r.Category != nil {
		category = *r.Category
	}
	writeField("Category", category)
	writeField("Type", r.ResourceType)
	writeField("Tags", tagList(r.Tags))
	writeField("Downloads", counter(r.DownloadCount))
	writeField("Views (week)", counter(r.PageviewsLastWeek))
	writeField("Views (month)", counter(r.PageviewsLastMonth))
	writeField("Views (total)", counter(r.PageviewsTotal))
	if !r.LastUpdated.IsZero() {
		writeField("Updated", formatRelativeTime(r.LastUpdated))
	} else {
		writeField("Updated", "—")
	}

	return b.String()
}

func tagList(tags []string) string {
	if len(tags) == 0 {
		return "—"
	}
	return strings.Join(tags, ", ")
}

func counter(v *int64) string {
	if v == nil {
		return "—"
	}
	return fmt.Sprintf("%d", *v)
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
