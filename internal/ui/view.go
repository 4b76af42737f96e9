package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/taskdeck/internal/output"
	"github.com/five82/taskdeck/internal/todos"
)

// renderMain lays out header, task list, form and status bar.
func (m Model) renderMain() string {
	header := m.renderHeader()
	status := m.renderStatus()
	footer := m.renderFooter()

	var extras []string
	if m.adding {
		extras = append(extras, m.renderForm())
	}
	if m.alert != "" {
		extras = append(extras, m.renderAlert())
	}

	used := lipgloss.Height(header) + lipgloss.Height(status) + lipgloss.Height(footer)
	for _, e := range extras {
		used += lipgloss.Height(e)
	}
	listHeight := max(m.height-used, 1)

	parts := []string{header, m.renderTasks(listHeight)}
	parts = append(parts, extras...)
	parts = append(parts, status, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderHeader() string {
	styles := m.theme.Styles()

	done := 0
	for _, t := range m.snapshot.Tasks {
		if t.IsCompleted {
			done++
		}
	}

	left := styles.Logo.Render("taskdeck")
	if m.apiURL != "" {
		left += "  " + styles.FaintText.Render(m.apiURL)
	}
	right := styles.MutedText.Render(fmt.Sprintf("%s · %d done", pluralize(len(m.snapshot.Tasks), "task"), done))
	if m.snapshot.Loading {
		right = m.spinner.View() + " " + right
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return styles.Header.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderTasks draws at most height rows, scrolled so the selection is visible.
func (m Model) renderTasks(height int) string {
	styles := m.theme.Styles()
	tasks := m.snapshot.Tasks

	if len(tasks) == 0 {
		msg := "No tasks yet. Press a to add one."
		if m.snapshot.Loading {
			msg = "Loading tasks..."
		}
		body := styles.FaintText.Render(msg)
		return lipgloss.NewStyle().Height(height).Padding(1, 2).Render(body)
	}

	rowsPer := 2
	if m.compact {
		rowsPer = 1
	}
	visible := max(height/rowsPer, 1)
	start := 0
	if m.selected >= visible {
		start = m.selected - visible + 1
	}
	end := min(start+visible, len(tasks))

	lines := make([]string, 0, (end-start)*rowsPer)
	for i := start; i < end; i++ {
		lines = append(lines, m.renderTaskRow(tasks[i], i == m.selected)...)
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(lines, "\n"))
}

func (m Model) renderTaskRow(task todos.Task, selected bool) []string {
	styles := m.theme.Styles()

	cursor := "  "
	if selected {
		cursor = "> "
	}

	box := styles.Open.Render(output.Checkbox(task.IsCompleted))
	if task.IsCompleted {
		box = styles.Done.Render(output.Checkbox(true))
	}

	titleWidth := max(m.width-12, 10)
	title := truncate(task.Title, titleWidth)
	if task.IsCompleted {
		title = styles.DoneTitle.Render(title)
	} else {
		title = styles.Text.Render(title)
	}

	line := cursor + box + " " + title
	if selected {
		line = styles.Selected.Width(m.width).Render(padRight(cursor+output.Checkbox(task.IsCompleted)+" "+truncate(task.Title, titleWidth), m.width))
	}

	lines := []string{line}
	if !m.compact {
		desc := truncate(task.Description, titleWidth)
		lines = append(lines, "      "+styles.FaintText.Render(desc))
	}
	return lines
}

func (m Model) renderForm() string {
	styles := m.theme.Styles()
	body := m.input.View()
	if m.submitting {
		body += "  " + m.spinner.View() + styles.MutedText.Render(" adding")
	}
	return styles.Panel.Width(max(m.width-2, 10)).Render(body)
}

func (m Model) renderAlert() string {
	styles := m.theme.Styles()
	text := m.alert + "  (press any key)"
	return styles.Alert.Width(m.width).Render(text)
}

// renderStatus shows the last error, or when the list was last fetched from
// the backend. Local edits do not count.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	if m.snapshot.HasError() {
		return styles.DangerText.Padding(0, 1).Render(m.snapshot.LastError)
	}
	if m.snapshot.LastSynced.IsZero() {
		return styles.FaintText.Padding(0, 1).Render("Not synced yet")
	}
	return styles.FaintText.Padding(0, 1).Render("Synced " + m.snapshot.LastSynced.Format("15:04:05"))
}

func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.adding {
		return styles.Footer.Width(m.width).Render(m.help.View(formKeys{m.keys}))
	}
	return styles.Footer.Width(m.width).Render(m.help.View(m.keys))
}
