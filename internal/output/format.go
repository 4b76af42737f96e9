// Package output renders tasks for the command line.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/five82/taskdeck/internal/todos"
)

// Format selects how tasks are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat accepts table, json or yaml (case-insensitive). Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatTable, nil
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// WriteTasks writes tasks in the given format. An empty list still produces
// valid JSON/YAML (an empty array).
func WriteTasks(w io.Writer, f Format, tasks []todos.Task) error {
	if tasks == nil {
		tasks = []todos.Task{}
	}
	switch f {
	case FormatJSON:
		return writeJSON(w, tasks)
	case FormatYAML:
		return writeYAML(w, tasks)
	default:
		if len(tasks) == 0 {
			_, err := fmt.Fprintln(w, "No tasks.")
			return err
		}
		_, err := fmt.Fprintln(w, taskTable(tasks).Render())
		return err
	}
}

// WriteTask writes a single task in the given format.
func WriteTask(w io.Writer, f Format, task todos.Task) error {
	switch f {
	case FormatJSON:
		return writeJSON(w, task)
	case FormatYAML:
		return writeYAML(w, task)
	default:
		_, err := fmt.Fprintln(w, taskTable([]todos.Task{task}).Render())
		return err
	}
}

// Checkbox renders the completion marker used across the CLI and TUI.
func Checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func taskTable(tasks []todos.Task) *table.Table {
	header := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "DONE", "TITLE", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})
	for _, task := range tasks {
		t.Row(strconv.FormatInt(task.ID, 10), Checkbox(task.IsCompleted), task.Title, task.Description)
	}
	return t
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}
