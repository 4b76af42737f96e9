package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Options controls which lines Read returns.
type Options struct {
	// MaxLines caps the result to the newest lines. Zero or less means all.
	MaxLines int
	// MinLevel drops records below this level. Lines without a level=
	// attribute are always kept.
	MinLevel slog.Level
}

// Read returns the newest lines of the log file at path that pass opts.
// A missing file yields no lines and no error.
func Read(path string, opts Options) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !keep(line, opts.MinLevel) {
			continue
		}
		lines = append(lines, line)
		// Trim in batches so a long file stays bounded without shifting every line.
		if opts.MaxLines > 0 && len(lines) >= 2*opts.MaxLines {
			lines = append(lines[:0], lines[len(lines)-opts.MaxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		lines = lines[len(lines)-opts.MaxLines:]
	}
	return lines, nil
}

func keep(line string, min slog.Level) bool {
	level, ok := LineLevel(line)
	return !ok || level >= min
}

// LineLevel extracts the level from a line written by slog's text handler.
func LineLevel(line string) (slog.Level, bool) {
	for _, field := range strings.Fields(line) {
		value, found := strings.CutPrefix(field, "level=")
		if !found {
			continue
		}
		var level slog.Level
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return 0, false
		}
		return level, true
	}
	return 0, false
}

var (
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#5FD75F")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	timeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// ColorizeLine highlights the time= and level= fields of a slog text line.
// Other lines are returned unchanged.
func ColorizeLine(line string) string {
	level, ok := LineLevel(line)
	if !ok {
		return line
	}
	fields := strings.Split(line, " ")
	for i, field := range fields {
		switch {
		case strings.HasPrefix(field, "time="):
			fields[i] = timeStyle.Render(field)
		case strings.HasPrefix(field, "level="):
			fields[i] = levelStyle(level).Render(field)
		}
	}
	return strings.Join(fields, " ")
}

// ColorizeLines applies ColorizeLine to each line.
func ColorizeLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = ColorizeLine(line)
	}
	return out
}

func levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return errorStyle
	case level >= slog.LevelWarn:
		return warnStyle
	case level >= slog.LevelInfo:
		return infoStyle
	default:
		return debugStyle
	}
}
