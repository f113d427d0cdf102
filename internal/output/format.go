// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/service"
)

const (
	// Separator is the separator line for project sections.
	Separator = "------------"
)

var (
	styleDone       = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ECC71"))
	styleInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("#F39C12"))
	styleTodo       = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	styleHigh       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E74C3C"))
	styleMedium     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F39C12"))
	styleLow        = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// FormatProjectItem formats a dashboard line.
// Format: "{N:>4}  {NAME}  [{ID}]  {COUNT} tasks\n"
func FormatProjectItem(w io.Writer, num int, p service.ProjectListItem) {
	name := normalizeTitle(p.Name)
	noun := "tasks"
	if p.TaskCount == 1 {
		noun = "task"
	}
	fmt.Fprintf(w, "%4d  %s  [%s]  %d %s\n", num, name, p.ID, p.TaskCount, noun)
}

// FormatProjectHeader formats a project section header.
func FormatProjectHeader(w io.Writer, p service.Project) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "%s  [%s]\n", normalizeTitle(p.Name), p.ID)
	if strings.TrimSpace(p.Description) != "" {
		fmt.Fprintln(w, p.Description)
	}
	fmt.Fprintln(w, Separator)
}

// FormatTask formats a task line within a project section.
// Format: "    {N:>4}  {STATUS:<11}  {PRIORITY:<6}  {TITLE}[  (due DATE)][  @ASSIGNEE]\n"
func FormatTask(w io.Writer, num int, t service.Task) {
	title := normalizeTitle(t.Title)
	line := fmt.Sprintf("    %4d  %s  %s  %s", num, StatusBadge(t.Status), PriorityBadge(t.Priority), title)
	if t.DueDate != nil {
		line += fmt.Sprintf("  (due %s)", t.DueDate.Format("2006-01-02"))
	}
	if t.Assignee != nil && t.Assignee.Name != "" {
		line += "  @" + t.Assignee.Name
	} else if t.AssignedTo != "" {
		line += "  @" + t.AssignedTo
	}
	fmt.Fprintln(w, line)
}

// StatusBadge returns a fixed-width, colored status label. Padding happens
// before styling so ANSI codes don't break column alignment.
func StatusBadge(s service.TaskStatus) string {
	switch s {
	case service.StatusDone:
		return styleDone.Render(fmt.Sprintf("%-11s", "done"))
	case service.StatusInProgress:
		return styleInProgress.Render(fmt.Sprintf("%-11s", "in-progress"))
	default:
		return styleTodo.Render(fmt.Sprintf("%-11s", "todo"))
	}
}

// PriorityBadge returns a fixed-width, colored priority label.
func PriorityBadge(p service.TaskPriority) string {
	switch p {
	case service.PriorityHigh:
		return styleHigh.Render(fmt.Sprintf("%-6s", "high"))
	case service.PriorityLow:
		return styleLow.Render(fmt.Sprintf("%-6s", "low"))
	default:
		return styleMedium.Render(fmt.Sprintf("%-6s", "medium"))
	}
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
