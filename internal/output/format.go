// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"tasktrack/internal/form"
	"tasktrack/internal/service"
	"tasktrack/internal/task"
)

const (
	// NoDueDate is shown in place of an absent due date.
	NoDueDate = "-"

	// LongDateLayout is the layout of due dates in the detail view.
	LongDateLayout = "Monday, January 2, 2006"

	// StampLayout is the layout of created/updated timestamps.
	StampLayout = "January 2, 2006 at 15:04"
)

// FormatTask formats a dashboard line.
// Format: "{N:>4}  {STATUS:<11}  {PRIORITY:<6}  {DUE:<10}  {TITLE}\n"
func FormatTask(w io.Writer, num int, t task.Task) {
	due := t.DueDate
	if due == "" {
		due = NoDueDate
	}
	fmt.Fprintf(w, "%4d  %-11s  %-6s  %-10s  %s\n",
		num, t.Status, strings.ToUpper(string(t.Priority)), due, normalizeTitle(t.Title))
}

// FormatDashboardHeader formats the column header above dashboard lines.
func FormatDashboardHeader(w io.Writer) {
	fmt.Fprintf(w, "%4s  %-11s  %-6s  %-10s  %s\n", "#", "STATUS", "PRIO", "DUE", "TITLE")
}

// FormatDetails formats the detail view of one task. Timestamps are shown
// in loc.
func FormatDetails(w io.Writer, t task.Task, loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}

	fmt.Fprintln(w, normalizeTitle(t.Title))
	fmt.Fprintf(w, "Created on %s\n", t.CreatedAt.In(loc).Format(StampLayout))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Description:")
	for _, line := range strings.Split(strings.TrimRight(t.Description, "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(line, "\r"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Status:    %s\n", t.Status)
	fmt.Fprintf(w, "Priority:  %s\n", strings.ToUpper(string(t.Priority)))
	fmt.Fprintf(w, "Due date:  %s\n", longDate(t.DueDate))
	fmt.Fprintf(w, "ID:        %s\n", t.ID)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Last updated on %s\n", t.UpdatedAt.In(loc).Format(StampLayout))
}

// FormatValidationErrors writes one "error: <field>: <message>" line per
// failing field, in form order.
func FormatValidationErrors(w io.Writer, errs form.Errors) {
	for _, f := range errs.Fields() {
		fmt.Fprintf(w, "error: %s: %s\n", f, errs[f])
	}
}

// FormatUser formats the welcome line for the signed-in user.
func FormatUser(w io.Writer, u service.User) {
	if u.Email != "" && u.Email != u.DisplayName() {
		fmt.Fprintf(w, "Welcome back, %s (%s)\n", u.DisplayName(), u.Email)
		return
	}
	fmt.Fprintf(w, "Welcome back, %s\n", u.DisplayName())
}

func longDate(due string) string {
	if due == "" {
		return "none"
	}
	d, err := time.Parse(task.DateLayout, due)
	if err != nil {
		return due
	}
	return d.Format(LongDateLayout)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	// Replace newlines with spaces
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	// Trim and check for empty
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
