package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/session"
	"tasktrack/internal/task"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command, the dashboard of the session.
type ListCmd struct {
	status   string
	priority string
}

// SetFilters sets the status and priority filters (for testing).
func (c *ListCmd) SetFilters(status, priority string) {
	c.status = status
	c.priority = priority
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "Show the task dashboard" }
func (c *ListCmd) Usage() string {
	return "tasktrack list [--status <status>] [--priority <priority>]"
}
func (c *ListCmd) NeedsAuth() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	keep, code := c.filter(errOut)
	if code != exitcode.Success {
		return code
	}

	tasks := sess.Store.All()
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks yet")
		}
		return exitcode.Success
	}

	// Numbers are dashboard positions, so they stay stable under filters
	printed := 0
	for i, t := range tasks {
		if !keep(t) {
			continue
		}
		if printed == 0 && !cfg.Quiet {
			output.FormatDashboardHeader(out)
		}
		output.FormatTask(out, i+1, t)
		printed++
	}

	if printed == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no matching tasks")
	}
	return exitcode.Success
}

func (c *ListCmd) filter(errOut io.Writer) (func(task.Task) bool, int) {
	var (
		status   task.Status
		priority task.Priority
		err      error
	)
	if c.status != "" {
		if status, err = task.ParseStatus(c.status); err != nil {
			fmt.Fprintf(errOut, "error: invalid status: %s\n", c.status)
			return nil, exitcode.UserError
		}
	}
	if c.priority != "" {
		if priority, err = task.ParsePriority(c.priority); err != nil {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return nil, exitcode.UserError
		}
	}

	return func(t task.Task) bool {
		return (status == "" || t.Status == status) &&
			(priority == "" || t.Priority == priority)
	}, exitcode.Success
}
