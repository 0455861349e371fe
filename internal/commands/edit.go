package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/form"
	"tasktrack/internal/session"
	"tasktrack/internal/task"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. The form starts from the stored
// task, the given flags replace fields, and the whole form is validated
// again before the update is applied.
type EditCmd struct {
	title       optString
	description optString
	priority    optString
	due         optString
	noDue       bool
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task" }
func (c *EditCmd) Usage() string {
	return "tasktrack edit [--title <title>] [-d <description>] [-p <priority>] [--due <YYYY-MM-DD> | --no-due] <ref>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title = optString{}
	c.description = optString{}
	c.priority = optString{}
	c.due = optString{}

	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.due, "due", "")
	fs.BoolVar(&c.noDue, "no-due", false, "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if c.due.set && c.noDue {
		fmt.Fprintln(errOut, "error: cannot use both --due and --no-due")
		return exitcode.UserError
	}
	if !c.title.set && !c.description.set && !c.priority.set && !c.due.set && !c.noDue {
		fmt.Fprintln(errOut, "error: nothing to change")
		return exitcode.UserError
	}

	t, code := findTask(sess, args, errOut)
	if code != exitcode.Success {
		return code
	}

	values := form.FromTask(t)
	if c.title.set {
		values.Title = c.title.value
	}
	if c.description.set {
		values.Description = c.description.value
	}
	if c.priority.set {
		p, err := task.ParsePriority(c.priority.value)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority.value)
			return exitcode.UserError
		}
		values.Priority = p
	}
	if c.due.set {
		values.DueDate = c.due.value
	}
	if c.noDue {
		values.DueDate = ""
	}

	_, found, verrs, err := sess.Edit(ctx, t.ID, values)
	if err != nil {
		return backendError(errOut, err)
	}
	if verrs != nil {
		return validationFailed(errOut, verrs)
	}
	if !found {
		fmt.Fprintf(errOut, "error: task not found: %s\n", args[0])
		return exitcode.UserError
	}

	printOK(cfg, out)
	return exitcode.Success
}
