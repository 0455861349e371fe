package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/form"
	"tasktrack/internal/session"
	"tasktrack/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
	priority    string
	due         string
}

// SetFields sets the flag values (for testing).
func (c *AddCmd) SetFields(description, priority, due string) {
	c.description = description
	c.priority = priority
	c.due = due
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "tasktrack add [-d <description>] [-p <priority>] [--due <YYYY-MM-DD>] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.description, "description", "", "")
	fs.StringVar(&c.description, "d", "", "")
	fs.StringVar(&c.priority, "priority", "", "")
	fs.StringVar(&c.priority, "p", "", "")
	fs.StringVar(&c.due, "due", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	values := form.Values{
		Title:       strings.Join(args, " "),
		Description: c.description,
		DueDate:     c.due,
	}

	// Empty priority means the session default
	if c.priority != "" {
		p, err := task.ParsePriority(c.priority)
		if err != nil {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority)
			return exitcode.UserError
		}
		values.Priority = p
	}

	created, verrs, err := sess.Create(ctx, values)
	if err != nil {
		return backendError(errOut, err)
	}
	if verrs != nil {
		return validationFailed(errOut, verrs)
	}

	fmt.Fprintln(out, created.ID)
	return exitcode.Success
}
