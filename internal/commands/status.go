package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/session"
	"tasktrack/internal/task"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd implements the status command. Any status may follow any other.
type StatusCmd struct{}

func (c *StatusCmd) Name() string      { return "status" }
func (c *StatusCmd) Aliases() []string { return nil }
func (c *StatusCmd) Synopsis() string  { return "Change a task's status" }
func (c *StatusCmd) Usage() string {
	names := make([]string, len(task.Statuses))
	for i, st := range task.Statuses {
		names[i] = string(st)
	}
	return "tasktrack status <ref> <" + strings.Join(names, "|") + ">"
}
func (c *StatusCmd) NeedsAuth() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	if len(args) < 2 {
		if len(args) == 0 {
			return reportRefError(errOut, args, ErrTaskRefRequired)
		}
		fmt.Fprintln(errOut, "error: status required")
		return exitcode.UserError
	}

	st, err := task.ParseStatus(args[1])
	if err != nil {
		fmt.Fprintf(errOut, "error: invalid status: %s\n", args[1])
		return exitcode.UserError
	}

	return setStatus(ctx, cfg, sess, args, st, out, errOut)
}

// setStatus is the shared implementation for status and done.
func setStatus(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, st task.Status, out, errOut io.Writer) int {
	t, code := findTask(sess, args, errOut)
	if code != exitcode.Success {
		return code
	}

	_, found, err := sess.SetStatus(ctx, t.ID, st)
	if err != nil {
		return backendError(errOut, err)
	}
	if !found {
		fmt.Fprintf(errOut, "error: task not found: %s\n", args[0])
		return exitcode.UserError
	}

	printOK(cfg, out)
	return exitcode.Success
}
