package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/session"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command, the task detail view.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return []string{"view"} }
func (c *ShowCmd) Synopsis() string  { return "Show task details" }
func (c *ShowCmd) Usage() string     { return "tasktrack show <ref>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	t, code := findTask(sess, args, errOut)
	if code != exitcode.Success {
		return code
	}

	loc, err := cfg.Settings.Location()
	if err != nil {
		loc = time.Local
	}
	output.FormatDetails(out, t, loc)
	return exitcode.Success
}
