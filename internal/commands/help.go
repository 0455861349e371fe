package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/session"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "tasktrack help" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tasktrack                                   Start an interactive session
  tasktrack shell [common flags]              Start an interactive session
  tasktrack list [common flags] [--status <s>] [--priority <p>]
  tasktrack show [common flags] <ref>
  tasktrack add [common flags] [-d <description>] [-p <priority>] [--due <YYYY-MM-DD>] <title...>
  tasktrack create [common flags] ...         Same as add
  tasktrack edit [common flags] [--title <t>] [-d <d>] [-p <p>] [--due <date> | --no-due] <ref>
  tasktrack status [common flags] <ref> <pending|in-progress|completed>
  tasktrack done [common flags] <ref>
  tasktrack rm [common flags] <ref>
  tasktrack export [common flags] [--format json|yaml]
  tasktrack whoami [common flags]
  tasktrack serve [common flags] [--addr <host:port>]
  tasktrack login [common flags]
  tasktrack logout [common flags]
  tasktrack help
  tasktrack version

A <ref> is a dashboard position (1 is the newest task) or a task id.
An id prefix of at least 4 characters is enough when it is unique.

Flags go before positional arguments.
Tasks live for the length of the session and are not saved.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
