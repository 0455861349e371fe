package commands

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/session"
	"tasktrack/internal/task"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command. The snapshot is written to
// stdout and is never read back.
type ExportCmd struct {
	format string
}

// SetFormat sets the output format (for testing).
func (c *ExportCmd) SetFormat(format string) {
	c.format = format
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write all tasks as JSON or YAML" }
func (c *ExportCmd) Usage() string     { return "tasktrack export [--format json|yaml]" }
func (c *ExportCmd) NeedsAuth() bool   { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "json", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	tasks := sess.Store.All()
	if tasks == nil {
		tasks = []task.Task{}
	}

	var err error
	switch strings.ToLower(c.format) {
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(tasks)
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		err = enc.Encode(tasks)
		if err == nil {
			err = enc.Close()
		}
	default:
		fmt.Fprintf(errOut, "error: unknown format: %s\n", c.format)
		return exitcode.UserError
	}

	if err != nil {
		fmt.Fprintf(errOut, "error: failed to write export: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
