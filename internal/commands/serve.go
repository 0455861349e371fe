package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/httpapi"
	"tasktrack/internal/session"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd implements the serve command. It blocks until ctx is cancelled.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Serve the session's tasks over HTTP" }
func (c *ServeCmd) Usage() string     { return "tasktrack serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsAuth() bool   { return true }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, sess *session.Session, args []string, out, errOut io.Writer) int {
	addr := c.addr
	if addr == "" {
		addr = sess.ListenAddr
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "listening on http://%s\n", addr)
	}

	if err := httpapi.New(sess).Serve(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: server error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
