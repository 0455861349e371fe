// Package cli parses command lines, guards authenticated commands, and runs
// the interactive session shell.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"tasktrack/internal/commands"
	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/identity/google"
	"tasktrack/internal/service"
	"tasktrack/internal/session"
)

// IdentityFactory creates the identity collaborator from config.
// Used to inject the provider during dispatch.
type IdentityFactory func(ctx context.Context, cfg *config.Config) (service.Identity, error)

// GoogleIdentity is the default IdentityFactory.
func GoogleIdentity(ctx context.Context, cfg *config.Config) (service.Identity, error) {
	return google.New(ctx, cfg)
}

// Dispatcher handles command-line parsing and dispatch. It owns the
// session: the first command that needs auth opens it, and every later
// command in the same process reuses it.
type Dispatcher struct {
	registry *commands.Registry
	factory  IdentityFactory
	in       io.Reader
	sessOpts []session.Option

	sess    *session.Session
	inShell bool
}

// NewDispatcher creates a new dispatcher with the given registry and
// identity factory. A nil factory means GoogleIdentity.
func NewDispatcher(registry *commands.Registry, factory IdentityFactory) *Dispatcher {
	if factory == nil {
		factory = GoogleIdentity
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       os.Stdin,
	}
}

// SetInput sets the reader the shell reads lines from.
func (d *Dispatcher) SetInput(r io.Reader) {
	d.in = r
}

// SetSessionOptions sets options applied when the session is opened
// (for testing).
func (d *Dispatcher) SetSessionOptions(opts ...session.Option) {
	d.sessOpts = opts
}

// Session returns the open session, or nil if none has been opened.
func (d *Dispatcher) Session() *session.Session {
	return d.sess
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> interactive session
	if len(args) == 0 {
		return d.runShell(ctx, nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	if cmdName == shellCommand {
		return d.runShell(ctx, args[1:], out, errOut)
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// args renders the flags back into arguments, for lines typed in the shell.
func (f *commonFlags) args() []string {
	var args []string
	if f.configDir != "" {
		args = append(args, "--config="+f.configDir)
	}
	if f.quiet {
		args = append(args, "--quiet")
	}
	if f.debug {
		args = append(args, "--debug")
	}
	return args
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	positionalArgs, ok := parseFlags(fs, args, errOut)
	if !ok {
		return exitcode.UserError
	}

	cfg, logger, code := d.setup(common, errOut)
	if code != exitcode.Success {
		return code
	}

	// Route guard
	var sess *session.Session
	if cmd.NeedsAuth() {
		if sess, code = d.session(ctx, cfg, logger, errOut); code != exitcode.Success {
			return code
		}
	}

	logger.Debug("dispatch", "command", cmd.Name(), "args", positionalArgs)
	return cmd.Run(ctx, cfg, sess, positionalArgs, out, errOut)
}

// parseFlags parses args and reports errors the way every command does.
func parseFlags(fs *flag.FlagSet, args []string, errOut io.Writer) ([]string, bool) {
	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Check for missing flag value
		if strings.Contains(errStr, "flag needs an argument") {
			parts := strings.Split(errStr, ":")
			if len(parts) > 1 {
				flagName := strings.TrimSpace(parts[1])
				fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
				return nil, false
			}
		}

		// Check for unknown flag
		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return nil, false
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return nil, false
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return nil, false
	}
	return positionalArgs, true
}

// setup loads the config and builds the logger for one command.
func (d *Dispatcher) setup(common commonFlags, errOut io.Writer) (*config.Config, *slog.Logger, int) {
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, nil, exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	return cfg, newLogger(common.debug, errOut), exitcode.Success
}

// session returns the open session, opening it on first use.
func (d *Dispatcher) session(ctx context.Context, cfg *config.Config, logger *slog.Logger, errOut io.Writer) (*session.Session, int) {
	if d.sess != nil {
		return d.sess, exitcode.Success
	}

	identity, err := d.factory(ctx, cfg)
	if err != nil {
		return nil, reportIdentityError(errOut, err)
	}

	opts := append([]session.Option{session.WithLogger(logger)}, d.sessOpts...)
	sess, err := session.Open(ctx, identity, cfg.Settings, opts...)
	if err != nil {
		return nil, reportIdentityError(errOut, err)
	}

	logger.Debug("session opened", "user", sess.User.Subject)
	d.sess = sess
	return sess, exitcode.Success
}

// reportIdentityError classifies a failure to resolve the signed-in user.
func reportIdentityError(errOut io.Writer, err error) int {
	if errors.Is(err, service.ErrNotLoggedIn) || errors.Is(err, service.ErrAuth) {
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %s\n", err)
	return exitcode.BackendError
}

func newLogger(debug bool, errOut io.Writer) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
