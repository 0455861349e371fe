package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/shlex"

	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
)

const (
	shellCommand = "shell"
	shellPrompt  = "tasktrack> "
)

// runShell reads command lines from the dispatcher's input and runs each
// against the same session until exit, quit or EOF.
func (d *Dispatcher) runShell(ctx context.Context, args []string, out, errOut io.Writer) int {
	if d.inShell {
		fmt.Fprintln(errOut, "error: already in a shell")
		return exitcode.UserError
	}

	fs := flag.NewFlagSet(shellCommand, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var common commonFlags
	common.register(fs)

	rest, ok := parseFlags(fs, args, errOut)
	if !ok {
		return exitcode.UserError
	}
	if len(rest) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", rest[0])
		return exitcode.UserError
	}

	cfg, logger, code := d.setup(common, errOut)
	if code != exitcode.Success {
		return code
	}

	// The shell is the session, so it needs auth up front
	sess, code := d.session(ctx, cfg, logger, errOut)
	if code != exitcode.Success {
		return code
	}

	if !cfg.Quiet {
		output.FormatUser(out, sess.User)
		fmt.Fprintln(out, `Type "help" for commands, "exit" to leave.`)
	}

	d.inShell = true
	defer func() { d.inShell = false }()

	done := make(chan struct{})
	defer close(done)
	lines, readErr := readLines(d.in, done)

	lineFlags := common.args()
	for {
		if !cfg.Quiet {
			fmt.Fprint(out, shellPrompt)
		}

		var (
			text string
			ok   bool
		)
		select {
		case <-ctx.Done():
			// Interrupted while waiting for input
			if !cfg.Quiet {
				fmt.Fprintln(out)
			}
			logger.Debug("shell interrupted", "error", ctx.Err())
			return exitcode.Success
		case text, ok = <-lines:
		}
		if !ok {
			break
		}

		words, err := shlex.Split(text)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if len(words) == 0 {
			continue
		}

		switch words[0] {
		case "exit", "quit":
			return exitcode.Success
		case shellCommand:
			fmt.Fprintln(errOut, "error: already in a shell")
			continue
		}

		// Shell-level common flags apply to every line
		line := append([]string{words[0]}, lineFlags...)
		line = append(line, words[1:]...)
		code := d.Run(ctx, line, out, errOut)
		logger.Debug("command finished", "command", words[0], "code", code)
	}

	if err := <-readErr; err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out)
	}
	return exitcode.Success
}

// readLines scans r on its own goroutine so the shell can stop waiting
// for input when its context is cancelled. lines is closed at EOF, after
// the scan error (nil at EOF) has been sent on errc. Closing done stops
// the reader once its current read returns.
func readLines(r io.Reader, done <-chan struct{}) (lines <-chan string, errc <-chan error) {
	out := make(chan string)
	errs := make(chan error, 1)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case out <- scanner.Text():
			case <-done:
				return
			}
		}
		errs <- scanner.Err()
	}()
	return out, errs
}
