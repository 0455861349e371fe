package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"tasktrack/internal/exitcode"
	"tasktrack/internal/session"
	"tasktrack/internal/task"
)

// MinIDPrefix is the shortest id prefix accepted as a task reference.
const MinIDPrefix = 4

var (
	// ErrTaskRefRequired indicates no task reference was provided.
	ErrTaskRefRequired = errors.New("task reference required")

	// ErrTaskNotFound indicates the reference matches no task.
	ErrTaskNotFound = errors.New("task not found")

	// ErrAmbiguousRef indicates an id prefix matches more than one task.
	ErrAmbiguousRef = errors.New("ambiguous task reference")
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Raw      string
	Position int    // 1-based dashboard position, 0 if an id was given
	ID       string // id or id prefix, "" if a position was given
}

// ParseTaskRef parses a task reference from the first arg.
//
// Parsing rules:
// 1. All digits → dashboard position (newest first, 1-based)
// 2. Anything else → task id or unique id prefix
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}

	raw := strings.TrimSpace(args[0])
	if raw == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(raw) {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", raw)
		}
		return TaskRef{Raw: raw, Position: n}, nil
	}

	return TaskRef{Raw: raw, ID: raw}, nil
}

// ResolveTask finds the task ref points at in tasks, which must be in
// dashboard order.
func ResolveTask(tasks []task.Task, ref TaskRef) (task.Task, error) {
	if ref.Position > 0 {
		if ref.Position > len(tasks) {
			return task.Task{}, ErrTaskNotFound
		}
		return tasks[ref.Position-1], nil
	}

	// Exact match wins over prefix matches
	for _, t := range tasks {
		if t.ID == ref.ID {
			return t, nil
		}
	}

	if len(ref.ID) < MinIDPrefix {
		return task.Task{}, ErrTaskNotFound
	}

	var match task.Task
	n := 0
	for _, t := range tasks {
		if strings.HasPrefix(t.ID, ref.ID) {
			match = t
			n++
		}
	}

	switch n {
	case 0:
		return task.Task{}, ErrTaskNotFound
	case 1:
		return match, nil
	default:
		return task.Task{}, ErrAmbiguousRef
	}
}

// findTask resolves args[0] against the session dashboard. A non-zero
// code means an error was already reported.
func findTask(sess *session.Session, args []string, errOut io.Writer) (task.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		return task.Task{}, reportRefError(errOut, args, err)
	}
	t, err := ResolveTask(sess.Store.All(), ref)
	if err != nil {
		return task.Task{}, reportRefError(errOut, args, err)
	}
	return t, exitcode.Success
}

// reportRefError prints a reference error and returns the exit code.
func reportRefError(errOut io.Writer, args []string, err error) int {
	ref := ""
	if len(args) > 0 {
		ref = args[0]
	}

	switch {
	case errors.Is(err, ErrTaskRefRequired):
		fmt.Fprintln(errOut, "error: task reference required")
	case errors.Is(err, ErrTaskNotFound):
		fmt.Fprintf(errOut, "error: task not found: %s\n", ref)
	case errors.Is(err, ErrAmbiguousRef):
		fmt.Fprintf(errOut, "error: ambiguous task reference: %s\n", ref)
	default:
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
