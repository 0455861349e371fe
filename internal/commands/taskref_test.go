package commands

import (
	"bytes"
	"errors"
	"testing"

	"tasktrack/internal/exitcode"
	"tasktrack/internal/task"
)

func TestParseTaskRef_Position(t *testing.T) {
	ref, err := ParseTaskRef([]string{"5"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Position != 5 {
		t.Errorf("expected Position 5, got %d", ref.Position)
	}
	if ref.ID != "" {
		t.Errorf("expected no ID, got %q", ref.ID)
	}
}

func TestParseTaskRef_ID(t *testing.T) {
	ref, err := ParseTaskRef([]string{"3f2a9c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Position != 0 {
		t.Errorf("expected Position 0, got %d", ref.Position)
	}
	if ref.ID != "3f2a9c" {
		t.Errorf("expected ID 3f2a9c, got %q", ref.ID)
	}
}

func TestParseTaskRef_Zero(t *testing.T) {
	_, err := ParseTaskRef([]string{"0"})
	if err == nil {
		t.Fatal("expected error for position 0")
	}
	if err.Error() != "invalid task reference: 0" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestParseTaskRef_Empty(t *testing.T) {
	for _, args := range [][]string{nil, {""}, {"  "}} {
		_, err := ParseTaskRef(args)
		if !errors.Is(err, ErrTaskRefRequired) {
			t.Errorf("ParseTaskRef(%q): expected ErrTaskRefRequired, got %v", args, err)
		}
	}
}

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"123", true},
		{"0", true},
		{"", false},
		{"12a", false},
		{"a12", false},
		{"1 2", false},
		{"١٢", false}, // Arabic-Indic digits
	}

	for _, tt := range tests {
		if got := isAllDigits(tt.input); got != tt.expected {
			t.Errorf("isAllDigits(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func refTasks() []task.Task {
	return []task.Task{
		{ID: "abcd1111", Title: "newest"},
		{ID: "abcd2222", Title: "middle"},
		{ID: "ef01", Title: "oldest"},
	}
}

func TestResolveTask(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    string
		wantErr error
	}{
		{"position first", "1", "newest", nil},
		{"position last", "3", "oldest", nil},
		{"position out of range", "4", "", ErrTaskNotFound},
		{"full id", "abcd2222", "middle", nil},
		{"unique prefix", "abcd1", "newest", nil},
		{"exact short id", "ef01", "oldest", nil},
		{"ambiguous prefix", "abcd", "", ErrAmbiguousRef},
		{"prefix too short", "abc", "", ErrTaskNotFound},
		{"unknown id", "zzzz9999", "", ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseTaskRef([]string{tt.arg})
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}

			got, err := ResolveTask(refTasks(), ref)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Title != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.Title)
			}
		})
	}
}

func TestReportRefError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrTaskRefRequired, "error: task reference required\n"},
		{ErrTaskNotFound, "error: task not found: 42\n"},
		{ErrAmbiguousRef, "error: ambiguous task reference: 42\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		code := reportRefError(&buf, []string{"42"}, tt.err)
		if code != exitcode.UserError {
			t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
		}
		if buf.String() != tt.want {
			t.Errorf("expected %q, got %q", tt.want, buf.String())
		}
	}
}
