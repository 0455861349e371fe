// Package form validates task form input before it reaches the store.
package form

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"tasktrack/internal/task"
)

// Field names a form field. The names match the task JSON field names.
type Field string

const (
	FieldTitle       Field = "title"
	FieldDescription Field = "description"
	FieldPriority    Field = "priority"
	FieldDueDate     Field = "dueDate"
)

// fieldOrder is the order errors are reported in.
var fieldOrder = []Field{FieldTitle, FieldDescription, FieldPriority, FieldDueDate}

const (
	minTitleLen       = 3
	minDescriptionLen = 10
)

// Error messages.
const (
	MsgTitleRequired       = "Title is required"
	MsgTitleTooShort       = "Title must be at least 3 characters"
	MsgDescriptionRequired = "Description is required"
	MsgDescriptionTooShort = "Description must be at least 10 characters"
	MsgDueDateInPast       = "Due date cannot be in the past"
	MsgDueDateInvalid      = "Due date must be a valid date (YYYY-MM-DD)"
)

// Values holds the candidate field values of a task form.
type Values struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    task.Priority `json:"priority"`
	DueDate     string        `json:"dueDate"`
}

// FromTask returns the form values an edit form starts from.
func FromTask(t task.Task) Values {
	return Values{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
	}
}

// Errors maps failing fields to their message.
type Errors map[Field]string

// Error implements error. Fields are listed in form order.
func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, string(f)+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Fields returns the failing fields in form order.
func (e Errors) Fields() []Field {
	fields := make([]Field, 0, len(e))
	for _, f := range fieldOrder {
		if _, ok := e[f]; ok {
			fields = append(fields, f)
		}
	}
	// fields outside the known set go last, sorted
	var extra []Field
	for f := range e {
		if !knownField(f) {
			extra = append(extra, f)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(fields, extra...)
}

func knownField(f Field) bool {
	for _, k := range fieldOrder {
		if k == f {
			return true
		}
	}
	return false
}

// Result is the outcome of a validation.
type Result struct {
	Valid  bool
	Errors Errors
}

// Err returns the errors as an error, or nil when the result is valid.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return r.Errors
}

// Validator checks form values against the task business rules.
// The zero value is not usable; call New.
type Validator struct {
	now func() time.Time
	loc *time.Location
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) { v.now = now }
}

// WithLocation sets the location whose calendar day counts as "today".
func WithLocation(loc *time.Location) Option {
	return func(v *Validator) {
		if loc != nil {
			v.loc = loc
		}
	}
}

// New returns a validator using the local clock and time zone.
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks every field and collects all failures.
func (v *Validator) Validate(in Values) Result {
	today := v.today()
	errs := make(Errors)

	if msg := checkText(in.Title, minTitleLen, MsgTitleRequired, MsgTitleTooShort); msg != "" {
		errs[FieldTitle] = msg
	}
	if msg := checkText(in.Description, minDescriptionLen, MsgDescriptionRequired, MsgDescriptionTooShort); msg != "" {
		errs[FieldDescription] = msg
	}
	if strings.TrimSpace(in.DueDate) != "" {
		due, ok := v.parseDate(in.DueDate)
		switch {
		case !ok:
			errs[FieldDueDate] = MsgDueDateInvalid
		case due.Before(today):
			errs[FieldDueDate] = MsgDueDateInPast
		}
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}

// Normalize returns a copy of in with surrounding whitespace trimmed and
// the due date in YYYY-MM-DD form. Dates that do not parse are kept as is.
func (v *Validator) Normalize(in Values) Values {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if strings.TrimSpace(in.DueDate) == "" {
		in.DueDate = ""
		return in
	}
	if d, ok := v.parseDate(in.DueDate); ok {
		in.DueDate = d.Format(task.DateLayout)
	}
	return in
}

// Input converts validated values into store input.
func (v *Validator) Input(in Values) task.CreateInput {
	in = v.Normalize(in)
	return task.CreateInput{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
	}
}

func checkText(s string, min int, required, tooShort string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return required
	}
	if utf8.RuneCountInString(s) < min {
		return tooShort
	}
	return ""
}

// today returns midnight of the current day in the validator's location.
func (v *Validator) today() time.Time {
	now := v.now().In(v.loc)
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, v.loc)
}

// parseDate returns the calendar day of s at midnight in the validator's
// location. Time of day is discarded.
func (v *Validator) parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(task.DateLayout, s, v.loc); err == nil {
		return t, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := t.In(v.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, v.loc), true
}
