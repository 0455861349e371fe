package form

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktrack/internal/task"
)

// fixed clock: 2026-03-10 15:30 in UTC
var testNow = time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return New(
		WithClock(func() time.Time { return testNow }),
		WithLocation(time.UTC),
	)
}

func validValues() Values {
	return Values{
		Title:       "Buy milk",
		Description: "Get 2% milk from store",
		Priority:    task.PriorityLow,
	}
}

func TestValidate_Valid(t *testing.T) {
	v := newTestValidator()

	cases := map[string]Values{
		"no due date": validValues(),
		"due today": func() Values {
			in := validValues()
			in.DueDate = "2026-03-10"
			return in
		}(),
		"due in future": func() Values {
			in := validValues()
			in.DueDate = "2027-01-01"
			return in
		}(),
		"minimum lengths": {Title: "abc", Description: "1234567890", Priority: task.PriorityHigh},
		"timestamp due today": func() Values {
			in := validValues()
			in.DueDate = "2026-03-10T00:00:00Z"
			return in
		}(),
	}

	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			res := v.Validate(in)
			assert.True(t, res.Valid)
			assert.Empty(t, res.Errors)
			assert.NoError(t, res.Err())
		})
	}
}

func TestValidate_TitleTooShort(t *testing.T) {
	res := newTestValidator().Validate(Values{Title: "ab", Description: "1234567890"})

	require.False(t, res.Valid)
	assert.Equal(t, Errors{FieldTitle: MsgTitleTooShort}, res.Errors)
}

func TestValidate_DescriptionTooShort(t *testing.T) {
	res := newTestValidator().Validate(Values{Title: "abc", Description: "123456789"})

	require.False(t, res.Valid)
	assert.Equal(t, Errors{FieldDescription: MsgDescriptionTooShort}, res.Errors)
}

func TestValidate_Required(t *testing.T) {
	res := newTestValidator().Validate(Values{Title: "   ", Description: "\t\n"})

	require.False(t, res.Valid)
	assert.Equal(t, Errors{
		FieldTitle:       MsgTitleRequired,
		FieldDescription: MsgDescriptionRequired,
	}, res.Errors)
}

func TestValidate_LengthCountsTrimmedCharacters(t *testing.T) {
	v := newTestValidator()

	// two characters padded with spaces is still too short
	res := v.Validate(Values{Title: "  ab  ", Description: "1234567890"})
	assert.Equal(t, Errors{FieldTitle: MsgTitleTooShort}, res.Errors)

	// multi-byte characters count once each
	res = v.Validate(Values{Title: "日本語", Description: "éééééééééé"})
	assert.True(t, res.Valid, "errors: %v", res.Errors)
}

func TestValidate_DueDate(t *testing.T) {
	v := newTestValidator()

	yesterday := validValues()
	yesterday.DueDate = "2026-03-09"
	res := v.Validate(yesterday)
	require.False(t, res.Valid)
	assert.Equal(t, Errors{FieldDueDate: MsgDueDateInPast}, res.Errors)

	garbage := validValues()
	garbage.DueDate = "next tuesday"
	res = v.Validate(garbage)
	require.False(t, res.Valid)
	assert.Equal(t, Errors{FieldDueDate: MsgDueDateInvalid}, res.Errors)

	blank := validValues()
	blank.DueDate = "   "
	assert.True(t, v.Validate(blank).Valid)
}

func TestValidate_TodayUsesValidatorLocation(t *testing.T) {
	// 2026-03-10 02:00 UTC is still 2026-03-09 in New York
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	early := time.Date(2026, time.March, 10, 2, 0, 0, 0, time.UTC)
	v := New(WithClock(func() time.Time { return early }), WithLocation(ny))

	in := validValues()
	in.DueDate = "2026-03-09"
	assert.True(t, v.Validate(in).Valid)
}

func TestValidate_AllViolationsCollected(t *testing.T) {
	res := newTestValidator().Validate(Values{Title: "a", Description: "", DueDate: "2000-01-01"})

	require.False(t, res.Valid)
	assert.Len(t, res.Errors, 3)
	assert.Equal(t, []Field{FieldTitle, FieldDescription, FieldDueDate}, res.Errors.Fields())
}

func TestValidate_ClockReadOncePerCall(t *testing.T) {
	calls := 0
	v := New(WithClock(func() time.Time {
		calls++
		return testNow
	}), WithLocation(time.UTC))

	in := validValues()
	in.DueDate = "2026-03-11"
	v.Validate(in)

	assert.Equal(t, 1, calls)
}

func TestValidate_Deterministic(t *testing.T) {
	v := newTestValidator()
	in := Values{Title: "ab", Description: "short", DueDate: "2026-03-01"}

	assert.Equal(t, v.Validate(in), v.Validate(in))
}

func TestErrors_Error(t *testing.T) {
	errs := Errors{FieldDueDate: MsgDueDateInPast, FieldTitle: MsgTitleRequired}

	got := errs.Error()
	assert.Equal(t, "title: Title is required; dueDate: Due date cannot be in the past", got)
	assert.True(t, strings.HasPrefix(got, "title:"))
}

func TestInput_Normalizes(t *testing.T) {
	v := newTestValidator()

	in := v.Input(Values{
		Title:       "  Buy milk ",
		Description: "Get 2% milk from store",
		Priority:    task.PriorityMedium,
		DueDate:     "2026-04-01T10:00:00Z",
	})

	assert.Equal(t, task.CreateInput{
		Title:       "Buy milk",
		Description: "Get 2% milk from store",
		Priority:    task.PriorityMedium,
		DueDate:     "2026-04-01",
	}, in)
}

func TestFromTask(t *testing.T) {
	tk := task.Task{
		ID:          "x",
		Title:       "Write report",
		Description: "Quarterly numbers",
		Priority:    task.PriorityHigh,
		DueDate:     "2026-05-01",
		Status:      task.StatusCompleted,
	}

	assert.Equal(t, Values{
		Title:       "Write report",
		Description: "Quarterly numbers",
		Priority:    task.PriorityHigh,
		DueDate:     "2026-05-01",
	}, FromTask(tk))
}
