package httpapi

import (
	"encoding/json"

	"tasktrack/internal/form"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
	Tasks  int    `json:"tasks"`
}

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ValidationResponse is the body of a 422 response.
type ValidationResponse struct {
	Errors form.Errors `json:"errors"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// UpdateTaskRequest is the body of PATCH /tasks/:id. Absent fields are
// left unchanged; a dueDate of null or "" clears the due date, matching
// how tasks are encoded.
type UpdateTaskRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Priority    *string      `json:"priority"`
	Status      *string      `json:"status"`
	DueDate     NullableDate `json:"dueDate"`
}

func (r UpdateTaskRequest) touchesForm() bool {
	return r.Title != nil || r.Description != nil || r.Priority != nil || r.DueDate.Set
}

// NullableDate tells an absent field from an explicit null.
type NullableDate struct {
	Set   bool
	Value string
}

// UnmarshalJSON is only called when the field is present.
func (d *NullableDate) UnmarshalJSON(data []byte) error {
	d.Set = true
	if string(data) == "null" {
		d.Value = ""
		return nil
	}
	return json.Unmarshal(data, &d.Value)
}
