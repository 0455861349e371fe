package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"tasktrack/internal/form"
	"tasktrack/internal/task"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.app.Get("/health", s.health)
	s.app.Get("/state", s.state)

	tasks := s.app.Group("/tasks")
	tasks.Get("/", s.listTasks)
	tasks.Post("/", s.createTask)
	tasks.Get("/:id", s.getTask)
	tasks.Patch("/:id", s.updateTask)
	tasks.Delete("/:id", s.deleteTask)
}

// health handles GET /health.
func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "ok", Tasks: s.sess.Store.Len()})
}

// state handles GET /state.
func (s *Server) state(c *fiber.Ctx) error {
	return c.JSON(s.sess.Store.State())
}

// listTasks handles GET /tasks.
func (s *Server) listTasks(c *fiber.Ctx) error {
	var (
		status   task.Status
		priority task.Priority
		err      error
	)
	if q := c.Query("status"); q != "" {
		if status, err = task.ParseStatus(q); err != nil {
			return badRequest(c, err.Error())
		}
	}
	if q := c.Query("priority"); q != "" {
		if priority, err = task.ParsePriority(q); err != nil {
			return badRequest(c, err.Error())
		}
	}

	all := s.sess.Store.All()
	tasks := make([]task.Task, 0, len(all))
	for _, t := range all {
		if status != "" && t.Status != status {
			continue
		}
		if priority != "" && t.Priority != priority {
			continue
		}
		tasks = append(tasks, t)
	}
	return c.JSON(tasks)
}

// createTask handles POST /tasks.
func (s *Server) createTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	values := form.Values{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Priority != "" {
		p, err := task.ParsePriority(req.Priority)
		if err != nil {
			return badRequest(c, err.Error())
		}
		values.Priority = p
	}

	created, verrs, err := s.sess.Create(c.UserContext(), values)
	if err != nil {
		return err
	}
	if verrs != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationResponse{Errors: verrs})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// getTask handles GET /tasks/:id.
func (s *Server) getTask(c *fiber.Ctx) error {
	t, ok := s.sess.Store.Get(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSON(t)
}

// updateTask handles PATCH /tasks/:id. Changes to form fields are
// validated together with the unchanged fields; status changes are not
// validated beyond the enum.
func (s *Server) updateTask(c *fiber.Ctx) error {
	id := c.Params("id")

	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	current, ok := s.sess.Store.Get(id)
	if !ok {
		return notFound(c)
	}

	var patch task.Patch
	if req.Status != nil {
		st, err := task.ParseStatus(*req.Status)
		if err != nil {
			return badRequest(c, err.Error())
		}
		patch.Status = &st
	}

	if req.touchesForm() {
		values := form.FromTask(current)
		if req.Title != nil {
			values.Title = *req.Title
		}
		if req.Description != nil {
			values.Description = *req.Description
		}
		if req.Priority != nil {
			p, err := task.ParsePriority(*req.Priority)
			if err != nil {
				return badRequest(c, err.Error())
			}
			values.Priority = p
		}
		if req.DueDate.Set {
			values.DueDate = req.DueDate.Value
		}

		if res := s.sess.Forms.Validate(values); !res.Valid {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(ValidationResponse{Errors: res.Errors})
		}

		in := s.sess.Forms.Input(values)
		patch.Title = &in.Title
		patch.Description = &in.Description
		patch.Priority = &in.Priority
		patch.DueDate = &in.DueDate
	}

	if patch.Empty() {
		return c.JSON(current)
	}

	updated, found, err := s.sess.Store.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	if !found {
		return notFound(c)
	}
	return c.JSON(updated)
}

// deleteTask handles DELETE /tasks/:id. Deleting an unknown id succeeds.
func (s *Server) deleteTask(c *fiber.Ctx) error {
	if _, err := s.sess.Store.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: message,
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: "Task not found",
	})
}
