// Package session bundles what one signed-in session works with: the user,
// the task collection and the form validator.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"tasktrack/internal/config"
	"tasktrack/internal/form"
	"tasktrack/internal/service"
	"tasktrack/internal/store"
	"tasktrack/internal/task"
)

// Session is created once per process after the route guard has resolved
// the user. The task collection lives exactly as long as the session.
type Session struct {
	User   service.User
	Store  *store.Store
	Forms  *form.Validator
	Logger *slog.Logger

	// DefaultPriority is used when a new task does not name one.
	DefaultPriority task.Priority

	// ListenAddr is the default address of the HTTP surface.
	ListenAddr string
}

// Option configures a Session.
type Option func(*options)

type options struct {
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// WithClock sets the clock shared by the store and the validator.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets the task id generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *options) { o.newID = gen }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates a session for user with an empty task collection.
func New(user service.User, settings config.Settings, opts ...Option) (*Session, error) {
	if user.Subject == "" {
		return nil, fmt.Errorf("session: user has no subject")
	}

	o := options{now: time.Now, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	loc, err := settings.Location()
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	storeOpts := []store.Option{
		store.WithClock(o.now),
		store.WithLogger(o.logger.With("component", "store")),
	}
	if o.newID != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(o.newID))
	}

	addr := settings.ListenAddr
	if addr == "" {
		addr = config.DefaultSettings().ListenAddr
	}

	st := store.New(storeOpts...)
	logger := o.logger.With("user", user.Subject)
	st.Subscribe(func(tasks []task.Task) {
		logger.Debug("collection changed", "tasks", len(tasks))
	})

	return &Session{
		User:            user,
		Store:           st,
		Forms:           form.New(form.WithClock(o.now), form.WithLocation(loc)),
		Logger:          o.logger,
		DefaultPriority: settings.Priority(),
		ListenAddr:      addr,
	}, nil
}

// Open resolves the current user through id and creates a session for it.
func Open(ctx context.Context, id service.Identity, settings config.Settings, opts ...Option) (*Session, error) {
	user, err := id.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return New(user, settings, opts...)
}

// Tasks returns the collection behind the service interface.
func (s *Session) Tasks() service.Tasks {
	return s.Store
}

// Create validates values and, when they pass, adds the task for the
// session user. A nil error with a non-nil Errors means validation failed
// and nothing was stored.
func (s *Session) Create(ctx context.Context, v form.Values) (task.Task, form.Errors, error) {
	if v.Priority == "" {
		v.Priority = s.DefaultPriority
	}
	if res := s.Forms.Validate(v); !res.Valid {
		return task.Task{}, res.Errors, nil
	}
	t, err := s.Store.Create(ctx, s.User.Subject, s.Forms.Input(v))
	return t, nil, err
}

// Edit re-validates the whole form built from the task merged with v and
// applies it. The status is left as it is.
func (s *Session) Edit(ctx context.Context, id string, v form.Values) (task.Task, bool, form.Errors, error) {
	if _, ok := s.Store.Get(id); !ok {
		return task.Task{}, false, nil, nil
	}
	if res := s.Forms.Validate(v); !res.Valid {
		return task.Task{}, true, res.Errors, nil
	}

	in := s.Forms.Input(v)
	patch := task.Patch{
		Title:       &in.Title,
		Description: &in.Description,
		DueDate:     &in.DueDate,
	}
	if in.Priority != "" {
		patch.Priority = &in.Priority
	}

	t, found, err := s.Store.Update(ctx, id, patch)
	return t, found, nil, err
}

// SetStatus moves a task to st. Any status may follow any other.
func (s *Session) SetStatus(ctx context.Context, id string, st task.Status) (task.Task, bool, error) {
	return s.Store.Update(ctx, id, task.Patch{Status: &st})
}
