// Package store holds the in-memory task collection of one session.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"tasktrack/internal/task"
)

var (
	// ErrOwnerRequired is returned when Create is called without a user id.
	ErrOwnerRequired = errors.New("owner user id is required")

	// ErrIDExhausted is returned when the id generator keeps producing ids
	// that are already taken.
	ErrIDExhausted = errors.New("could not allocate a unique task id")
)

// maxIDAttempts bounds retries on id collisions.
const maxIDAttempts = 8

// State is the transient operation state exposed alongside the collection.
type State struct {
	Busy      bool   `json:"busy"`
	LastError string `json:"lastError,omitempty"`
}

// Store is the single owner of the task collection. Tasks are kept
// newest first. Callers only ever receive copies.
type Store struct {
	mu    sync.Mutex
	tasks []task.Task
	state State

	seq uint64 // successful mutations, guarded by mu

	subMu   sync.Mutex
	subs    map[int]func([]task.Task)
	nextSub int

	// deliverMu orders deliveries. delivered is the seq of the newest
	// snapshot handed to subscribers.
	deliverMu sync.Mutex
	delivered uint64

	now    func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the task id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithLogger sets the logger mutations are reported to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		subs:   make(map[int]func([]task.Task)),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a new pending task owned by userID at the front of the
// collection. Input is not validated beyond enum checks.
func (s *Store) Create(ctx context.Context, userID string, in task.CreateInput) (task.Task, error) {
	s.mu.Lock()
	s.begin()

	created, err := s.create(ctx, userID, in)
	c := s.finish(err)
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("create failed", "error", err)
		return task.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.logger.Debug("task created", "id", created.ID, "count", len(c.tasks))
	s.notify(c)
	return created, nil
}

func (s *Store) create(ctx context.Context, userID string, in task.CreateInput) (task.Task, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, err
	}
	if userID == "" {
		return task.Task{}, ErrOwnerRequired
	}
	if !in.Priority.Valid() {
		return task.Task{}, fmt.Errorf("%w: %q", task.ErrInvalidPriority, in.Priority)
	}

	id, err := s.allocateID()
	if err != nil {
		return task.Task{}, err
	}

	now := s.stamp()
	t := task.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      task.StatusPending,
		Priority:    in.Priority,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		UserID:      userID,
	}

	tasks := make([]task.Task, 0, len(s.tasks)+1)
	tasks = append(tasks, t)
	s.tasks = append(tasks, s.tasks...)
	return t, nil
}

// Update merges p into the task with the given id and refreshes its
// UpdatedAt. An unknown id is a no-op and reports false.
func (s *Store) Update(ctx context.Context, id string, p task.Patch) (task.Task, bool, error) {
	s.mu.Lock()
	s.begin()

	updated, found, err := s.update(ctx, id, p)
	var c change
	if found || err != nil {
		c = s.finish(err)
	} else {
		s.state.Busy = false
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("update failed", "id", id, "error", err)
		return task.Task{}, false, fmt.Errorf("update task %s: %w", id, err)
	}
	if !found {
		s.logger.Debug("update ignored, task not found", "id", id)
		return task.Task{}, false, nil
	}

	s.logger.Debug("task updated", "id", id)
	s.notify(c)
	return updated, true, nil
}

func (s *Store) update(ctx context.Context, id string, p task.Patch) (task.Task, bool, error) {
	if err := ctx.Err(); err != nil {
		return task.Task{}, false, err
	}
	if err := p.Check(); err != nil {
		return task.Task{}, false, err
	}

	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false, nil
	}

	prev := s.tasks[i]
	next := p.Apply(prev)
	next.ID = prev.ID
	next.CreatedAt = prev.CreatedAt
	next.UserID = prev.UserID
	next.UpdatedAt = s.stamp()
	if !next.UpdatedAt.After(prev.UpdatedAt) {
		next.UpdatedAt = prev.UpdatedAt.Add(time.Nanosecond)
	}

	s.tasks[i] = next
	return next, true, nil
}

// Delete removes the task with the given id. An unknown id is a no-op and
// reports false.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	s.begin()

	var (
		found bool
		err   = ctx.Err()
	)
	if err == nil {
		if i := s.indexOf(id); i >= 0 {
			s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
			found = true
		}
	}

	var c change
	if found || err != nil {
		c = s.finish(err)
	} else {
		s.state.Busy = false
	}
	s.mu.Unlock()

	if err != nil {
		return false, fmt.Errorf("delete task %s: %w", id, err)
	}
	if !found {
		s.logger.Debug("delete ignored, task not found", "id", id)
		return false, nil
	}

	s.logger.Debug("task deleted", "id", id, "count", len(c.tasks))
	s.notify(c)
	return true, nil
}

// Get returns the task with the given id.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}

// All returns a copy of the collection, newest first.
func (s *Store) All() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// State returns the current operation state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive a snapshot after every successful
// mutation. Deliveries are serialised and follow mutation order; when
// concurrent mutations race, a snapshot older than one already delivered
// is skipped, so the last snapshot fn saw is always the newest. fn may
// read the store but must not mutate it. The returned func removes the
// subscription.
func (s *Store) Subscribe(fn func([]task.Task)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// begin marks the start of a mutation. Caller holds mu.
func (s *Store) begin() {
	s.state = State{Busy: true}
}

// change is a post-mutation snapshot tagged with its place in mutation
// order. A zero change carries nothing to deliver.
type change struct {
	seq   uint64
	tasks []task.Task
}

// finish ends a mutation and returns the change to deliver.
// Caller holds mu.
func (s *Store) finish(err error) change {
	s.state.Busy = false
	if err != nil {
		s.state.LastError = err.Error()
		return change{}
	}
	s.seq++
	return change{seq: s.seq, tasks: s.snapshot()}
}

func (s *Store) snapshot() []task.Task {
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Store) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) allocateID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDExhausted
}

// stamp returns the current time in UTC without a monotonic reading.
func (s *Store) stamp() time.Time {
	return s.now().UTC()
}

func (s *Store) notify(c change) {
	if c.seq == 0 {
		return
	}

	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()
	if c.seq <= s.delivered {
		return
	}
	s.delivered = c.seq

	s.subMu.Lock()
	fns := make([]func([]task.Task), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		view := make([]task.Task, len(c.tasks))
		copy(view, c.tasks)
		fn(view)
	}
}
