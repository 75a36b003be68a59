package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/sandeepkv93/taskdeck/internal/api"
	"github.com/sandeepkv93/taskdeck/internal/model"
)

var (
	ErrDeleteCancelled = errors.New("tasks: delete cancelled")
	// ErrSuperseded is returned by List when a newer List was issued before
	// this response arrived. The cache is left untouched.
	ErrSuperseded = errors.New("tasks: superseded by a newer list request")
)

// API is the task endpoint surface the repository drives.
type API interface {
	List(ctx context.Context, query url.Values) ([]model.Task, error)
	Get(ctx context.Context, id int64) (model.Task, error)
	Create(ctx context.Context, in model.TaskCreate) (model.Task, error)
	Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error)
	Delete(ctx context.Context, id int64) error
}

// ConfirmFunc is asked before a delete is sent. Returning false cancels it.
type ConfirmFunc func(model.Task) bool

// Confirmed returns a ConfirmFunc with a fixed answer, for callers that have
// already asked the user.
func Confirmed(answer bool) ConfirmFunc {
	return func(model.Task) bool { return answer }
}

type Counts struct {
	Todo       int
	InProgress int
	Done       int
}

func (c Counts) Total() int { return c.Todo + c.InProgress + c.Done }

type Option func(*Repository)

func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

func WithInitialFilter(f model.Filter) Option {
	return func(r *Repository) { r.filter = f }
}

// Repository is the client-side cache of the user's tasks. Only the most
// recently issued List may replace the cache.
type Repository struct {
	api    API
	logger *slog.Logger

	mu         sync.Mutex
	tasks      []model.Task
	filter     model.Filter
	generation uint64
	loading    bool
	loaded     bool
	errText    string
}

func NewRepository(client API, opts ...Option) *Repository {
	r := &Repository{
		api:    client,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tasks:  make([]model.Task, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) Tasks() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

func (r *Repository) Filter() model.Filter {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter
}

func (r *Repository) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Loaded reports whether any List has been applied since the last Reset.
func (r *Repository) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// Err is the user-facing text of the last failure, "" when healthy.
func (r *Repository) Err() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errText
}

func (r *Repository) Find(id int64) (model.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return model.Task{}, false
	}
	return r.tasks[i], true
}

func (r *Repository) Counts() Counts {
	r.mu.Lock()
	defer r.mu.Unlock()
	var c Counts
	for _, t := range r.tasks {
		switch t.Status {
		case model.StatusTodo:
			c.Todo++
		case model.StatusInProgress:
			c.InProgress++
		case model.StatusDone:
			c.Done++
		}
	}
	return c
}

func (r *Repository) Urgent(now time.Time) []model.Task {
	return model.UrgentTasks(r.Tasks(), now)
}

// Reset drops cached state and invalidates in-flight lists.
func (r *Repository) Reset(f model.Filter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	r.tasks = make([]model.Task, 0)
	r.filter = f
	r.loading = false
	r.loaded = false
	r.errText = ""
}

// List fetches tasks for f and replaces the cache with the result.
func (r *Repository) List(ctx context.Context, f model.Filter) error {
	r.mu.Lock()
	r.generation++
	gen := r.generation
	r.filter = f
	r.loading = true
	r.errText = ""
	r.mu.Unlock()

	items, err := r.api.List(ctx, f.Query())

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.generation {
		r.logger.Debug("discarding stale task list", "generation", gen, "latest", r.generation)
		return ErrSuperseded
	}
	r.loading = false
	if err != nil {
		r.errText = listErrorText(err)
		r.logger.Warn("list tasks failed", "err", err)
		return err
	}
	r.tasks = append(make([]model.Task, 0, len(items)), items...)
	r.loaded = true
	return nil
}

// Reload re-runs the last issued query.
func (r *Repository) Reload(ctx context.Context) error {
	return r.List(ctx, r.Filter())
}

// ApplySearch merges partial filter values into the current filter and lists.
func (r *Repository) ApplySearch(ctx context.Context, patch model.FilterPatch) error {
	return r.List(ctx, r.Filter().Apply(patch))
}

func listErrorText(err error) string {
	switch {
	case api.IsUnauthorized(err):
		return "session expired, please log in again"
	case api.KindOf(err) == api.KindNetwork:
		return api.Message(err)
	case api.StatusOf(err) != 0:
		return fmt.Sprintf("failed to load tasks (status %d)", api.StatusOf(err))
	default:
		return "failed to load tasks"
	}
}

func (r *Repository) Get(ctx context.Context, id int64) (model.Task, error) {
	task, err := r.api.Get(ctx, id)
	if err != nil {
		return model.Task{}, err
	}
	r.mu.Lock()
	if i := r.indexOf(id); i >= 0 {
		r.tasks[i] = task
	}
	r.mu.Unlock()
	return task, nil
}

// Create validates the draft locally before any request and inserts the
// server's task at the head for newest-first order, otherwise at the tail.
func (r *Repository) Create(ctx context.Context, d model.TaskDraft) (model.Task, error) {
	body, err := d.Normalize()
	if err != nil {
		return model.Task{}, err
	}
	task, err := r.api.Create(ctx, body)
	if err != nil {
		r.setErr(api.Message(err))
		return model.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.errText = ""
	if i := r.indexOf(task.ID); i >= 0 {
		r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	}
	if r.filter.PrependsCreated() {
		r.tasks = append([]model.Task{task}, r.tasks...)
	} else {
		r.tasks = append(r.tasks, task)
	}
	return task, nil
}

// Update sends a partial update and replaces the cached task with the
// server's representation. On failure the cache is unchanged.
func (r *Repository) Update(ctx context.Context, id int64, patch model.TaskPatch) (model.Task, error) {
	if err := patch.Validate(); err != nil {
		return model.Task{}, err
	}
	task, err := r.api.Update(ctx, id, patch)
	if err != nil {
		r.setErr(api.Message(err))
		return model.Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.errText = ""
	if i := r.indexOf(id); i >= 0 {
		r.tasks[i] = task
	}
	return task, nil
}

// Delete asks confirm first. A declined or nil confirmation sends nothing.
func (r *Repository) Delete(ctx context.Context, id int64, confirm ConfirmFunc) error {
	task, ok := r.Find(id)
	if !ok {
		task = model.Task{ID: id}
	}
	if confirm == nil || !confirm(task) {
		return ErrDeleteCancelled
	}
	if err := r.api.Delete(ctx, id); err != nil {
		r.setErr(api.Message(err))
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.errText = ""
	if i := r.indexOf(id); i >= 0 {
		r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	}
	return nil
}

func (r *Repository) setErr(text string) {
	r.mu.Lock()
	r.errText = text
	r.mu.Unlock()
}

// indexOf must be called with mu held.
func (r *Repository) indexOf(id int64) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
