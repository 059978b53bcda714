// Package store holds the in-memory task collection and the user's view filter.
// Every mutation is mirrored to a storage.KV under a single key before it
// becomes visible, so the durable copy and the in-memory copy never diverge.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ShayCichocki/taskflow/internal/storage"
	"github.com/ShayCichocki/taskflow/pkg/models"
)

var (
	// ErrNotFound is returned when no task has the requested ID.
	ErrNotFound = errors.New("task not found")
	// ErrEmptyTitle is returned when a task would be saved without a title.
	ErrEmptyTitle = errors.New("task title cannot be empty")
	// ErrInvalidOrder is returned by Reorder when the IDs are not a permutation
	// of the current tasks.
	ErrInvalidOrder = errors.New("invalid task order")
	// ErrInvalidPriority is returned for a priority other than low, medium or
	// high. An empty priority is not an error; it defaults to medium.
	ErrInvalidPriority = errors.New("invalid priority")
	// ErrDuplicateID is returned when an import contains the same ID twice.
	ErrDuplicateID = errors.New("duplicate task id")
	// ErrCorrupt is returned when the stored value cannot be decoded.
	ErrCorrupt = errors.New("stored tasks are corrupt")
)

// createdAtLayout is ISO 8601 in UTC with milliseconds, e.g. 2024-03-15T10:00:00.000Z.
const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Options configures a Store.
type Options struct {
	// Key is the storage key holding the task array. Defaults to storage.KeyTasks.
	Key string
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// NewID defaults to a random UUID.
	NewID func() string
}

// Store is the task collection plus the active filter. It is safe for
// concurrent use.
type Store struct {
	kv     storage.KV
	key    string
	logger *zap.Logger
	now    func() time.Time
	newID  func() string

	mu      sync.RWMutex
	tasks   []models.Task
	filters models.Filter
	// gen counts committed mutations; Reload uses it to detect commits that
	// raced with its unlocked read.
	gen uint64

	subMu   sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// Open loads the task collection from kv. A missing key yields an empty collection.
func Open(ctx context.Context, kv storage.KV, opts Options) (*Store, error) {
	s := &Store{
		kv:      kv,
		key:     opts.Key,
		logger:  opts.Logger,
		now:     opts.Now,
		newID:   opts.NewID,
		filters: models.DefaultFilter(),
		subs:    make(map[int]func(Event)),
	}
	if s.key == "" {
		s.key = storage.KeyTasks
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.New().String() }
	}

	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	s.tasks = tasks
	s.logger.Debug("task store opened", zap.String("key", s.key), zap.Int("tasks", len(tasks)))
	return s, nil
}

func (s *Store) load(ctx context.Context) ([]models.Task, error) {
	raw, ok, err := s.kv.GetItem(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []models.Task{}, nil
	}

	var tasks []models.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	for i := range tasks {
		tasks[i].Normalize()
	}
	return tasks, nil
}

func (s *Store) persist(ctx context.Context, tasks []models.Task) error {
	data, err := encodeTasks(tasks)
	if err != nil {
		return err
	}
	if err := s.kv.SetItem(ctx, s.key, data); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}

func encodeTasks(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("encode tasks: %w", err)
	}
	return string(data), nil
}

// commit runs fn on a copy of the collection, persists the result, and only
// then swaps it in. On any error the in-memory state is untouched.
func (s *Store) commit(ctx context.Context, ev Event, fn func([]models.Task) ([]models.Task, error)) error {
	s.mu.Lock()
	next, err := fn(cloneTasks(s.tasks))
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if err := s.persist(ctx, next); err != nil {
		s.mu.Unlock()
		s.logger.Warn("task mutation rolled back", zap.String("op", string(ev.Type)), zap.Error(err))
		return err
	}
	s.tasks = next
	s.gen++
	s.mu.Unlock()

	s.emit(ev)
	return nil
}

// Add creates a task from input and places it first in the collection.
func (s *Store) Add(ctx context.Context, input models.TaskInput) (models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if err := checkPriority(input.Priority); err != nil {
		return models.Task{}, err
	}

	task := models.Task{
		ID:          s.newID(),
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Priority:    input.Priority,
		Category:    input.Category,
		DueDate:     input.DueDate,
		CreatedAt:   s.now().UTC().Format(createdAtLayout),
	}
	task = task.Clone()
	task.Normalize()

	err := s.commit(ctx, Event{Type: EventAdded, TaskID: task.ID}, func(tasks []models.Task) ([]models.Task, error) {
		return append([]models.Task{task}, tasks...), nil
	})
	if err != nil {
		return models.Task{}, err
	}
	s.logger.Debug("task added", zap.String("id", task.ID))
	return task.Clone(), nil
}

// Update merges patch into the task with the given ID.
func (s *Store) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return models.Task{}, ErrEmptyTitle
	}
	if patch.Priority != nil {
		if err := checkPriority(*patch.Priority); err != nil {
			return models.Task{}, err
		}
	}

	var updated models.Task
	err := s.commit(ctx, Event{Type: EventUpdated, TaskID: id}, func(tasks []models.Task) ([]models.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		patch.Apply(&tasks[i])
		updated = tasks[i].Clone()
		return tasks, nil
	})
	return updated, err
}

// Delete removes the task with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.commit(ctx, Event{Type: EventDeleted, TaskID: id}, func(tasks []models.Task) ([]models.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return append(tasks[:i], tasks[i+1:]...), nil
	})
}

// Toggle flips the completion state of the task with the given ID.
func (s *Store) Toggle(ctx context.Context, id string) (models.Task, error) {
	var toggled models.Task
	err := s.commit(ctx, Event{Type: EventToggled, TaskID: id}, func(tasks []models.Task) ([]models.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		tasks[i].Completed = !tasks[i].Completed
		toggled = tasks[i].Clone()
		return tasks, nil
	})
	return toggled, err
}

// Reorder sets the collection order. ids must contain every current task ID
// exactly once.
func (s *Store) Reorder(ctx context.Context, ids []string) error {
	return s.commit(ctx, Event{Type: EventReordered}, func(tasks []models.Task) ([]models.Task, error) {
		if len(ids) != len(tasks) {
			return nil, fmt.Errorf("%w: got %d ids for %d tasks", ErrInvalidOrder, len(ids), len(tasks))
		}
		byID := make(map[string]models.Task, len(tasks))
		for _, t := range tasks {
			byID[t.ID] = t
		}
		out := make([]models.Task, 0, len(ids))
		for _, id := range ids {
			t, ok := byID[id]
			if !ok {
				return nil, fmt.Errorf("%w: unknown or repeated id %s", ErrInvalidOrder, id)
			}
			delete(byID, id)
			out = append(out, t)
		}
		return out, nil
	})
}

// Move relocates one task to index, clamped to the collection bounds.
func (s *Store) Move(ctx context.Context, id string, index int) error {
	return s.commit(ctx, Event{Type: EventReordered, TaskID: id}, func(tasks []models.Task) ([]models.Task, error) {
		i := indexOf(tasks, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		t := tasks[i]
		tasks = append(tasks[:i], tasks[i+1:]...)
		if index < 0 {
			index = 0
		}
		if index > len(tasks) {
			index = len(tasks)
		}
		tasks = append(tasks, models.Task{})
		copy(tasks[index+1:], tasks[index:])
		tasks[index] = t
		return tasks, nil
	})
}

// Import adds tasks to the collection. Tasks without an ID get a fresh one and
// tasks without a creation time are stamped now. With replace, the imported
// tasks become the whole collection. Otherwise tasks whose ID already exists
// overwrite it in place and the rest are prepended in the given order.
func (s *Store) Import(ctx context.Context, incoming []models.Task, replace bool) (added, updated int, err error) {
	prepared := make([]models.Task, 0, len(incoming))
	seen := make(map[string]bool, len(incoming))
	for _, t := range incoming {
		t = t.Clone()
		if strings.TrimSpace(t.Title) == "" {
			return 0, 0, ErrEmptyTitle
		}
		if err := checkPriority(t.Priority); err != nil {
			return 0, 0, err
		}
		if t.ID == "" {
			t.ID = s.newID()
		}
		if seen[t.ID] {
			return 0, 0, fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = true
		if t.CreatedAt == "" {
			t.CreatedAt = s.now().UTC().Format(createdAtLayout)
		}
		t.Normalize()
		prepared = append(prepared, t)
	}

	err = s.commit(ctx, Event{Type: EventImported}, func(tasks []models.Task) ([]models.Task, error) {
		added, updated = 0, 0
		if replace {
			added = len(prepared)
			return prepared, nil
		}
		var fresh []models.Task
		for _, t := range prepared {
			if i := indexOf(tasks, t.ID); i >= 0 {
				tasks[i] = t
				updated++
				continue
			}
			fresh = append(fresh, t)
		}
		added = len(fresh)
		return append(fresh, tasks...), nil
	})
	if err != nil {
		return 0, 0, err
	}
	return added, updated, nil
}

// reloadAttempts bounds how often Reload re-reads storage when mutations keep
// committing underneath it.
const reloadAttempts = 3

// Reload re-reads the collection from storage. It reports whether the
// in-memory collection changed; subscribers are only notified on change.
//
// The read happens without the lock. If a mutation commits in the meantime
// the snapshot is discarded and storage is read again; after reloadAttempts
// such races memory is left as is, since it already holds the latest write.
func (s *Store) Reload(ctx context.Context) (bool, error) {
	for attempt := 0; attempt < reloadAttempts; attempt++ {
		s.mu.RLock()
		gen := s.gen
		s.mu.RUnlock()

		loaded, err := s.load(ctx)
		if err != nil {
			return false, err
		}
		newData, err := encodeTasks(loaded)
		if err != nil {
			return false, err
		}

		s.mu.Lock()
		if s.gen != gen {
			s.mu.Unlock()
			s.logger.Debug("reload raced with a mutation, reading again", zap.Int("attempt", attempt+1))
			continue
		}
		curData, err := encodeTasks(s.tasks)
		if err != nil {
			s.mu.Unlock()
			return false, err
		}
		if curData == newData {
			s.mu.Unlock()
			return false, nil
		}
		s.tasks = loaded
		s.mu.Unlock()

		s.logger.Debug("task store reloaded", zap.Int("tasks", len(loaded)))
		s.emit(Event{Type: EventReloaded})
		return true, nil
	}
	return false, nil
}

// Tasks returns a copy of the full collection in order.
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTasks(s.tasks)
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := indexOf(s.tasks, id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.tasks[i].Clone(), nil
}

// Resolve finds a task by full ID or by a unique ID prefix.
func (s *Store) Resolve(ref string) (models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexOf(s.tasks, ref); i >= 0 {
		return s.tasks[i].Clone(), nil
	}
	if ref == "" {
		return models.Task{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	match := -1
	for i, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			if match >= 0 {
				return models.Task{}, fmt.Errorf("ambiguous task id prefix %q", ref)
			}
			match = i
		}
	}
	if match < 0 {
		return models.Task{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return s.tasks[match].Clone(), nil
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Filters returns the active filter.
func (s *Store) Filters() models.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

// SetFilters replaces the active filter. Unknown status or priority values
// fall back to "all".
func (s *Store) SetFilters(f models.Filter) {
	f.Normalize()
	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()
	s.emit(Event{Type: EventFiltersChanged})
}

// PatchFilters merges a partial filter into the active one and returns the result.
func (s *Store) PatchFilters(p models.FilterPatch) models.Filter {
	s.mu.Lock()
	s.filters = p.Apply(s.filters)
	f := s.filters
	s.mu.Unlock()
	s.emit(Event{Type: EventFiltersChanged})
	return f
}

// ResetFilters restores the default filter.
func (s *Store) ResetFilters() {
	s.SetFilters(models.DefaultFilter())
}

// Filtered returns the tasks that pass the active filter, in collection order.
func (s *Store) Filtered() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Apply(s.tasks, s.filters)
}

// Categories returns the distinct non-empty categories, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Categories(s.tasks)
}

// Stats summarizes the collection as of now.
func (s *Store) Stats() models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.tasks, s.now())
}

func checkPriority(p models.Priority) error {
	if p == "" || p.Valid() {
		return nil
	}
	return fmt.Errorf("%w %q (valid: low, medium, high)", ErrInvalidPriority, p)
}

func indexOf(tasks []models.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []models.Task) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
