// Package todo implements the to-do list widget core: an ordered set of tasks
// loaded from a snapshot slot, mutated by user actions, and persisted whole
// after every mutation.
package todo

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"widgetkit/domain"
	"widgetkit/notify"
	"widgetkit/storage"
	"widgetkit/store"
	"widgetkit/widget"
)

// ErrEmptyText rejects tasks with no text after trimming.
var ErrEmptyText = errors.New("todo: task text is empty")

// List is one to-do widget instance. It owns its Store; views only ever see
// copies.
type List struct {
	store   *store.Store[domain.Task]
	slot    *storage.Slot[domain.Task]
	notices *notify.Center
	logger  *log.Logger
	now     func() time.Time
}

// New creates a List over the given snapshot slot. Call Load before first use
// to pick up the persisted tasks.
func New(slot *storage.Slot[domain.Task], logger *log.Logger) *List {
	if slot == nil {
		panic("todo.New: slot is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &List{
		store:   store.New(func(t domain.Task) int64 { return t.ID }),
		slot:    slot,
		notices: notify.NewCenter(),
		logger:  logger,
		now:     time.Now,
	}
}

// Load replaces the in-memory tasks with the persisted snapshot. A missing or
// corrupted snapshot leaves the list empty and usable.
func (l *List) Load(ctx context.Context) {
	l.store.Replace(l.slot.Load(ctx))
}

// Add appends a task with trimmed text. Empty input is rejected with a hint
// notice and no mutation.
func (l *List) Add(ctx context.Context, text string) (domain.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		l.notices.Push(notify.Error, "Please enter a task!", notify.InputHintTTL, l.now())
		return domain.Task{}, ErrEmptyText
	}

	task := l.store.Add(domain.Task{
		ID:        store.NextID(),
		Text:      text,
		CreatedAt: l.now().UTC().Format(time.RFC3339),
	})
	l.persist(ctx)
	return task, nil
}

// Toggle flips completion for the given task. Unknown ids are ignored.
func (l *List) Toggle(ctx context.Context, id int64) {
	l.store.Update(id, func(t *domain.Task) { t.IsCompleted = !t.IsCompleted })
	l.persist(ctx)
}

// Delete removes a task. Without confirmation it reports the prompt instead
// of mutating; deleting an absent id is a no-op either way.
func (l *List) Delete(ctx context.Context, id int64, confirmed bool) error {
	if _, ok := l.store.Find(id); !ok {
		return nil
	}
	if !confirmed {
		return &widget.ConfirmationRequired{Prompt: "Are you sure you want to delete this task?"}
	}
	l.store.Remove(id)
	l.persist(ctx)
	return nil
}

// Tasks returns a copy of the current records in insertion order.
func (l *List) Tasks() []domain.Task {
	return l.store.Records()
}

func (l *List) persist(ctx context.Context) {
	if err := l.slot.Save(ctx, l.store.Records()); err != nil {
		l.logger.WithError(err).Warn("task snapshot save failed, continuing in memory")
		l.notices.Push(notify.Error, "Failed to save tasks. Please try again.", notify.FeedbackTTL, l.now())
	}
}

// Row is one rendered task line.
type Row struct {
	ID        int64
	Text      string
	Completed bool
}

// View is the to-do list projection.
type View struct {
	Rows    []Row
	Empty   bool
	Notices []notify.Notice
}

// View projects the current tasks for display. It never mutates the list and
// is stable across calls when nothing changed.
func (l *List) View() View {
	tasks := l.store.Records()
	rows := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, Row{ID: t.ID, Text: t.Text, Completed: t.IsCompleted})
	}
	return View{
		Rows:    rows,
		Empty:   len(rows) == 0,
		Notices: l.notices.Active(l.now()),
	}
}
