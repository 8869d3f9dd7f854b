package todo

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	domain "github.com/NordCoder/Todorus/internal/domain/todo"
	pg "github.com/NordCoder/Todorus/internal/repository/postgres"
)

type fakeTodoRepo struct {
	seq   int64
	todos map[int64]*domain.Todo
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{todos: make(map[int64]*domain.Todo)}
}

func (f *fakeTodoRepo) Create(_ context.Context, t *domain.Todo) error {
	f.seq++
	t.ID = f.seq
	cp := *t
	f.todos[t.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) GetByID(_ context.Context, id int64) (*domain.Todo, error) {
	t, ok := f.todos[id]
	if !ok {
		return nil, pg.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTodoRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Todo, error) {
	var out []*domain.Todo
	for _, t := range f.todos {
		if t.UserID == userID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTodoRepo) Update(_ context.Context, t *domain.Todo) error {
	if _, ok := f.todos[t.ID]; !ok {
		return pg.ErrNotFound
	}
	cp := *t
	f.todos[t.ID] = &cp
	return nil
}

func (f *fakeTodoRepo) Delete(_ context.Context, id int64) error {
	delete(f.todos, id)
	return nil
}

func TestCreate_DefaultsAndValidation(t *testing.T) {
	repo := newFakeTodoRepo()
	uc := New(repo, nil)
	ctx := context.Background()

	got, err := uc.Create(ctx, 1, "  buy milk  ", "", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Text != "buy milk" {
		t.Fatalf("text = %q", got.Text)
	}
	if got.Priority != domain.PriorityMedium {
		t.Fatalf("priority = %q, want Medium", got.Priority)
	}
	if got.ID == 0 {
		t.Fatal("id not assigned")
	}

	if _, err := uc.Create(ctx, 1, "   ", domain.PriorityLow, nil); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("blank text: got %v", err)
	}
	if _, err := uc.Create(ctx, 1, "x", "urgent", nil); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("bad priority: got %v", err)
	}
}

func TestList_OnlyOwnTodos(t *testing.T) {
	repo := newFakeTodoRepo()
	uc := New(repo, nil)
	ctx := context.Background()

	a1, _ := uc.Create(ctx, 1, "a1", domain.PriorityLow, nil)
	uc.Create(ctx, 2, "b1", domain.PriorityHigh, nil)
	a2, _ := uc.Create(ctx, 1, "a2", domain.PriorityLow, nil)

	got, err := uc.List(ctx, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != a1.ID || got[1].ID != a2.ID {
		t.Fatalf("list = %+v", got)
	}
}

func TestGet_OtherUsersTodoLooksMissing(t *testing.T) {
	repo := newFakeTodoRepo()
	uc := New(repo, nil)
	ctx := context.Background()

	mine, _ := uc.Create(ctx, 1, "mine", domain.PriorityLow, nil)

	if _, err := uc.Get(ctx, 2, mine.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign get: got %v", err)
	}
	if _, err := uc.Get(ctx, 1, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing get: got %v", err)
	}
	if _, err := uc.Get(ctx, 1, mine.ID); err != nil {
		t.Fatalf("own get: %v", err)
	}
}

func TestUpdate_AppliesOnlyProvidedFields(t *testing.T) {
	repo := newFakeTodoRepo()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc := New(repo, func() time.Time { return base })
	ctx := context.Background()

	orig, _ := uc.Create(ctx, 1, "draft", domain.PriorityLow, nil)

	done := true
	got, err := uc.Update(ctx, 1, orig.ID, Patch{Completed: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !got.Completed || got.Text != "draft" || got.Priority != domain.PriorityLow {
		t.Fatalf("partial patch changed other fields: %+v", got)
	}
	if !got.UpdatedAt.Equal(base) {
		t.Fatalf("updated_at = %v", got.UpdatedAt)
	}

	text := "  final  "
	high := domain.PriorityHigh
	due := base.Add(48 * time.Hour)
	duePtr := &due
	got, err = uc.Update(ctx, 1, orig.ID, Patch{Text: &text, Priority: &high, DueDate: &duePtr})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Text != "final" || got.Priority != domain.PriorityHigh || got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Fatalf("full patch: %+v", got)
	}

	// An explicit nil inner pointer clears the date; a nil outer leaves it.
	var noDue *time.Time
	got, err = uc.Update(ctx, 1, orig.ID, Patch{DueDate: &noDue})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.DueDate != nil {
		t.Fatalf("due date not cleared: %v", got.DueDate)
	}
	got, err = uc.Update(ctx, 1, orig.ID, Patch{Completed: &done})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.DueDate != nil {
		t.Fatalf("untouched patch resurrected the due date: %v", got.DueDate)
	}

	empty := "   "
	if _, err := uc.Update(ctx, 1, orig.ID, Patch{Text: &empty}); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("blank text patch: got %v", err)
	}
	bad := domain.Priority("asap")
	if _, err := uc.Update(ctx, 1, orig.ID, Patch{Priority: &bad}); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("bad priority patch: got %v", err)
	}
	if _, err := uc.Update(ctx, 2, orig.ID, Patch{Completed: &done}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign patch: got %v", err)
	}
}

func TestDelete_OwnershipEnforced(t *testing.T) {
	repo := newFakeTodoRepo()
	uc := New(repo, nil)
	ctx := context.Background()

	mine, _ := uc.Create(ctx, 1, "mine", domain.PriorityLow, nil)

	if err := uc.Delete(ctx, 2, mine.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign delete: got %v", err)
	}
	if err := uc.Delete(ctx, 1, mine.ID); err != nil {
		t.Fatalf("own delete: %v", err)
	}
	if _, err := uc.Get(ctx, 1, mine.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted todo still readable: %v", err)
	}
}
