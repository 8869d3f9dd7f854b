package todo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/NordCoder/Todorus/internal/domain/todo"
	pg "github.com/NordCoder/Todorus/internal/repository/postgres"
)

var (
	ErrEmptyText       = errors.New("text is required")
	ErrInvalidPriority = errors.New("priority must be Low, Medium or High")
	// ErrNotFound also covers another user's todo: ids must not leak.
	ErrNotFound = errors.New("todo not found")
)

type Usecase struct {
	repo todo.Repo
	clk  func() time.Time
}

func New(repo todo.Repo, clk func() time.Time) *Usecase {
	if clk == nil {
		clk = func() time.Time { return time.Now().UTC() }
	}
	return &Usecase{repo: repo, clk: clk}
}

func (u *Usecase) Create(ctx context.Context, ownerID int64, text string, priority todo.Priority, due *time.Time) (*todo.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}
	if priority == "" {
		priority = todo.PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}
	t := &todo.Todo{
		UserID:   ownerID,
		Text:     text,
		Priority: priority,
		DueDate:  due,
	}
	if err := u.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (u *Usecase) Get(ctx context.Context, requesterID, id int64) (*todo.Todo, error) {
	return u.owned(ctx, requesterID, id)
}

func (u *Usecase) List(ctx context.Context, requesterID int64) ([]*todo.Todo, error) {
	return u.repo.ListByUser(ctx, requesterID)
}

// Patch applies the non-nil fields to the requester's todo. DueDate is
// doubly indirect: nil leaves the date alone, a pointer to nil clears it.
type Patch struct {
	Text      *string
	Completed *bool
	Priority  *todo.Priority
	DueDate   **time.Time
}

func (u *Usecase) Update(ctx context.Context, requesterID, id int64, p Patch) (*todo.Todo, error) {
	cur, err := u.owned(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}
	if p.Text != nil {
		text := strings.TrimSpace(*p.Text)
		if text == "" {
			return nil, ErrEmptyText
		}
		cur.Text = text
	}
	if p.Completed != nil {
		cur.Completed = *p.Completed
	}
	if p.Priority != nil {
		if !p.Priority.Valid() {
			return nil, ErrInvalidPriority
		}
		cur.Priority = *p.Priority
	}
	if p.DueDate != nil {
		cur.DueDate = *p.DueDate
	}
	cur.UpdatedAt = u.clk()

	if err := u.repo.Update(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

func (u *Usecase) Delete(ctx context.Context, requesterID, id int64) error {
	if _, err := u.owned(ctx, requesterID, id); err != nil {
		return err
	}
	return u.repo.Delete(ctx, id)
}

func (u *Usecase) owned(ctx context.Context, requesterID, id int64) (*todo.Todo, error) {
	t, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pg.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.UserID != requesterID {
		return nil, ErrNotFound
	}
	return t, nil
}
