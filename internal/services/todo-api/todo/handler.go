package todo

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	domain "github.com/NordCoder/Todorus/internal/domain/todo"
	"github.com/NordCoder/Todorus/internal/services/todo-api/auth"
	"github.com/NordCoder/Todorus/internal/services/todo-api/web"
)

type Handler struct {
	log *zap.Logger
	uc  *Usecase
}

func NewHandler(log *zap.Logger, uc *Usecase) *Handler {
	return &Handler{log: log, uc: uc}
}

// Register wires the todo routes onto mux behind the auth gate.
func (h *Handler) Register(mux *http.ServeMux, gate func(http.Handler) http.Handler) {
	protected := func(fn http.HandlerFunc) http.Handler { return gate(fn) }

	mux.Handle("POST /todos", protected(h.create))
	mux.Handle("GET /todos", protected(h.list))
	mux.Handle("GET /todos/{id}", protected(h.get))
	mux.Handle("PATCH /todos/{id}", protected(h.update))
	mux.Handle("DELETE /todos/{id}", protected(h.delete))
}

type createRequest struct {
	Text     string     `json:"text"`
	Priority string     `json:"priority"`
	DueDate  *time.Time `json:"due_date"`
}

// optionalTime separates an absent due_date key from an explicit null, so
// a patch can clear a date and not just set one.
type optionalTime struct {
	set   bool
	value *time.Time
}

func (o *optionalTime) UnmarshalJSON(b []byte) error {
	o.set = true
	if string(b) == "null" {
		o.value = nil
		return nil
	}
	return json.Unmarshal(b, &o.value)
}

type patchRequest struct {
	Text      *string      `json:"text"`
	Completed *bool        `json:"completed"`
	Priority  *string      `json:"priority"`
	DueDate   optionalTime `json:"due_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var req createRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.uc.Create(r.Context(), uid, req.Text, domain.Priority(req.Priority), req.DueDate)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	web.JSON(w, http.StatusCreated, t)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromCtx(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	todos, err := h.uc.List(r.Context(), uid)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	if todos == nil {
		todos = []*domain.Todo{}
	}
	web.JSON(w, http.StatusOK, todos)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.requester(w, r)
	if !ok {
		return
	}

	t, err := h.uc.Get(r.Context(), uid, id)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	web.JSON(w, http.StatusOK, t)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.requester(w, r)
	if !ok {
		return
	}

	var req patchRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := Patch{Text: req.Text, Completed: req.Completed}
	if req.Priority != nil {
		pr := domain.Priority(*req.Priority)
		p.Priority = &pr
	}
	if req.DueDate.set {
		p.DueDate = &req.DueDate.value
	}

	t, err := h.uc.Update(r.Context(), uid, id, p)
	if err != nil {
		h.respondErr(w, err)
		return
	}
	web.JSON(w, http.StatusOK, t)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	uid, id, ok := h.requester(w, r)
	if !ok {
		return
	}

	if err := h.uc.Delete(r.Context(), uid, id); err != nil {
		h.respondErr(w, err)
		return
	}
	web.Msg(w, http.StatusOK, "Todo deleted")
}

func (h *Handler) requester(w http.ResponseWriter, r *http.Request) (uid, id int64, ok bool) {
	uid, ok = auth.UserIDFromCtx(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return 0, 0, false
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		web.Error(w, http.StatusNotFound, "Todo not found")
		return 0, 0, false
	}
	return uid, id, true
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		web.Error(w, http.StatusNotFound, "Todo not found")
	case errors.Is(err, ErrEmptyText), errors.Is(err, ErrInvalidPriority):
		web.Error(w, http.StatusBadRequest, err.Error())
	default:
		h.log.Error("todo handler", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Server error")
	}
}
