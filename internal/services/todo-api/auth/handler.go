package auth

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/NordCoder/Todorus/internal/domain/user"
	"github.com/NordCoder/Todorus/internal/ratelimit"
	"github.com/NordCoder/Todorus/internal/services/todo-api/web"
)

type Handler struct {
	log        *zap.Logger
	uc         *Usecase
	users      user.Repo
	limiter    *ratelimit.Limiter
	trustProxy bool
}

func NewHandler(log *zap.Logger, uc *Usecase, users user.Repo, limiter *ratelimit.Limiter, trustProxy bool) *Handler {
	return &Handler{log: log, uc: uc, users: users, limiter: limiter, trustProxy: trustProxy}
}

// Register wires the auth routes onto mux. Protected routes elsewhere wrap
// themselves with Middleware(h.UC().ParseAccess).
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /signup", h.signup)
	mux.HandleFunc("POST /login", h.login)
	mux.HandleFunc("POST /refresh-token", h.refreshToken)
	mux.HandleFunc("POST /logout", h.logout)
	mux.Handle("GET /me", Middleware(h.uc.ParseAccess)(http.HandlerFunc(h.me)))
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type validationResponse struct {
	Errors ValidationError `json:"errors"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r.Context(), "signup", web.ClientIP(r, h.trustProxy)) {
		web.Error(w, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
		return
	}

	var req signupRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.log.Info("auth.signup", zap.String("email", req.Email))

	_, pair, err := h.uc.SignUp(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		var verr ValidationError
		switch {
		case errors.As(err, &verr):
			web.JSON(w, http.StatusBadRequest, validationResponse{Errors: verr})
		case errors.Is(err, ErrEmailExists):
			web.Error(w, http.StatusBadRequest, "User already exists")
		default:
			h.log.Error("signup failed", zap.Error(err))
			web.Error(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	web.JSON(w, http.StatusCreated, pair)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(r.Context(), "login", web.ClientIP(r, h.trustProxy)) {
		web.Error(w, http.StatusTooManyRequests, "Too many attempts. Please try again later.")
		return
	}

	var req loginRequest
	if err := web.Decode(r, &req); err != nil {
		web.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.log.Info("auth.login", zap.String("email", req.Email))

	_, pair, err := h.uc.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			web.Error(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error("login failed", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	web.JSON(w, http.StatusOK, pair)
}

func (h *Handler) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := web.Decode(r, &req); err != nil || req.RefreshToken == "" {
		web.Error(w, http.StatusUnauthorized, "Refresh token required")
		return
	}

	access, err := h.uc.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidRefreshToken) {
			web.Error(w, http.StatusUnauthorized, "Invalid refresh token")
			return
		}
		h.log.Error("refresh failed", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	web.JSON(w, http.StatusOK, accessTokenResponse{AccessToken: access})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	_ = web.Decode(r, &req)

	if err := h.uc.Logout(r.Context(), req.RefreshToken); err != nil {
		h.log.Error("logout failed", zap.Error(err))
		web.Error(w, http.StatusInternalServerError, "Server error")
		return
	}

	web.Msg(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	uid, ok := UserIDFromCtx(r.Context())
	if !ok {
		web.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	u, err := h.users.GetByID(r.Context(), uid)
	if err != nil {
		web.Error(w, http.StatusNotFound, "User not found")
		return
	}
	web.JSON(w, http.StatusOK, u)
}

// UC exposes the usecase so other route groups can build the auth gate.
func (h *Handler) UC() *Usecase { return h.uc }
