package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/stockroom/internal/auth"
	"github.com/MrJamesThe3rd/stockroom/internal/http/render"
)

type Handler struct {
	svc       *auth.Service
	tokens    *auth.Tokens
	validator *validator.Validate
	rateLimit int
}

// NewHandler builds the auth endpoints. rateLimit caps sign-in attempts per IP and minute; zero
// disables the limit.
func NewHandler(svc *auth.Service, tokens *auth.Tokens, rateLimit int) *Handler {
	return &Handler{
		svc:       svc,
		tokens:    tokens,
		validator: render.NewValidator(),
		rateLimit: rateLimit,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		if h.rateLimit > 0 {
			r.Use(httprate.Limit(h.rateLimit, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
					render.Error(w, http.StatusTooManyRequests, "too many requests")
				}),
			))
		}

		r.Post("/login", h.login)
		r.Post("/register", h.register)
		r.Post("/federated", h.federated)
		r.Post("/federated/{id}/role", h.assignRole)
	})

	r.With(Authenticate(h.tokens)).Get("/me", h.me)
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := render.Decode(r, h.validator, &req); err != nil {
		render.ValidationError(w, err)
		return
	}

	user, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			render.Error(w, http.StatusUnauthorized, err.Error())
			return
		}

		slog.Error("failed to log in", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	h.issue(w, http.StatusOK, user)
}

type registerRequest struct {
	Username string    `json:"username"`
	Password string    `json:"password"`
	Role     auth.Role `json:"role"`
}

// register leaves field checks to the service so its rule order decides the message.
func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.svc.Register(r.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		slog.Error("failed to register", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	status := http.StatusCreated
	if !res.Success {
		status = http.StatusBadRequest
	}

	render.JSON(w, status, registerResponse{Success: res.Success, Message: res.Message})
}

type federatedRequest struct {
	Subject string    `json:"subject" validate:"required"`
	Email   string    `json:"email" validate:"omitempty,email"`
	Name    string    `json:"name"`
	Role    auth.Role `json:"role" validate:"omitempty,oneof=admin employee"`
}

func (h *Handler) federated(w http.ResponseWriter, r *http.Request) {
	var req federatedRequest
	if err := render.Decode(r, h.validator, &req); err != nil {
		render.ValidationError(w, err)
		return
	}

	identity := auth.Identity{Subject: req.Subject, Email: req.Email, Name: req.Name, Role: req.Role}

	user, pending, err := h.svc.SignInFederated(r.Context(), identity)
	if err != nil {
		slog.Error("failed to complete federated sign-in", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	if pending != nil {
		render.JSON(w, http.StatusAccepted, pendingResponse{
			PendingID: pending.ID,
			Username:  pending.Identity.DisplayName(),
		})

		return
	}

	h.issue(w, http.StatusOK, user)
}

type roleRequest struct {
	Role auth.Role `json:"role" validate:"required,oneof=admin employee"`
}

func (h *Handler) assignRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := render.Decode(r, h.validator, &req); err != nil {
		render.ValidationError(w, err)
		return
	}

	user, err := h.svc.AssignRole(r.Context(), chi.URLParam(r, "id"), req.Role)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPendingNotFound):
			render.Error(w, http.StatusNotFound, err.Error())
		case errors.Is(err, auth.ErrInvalidRole):
			render.Error(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to assign role", "error", err)
			render.Error(w, http.StatusInternalServerError, "internal error")
		}

		return
	}

	h.issue(w, http.StatusOK, user)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, _ := auth.ClaimsFrom(r.Context())

	user, err := h.svc.User(r.Context(), claims.UserID())
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			render.Error(w, http.StatusUnauthorized, "unknown user")
			return
		}

		slog.Error("failed to load user", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *Handler) issue(w http.ResponseWriter, status int, user *auth.User) {
	token, expires, err := h.tokens.Issue(*user)
	if err != nil {
		slog.Error("failed to issue token", "error", err)
		render.Error(w, http.StatusInternalServerError, "internal error")

		return
	}

	render.JSON(w, status, tokenResponse{Token: token, ExpiresAt: expires, User: toUserResponse(user)})
}
