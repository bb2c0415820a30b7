package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rolodex-app/rolodex/internal/platform/httpx"
	"github.com/rolodex-app/rolodex/internal/shared"
)

// maxAvatarBytes bounds the multipart memory for avatar uploads.
const maxAvatarBytes = 10 << 20

// Handler wires HTTP endpoints for registration, login, email verification
// and avatar upload.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	gate      *Gate
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, gate *Gate) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		gate:      gate,
		validator: validator.New(),
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/users", h.register)
	r.Get("/verify-email", h.verifyEmail)
	r.Post("/token", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.gate.RequireUser)
		r.Post("/users/avatar", h.uploadAvatar)
	})
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// userResponse is the client-facing user representation. The password hash
// and the verification token never cross the boundary.
type userResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"is_verified"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func newUserResponse(u *User) userResponse {
	return userResponse{
		ID:         u.ID,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		CreatedAt:  u.CreatedAt,
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if fields, ok := h.validate(req); !ok {
		httpx.ValidationProblem(w, fields)
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if !errors.Is(err, shared.ErrDuplicateEmail) {
			h.logger.Error("register", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newUserResponse(user))
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		httpx.RespondError(w, shared.ErrInvalidVerification)
		return
	}
	if err := h.service.VerifyEmail(r.Context(), token); err != nil {
		if !errors.Is(err, shared.ErrInvalidVerification) {
			h.logger.Error("verify email", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "email verified successfully"})
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// login exchanges OAuth2 password-grant style form credentials for a bearer
// token. The form field is named username but carries the email.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed form body")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}

	user, err := h.service.Authenticate(r.Context(), email, password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	token, err := h.service.IssueToken(user)
	if err != nil {
		h.logger.Error("issue token", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *Handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	if identity == nil {
		httpx.RespondError(w, shared.ErrInvalidCredentials)
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpx.ValidationProblem(w, map[string]string{"file": "file is required"})
		return
	}
	defer file.Close()

	user, err := h.service.UpdateAvatar(r.Context(), identity.ID, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("upload avatar", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newUserResponse(user))
}

func (h *Handler) validate(req any) (map[string]string, bool) {
	err := h.validator.Struct(req)
	if err == nil {
		return nil, true
	}
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fieldErr := range verrs {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
	}
	return fields, false
}
