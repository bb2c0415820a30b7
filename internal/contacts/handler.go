package contacts

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rolodex-app/rolodex/internal/platform/httpx"
	"github.com/rolodex-app/rolodex/internal/shared"
)

const birthdayLayout = "2006-01-02"

// Handler wires HTTP endpoints for the contacts collection. Every route is
// mounted behind the access gate; handlers read the resolved identity from
// the request context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers contact routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/search", h.search)
	r.Get("/upcoming-birthdays", h.upcomingBirthdays)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	FirstName   string  `json:"first_name" validate:"required"`
	LastName    string  `json:"last_name" validate:"required"`
	DisplayName *string `json:"display_name"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required"`
	Birthday    *string `json:"birthday"`
	Notes       *string `json:"notes"`
}

type updateRequest struct {
	FirstName   *string `json:"first_name" validate:"omitempty,min=1"`
	LastName    *string `json:"last_name" validate:"omitempty,min=1"`
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Phone       *string `json:"phone" validate:"omitempty,min=1"`
	Birthday    *string `json:"birthday"`
	Notes       *string `json:"notes"`
}

type contactResponse struct {
	ID          int64   `json:"id"`
	OwnerID     int64   `json:"owner_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	DisplayName *string `json:"display_name,omitempty"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	Birthday    *string `json:"birthday,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

func newContactResponse(c *Contact) contactResponse {
	resp := contactResponse{
		ID:          c.ID,
		OwnerID:     c.OwnerID,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DisplayName: c.DisplayName,
		Email:       c.Email,
		Phone:       c.Phone,
		Notes:       c.Notes,
	}
	if c.Birthday != nil {
		b := c.Birthday.Format(birthdayLayout)
		resp.Birthday = &b
	}
	return resp
}

func newContactListResponse(list []Contact) []contactResponse {
	out := make([]contactResponse, len(list))
	for i := range list {
		out[i] = newContactResponse(&list[i])
	}
	return out
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", defaultListLimit)

	list, err := h.service.List(r.Context(), identity.ID, skip, limit)
	if err != nil {
		h.logger.Error("list contacts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newContactListResponse(list))
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())

	var req createRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	fields := h.validate(req)
	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		fields["birthday"] = "must be a date in YYYY-MM-DD format"
	}
	if len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	contact, err := h.service.Create(r.Context(), identity.ID, NewContact{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		Birthday:    birthday,
		Notes:       req.Notes,
	})
	if err != nil {
		h.logger.Error("create contact", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newContactResponse(contact))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	contact, err := h.service.Get(r.Context(), identity.ID, id)
	if err != nil {
		h.respondServiceError(w, "get contact", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newContactResponse(contact))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	fields := h.validate(req)
	birthday, err := parseBirthday(req.Birthday)
	if err != nil {
		fields["birthday"] = "must be a date in YYYY-MM-DD format"
	}
	if len(fields) > 0 {
		httpx.ValidationProblem(w, fields)
		return
	}

	contact, err := h.service.Update(r.Context(), identity.ID, id, ContactUpdate{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		Birthday:    birthday,
		Notes:       req.Notes,
	})
	if err != nil {
		h.respondServiceError(w, "update contact", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newContactResponse(contact))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	contact, err := h.service.Delete(r.Context(), identity.ID, id)
	if err != nil {
		h.respondServiceError(w, "delete contact", err)
		return
	}
	httpx.JSON(w, http.StatusOK, newContactResponse(contact))
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())
	query := r.URL.Query().Get("query")
	if query == "" {
		httpx.ValidationProblem(w, map[string]string{"query": "query is required"})
		return
	}

	list, err := h.service.Search(r.Context(), identity.ID, query)
	if err != nil {
		h.logger.Error("search contacts", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newContactListResponse(list))
}

func (h *Handler) upcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	identity := shared.IdentityFromContext(r.Context())

	list, err := h.service.UpcomingBirthdays(r.Context(), identity.ID, time.Now().UTC())
	if err != nil {
		h.logger.Error("upcoming birthdays", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, newContactListResponse(list))
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	if !errors.Is(err, shared.ErrNotFound) {
		h.logger.Error(op, slog.Any("error", err))
	}
	httpx.RespondError(w, err)
}

func (h *Handler) validate(req any) map[string]string {
	fields := make(map[string]string)
	err := h.validator.Struct(req)
	if err == nil {
		return fields
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fieldErr := range verrs {
			fields[fieldErr.Field()] = fieldErr.Tag()
		}
	}
	return fields
}

func parseBirthday(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(birthdayLayout, *raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		// Malformed ids get the same 404 as missing records.
		httpx.RespondError(w, shared.ErrNotFound)
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
