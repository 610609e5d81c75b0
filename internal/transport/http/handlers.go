package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"dsa-tracker/internal/app"
	"dsa-tracker/internal/domain"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the REST API over the tracker use cases.
type Handler struct {
	service *app.TrackerService
	logger  *zap.Logger
	loc     *time.Location
}

func NewHandler(service *app.TrackerService, logger *zap.Logger, loc *time.Location) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Handler{service: service, logger: logger, loc: loc}
}

// scopeParam maps the {scope} path segment: "me" is the caller's own
// partition, "public" the shared one.
func scopeParam(r *http.Request) (domain.Scope, bool) {
	switch chi.URLParam(r, "scope") {
	case "me":
		return domain.ScopeUser, true
	case "public":
		return domain.ScopePublic, true
	}
	return "", false
}

func (h *Handler) withScope(fn func(http.ResponseWriter, *http.Request, domain.Principal, domain.Scope)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, ok := scopeParam(r)
		if !ok {
			http.NotFound(w, r)
			return
		}
		fn(w, r, PrincipalFrom(r.Context()), scope)
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
	writeError(w, err)
}

// decodeInput reads a question body. Legacy shapes are accepted and
// canonicalized like stored documents.
func decodeInput(r *http.Request) (app.QuestionInput, error) {
	var q domain.Question
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		return app.QuestionInput{}, &domain.ValidationError{Fields: []domain.FieldIssue{{Field: "body", Rule: "json"}}}
	}
	return app.InputFromQuestion(q), nil
}

func (h *Handler) Topics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.service.Topics(r.Context(), PrincipalFrom(r.Context()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

func (h *Handler) RegisterTopic(w http.ResponseWriter, r *http.Request, p domain.Principal, scope domain.Scope) {
	var body struct {
		Label string `json:"label"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.fail(w, r, &domain.ValidationError{Fields: []domain.FieldIssue{{Field: "body", Rule: "json"}}})
		return
	}
	added, err := h.service.RegisterTopic(r.Context(), p, scope, body.Label)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{"label": body.Label, "added": added})
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request, p domain.Principal, scope domain.Scope) {
	filter := app.ListFilter{
		Topic:      r.URL.Query().Get("topic"),
		Difficulty: domain.Difficulty(r.URL.Query().Get("difficulty")),
	}
	questions, err := h.service.ListQuestions(r.Context(), p, scope, filter)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

func (h *Handler) CreateQuestion(w http.ResponseWriter, r *http.Request, p domain.Principal, scope domain.Scope) {
	in, err := decodeInput(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.service.AddQuestion(r.Context(), p, scope, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (h *Handler) GetQuestion(w http.ResponseWriter, r *http.Request, p domain.Principal, scope domain.Scope) {
	q, err := h.service.GetQuestion(r.Context(), p, scope, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) FindBySlug(w http.ResponseWriter, r *http.Request, p domain.Principal, scope domain.Scope) {
	q, err := h.service.FindBySlug(r.Context(), p, scope, chi.URLParam(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) UpdateQuestion(w http.ResponseWriter, r *http.Request, p domain.Principal, scope domain.Scope) {
	in, err := decodeInput(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q, err := h.service.UpdateQuestion(r.Context(), p, scope, chi.URLParam(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *Handler) DeleteQuestion(w http.ResponseWriter, r *http.Request, p domain.Principal, scope domain.Scope) {
	if err := h.service.DeleteQuestion(r.Context(), p, scope, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkRevised(w http.ResponseWriter, r *http.Request, p domain.Principal, scope domain.Scope) {
	q, update, err := h.service.MarkRevised(r.Context(), p, scope, chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"question": q, "activity": update})
}

// Heatmap serves the activity grid; asOf defaults to today.
func (h *Handler) Heatmap(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now().In(h.loc)
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, h.loc)
		if err != nil {
			h.fail(w, r, &domain.ValidationError{Fields: []domain.FieldIssue{{Field: "asOf", Rule: "date"}}})
			return
		}
		asOf = parsed
	}
	hm, err := h.service.Heatmap(r.Context(), PrincipalFrom(r.Context()), asOf)
	if err != nil {
		h.fail(w, r, fmt.Errorf("heatmap: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, hm)
}
