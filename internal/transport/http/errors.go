package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"dsa-tracker/internal/domain"
)

type errorResponse struct {
	Error      string               `json:"error"`
	Fields     []domain.FieldIssue  `json:"fields,omitempty"`
	Incomplete []domain.SolutionRef `json:"incompleteSolutions,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidTopic):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrQuestionNotFound), errors.Is(err, domain.ErrNoMatch):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSlugConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error()}
	switch {
	case errors.Is(err, domain.ErrNoMatch):
		resp.Error = domain.ErrNoMatch.Error()
	case status == http.StatusInternalServerError:
		resp.Error = "internal error"
	}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		resp.Fields = verr.Fields
		resp.Incomplete = verr.Incomplete
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
