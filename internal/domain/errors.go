package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")
	// ErrQuestionNotFound is returned when an id does not resolve to a question.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrNoMatch is returned when a slug resolves to no question. An empty slug never matches.
	ErrNoMatch = errors.New("no match")
	// ErrInvalidTopic indicates a topic label that cannot be keyed by slug.
	ErrInvalidTopic = errors.New("invalid topic label")
	// ErrForbidden is returned when a non-admin writes to the public partition.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when no principal is present.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrSlugConflict indicates another question in the partition already routes to the same slug.
	ErrSlugConflict = errors.New("a question with the same slug already exists")
)

// FieldIssue describes one failed field rule.
type FieldIssue struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// SolutionRef addresses a solution by language and index.
type SolutionRef struct {
	Language Language `json:"language"`
	Index    int      `json:"index"`
}

// ValidationError reports why a question cannot be saved. The caller decides
// whether to block the save or prompt the user.
type ValidationError struct {
	Fields     []FieldIssue  `json:"fields,omitempty"`
	Incomplete []SolutionRef `json:"incompleteSolutions,omitempty"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields)+1)
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Rule))
	}
	if len(e.Incomplete) > 0 {
		refs := make([]string, 0, len(e.Incomplete))
		for _, ref := range e.Incomplete {
			refs = append(refs, fmt.Sprintf("%s[%d]", ref.Language, ref.Index))
		}
		parts = append(parts, "incomplete solutions: "+strings.Join(refs, ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0 && len(e.Incomplete) == 0
}
