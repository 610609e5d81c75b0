package domain

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func questionValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// routable: the value must produce a non-empty slug.
		_ = v.RegisterValidation("routable", func(fl validator.FieldLevel) bool {
			return Slugify(fl.Field().String()) != ""
		})
		validate = v
	})
	return validate
}

// ValidateQuestion checks the required fields and the co-presence rule of
// every solution. It returns nil or a *ValidationError.
func ValidateQuestion(q Question) error {
	verr := &ValidationError{}

	if err := questionValidator().Struct(q); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			verr.Fields = append(verr.Fields, FieldIssue{Field: fe.Field(), Rule: fe.Tag()})
		}
	}
	verr.Incomplete = PrepareSolutions(q.Solutions).Incomplete

	if verr.empty() {
		return nil
	}
	return verr
}
