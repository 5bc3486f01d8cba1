package apperror

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldViolation is one failing field in a validation error's details.
type FieldViolation struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// formatFieldName turns a json field name into a label: leave_type_id -> Leave Type Id.
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	return cases.Title(language.English).String(s)
}

// MapValidationError converts binding errors into an AppError. The message
// names the first failing field and details list all of them.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return ErrInvalidInput.WithDetails(map[string]string{"reason": "malformed request body or query"})
	}

	violations := make([]FieldViolation, len(errs))
	for i, e := range errs {
		violations[i] = FieldViolation{Field: e.Field(), Rule: e.Tag(), Param: e.Param()}
	}

	label := formatFieldName(errs[0].Field())
	base := InvalidField(label)
	if errs[0].Tag() == "required" {
		base = RequiredField(label)
	}
	return base.WithDetails(violations)
}
