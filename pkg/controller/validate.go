package controller

import (
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/goliatone/go-collegecms/pkg/formdata"
)

// ValidationErrors maps field names to inline messages. Each gap blocks only
// the submit action; editing other fields stays possible.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "controller: validation failed: " + strings.Join(parts, "; ")
}

// submissionCheck is the validator view of a record about to be submitted.
type submissionCheck struct {
	CollegeName   string `json:"collegeName" validate:"required"`
	CoursesAndFee []any  `json:"coursesAndFee" validate:"required,min=1"`
}

// validateSubmission checks the gates the original console enforced before
// letting a record reach the API.
func validateSubmission(validate *validator.Validate, record formdata.Record) error {
	rows, _ := record.List("coursesAndFee")
	check := submissionCheck{
		CollegeName:   record.String("collegeName"),
		CoursesAndFee: rows,
	}

	err := validate.Struct(check)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	out := make(ValidationErrors, len(invalid))
	for _, fe := range invalid {
		out[fieldName(fe)] = messageFor(fe)
	}
	return out
}

// newValidator builds the validator configured to report JSON field names, so
// inline messages line up with record slots.
func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

func fieldName(fe validator.FieldError) string {
	// Namespace looks like "submissionCheck.collegeName".
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	if len(parts) == 2 {
		return parts[1]
	}
	return fe.Field()
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "at least " + fe.Param() + " entry is required"
	default:
		return "invalid value"
	}
}
