package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/campusshare/campusshare/internal/model"
	"github.com/go-playground/validator/v10"
)

// New returns a validator with the domain tags registered:
// resource_type, privacy and report_reason.
func New() *validator.Validate {
	v := validator.New()

	// Report fields by their json name where one is set.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("resource_type", func(fl validator.FieldLevel) bool {
		return model.IsValidResourceType(fl.Field().String())
	})
	_ = v.RegisterValidation("privacy", func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case model.PrivacyPublic, model.PrivacyPrivate:
			return true
		default:
			return false
		}
	})
	_ = v.RegisterValidation("report_reason", func(fl validator.FieldLevel) bool {
		return model.IsValidReportReason(fl.Field().String())
	})

	return v
}

// Message flattens validator errors into one readable sentence, e.g.
// "title is required; rating must be at most 5".
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return strings.Join(msgs, "; ")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	if strings.ToLower(field) != field {
		field = snake(field)
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "resource_type":
		return field + " must be one of: " + strings.Join(model.ResourceTypes, ", ")
	case "privacy":
		return field + " must be public or private"
	case "report_reason":
		return field + " must be one of: " + strings.Join(model.ReportReasons, ", ")
	default:
		return field + " is invalid"
	}
}

// snake turns a Go field name like "YearBatch" or "ResourceID" into
// "year_batch" or "resource_id".
func snake(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]) && unicode.IsUpper(runes[i-1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
