package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Mode selects create (required fields enforced) or update (every field
// optional) validation.
type Mode int

const (
	Create Mode = iota
	Update
)

// DateLayout is the canonical wire format for every date field.
const DateLayout = "2006-01-02"

var (
	moneyPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	toothPattern = regexp.MustCompile(`^([1-9]|[12][0-9]|3[0-2])$`)
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`

	// absent marks a required field that was left out rather than blanked.
	absent bool
}

// ValidationErrors is the failure side of a validation result.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Message
	}
	return "Validation error: " + strings.Join(msgs, "; ")
}

// Input is implemented by every *Fields type.
type Input interface {
	missingFields() []FieldError
}

var registerOnce sync.Once

// RegisterValidators installs the custom tags on gin's validator engine and
// makes field errors report JSON names. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			return IsISODate(fl.Field().String())
		})
		_ = v.RegisterValidation("clock12", func(fl validator.FieldLevel) bool {
			_, err := ParseClock(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
			return moneyPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("toothnum", func(fl validator.FieldLevel) bool {
			return toothPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
			return slices.Contains(PaymentMethods, fl.Field().String())
		})
	})
}

// Validate checks an entity input. Required-field problems are reported
// first, followed by any format violations of present fields. On update,
// absent fields are fine but a present required field may not be blank.
func Validate(in Input, mode Mode) error {
	var errs ValidationErrors
	for _, fe := range in.missingFields() {
		if mode == Create || !fe.absent {
			errs = append(errs, fe)
		}
	}
	if err := ValidateStruct(in); err != nil {
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			if !slices.ContainsFunc(errs, func(m FieldError) bool { return m.Field == fe.Field }) {
				errs = append(errs, fe)
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateStruct runs the binding tags of in and converts failures into
// ValidationErrors.
func ValidateStruct(in any) error {
	RegisterValidators()
	err := binding.Validator.ValidateStruct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gt":
		return field + " must be a positive id"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "paymentmethod":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(PaymentMethods, ", "))
	case "isodate":
		return field + " must be a date in YYYY-MM-DD format"
	case "clock12":
		return field + " must be a time in hh:mm AM/PM format"
	case "money":
		return field + " must be a non-negative amount with at most two decimals"
	case "toothnum":
		return field + " must be a tooth number between 1 and 32"
	default:
		return field + " is invalid"
	}
}

// IsISODate reports whether s is a real calendar date in YYYY-MM-DD form.
func IsISODate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

func requiredString(field string, v *string) *FieldError {
	if v == nil {
		return &FieldError{Field: field, Message: field + " is required", absent: true}
	}
	if strings.TrimSpace(*v) == "" {
		return &FieldError{Field: field, Message: field + " must not be blank"}
	}
	return nil
}

func requiredID(field string, v *uint64) *FieldError {
	if v == nil {
		return &FieldError{Field: field, Message: field + " is required", absent: true}
	}
	return nil
}

func missing(checks ...*FieldError) []FieldError {
	var out []FieldError
	for _, c := range checks {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setOptional(dst **string, v *string) {
	if v != nil {
		s := *v
		*dst = &s
	}
}

func setID(dst *uint64, v *uint64) {
	if v != nil {
		*dst = *v
	}
}
