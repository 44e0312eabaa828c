package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var alarmTimeRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidationError is returned when a request body does not match the
// expected shape. Fields maps JSON field names to the failed rule.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("alarmtime", func(fl validator.FieldLevel) bool {
			return IsValidAlarmTime(fl.Field().String())
		})
		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			return IsWeekday(fl.Field().String())
		})
		validate = v
	})
	return validate
}

func IsValidAlarmTime(value string) bool {
	return alarmTimeRegex.MatchString(value)
}

func IsWeekday(value string) bool {
	for _, d := range Weekdays {
		if d == value {
			return true
		}
	}
	return false
}

func validateStruct(s any) error {
	err := validatorInstance().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Message: err.Error()}
	}

	fields := make(map[string]string, len(verrs))
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = fe.Tag()
		msgs = append(msgs, describe(name, fe))
	}
	sort.Strings(msgs)
	return &ValidationError{Message: strings.Join(msgs, "; "), Fields: fields}
}

// fieldName strips the struct prefix and any slice index: "days[1]" -> "days".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.Index(ns, "["); i >= 0 {
		ns = ns[:i]
	}
	return ns
}

func describe(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "alarmtime":
		return name + " must be HH:MM (00:00-23:59)"
	case "weekday":
		return fmt.Sprintf("%s must only contain %s", name, strings.Join(Weekdays, ", "))
	case "unique":
		return name + " must not contain duplicates"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	}
	return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
}
