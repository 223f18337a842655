package submission

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	validateErr  error
)

func formValidator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		custom := map[string]validator.Func{
			"notblank":     validators.NotBlank,
			"contactemail": validEmail,
			"anychecked":   anyChecked,
		}
		for tag, fn := range custom {
			if err := v.RegisterValidation(tag, fn); err != nil {
				validateErr = fmt.Errorf("register %s validation: %w", tag, err)
				return
			}
		}
		validate = v
	})
	return validate, validateErr
}

func validEmail(fl validator.FieldLevel) bool {
	return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func anyChecked(fl validator.FieldLevel) bool {
	opts, ok := fl.Field().Interface().([]ServiceOption)
	if !ok {
		return false
	}
	for _, o := range opts {
		if o.Checked {
			return true
		}
	}
	return false
}

// Validate checks f and returns a *ValidationError listing every bad field.
func Validate(f Form) error {
	if f == nil {
		return &ValidationError{Fields: []FieldError{{Field: "form", Message: "form is required"}}}
	}
	v, err := formValidator()
	if err != nil {
		return err
	}
	err = v.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "contactemail":
		return "please enter a valid email address"
	case "anychecked":
		return "please select at least one service"
	default:
		return fe.Field() + " is required"
	}
}
