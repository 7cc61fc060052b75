package router

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/patric-chuzhbe/exercisetracker/internal/dateparser"
)

var errNotPositiveInt = errors.New("not a positive integer")

func newValidator() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	// Registration only fails for an empty tag or a nil function.
	_ = validate.RegisterValidation("exercisedate", func(fieldLevel validator.FieldLevel) bool {
		return dateparser.IsValid(fieldLevel.Field().String())
	})
	_ = validate.RegisterValidation("positiveint", func(fieldLevel validator.FieldLevel) bool {
		_, err := parsePositiveInt(fieldLevel.Field().String())
		return err == nil
	})

	return validate
}

func parsePositiveInt(value string) (int, error) {
	number, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, err
	}
	if number <= 0 {
		return 0, errNotPositiveInt
	}
	return number, nil
}

// describeValidationErrors renders validator errors as one message, with
// every missing field listed first, e.g.
// "description and duration are required".
func describeValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	var missing []string
	var problems []string
	for _, fieldErr := range validationErrors {
		switch fieldErr.Tag() {
		case "required":
			missing = append(missing, fieldErr.Field())
		case "numeric":
			problems = append(problems, fieldErr.Field()+" must be a number")
		case "exercisedate":
			problems = append(problems, fieldErr.Field()+" must be a valid date")
		case "positiveint":
			problems = append(problems, fieldErr.Field()+" must be a positive integer")
		default:
			problems = append(problems, fieldErr.Field()+" is invalid")
		}
	}

	switch len(missing) {
	case 0:
	case 1:
		problems = append([]string{missing[0] + " is required"}, problems...)
	default:
		last := len(missing) - 1
		problems = append(
			[]string{strings.Join(missing[:last], ", ") + " and " + missing[last] + " are required"},
			problems...,
		)
	}

	return strings.Join(problems, "; ")
}
