// Package forms holds the admin editing forms: one draft per entity,
// validated before anything is written, saved as an insert when no record
// was given and as an update of that record otherwise.
package forms

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"portfolio/models"
	"portfolio/store"
)

var ErrValidation = errors.New("validation failed")

// ValidationError lists the message for each invalid field, keyed by the
// field's form name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	msgs := make([]string, 0, len(names))
	for _, name := range names {
		msgs = append(msgs, e.Fields[name])
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	mustRegister(v, "notblank", validators.NotBlank)
	mustRegister(v, "worktype", func(fl validator.FieldLevel) bool {
		return models.IsWorkType(fl.Field().String())
	})
	mustRegister(v, "skillcategory", func(fl validator.FieldLevel) bool {
		return models.IsSkillCategory(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// check runs the struct tags of draft and collects every failure.
func check(draft any) *ValidationError {
	verr := &ValidationError{}
	err := validate.Struct(draft)
	if err == nil {
		return verr
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		verr.add("_", err.Error())
		return verr
	}
	for _, fe := range fieldErrs {
		field := fe.Field()
		if i := strings.IndexByte(field, '['); i > 0 {
			field = field[:i]
		}
		verr.add(field, message(field, fe))
	}
	return verr
}

func message(field string, fe validator.FieldError) string {
	label := strings.ReplaceAll(field, "_", " ")
	switch fe.Tag() {
	case "required", "notblank":
		return label + " is required"
	case "url":
		return label + " must be a valid URL"
	case "email":
		return label + " must be a valid email address"
	case "datetime":
		return label + " must be a date (YYYY-MM-DD)"
	case "min", "max":
		return fmt.Sprintf("%s must be between %d and %d", label, models.MinLevel, models.MaxLevel)
	case "worktype":
		return label + " must be one of " + strings.Join(models.WorkTypes, ", ")
	case "skillcategory":
		return label + " must be one of " + strings.Join(models.SkillCategories, ", ")
	default:
		return label + " is invalid"
	}
}

// save inserts row when existingID is empty and otherwise overwrites the
// record with that id. row is reloaded from the store on success.
func save[T models.Record](ctx context.Context, c *store.Client, existingID string, row *T) error {
	if existingID == "" {
		return store.Insert(ctx, c, row)
	}
	return store.Update(ctx, c, existingID, row)
}
