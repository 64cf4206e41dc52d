package req

import (
	"errors"
	"path"
	"reflect"
	"strings"

	v10 "github.com/go-playground/validator/v10"
	"github.com/xy-planning-network/outpost"
)

type validator struct {
	valid *v10.Validate
}

// newValidator constructs a validator naming fields after their json or schema tags.
func newValidator() validator {
	v := v10.New()
	_ = v.RegisterValidation("routename", validateRouteName)
	_ = v.RegisterValidation("view", validateView)
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "schema"} {
			name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}

		return ""
	})

	return validator{v}
}

// validate checks structPtr against its "validate" struct tags,
// translating each failure into a ValidationError.
// Values other than structs carry no tags and pass.
func (v validator) validate(structPtr any) error {
	if reflect.Indirect(reflect.ValueOf(structPtr)).Kind() != reflect.Struct {
		return nil
	}

	err := v.valid.Struct(structPtr)
	if err == nil {
		return nil
	}

	var errs v10.ValidationErrors
	if !errors.As(err, &errs) {
		return err
	}

	validateErrs := make(ValidationErrors, 0, len(errs))
	for _, ve := range errs {
		field := ve.Namespace()
		if ns := strings.SplitN(field, ".", 2); len(ns) == 2 {
			field = ns[1]
		}

		rule := ve.Tag()
		if ve.Param() != "" {
			rule += "=" + ve.Param()
		}
		rule += "; " + ve.Type().String()

		validateErrs = append(validateErrs, ValidationError{
			Field: field,
			Got:   ve.Value(),
			Rule:  rule,
		})
	}

	return validateErrs
}

func validateRouteName(fl v10.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	return outpost.RouteDescriptor{Name: fl.Field().String()}.Valid() == nil
}

func validateView(fl v10.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return false
	}

	p := strings.TrimSpace(fl.Field().String())
	return path.Ext(p) == ".tmpl" && !strings.Contains(p, "..")
}
