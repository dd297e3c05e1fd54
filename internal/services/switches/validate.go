package switches

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

var fieldMessages = map[string]string{
	"user_email/required": "You must be signed in to manage switches",
	"user_email/email":    "Your account e-mail is not valid",
	"name/notblank":       "Name is required",
	"content/notblank":    "Content is required",
	"interval/min":        "Interval must be at least 1 day",
}

func (u *Usecase) check(in any) error {
	err := u.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()+"/"+fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

func checkID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Fields: []FieldError{{Field: "id", Message: "Switch id is required"}}}
	}
	return nil
}
