// Package validate holds the client-side form validation shared by the API
// and geckctl. Validation results are field→message maps; an empty map means
// the draft may be submitted.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// The legacy tool accepted any local@domain.tld shape, which is looser than
// a full RFC 5322 check. Kept as-is so previously valid accounts still pass.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s]+$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	must(val.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	}))
	return val
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// UserDraft is the editable form state for a user create/edit dialog.
type UserDraft struct {
	Name            string
	Email           string
	Role            string
	Password        string
	ConfirmPassword string
}

type createUserDTO struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,loose_email"`
	Password        string `validate:"required,min=6"`
	ConfirmPassword string `validate:"eqfield=Password"`
}

type updateUserDTO struct {
	Name  string `validate:"required"`
	Email string `validate:"required,loose_email"`
}

// UserCreate validates a draft for user creation. Password rules apply.
func UserCreate(d UserDraft) map[string]string {
	dto := createUserDTO{
		Name:            strings.TrimSpace(d.Name),
		Email:           strings.TrimSpace(d.Email),
		Password:        d.Password,
		ConfirmPassword: d.ConfirmPassword,
	}
	return fieldErrors(v.Struct(dto))
}

// UserEdit validates a draft for editing an existing user. Password fields
// are never validated in edit mode.
func UserEdit(d UserDraft) map[string]string {
	dto := updateUserDTO{
		Name:  strings.TrimSpace(d.Name),
		Email: strings.TrimSpace(d.Email),
	}
	return fieldErrors(v.Struct(dto))
}

// fieldErrors converts validator errors into a field→message map.
func fieldErrors(err error) map[string]string {
	errs := map[string]string{}
	if err == nil {
		return errs
	}
	for _, fe := range err.(validator.ValidationErrors) {
		errs[fieldKey(fe.Field())] = message(fe)
	}
	return errs
}

func fieldKey(field string) string {
	switch field {
	case "Name":
		return "name"
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "ConfirmPassword":
		return "confirm_password"
	}
	return strings.ToLower(field)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "loose_email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "eqfield":
		return "passwords do not match"
	}
	return "invalid value"
}

// CopyName suggests a name for a duplicated resource.
func CopyName(original string) string {
	return original + "_copy"
}

// DuplicateName pre-checks a proposed name for a duplicate operation before
// any network call. The server remains authoritative and may still reject.
func DuplicateName(name string, existing []string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) < 3 {
		return fmt.Errorf("name must be at least 3 characters")
	}
	for _, n := range existing {
		if n == name {
			return fmt.Errorf("a resource named %q already exists", name)
		}
	}
	return nil
}
