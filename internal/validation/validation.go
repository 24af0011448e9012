// Package validation holds the business rules for users and resources. It does
// not know about storage, so swapping the store never moves these rules.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"resource-board/internal/model"
)

var ErrInvalid = errors.New("validation failed")

// Error describes the first rule a payload broke.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

const MinPasswordLength = 6

// Registration is a normalized sign-up payload.
type Registration struct {
	Name         string     `validate:"required"`
	Email        string     `validate:"required,basic_email"`
	Password     string     `validate:"required,min=6"`
	Role         model.Role `validate:"required,user_role"`
	Organization string
	Phone        string
}

// Credentials is a normalized login payload.
type Credentials struct {
	Email    string `validate:"required"`
	Password string `validate:"required"`
}

// ResourceFields is the full set of user-editable resource fields.
type ResourceFields struct {
	Title        string         `validate:"required,max=100"`
	Description  string         `validate:"required,max=500"`
	Category     model.Category `validate:"required,resource_category"`
	Location     string         `validate:"required"`
	ContactInfo  string         `validate:"required"`
	Availability string
}

var messages = map[string]map[string]string{
	"Name": {
		"required": "Please provide a name",
	},
	"Email": {
		"required":    "Please provide an email",
		"basic_email": "Please provide a valid email",
	},
	"Password": {
		"required": "Please provide a password",
		"min":      fmt.Sprintf("Password must be at least %d characters", MinPasswordLength),
	},
	"Role": {
		"required":  "Please select a role",
		"user_role": "Role must be one of donor, beneficiary or both",
	},
	"Title": {
		"required": "Please provide a title",
		"max":      "Title cannot exceed 100 characters",
	},
	"Description": {
		"required": "Please provide a description",
		"max":      "Description cannot exceed 500 characters",
	},
	"Category": {
		"required":          "Please select a category",
		"resource_category": "Please select a valid category",
	},
	"Location": {
		"required": "Please provide a location",
	},
	"ContactInfo": {
		"required": "Please provide contact information",
	},
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "basic_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "user_role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).Valid()
	})
	mustRegister(v, "resource_category", func(fl validator.FieldLevel) bool {
		return model.Category(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %v", tag, err))
	}
}

// NormalizeRegistration trims every field, lower-cases the email and fills in
// the default role, then checks the result.
func (v *Validator) NormalizeRegistration(in Registration) (Registration, error) {
	out := Registration{
		Name:         strings.TrimSpace(in.Name),
		Email:        NormalizeEmail(in.Email),
		Password:     in.Password,
		Role:         model.Role(strings.TrimSpace(string(in.Role))),
		Organization: strings.TrimSpace(in.Organization),
		Phone:        strings.TrimSpace(in.Phone),
	}
	if out.Role == "" {
		out.Role = model.RoleBeneficiary
	}
	return out, v.check(out)
}

func (v *Validator) NormalizeCredentials(in Credentials) (Credentials, error) {
	out := Credentials{
		Email:    NormalizeEmail(in.Email),
		Password: in.Password,
	}
	return out, v.check(out)
}

// NormalizeResource trims every field and applies the availability default.
func (v *Validator) NormalizeResource(in ResourceFields) (ResourceFields, error) {
	out := ResourceFields{
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Category:     model.Category(strings.TrimSpace(string(in.Category))),
		Location:     strings.TrimSpace(in.Location),
		ContactInfo:  strings.TrimSpace(in.ContactInfo),
		Availability: strings.TrimSpace(in.Availability),
	}
	if out.Availability == "" {
		out.Availability = model.DefaultAvailability
	}
	return out, v.check(out)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (v *Validator) check(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate payload failed: %w", err)
	}

	first := fieldErrs[0]
	msg, ok := messages[first.StructField()][first.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", strings.ToLower(first.StructField()))
	}
	return &Error{Field: first.StructField(), Message: msg}
}
