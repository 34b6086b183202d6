package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidationError reports malformed input. Fields holds the JSON names of
// the offending fields when the failure is tied to specific fields.
type ValidationError struct {
	msg    string
	Fields []string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func NewValidationError(msg string, fields ...string) error {
	return &ValidationError{msg: msg, Fields: fields}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type CustomerInput struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     int64  `json:"phone" validate:"gte=0"`
}

func (in CustomerInput) Normalize() CustomerInput {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	return in
}

func (in CustomerInput) Validate() error { return validateStruct(in) }

func (in CustomerInput) Customer() Customer {
	return Customer{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Phone: in.Phone}
}

type VehicleInput struct {
	VIN string `json:"vin" validate:"len=17"`
}

func (in VehicleInput) Normalize() VehicleInput {
	in.VIN = strings.ToUpper(strings.TrimSpace(in.VIN))
	return in
}

func (in VehicleInput) Validate() error { return validateStruct(in) }

func (in VehicleInput) Vehicle() Vehicle {
	return Vehicle{VIN: in.VIN}
}

type LocationInput struct {
	Line1   string `json:"line1" validate:"required"`
	Line2   string `json:"line2"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	ZipCode string `json:"zipCode" validate:"min=5"`
}

func (in LocationInput) Normalize() LocationInput {
	in.Line1 = strings.TrimSpace(in.Line1)
	in.Line2 = strings.TrimSpace(in.Line2)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.ZipCode = strings.TrimSpace(in.ZipCode)
	return in
}

func (in LocationInput) Validate() error { return validateStruct(in) }

func (in LocationInput) Location() Location {
	return Location{Line1: in.Line1, Line2: in.Line2, City: in.City, State: in.State, ZipCode: in.ZipCode}
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	fields := make([]string, 0, len(fieldErrs))
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, fe.Field())
		msgs = append(msgs, describe(fe))
	}
	return &ValidationError{msg: strings.Join(msgs, "; "), Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
