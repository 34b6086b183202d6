package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestCustomerInput_Validate(t *testing.T) {
	ok := CustomerInput{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: 5551234567}
	if err := ok.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	err := CustomerInput{Email: "nope"}.Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	want := []string{"firstName", "lastName", "email"}
	if strings.Join(vErr.Fields, ",") != strings.Join(want, ",") {
		t.Fatalf("fields = %v, want %v", vErr.Fields, want)
	}
	if !strings.Contains(err.Error(), "email must be a valid email address") {
		t.Fatalf("message = %q", err.Error())
	}

	if err := (CustomerInput{FirstName: "a", LastName: "b", Email: "a@b.co", Phone: -1}).Validate(); err == nil {
		t.Fatalf("expected negative phone to be rejected")
	}
}

func TestCustomerInput_NormalizeTrims(t *testing.T) {
	in := CustomerInput{FirstName: " Ada ", LastName: "\tLovelace", Email: " ada@example.com\n"}.Normalize()
	if in.FirstName != "Ada" || in.LastName != "Lovelace" || in.Email != "ada@example.com" {
		t.Fatalf("normalized = %+v", in)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
}

func TestVehicleInput(t *testing.T) {
	in := VehicleInput{VIN: " 1hgcm82633a004352 "}.Normalize()
	if in.VIN != "1HGCM82633A004352" {
		t.Fatalf("VIN = %q", in.VIN)
	}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if v := in.Vehicle(); v.VIN != in.VIN || v.ID != "" {
		t.Fatalf("Vehicle = %+v", v)
	}

	err := VehicleInput{VIN: "SHORT"}.Validate()
	if err == nil || err.Error() != "vin must be exactly 17 characters long" {
		t.Fatalf("error = %v", err)
	}
}

func TestLocationInput(t *testing.T) {
	in := LocationInput{Line1: "1 Main St", City: "Austin", State: "TX", ZipCode: "78701"}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate error: %v", err)
	}

	err := LocationInput{Line1: "1 Main St", Line2: "", City: " ", State: "TX", ZipCode: "787"}.Normalize().Validate()
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if strings.Join(vErr.Fields, ",") != "city,zipCode" {
		t.Fatalf("fields = %v, want [city zipCode]", vErr.Fields)
	}
	if err.Error() != "city is required; zipCode must be at least 5 characters long" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("bad input", "a", "b")
	var vErr *ValidationError
	if !errors.As(err, &vErr) || err.Error() != "bad input" || len(vErr.Fields) != 2 {
		t.Fatalf("error = %#v", err)
	}
}
