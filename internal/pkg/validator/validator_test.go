package validator

import "testing"

type registerInput struct {
	Username        string `json:"username" validate:"required,min=3,max=80"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	Role            string `json:"role" validate:"required,role"`
}

type nameInput struct {
	Name *string `json:"name" validate:"omitnil,notblank,max=10"`
}

type datesInput struct {
	Dates []string `json:"dates" validate:"dive,isodate"`
}

func TestValidateUsesJSONNames(t *testing.T) {
	errs := Validate(&registerInput{
		Username:        "ab",
		Email:           "nope",
		Password:        "password123",
		PasswordConfirm: "password124",
		Role:            "admin",
	})

	for _, field := range []string{"username", "email", "password_confirm", "role"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("expected error for %s, got %v", field, errs)
		}
	}
	if _, ok := errs["password"]; ok {
		t.Fatalf("password itself is valid, got %v", errs)
	}
}

func TestValidateAcceptsValidInput(t *testing.T) {
	errs := Validate(&registerInput{
		Username:        "piloto_test",
		Email:           "piloto@test.com",
		Password:        "password_piloto",
		PasswordConfirm: "password_piloto",
		Role:            "pilot",
	})
	if errs != nil {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestIsoDate(t *testing.T) {
	if errs := Validate(&datesInput{Dates: []string{"2025-06-01", "2025-06-02"}}); errs != nil {
		t.Fatalf("expected valid dates, got %v", errs)
	}
	if errs := Validate(&datesInput{Dates: []string{"2025-06-01", "06/02/2025"}}); errs == nil {
		t.Fatal("expected malformed date to fail")
	}
	if err := ValidateVar("2025-02-30", "isodate"); err == nil {
		t.Fatal("expected impossible date to fail")
	}
}

func TestNotBlank(t *testing.T) {
	str := func(s string) *string { return &s }

	if errs := Validate(&nameInput{}); errs != nil {
		t.Fatalf("omitted name must pass, got %v", errs)
	}
	if errs := Validate(&nameInput{Name: str(" Aero ")}); errs != nil {
		t.Fatalf("expected valid name, got %v", errs)
	}
	for _, blank := range []string{"", "   ", "\t\n"} {
		errs := Validate(&nameInput{Name: str(blank)})
		if errs["name"] != "This field cannot be blank" {
			t.Fatalf("%q: expected blank error, got %v", blank, errs)
		}
	}
}
