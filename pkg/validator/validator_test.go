package validator

import "testing"

type registerPayload struct {
	Name     string `json:"name" validate:"required,max=100,account_name"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,account_password"`
}

func TestValidateStructAccepted(t *testing.T) {
	err := ValidateStruct(&registerPayload{
		Name:     "alice-app",
		Email:    "alice@example.com",
		Password: "Aa1!aa",
	})
	if err != nil {
		t.Fatalf("expected payload to validate, got %v", err)
	}
}

func TestAccountNameRule(t *testing.T) {
	cases := map[string]bool{
		"alice":     true,
		"alice-app": true,
		"Alice":     true,
		"alice1":    false,
		"alice app": false,
		"علی":       false,
	}

	for name, want := range cases {
		err := ValidateStruct(&registerPayload{
			Name:     name,
			Email:    "a@example.com",
			Password: "Aa1!aa",
		})
		if got := err == nil; got != want {
			t.Fatalf("name %q: expected valid=%v, got %v", name, want, err)
		}
	}
}

func TestAccountPasswordRule(t *testing.T) {
	cases := map[string]bool{
		"Aa1!aa":   true,
		"abc123!@": true,
		"a1!":      false, // too short
		"abcdef":   false, // no digit, no special
		"abc123":   false, // no special
		"abc!!!":   false, // no digit
		"abc 12!":  false, // space outside the allowed set
	}

	for password, want := range cases {
		err := ValidateStruct(&registerPayload{
			Name:     "alice",
			Email:    "a@example.com",
			Password: password,
		})
		if got := err == nil; got != want {
			t.Fatalf("password %q: expected valid=%v, got %v", password, want, err)
		}
	}
}

func TestValidationErrorsUseJSONFieldNames(t *testing.T) {
	err := ValidateStruct(&registerPayload{})
	ve, ok := err.(ValidationErrors)
	if !ok || len(ve) == 0 {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}

	if ve[0].Field != "name" {
		t.Fatalf("expected json field name, got %q", ve[0].Field)
	}
}
