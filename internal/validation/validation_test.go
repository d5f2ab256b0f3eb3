package validation

import "testing"

type registrationForm struct {
	Name     string `validate:"required,min=3"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=5"`
	Location string `validate:"required"`
}

func TestCheck_Valid(t *testing.T) {
	form := registrationForm{
		Name:     "Ivan",
		Email:    "ivan@example.com",
		Password: "secret",
		Location: "Moscow",
	}

	if errs := Check(form); len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
}

func TestCheck_FieldErrors(t *testing.T) {
	tests := []struct {
		name      string
		form      registrationForm
		wantField string
	}{
		{
			name: "short name",
			form: registrationForm{
				Name:     "ab",
				Email:    "ivan@example.com",
				Password: "secret",
				Location: "Moscow",
			},
			wantField: "name",
		},
		{
			name: "bad email",
			form: registrationForm{
				Name:     "Ivan",
				Email:    "not-an-email",
				Password: "secret",
				Location: "Moscow",
			},
			wantField: "email",
		},
		{
			name: "short password",
			form: registrationForm{
				Name:     "Ivan",
				Email:    "ivan@example.com",
				Password: "1234",
				Location: "Moscow",
			},
			wantField: "password",
		},
		{
			name: "missing location",
			form: registrationForm{
				Name:     "Ivan",
				Email:    "ivan@example.com",
				Password: "secret",
			},
			wantField: "location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Check(tt.form)
			if len(errs) == 0 {
				t.Fatalf("expected errors, got none")
			}

			found := false
			for _, fe := range errs {
				if fe.Field == tt.wantField {
					found = true
					if fe.Message == "" {
						t.Fatalf("empty message for field %q", fe.Field)
					}
				}
			}
			if !found {
				t.Fatalf("field %q not reported, got %+v", tt.wantField, errs)
			}
		})
	}
}

func TestCheck_MultipleErrors(t *testing.T) {
	errs := Check(registrationForm{})
	if len(errs) != 4 {
		t.Fatalf("errors = %d, want 4: %+v", len(errs), errs)
	}
}
