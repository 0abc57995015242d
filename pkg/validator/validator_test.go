package validator

import "testing"

type sample struct {
	PatientID string `json:"patient_id" validate:"required"`
	Reason    string `json:"reason" validate:"max=5"`
}

func TestFormatValidationErrorsUsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sample{Reason: "too long"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	fields := v.FormatValidationErrors(err)
	if fields["patient_id"] != "patient_id is required" {
		t.Fatalf("unexpected patient_id message: %q", fields["patient_id"])
	}
	if fields["reason"] != "reason must be at most 5 characters" {
		t.Fatalf("unexpected reason message: %q", fields["reason"])
	}
}

func TestValidatePasses(t *testing.T) {
	if err := NewValidator().Validate(&sample{PatientID: "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
