package errors

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := Conflict("slot already booked")

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.StatusCode() != http.StatusConflict {
		t.Errorf("expected status 409, got %d", err.StatusCode())
	}
	if !strings.Contains(err.Error(), "slot already booked") {
		t.Errorf("message missing from Error(): %s", err.Error())
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("storage unreachable", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
	if !strings.Contains(err.Error(), "caused by") {
		t.Errorf("wrapped cause missing from Error(): %s", err.Error())
	}
}

func TestAsAppErrorPassthrough(t *testing.T) {
	original := NotFoundWithID("Booking", "abc123")

	coerced := AsAppError(original)
	if coerced != original {
		t.Error("expected AsAppError to return the same *AppError")
	}
	if coerced.Details["id"] != "abc123" {
		t.Errorf("details lost: %v", coerced.Details)
	}
}

func TestAsAppErrorCoercion(t *testing.T) {
	plain := errors.New("boom")

	coerced := AsAppError(plain)
	if coerced.Code != CodeInternal {
		t.Errorf("expected %s, got %s", CodeInternal, coerced.Code)
	}
	if coerced.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", coerced.HTTPStatus)
	}
	if !errors.Is(coerced, plain) {
		t.Error("expected the plain error to be wrapped")
	}
}

func TestValidationDetails(t *testing.T) {
	err := Validation("booking validation failed", map[string]any{"field": "time"})

	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", err.HTTPStatus)
	}
	if err.Details["field"] != "time" {
		t.Errorf("details not carried: %v", err.Details)
	}
}
