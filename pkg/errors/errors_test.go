package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidMove, http.StatusBadRequest},
		{CodeInsufficientStock, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeAlreadyValidated, http.StatusConflict},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeRateLimit, http.StatusTooManyRequests},
		{CodeInternal, http.StatusInternalServerError},
		{CodeDependency, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected status %d got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("SOMETHING_NEW"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("sql: connection refused")
	err := Wrap(CodeDependency, cause, "postgres unreachable")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped error to match cause via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("expected code %s got %s", CodeDependency, err.Code())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	inner := New(CodeInsufficientStock, "shortfall of 3 units")
	outer := fmt.Errorf("validate move: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error through fmt wrapping")
	}
	if typed.Code() != CodeInsufficientStock {
		t.Fatalf("expected code %s got %s", CodeInsufficientStock, typed.Code())
	}
}

func TestAsReturnsNilForPlainError(t *testing.T) {
	if typed := As(fmt.Errorf("plain")); typed != nil {
		t.Fatalf("expected nil, got %v", typed)
	}
}

func TestDumpCollectsChain(t *testing.T) {
	inner := fmt.Errorf("driver: bad connection")
	err := Wrap(CodeDependency, inner, "ping failed")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("expected code %s got %s", CodeDependency, d.Code)
	}
	if len(d.Chain) < 2 {
		t.Fatalf("expected chain with at least 2 entries, got %d", len(d.Chain))
	}
}
