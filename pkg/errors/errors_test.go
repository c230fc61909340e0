package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	tests := []struct {
		code   Code
		status int
	}{
		{code: CodeValidation, status: http.StatusBadRequest},
		{code: CodeUnauthenticated, status: http.StatusUnauthorized},
		{code: CodeForbidden, status: http.StatusForbidden},
		{code: CodeNotFound, status: http.StatusNotFound},
		{code: CodeConflict, status: http.StatusConflict},
		{code: CodeStateConflict, status: http.StatusUnprocessableEntity},
		{code: CodeInternal, status: http.StatusInternalServerError},
		{code: CodeDependency, status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		if got := MetadataFor(tt.code).HTTPStatus; got != tt.status {
			t.Fatalf("code %s expected status %d got %d", tt.code, tt.status, got)
		}
	}
}

func TestMetadataForUnknownCodeDefaultsToInternal(t *testing.T) {
	if got := MetadataFor("SOMETHING_ELSE").HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected internal status, got %d", got)
	}
}

func TestClassifyUntypedKeepsMessage(t *testing.T) {
	cause := stdErrors.New("duplicate key value violates unique constraint")
	classified := Classify(cause)

	if classified.Code() != CodeDependency {
		t.Fatalf("expected dependency code, got %s", classified.Code())
	}
	if classified.Message() != cause.Error() {
		t.Fatalf("expected verbatim message, got %q", classified.Message())
	}
	if !stdErrors.Is(classified, cause) {
		t.Fatalf("expected cause to be preserved")
	}
}

func TestClassifyWrappedTypedError(t *testing.T) {
	notFound := New(CodeNotFound, "moim not found")
	wrapped := fmt.Errorf("join: %w", notFound)

	classified := Classify(wrapped)
	if classified.Code() != CodeNotFound {
		t.Fatalf("expected not found, got %s", classified.Code())
	}
	if classified.Message() != "moim not found" {
		t.Fatalf("unexpected message %q", classified.Message())
	}
	if !stdErrors.Is(classified, notFound) {
		t.Fatalf("expected errors.Is to reach sentinel")
	}
	if Classify(notFound) != notFound {
		t.Fatalf("expected typed error to be returned as is")
	}
}

func TestClassifyNil(t *testing.T) {
	if Classify(nil) != nil {
		t.Fatalf("expected nil")
	}
	if CodeOf(stdErrors.New("x")) != CodeInternal {
		t.Fatalf("expected internal for untyped CodeOf")
	}
}
