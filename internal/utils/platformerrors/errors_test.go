package platformerrors

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType ErrorType
		want      int
	}{
		{ErrorTypeValidation, http.StatusBadRequest},
		{ErrorTypeUnauthorized, http.StatusUnauthorized},
		{ErrorTypeForbidden, http.StatusForbidden},
		{ErrorTypeNotFound, http.StatusNotFound},
		{ErrorTypeConflict, http.StatusConflict},
		{ErrorTypeTimeout, http.StatusRequestTimeout},
		{ErrorTypeExternal, http.StatusBadGateway},
		{ErrorTypeUnavailable, http.StatusServiceUnavailable},
		{ErrorTypeDatabase, http.StatusInternalServerError},
		{ErrorTypeInternal, http.StatusInternalServerError},
		{ErrorType("UNKNOWN"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := ErrorTypeToHTTPStatus(tt.errorType); got != tt.want {
			t.Errorf("ErrorTypeToHTTPStatus(%s) = %d, want %d", tt.errorType, got, tt.want)
		}
	}
}

func TestAsErrorPreservesTypeAndUUID(t *testing.T) {
	ctx := context.Background()
	inner := NewError(ctx, LayerRepository, ErrorTypeNotFound, "gone", nil, "")

	wrapped := AsError(ctx, LayerDomain, inner, "lookup failed")
	if wrapped.Type != ErrorTypeNotFound {
		t.Errorf("type = %s, want NOT_FOUND", wrapped.Type)
	}
	if wrapped.UUID != inner.UUID {
		t.Errorf("uuid changed across layers: %s != %s", wrapped.UUID, inner.UUID)
	}
	if !errors.Is(wrapped, inner) {
		t.Error("wrapped error must unwrap to the inner error")
	}
}

func TestAsErrorWrapsPlainErrorsAsInternal(t *testing.T) {
	wrapped := AsError(context.Background(), LayerDomain, errors.New("boom"), "op failed")
	if wrapped.Type != ErrorTypeInternal {
		t.Errorf("type = %s, want INTERNAL", wrapped.Type)
	}
	if wrapped.UUID == "" {
		t.Error("expected generated uuid")
	}
}

func TestAsErrorNil(t *testing.T) {
	if AsError(context.Background(), LayerDomain, nil, "x") != nil {
		t.Error("nil error must stay nil")
	}
}

func TestIsErrorType(t *testing.T) {
	err := NewError(context.Background(), LayerHandler, ErrorTypeValidation, "bad", nil, "")
	if !IsErrorType(err, ErrorTypeValidation) {
		t.Error("expected match on VALIDATION")
	}
	if IsErrorType(err, ErrorTypeNotFound) {
		t.Error("unexpected match on NOT_FOUND")
	}
	if IsErrorType(errors.New("plain"), ErrorTypeValidation) {
		t.Error("plain errors must not match")
	}
	if IsErrorType(nil, ErrorTypeValidation) {
		t.Error("nil must not match")
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-42")
	err := NewError(ctx, LayerHandler, ErrorTypeInternal, "x", nil, "")
	if err.RequestID != "req-42" {
		t.Errorf("request id = %q, want req-42", err.RequestID)
	}

	if got := RequestIDFromContext(nil); got != "" {
		t.Errorf("nil context request id = %q, want empty", got)
	}
}
