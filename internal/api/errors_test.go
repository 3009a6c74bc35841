package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	if !IsSessionError(NewSessionError("no token")) {
		t.Error("session error not classified")
	}
	if !IsHTTPError(NewHTTPError(500, "boom")) {
		t.Error("HTTP error not classified")
	}
	if !IsValidationError(NewValidationError("bad pick")) {
		t.Error("validation error not classified")
	}
	if !IsNetworkError(NewNetworkError("down", errors.New("connection refused"))) {
		t.Error("network error not classified")
	}
}

func TestClassificationSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("fetching doctors: %w", NewSessionError("expired"))
	if !IsSessionError(err) {
		t.Error("wrapped session error not recognized")
	}
}

func TestTimeoutClassifiedAsNetworkError(t *testing.T) {
	urlErr := &url.Error{Op: "Get", URL: "http://x", Err: context.DeadlineExceeded}
	ce := NewNetworkError("slow", urlErr)
	if ce.Type != ErrTypeTimeout {
		t.Errorf("Type = %v, want ErrTypeTimeout", ce.Type)
	}
	if !IsNetworkError(ce) {
		t.Error("timeout should satisfy IsNetworkError")
	}
}

func TestUserMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{NewSessionError("x"), "Your session has expired. Please log in again."},
		{NewHTTPError(409, "slot already booked"), "slot already booked"},
		{NewHTTPError(500, ""), "The clinic server returned an error (HTTP 500)."},
		{NewValidationError("doctor is required"), "doctor is required"},
		{NewParseError("bad body", errors.New("eof")), "Received an unexpected response from the clinic server."},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	ce := NewNetworkError("down", inner)
	if !errors.Is(ce, inner) {
		t.Error("errors.Is should see through ClientError")
	}
}
