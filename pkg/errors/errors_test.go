package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidProject, "duplicate flow id: %s", "f1")

	if err.Code != ErrCodeInvalidProject {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidProject)
	}
	if err.Message != "duplicate flow id: f1" {
		t.Errorf("Message = %q", err.Message)
	}
	if !strings.Contains(err.Error(), "INVALID_PROJECT") {
		t.Errorf("Error() = %q, want code prefix", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Wrap(ErrCodeStorage, cause, "load project %s", "p1")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, want cause text", err.Error())
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeNotFound, "gone"), ErrCodeNotFound, true},
		{"Mismatch", New(ErrCodeNotFound, "gone"), ErrCodeInternal, false},
		{"WrappedMatch", fmt.Errorf("outer: %w", New(ErrCodeCache, "miss")), ErrCodeCache, true},
		{"PlainError", fmt.Errorf("plain"), ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeConflict, "taken")); got != ErrCodeConflict {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeConflict)
	}
	if got := GetCode(fmt.Errorf("plain")); got != "" {
		t.Errorf("GetCode = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeProjectNotFound, "project p1 does not exist")
	if got := UserMessage(err); got != "project p1 does not exist" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(fmt.Errorf("plain")); got != "plain" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestValidateEntityID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "flow-123", false},
		{"ValidUUID", "3f2c9a4e-8d1b-4c6f-9e2a-7b5d0c8f1a3e", false},
		{"Empty", "", true},
		{"Traversal", "../etc/passwd", true},
		{"ControlChar", "a\x01b", true},
		{"Whitespace", "a b", true},
		{"Backslash", `a\b`, true},
		{"TooLong", strings.Repeat("x", 129), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntityID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEntityID(%q) = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidID {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	if err := ValidateOutputPath("out/canvas.json"); err != nil {
		t.Errorf("valid path rejected: %v", err)
	}
	if err := ValidateOutputPath(""); err == nil {
		t.Error("empty path accepted")
	}
}
