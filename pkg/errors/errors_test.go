// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/dotr/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "unknown_package_error",
			code:    errors.ErrUnknownPackage,
			message: "package 'vim' not found",
			wantStr: "[UNKNOWN_PACKAGE] package 'vim' not found",
		},
		{
			name:    "invalid_input_error",
			code:    errors.ErrInvalidInput,
			message: "invalid configuration",
			wantStr: "[INVALID_INPUT] invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	inner := stderrors.New("permission denied")
	err := errors.Wrap(inner, errors.ErrIO, "cannot write destination")

	if !stderrors.Is(err, inner) {
		t.Error("Wrap() should preserve the wrapped error for errors.Is")
	}

	want := "[IO] cannot write destination: permission denied"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if errors.Wrap(nil, errors.ErrIO, "ignored") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestIsMatchesOnCode(t *testing.T) {
	err := errors.Newf(errors.ErrUnknownProfile, "profile %q not found", "work")
	target := errors.New(errors.ErrUnknownProfile, "any message")

	if !stderrors.Is(err, target) {
		t.Error("errors.Is should match two DotrErrors with the same code")
	}

	other := errors.New(errors.ErrUnknownPackage, "any message")
	if stderrors.Is(err, other) {
		t.Error("errors.Is should not match different codes")
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Wrapf(stderrors.New("eof"), errors.ErrPromptAborted, "no input for %q", "EMAIL")

	if !errors.IsErrorCode(err, errors.ErrPromptAborted) {
		t.Error("IsErrorCode should find the code on a wrapped error")
	}
	if errors.IsErrorCode(err, errors.ErrRender) {
		t.Error("IsErrorCode should not match a different code")
	}
	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrRender) {
		t.Error("IsErrorCode should be false for plain errors")
	}
}

func TestGetErrorCode(t *testing.T) {
	if got := errors.GetErrorCode(errors.New(errors.ErrRender, "bad template")); got != errors.ErrRender {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrRender)
	}
	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrIO, "write failed").
		WithDetail("package", "bashrc").
		WithDetail("path", "/home/user/.bashrc")

	if err.Details["package"] != "bashrc" {
		t.Errorf("Details[package] = %v, want bashrc", err.Details["package"])
	}
	if err.Details["path"] != "/home/user/.bashrc" {
		t.Errorf("Details[path] = %v, want /home/user/.bashrc", err.Details["path"])
	}
}
