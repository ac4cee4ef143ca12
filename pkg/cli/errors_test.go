package cli

import (
	"errors"
	"fmt"
	"testing"

	"mercator-hq/ruleengine/pkg/config"
	ruleerrors "mercator-hq/ruleengine/pkg/rule/errors"
)

func TestConfigError(t *testing.T) {
	err := NewConfigError("server.listen_address", "missing required field")

	expected := "config error in server.listen_address: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")
	err := NewCommandError("run", underlyingErr)

	if err.Error() != "command run failed: underlying error" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should work with CommandError.Unwrap()")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"plain", errors.New("boom"), ExitFailure},
		{"usage", NewUsageError("need a rule"), ExitUsage},
		{"config", NewConfigError("a", "b"), ExitConfig},
		{"validation", fmt.Errorf("load: %w", config.ValidationError{Errors: []config.FieldError{{Field: "x", Message: "y"}}}), ExitConfig},
		{"parse", NewCommandError("parse", &ruleerrors.ParseError{Reason: "bad"}), ExitRule},
		{"not found", &ruleerrors.NotFoundError{IDs: []int64{3}}, ExitRule},
		{"empty", ruleerrors.ErrEmptyInput, ExitRule},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
