package cli

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigError_Message(t *testing.T) {
	err := NewConfigError("audit.backend", "unknown backend")
	if !strings.Contains(err.Error(), "audit.backend") {
		t.Errorf("Error() = %q, want field name included", err.Error())
	}

	bare := NewConfigError("", "file missing")
	if strings.Contains(bare.Error(), "in :") {
		t.Errorf("Error() = %q, empty field should be omitted", bare.Error())
	}
}

func TestCommandError_Unwrap(t *testing.T) {
	cause := errors.New("snapshot load failed")
	err := NewCommandError("serve", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if !strings.Contains(err.Error(), "serve") {
		t.Errorf("Error() = %q, want command name included", err.Error())
	}
}
