package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestSetup(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	logger := Setup(&buf, false)
	logger.Debug("hidden")
	logger.Info("visible", Tool("get_group"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug message logged without debug mode: %q", out)
	}
	if !strings.Contains(out, "tool=get_group") {
		t.Errorf("expected tool attribute in output, got %q", out)
	}

	buf.Reset()
	Setup(&buf, true)
	slog.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("debug message missing in debug mode: %q", buf.String())
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	WithTool(base, "list_groups").Info("done", Operation("groups.list"))

	out := buf.String()
	for _, want := range []string{"tool=list_groups", "operation=groups.list"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestAttributes(t *testing.T) {
	tests := []struct {
		name    string
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{"operation", Operation("get"), KeyOperation, "get"},
		{"tool", Tool("add_member"), KeyTool, "add_member"},
		{"group", Group("g@x.com"), KeyGroup, "g@x.com"},
		{"member", Member("m@x.com"), KeyMember, "m@x.com"},
		{"domain", Domain("x.com"), KeyDomain, "x.com"},
		{"status", Status(StatusSuccess), KeyStatus, StatusSuccess},
		{"error kind", ErrorKind("remote_service"), KeyErrorKind, "remote_service"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if tt.attr.Value.String() != tt.wantVal {
				t.Errorf("value = %q, want %q", tt.attr.Value.String(), tt.wantVal)
			}
		})
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("test error"))
	if attr.Key != KeyError {
		t.Errorf("Err key = %q, want %q", attr.Key, KeyError)
	}
	if attr.Value.String() != "test error" {
		t.Errorf("Err value = %q, want %q", attr.Value.String(), "test error")
	}

	// Empty Group has empty key
	attr = Err(nil)
	if attr.Key != "" {
		t.Errorf("Err(nil) key = %q, want empty string (empty group)", attr.Key)
	}
}

func TestAnonymizeEmail(t *testing.T) {
	result := AnonymizeEmail("jane@example.com")
	if len(result) != 21 { // "user:" + 16 hex chars
		t.Errorf("AnonymizeEmail length = %d, want 21", len(result))
	}
	if !strings.HasPrefix(result, "user:") {
		t.Errorf("AnonymizeEmail should start with 'user:', got %q", result)
	}
	if AnonymizeEmail("") != "" {
		t.Error("AnonymizeEmail of empty string should be empty")
	}
	if AnonymizeEmail("a@x.com") != AnonymizeEmail("a@x.com") {
		t.Error("AnonymizeEmail should return deterministic results")
	}
	if AnonymizeEmail("a@x.com") == AnonymizeEmail("b@x.com") {
		t.Error("Different emails should produce different hashes")
	}
}

func TestUserHash(t *testing.T) {
	attr := UserHash("jane@example.com")
	if attr.Key != KeyUserHash {
		t.Errorf("UserHash key = %q, want %q", attr.Key, KeyUserHash)
	}
	if attr.Value.String() != AnonymizeEmail("jane@example.com") {
		t.Errorf("UserHash value = %q", attr.Value.String())
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		token    string
		expected string
	}{
		{"", "<empty>"},
		{"abc123", "[token:6 chars]"},
		{"ya29.a0AfH6SMBx", "[token:15 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.expected {
				t.Errorf("SanitizeToken(%q) = %q, want %q", tt.token, got, tt.expected)
			}
		})
	}
}
