package version

import (
	"regexp"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	v := Get()
	if v == "" {
		t.Fatal("expected non-empty version")
	}
	if strings.TrimSpace(v) != v {
		t.Errorf("version %q has surrounding whitespace", v)
	}
	if !regexp.MustCompile(`^\d+\.\d+\.\d+`).MatchString(v) {
		t.Errorf("version %q is not semver", v)
	}
}

func TestString(t *testing.T) {
	if got := String(); got != "taskflow version "+Get() {
		t.Errorf("unexpected version string %q", got)
	}
}

func TestGet_Override(t *testing.T) {
	prev := override
	t.Cleanup(func() { override = prev })

	override = " v2.3.4\n"
	if got := Get(); got != "2.3.4" {
		t.Errorf("expected override '2.3.4', got %q", got)
	}
}
