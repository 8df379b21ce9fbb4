package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()
	if info.Version != Version {
		t.Errorf("Version = %q, want %q", info.Version, Version)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q, want go toolchain version", info.GoVersion)
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.Contains(s, Version) || !strings.Contains(s, Commit) {
		t.Errorf("String() = %q, missing version or commit", s)
	}
}
