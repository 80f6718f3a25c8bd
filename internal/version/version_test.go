package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	switch {
	case v == "":
		t.Error("version should not be empty")
	case c == "":
		t.Error("commit should not be empty")
	case d == "":
		t.Error("date should not be empty")
	default:
		t.Log("version: ", v)
		t.Log("commit: ", c)
		t.Log("date: ", d)
	}
}

func TestString(t *testing.T) {
	s := String()
	if s == "" {
		t.Fatal("String should not return empty string")
	}

	for _, part := range []string{"version=", "commit=", "date="} {
		if !strings.Contains(s, part) {
			t.Errorf("String should contain %q, got %q", part, s)
		}
	}
}

func TestStringMatchesInfo(t *testing.T) {
	v, c, d := Info()
	s := String()

	if !strings.Contains(s, v) || !strings.Contains(s, c) || !strings.Contains(s, d) {
		t.Errorf("String %q should embed Info values %q %q %q", s, v, c, d)
	}
}
