package config

import (
	"testing"
	"time"
)

func TestParseDur(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"30s", 30 * time.Second},
		{"10m", 10 * time.Minute},
		{"1h30m", 90 * time.Minute},
		{"not-a-duration", time.Second}, // logged fallback
		{"", time.Second},
	}
	for _, c := range cases {
		if got := parseDur(c.in); got != c.want {
			t.Fatalf("parseDur(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestGetenvDefault(t *testing.T) {
	t.Setenv("CONFIG_TEST_KEY", "set")
	if v := getenv("CONFIG_TEST_KEY", "def"); v != "set" {
		t.Fatalf("getenv returned %q, want set value", v)
	}
	if v := getenv("CONFIG_TEST_KEY_UNSET", "def"); v != "def" {
		t.Fatalf("getenv returned %q, want default", v)
	}
}
