package utils

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	if Truncate("hello", 10) != "hello" {
		t.Error("short string unchanged")
	}
	if Truncate("hello world", 5) != "hello..." {
		t.Errorf("got %s", Truncate("hello world", 5))
	}
	if Truncate("x", 0) != "x" {
		t.Error("maxLen 0 returns as-is")
	}
	if got := Truncate("peldaño", 6); got != "peldañ..." {
		t.Errorf("got %q, want cut on the rune boundary", got)
	}
	if got := Truncate("año", 3); got != "año" {
		t.Error("rune count within limit should return as-is")
	}
}
