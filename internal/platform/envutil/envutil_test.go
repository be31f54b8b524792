package envutil

import (
	"testing"
	"time"
)

func TestEnvReaders(t *testing.T) {
	t.Setenv("ENVUTIL_INT", "12")
	t.Setenv("ENVUTIL_BAD_INT", "x")
	t.Setenv("ENVUTIL_BOOL", "on")
	t.Setenv("ENVUTIL_SECONDS", "30")
	t.Setenv("ENVUTIL_LIST", " a, ,b ")

	if got := Int("ENVUTIL_INT", 1); got != 12 {
		t.Fatalf("Int: got %d", got)
	}
	if got := Int("ENVUTIL_BAD_INT", 7); got != 7 {
		t.Fatalf("Int fallback: got %d", got)
	}
	if got := Int("ENVUTIL_MISSING", 3); got != 3 {
		t.Fatalf("Int missing: got %d", got)
	}
	if !Bool("ENVUTIL_BOOL", false) {
		t.Fatal("Bool: expected true")
	}
	if got := Seconds("ENVUTIL_SECONDS", time.Minute); got != 30*time.Second {
		t.Fatalf("Seconds: got %s", got)
	}
	if got := String("ENVUTIL_MISSING", "def"); got != "def" {
		t.Fatalf("String: got %q", got)
	}
	list := List("ENVUTIL_LIST", nil)
	if len(list) != 2 || list[0] != "a" || list[1] != "b" {
		t.Fatalf("List: got %v", list)
	}
}
