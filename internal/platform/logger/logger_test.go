package logger

import "testing"

func TestSanitizeKVsRedactsSecretsAndHashesIDs(t *testing.T) {
	out := sanitizeKVs([]interface{}{
		"postgres_password", "hunter2",
		"session_id", "abc",
		"resource_id", "r-1",
		"dangling",
	})
	if len(out) != 7 {
		t.Fatalf("unexpected length: %d", len(out))
	}
	if out[1] != "[REDACTED]" {
		t.Fatalf("password not redacted: %v", out[1])
	}
	if s, ok := out[3].(string); !ok || len(s) != len("hash:")+12 {
		t.Fatalf("session id not hashed: %v", out[3])
	}
	if out[5] != "r-1" {
		t.Fatalf("resource id altered: %v", out[5])
	}
	if out[6] != "dangling" {
		t.Fatalf("trailing key dropped: %v", out[6])
	}
}

func TestNopLogger(t *testing.T) {
	log := Nop().With("component", "test")
	log.Info("hello", "k", "v")
	log.Sync()
}
