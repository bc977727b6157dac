package security_test

import (
	"strings"
	"testing"

	"github.com/agrisetu/agrisetu-backend/pkg/config"
	"github.com/agrisetu/agrisetu-backend/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	// Cheap parameters keep the test fast; clamping still enforces minimums.
	return config.PasswordConfig{
		ArgonMemoryKB:    16384,
		ArgonTime:        1,
		ArgonParallelism: 2,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashPasswordRoundTrip(t *testing.T) {
	const password = "kharif-harvest-2024"

	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Fatalf("hash missing argon2id prefix: %q", hash)
	}

	ok, err := security.VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password did not verify")
	}

	ok, err = security.VerifyPassword("kharif-harvest-2025", hash)
	if err != nil {
		t.Fatalf("verify wrong password: %v", err)
	}
	if ok {
		t.Fatal("wrong password verified")
	}
}

func TestHashPasswordSaltsEveryHash(t *testing.T) {
	cfg := testPasswordConfig()
	first, err := security.HashPassword("same-input", cfg)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := security.HashPassword("same-input", cfg)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password were identical")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword("", testPasswordConfig()); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=16384,t=1,p=2$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=bad,t=1,p=2$c2FsdA$aGFzaA",
	} {
		if _, err := security.VerifyPassword("whatever", encoded); err == nil {
			t.Fatalf("expected error for malformed hash %q", encoded)
		}
	}
}
