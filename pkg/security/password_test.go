package security_test

import (
	"testing"

	"github.com/loyafu/storefront-backend/pkg/config"
	"github.com/loyafu/storefront-backend/pkg/security"
)

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    32768,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	cfg := testPasswordConfig()

	hash, err := security.HashPassword("very-secure-password1", cfg)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	ok, err := security.VerifyPassword("very-secure-password1", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}

	if security.NeedsRehash(hash, cfg) {
		t.Fatal("hash built with current params should not need rehash")
	}
	stronger := cfg
	stronger.ArgonTime = 2
	if !security.NeedsRehash(hash, stronger) {
		t.Fatal("expected rehash when time cost changes")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if _, err := security.VerifyPassword("irrelevant", "$argon2id$v=19$m=x,t=1,p=1$c2FsdA$aGFzaA"); err == nil {
		t.Fatal("expected error for malformed params")
	}
}

func TestValidateStrength(t *testing.T) {
	cases := map[string]bool{
		"short1":                 false,
		"onlyletterslong":        false,
		"1234567890":             false,
		"labial-rojo-2024":       true,
		"contraseñaSegura9":      true,
	}
	for password, valid := range cases {
		err := security.ValidateStrength(password)
		if valid && err != nil {
			t.Fatalf("expected %q to pass, got %v", password, err)
		}
		if !valid && err == nil {
			t.Fatalf("expected %q to fail", password)
		}
	}
}
