package config

import (
	"os"
	"strings"
	"testing"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		pepper     string
		wantCost   int
		wantErr    bool
	}{
		{name: "default cost", bcryptCost: "", wantCost: 12},
		{name: "valid cost", bcryptCost: "10", wantCost: 10},
		{name: "cost too low", bcryptCost: "9", wantErr: true},
		{name: "cost too high", bcryptCost: "15", wantErr: true},
		{name: "non-numeric cost", bcryptCost: "invalid", wantErr: true},
		{name: "with pepper", bcryptCost: "12", pepper: "test-pepper", wantCost: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.bcryptCost != "" {
				os.Setenv("BCRYPT_COST", tt.bcryptCost)
			} else {
				os.Unsetenv("BCRYPT_COST")
			}
			if tt.pepper != "" {
				os.Setenv("PASSWORD_PEPPER", tt.pepper)
			} else {
				os.Unsetenv("PASSWORD_PEPPER")
			}
			defer os.Unsetenv("BCRYPT_COST")
			defer os.Unsetenv("PASSWORD_PEPPER")

			cfg, err := NewPasswordConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got config %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.BcryptCost != tt.wantCost {
				t.Errorf("BcryptCost = %d, want %d", cfg.BcryptCost, tt.wantCost)
			}
			if cfg.Pepper != tt.pepper {
				t.Errorf("Pepper = %q, want %q", cfg.Pepper, tt.pepper)
			}
		})
	}
}

func TestPasswordConfig_HashAndVerify(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	hash, err := cfg.HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Errorf("hash does not look like bcrypt: %s", hash)
	}

	if !cfg.VerifyPassword("correct horse battery staple", hash) {
		t.Error("correct password rejected")
	}
	if cfg.VerifyPassword("wrong password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestPasswordConfig_PepperChangesVerification(t *testing.T) {
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "secret-pepper"}
	plain := &PasswordConfig{BcryptCost: 10}

	hash, err := peppered.HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !peppered.VerifyPassword("password123", hash) {
		t.Error("peppered config rejected its own hash")
	}
	if plain.VerifyPassword("password123", hash) {
		t.Error("hash verified without the pepper it was created with")
	}
}

func TestPasswordConfig_SaltUniqueness(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	h1, err := cfg.HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	h2, err := cfg.HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if h1 == h2 {
		t.Error("two hashes of the same password are identical; salt not applied")
	}
	if !cfg.VerifyPassword("same password", h1) || !cfg.VerifyPassword("same password", h2) {
		t.Error("both hashes should verify")
	}
}

func TestPasswordConfig_VerifyGarbageHash(t *testing.T) {
	cfg := &PasswordConfig{BcryptCost: 10}

	if cfg.VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Error("garbage hash should never verify")
	}
	if cfg.VerifyPassword("anything", "") {
		t.Error("empty hash should never verify")
	}
}
