package password

import (
	"strings"
	"testing"
)

func TestBcryptRoundTrip(t *testing.T) {
	h := Bcrypt{Cost: 4} // minimum cost keeps the test fast

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash %q is not a bcrypt encoding", hash)
	}

	ok, err := h.Verify("secret", hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("correct password must verify")
	}

	ok, err = h.Verify("wrong", hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestBcryptMalformedHash(t *testing.T) {
	var h Bcrypt
	if _, err := h.Verify("secret", "not-a-bcrypt-hash"); err == nil {
		t.Fatal("expected malformed hash to error")
	}
}

func TestArgon2RoundTrip(t *testing.T) {
	h, err := NewArgon2(Argon2Config{
		Memory:      8 * 1024,
		Time:        1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   16,
	})
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	hash, err := h.Hash("secret")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("hash %q is not an argon2id encoding", hash)
	}

	ok, err := h.Verify("secret", hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if !ok {
		t.Fatal("correct password must verify")
	}

	ok, err = h.Verify("wrong", hash)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestArgon2ConfigValidation(t *testing.T) {
	base := DefaultArgon2Config()

	cases := []struct {
		name   string
		mutate func(*Argon2Config)
	}{
		{"low memory", func(c *Argon2Config) { c.Memory = 1024 }},
		{"zero time", func(c *Argon2Config) { c.Time = 0 }},
		{"zero parallelism", func(c *Argon2Config) { c.Parallelism = 0 }},
		{"short salt", func(c *Argon2Config) { c.SaltLength = 8 }},
		{"short key", func(c *Argon2Config) { c.KeyLength = 8 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			if _, err := NewArgon2(cfg); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestArgon2MalformedHash(t *testing.T) {
	h, err := NewArgon2(DefaultArgon2Config())
	if err != nil {
		t.Fatalf("NewArgon2 failed: %v", err)
	}

	for _, hash := range []string{
		"",
		"$argon2id$v=19$m=65536,t=3,p=2$salt", // missing key segment
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$a2V5a2V5a2V5a2V5a2V5a2U",
		"$argon2id$v=1$m=65536,t=3,p=2$c2FsdHNhbHRzYWx0c2FsdA$a2V5a2V5a2V5a2V5a2V5a2U",
	} {
		if _, err := h.Verify("secret", hash); err == nil {
			t.Fatalf("Verify(%q) expected error", hash)
		}
	}
}
