package credentials

import "testing"

func TestHashVerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if !VerifyPassword(hash, "correct horse battery") {
		t.Fatal("expected matching password to verify")
	}

	if VerifyPassword(hash, "wrong password") {
		t.Fatal("expected non-matching password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatal("expected distinct digests for the same password")
	}
}

func TestHashRejectsShortPassword(t *testing.T) {
	if _, err := HashPassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
}

func TestSentinelNeverVerifies(t *testing.T) {
	for _, password := range []string{"", "!", "google", "pw1", "any password at all"} {
		if VerifyPassword(SentinelCredential, password) {
			t.Fatalf("sentinel verified for %q", password)
		}
	}
}

func TestMalformedDigestNeverVerifies(t *testing.T) {
	for _, digest := range []string{"", "not-a-hash", "$2x$broken"} {
		if VerifyPassword(digest, "password1") {
			t.Fatalf("malformed digest %q verified", digest)
		}
	}
}
