package middleware

import (
	"testing"
	"time"
)

func TestNonceRoundTrip(t *testing.T) {
	secret := "unit-test-secret"

	nonce := IssueNonce(secret, "42")
	if len(nonce) != 20 {
		t.Fatalf("nonce length = %d", len(nonce))
	}
	if !VerifyNonce(secret, "42", nonce) {
		t.Error("freshly issued nonce must verify")
	}
}

func TestNonceRejectsWrongUser(t *testing.T) {
	secret := "unit-test-secret"

	nonce := IssueNonce(secret, "42")
	if VerifyNonce(secret, "43", nonce) {
		t.Error("nonce for one user must not verify for another")
	}
}

func TestNonceRejectsWrongSecret(t *testing.T) {
	nonce := IssueNonce("secret-a", "42")
	if VerifyNonce("secret-b", "42", nonce) {
		t.Error("nonce must be bound to the signing secret")
	}
}

func TestNonceRejectsGarbage(t *testing.T) {
	if VerifyNonce("unit-test-secret", "42", "") {
		t.Error("empty nonce must not verify")
	}
	if VerifyNonce("unit-test-secret", "42", "deadbeefdeadbeefdead") {
		t.Error("forged nonce must not verify")
	}
}

func TestNonceAcceptsPreviousTick(t *testing.T) {
	secret := "unit-test-secret"

	now := time.Now()
	previous := nonceAt(secret, "42", now.Add(-nonceTick))
	if !VerifyNonce(secret, "42", previous) {
		t.Error("nonce from the previous tick must still verify")
	}

	stale := nonceAt(secret, "42", now.Add(-2*nonceTick))
	if VerifyNonce(secret, "42", stale) {
		t.Error("nonce two ticks old must be rejected")
	}
}
