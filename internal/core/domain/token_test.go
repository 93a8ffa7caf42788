package domain

import "testing"

func TestAccessTokenExpiry(t *testing.T) {
	// Unsigned JWT with exp 2000000000 (2033-05-18); the signature is not
	// checked, only parsed.
	token := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiIxIiwiZXhwIjoyMDAwMDAwMDAwfQ." +
		"invalid-signature"
	sess := &Session{ID: "s", AccessToken: token}

	exp, ok := AccessTokenExpiry(sess)
	if !ok {
		t.Fatalf("expected an expiry")
	}
	if exp.Unix() != 2000000000 {
		t.Fatalf("exp = %d, want 2000000000", exp.Unix())
	}

	if _, ok := AccessTokenExpiry(&Session{}); ok {
		t.Fatalf("no token, no expiry")
	}
	if _, ok := AccessTokenExpiry(&Session{AccessToken: "not-a-jwt"}); ok {
		t.Fatalf("malformed tokens have no expiry")
	}
}
